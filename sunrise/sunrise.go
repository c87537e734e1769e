// Package sunrise locates nakshatra boundaries relative to a local
// sunrise instant, the way printed Panchanga tables report
// "nakshatra ends at HH:MM" rather than as a Julian Day.
//
// Built fresh from the sunrise-anchored design (the source's own
// injection-based facade was left unfinished and duplicated across two
// variants); this package implements the documented sample-grid +
// inverse-Lagrange design directly, reusing angle's unwrap/extend
// primitives and lagrange's inverse interpolation rather than
// reproducing anything from a half-built facade.
package sunrise

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vedicgo/panchanga/angle"
	"github.com/vedicgo/panchanga/ephemeris"
	"github.com/vedicgo/panchanga/lagrange"
	"github.com/vedicgo/panchanga/panchanga"
)

// SampleOffsetsDays are the fixed offsets, in days past sunrise, at
// which the sidereal Moon longitude is sampled.
var SampleOffsetsDays = []float64{0, 0.25, 0.5, 0.75, 1.0}

// SunriseFunc resolves the sunrise instant (Julian Day, UT) for a
// given UT day. Injected so callers can back it with a real
// Provider.RiseSet call, a cached table, or a test double.
type SunriseFunc func(jdUTC float64) (float64, error)

// Result holds the current nakshatra boundary search outcome: the
// nakshatra/pada in effect at the sunrise instant, and the place-local
// clock hour (may exceed 24
// or be negative relative to the civil day) at which it and the
// following nakshatra end.
type Result struct {
	Current         panchanga.PadaInfo
	CurrentEndHours float64
	NextEndHours    float64
}

// NextNakshatraEnds implements the sunrise-anchored nakshatra boundary
// search: sample sidereal Moon longitude on a fixed grid past the
// place's sunrise, unwrap and extend that sample to cover a full
// cycle, then invert for the current and next nakshatra boundary via
// barycentric Lagrange interpolation.
func NextNakshatraEnds(provider *ephemeris.Provider, sunriseFn SunriseFunc, jd, tz float64) (Result, error) {
	jdUTC := jd - tz/24.0

	rise, err := sunriseFn(jdUTC)
	if err != nil {
		return Result{}, errors.Wrap(err, "sunrise: resolving sunrise instant")
	}

	lons := make([]float64, len(SampleOffsetsDays))
	for i, off := range SampleOffsetsDays {
		lon, _, err := provider.PlanetLonSpeed(rise+off, ephemeris.BodyMoon)
		if err != nil {
			return Result{}, errors.Wrapf(err, "sunrise: sampling moon longitude at offset %v", off)
		}
		lons[i] = lon
	}

	unwrapped := angle.UnwrapSequence(lons, 360.0)
	offsetsExt, anglesExt := extendPaired(SampleOffsetsDays, unwrapped, 360.0, 360.0)

	current := panchanga.NakshatraPadaFromLongitude(lons[0])
	nextNak := current.NakNo + 1
	if current.NakNo == 27 {
		nextNak = 1
	}

	start := minOf(anglesExt)
	y1 := angle.Normalize(float64(current.NakNo)*panchanga.OneStar, start, 360.0)
	y2 := angle.Normalize(float64(nextNak)*panchanga.OneStar, start, 360.0)

	// Julian Days start at noon, so UT midnight is half a day off the
	// integer boundary.
	jdUTMidnight := math.Floor(jdUTC+0.5) - 0.5

	approx1, err := lagrange.InverseLagrange(offsetsExt, anglesExt, y1, lagrange.Options{})
	if err != nil {
		return Result{}, errors.Wrap(err, "sunrise: solving current nakshatra end")
	}
	approx2, err := lagrange.InverseLagrange(offsetsExt, anglesExt, y2, lagrange.Options{})
	if err != nil {
		return Result{}, errors.Wrap(err, "sunrise: solving next nakshatra end")
	}

	return Result{
		Current:         current,
		CurrentEndHours: (rise-jdUTMidnight+approx1)*24.0 + tz,
		NextEndHours:    (rise-jdUTMidnight+approx2)*24.0 + tz,
	}, nil
}

// extendPaired extends angles exactly as angle.ExtendRange would
// (appending angles[i]+period*k for k=1,2,... until the covered span
// reaches span), while extending offsets in lockstep so offsetsExt[i]
// and anglesExt[i] remain a matched (x, y) sample pair for
// lagrange.InverseLagrange.
func extendPaired(offsets, angles []float64, span, period float64) (offsetsExt, anglesExt []float64) {
	offsetsExt = append([]float64(nil), offsets...)
	anglesExt = append([]float64(nil), angles...)
	k := 1.0
	for rangeOf(anglesExt) < span {
		for i := range angles {
			anglesExt = append(anglesExt, angles[i]+period*k)
			offsetsExt = append(offsetsExt, offsets[i])
		}
		k++
	}
	return offsetsExt, anglesExt
}

func rangeOf(xs []float64) float64 {
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return hi - lo
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs {
		if x < m {
			m = x
		}
	}
	return m
}
