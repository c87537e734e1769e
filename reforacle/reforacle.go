// Package reforacle provides a deterministic, pure-Go
// ephemeris.Oracle implementation for tests and examples, standing in
// for a real engine binding (Swiss Ephemeris or similar) wherever one
// isn't available. It trades astronomical precision for being
// dependency-free: Sun, Moon, and lunar-node longitudes all come from
// low-precision mean-element series (Meeus-register formulas), not a
// real planetary theory.
package reforacle

import (
	"fmt"
	"math"

	"github.com/vedicgo/panchanga/ephemeris"
	"github.com/vedicgo/panchanga/timescale"
)

const j2000JD = 2451545.0

func norm360(x float64) float64 {
	m := math.Mod(x, 360.0)
	if m < 0 {
		m += 360.0
	}
	return m
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }
func rad2deg(r float64) float64 { return r * 180.0 / math.Pi }

// Oracle is a deterministic ephemeris.Oracle. The zero value via New
// is ready to use; SetEphePath/SetTopo only record state for callers
// that inspect it (e.g. tests asserting session wiring) and have no
// effect on the longitude math, which is always geocentric
// mean-element. SetSidMode's t0/ayanT0 anchor feeds GetAyanamsaExUT,
// and through it the sidereal longitudes CalcUT returns.
type Oracle struct {
	ephePath string
	sidModeID int32
	sidT0     float64
	sidAyanT0 float64

	topoLon, topoLat, topoAlt float64

	deltaT timescale.DeltaTOracle
}

// New returns a ready-to-use Oracle backed by timescale's polynomial
// ΔT table.
func New() *Oracle {
	return &Oracle{deltaT: timescale.PolynomialDeltaT{}}
}

func (o *Oracle) SetEphePath(path string) { o.ephePath = path }

func (o *Oracle) SetSidMode(modeID int32, t0, ayanT0 float64) {
	o.sidModeID, o.sidT0, o.sidAyanT0 = modeID, t0, ayanT0
}

func (o *Oracle) SetTopo(lon, lat, altM float64) {
	o.topoLon, o.topoLat, o.topoAlt = lon, lat, altM
}

// sunLongitude returns the Sun's true geocentric ecliptic
// longitude (degrees) using Meeus's low-precision solar series
// (Astronomical Algorithms ch. 25, "Low precision"): geometric mean
// longitude plus the equation of center.
func sunLongitude(jdTT float64) float64 {
	T := (jdTT - j2000JD) / 36525.0
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	Mr := deg2rad(M)
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mr) +
		(0.019993-0.000101*T)*math.Sin(2*Mr) +
		0.000289*math.Sin(3*Mr)
	return norm360(L0 + C)
}

// moonLongitude returns the Moon's geocentric ecliptic longitude
// (degrees) using Meeus's abbreviated lunar series (ch. 47's leading
// periodic terms only) — enough to give a realistic-looking monthly
// cycle without the full ELP2000 perturbation table.
func moonLongitude(jdTT float64) float64 {
	T := (jdTT - j2000JD) / 36525.0
	Lp := 218.3164477 + 481267.88123421*T
	D := 297.8501921 + 445267.1114034*T
	M := 357.5291092 + 35999.0502909*T
	Mp := 134.9633964 + 477198.8675055*T
	F := 93.2720950 + 483202.0175233*T

	Dr, Mr, Mpr, Fr := deg2rad(D), deg2rad(M), deg2rad(Mp), deg2rad(F)

	dl := 6.288774*math.Sin(Mpr) +
		1.274027*math.Sin(2*Dr-Mpr) +
		0.658314*math.Sin(2*Dr) +
		0.213618*math.Sin(2*Mpr) -
		0.185116*math.Sin(Mr) -
		0.114332*math.Sin(2*Fr) +
		0.058793*math.Sin(2*Dr-2*Mpr) +
		0.057066*math.Sin(2*Dr-Mr-Mpr) +
		0.053322*math.Sin(2*Dr+Mpr) +
		0.045758*math.Sin(2*Dr-Mr)

	return norm360(Lp + dl)
}

// longitudeSpeed differentiates a longitude function numerically
// (central difference) and unwraps the small step across the 0/360
// boundary so speed never shows a spurious ~360 deg/day jump.
func longitudeSpeed(lonFunc func(jdTT float64) float64, jdTT float64) (lon, speed float64) {
	const h = 1.0 / 1440.0 // 1 minute
	lon = lonFunc(jdTT)
	l1 := lonFunc(jdTT - h)
	l2 := lonFunc(jdTT + h)
	diff := math.Mod(l2-l1+180, 360) - 180
	speed = diff / (2 * h)
	return lon, speed
}

// meanNodeLongitude returns the mean ascending lunar node's ecliptic
// longitude (degrees) for a TDB Julian date, via the regression formula
// for the Moon's mean ascending node (Meeus, Astronomical Algorithms
// ch. 47). Only the ascending node is needed here: the descending node
// is always exactly 180° away and no caller asks for it separately.
func meanNodeLongitude(jdTT float64) float64 {
	T := (jdTT - j2000JD) / 36525.0
	omega := 125.04452 - 1934.136261*T + 0.0020708*T*T + T*T*T/450000.0
	return norm360(omega)
}

func nodeSpeed(jdTT float64) float64 {
	const h = 1.0
	n1 := meanNodeLongitude(jdTT - h)
	n2 := meanNodeLongitude(jdTT + h)
	diff := math.Mod(n2-n1+180, 360) - 180
	return diff / (2 * h)
}

// CalcUT implements ephemeris.Oracle. jdUT is treated as TT-equivalent
// for this reference oracle's precision level (the roughly one-minute
// UT/TT gap is far smaller than the series' own error budget).
func (o *Oracle) CalcUT(jdUT float64, bodyID int, flags int) (lon, speed float64, err error) {
	switch bodyID {
	case ephemeris.BodySun:
		lon, speed = longitudeSpeed(sunLongitude, jdUT)
	case ephemeris.BodyMoon:
		lon, speed = longitudeSpeed(moonLongitude, jdUT)
	case ephemeris.BodyTrueNode, ephemeris.BodyMeanNode:
		lon = meanNodeLongitude(jdUT)
		speed = nodeSpeed(jdUT)
	default:
		return 0, 0, fmt.Errorf("reforacle: unsupported body id %d", bodyID)
	}

	if flags&ephemeris.FlagSidereal != 0 {
		ay, _ := o.GetAyanamsaExUT(jdUT, 0)
		lon = norm360(lon - ay)
	}
	return lon, speed, nil
}

// lahiriAyanamsaAt2000 is the approximate Lahiri ayanamsa (degrees) at
// J2000.0; precessionArcsecPerYear is the ~50.24"/year precession
// rate used to extrapolate it linearly.
const (
	lahiriAyanamsaAt2000 = 23.85
	precessionArcsecPerYear = 50.2388475
)

// GetAyanamsaExUT implements ephemeris.Oracle with a linear
// precession model anchored at the Lahiri J2000 value. When SetSidMode
// has installed a nonzero t0 or ayanT0, that pair is the anchor
// instead, extrapolated at the same rate; the sid-mode id itself is
// not consulted.
func (o *Oracle) GetAyanamsaExUT(jdUT float64, flags int) (float64, error) {
	years := (jdUT - j2000JD) / 365.25
	if o.sidT0 != 0 || o.sidAyanT0 != 0 {
		yearsFromAnchor := (jdUT - o.sidT0) / 365.25
		return o.sidAyanT0 + yearsFromAnchor*precessionArcsecPerYear/3600.0, nil
	}
	return lahiriAyanamsaAt2000 + years*precessionArcsecPerYear/3600.0, nil
}

// HousesEx implements ephemeris.Oracle with an equal-house
// approximation anchored on a simplified local-sidereal-time
// ascendant: houses math beyond this is out of scope (peripheral, per
// the external-interfaces note), so every hsys byte produces the same
// equally-spaced cusps here.
func (o *Oracle) HousesEx(jdUT, lat, lon float64, hsys byte, flags int) (cusps [12]float64, ascmc [8]float64, err error) {
	T := (jdUT - j2000JD) / 36525.0
	gmst := norm360(280.46061837 + 360.98564736629*(jdUT-j2000JD) + 0.000387933*T*T)
	lst := norm360(gmst + lon)

	eps := deg2rad(23.4392911)
	lstR := deg2rad(lst)
	latR := deg2rad(lat)
	asc := rad2deg(math.Atan2(-math.Cos(lstR), math.Sin(lstR)*math.Cos(eps)+math.Tan(latR)*math.Sin(eps)))
	asc = norm360(asc)
	mc := norm360(rad2deg(math.Atan2(math.Sin(lstR), math.Cos(lstR)*math.Cos(eps))))

	for i := 0; i < 12; i++ {
		cusps[i] = norm360(asc + float64(i)*30.0)
	}
	ascmc[0] = asc
	ascmc[1] = mc
	return cusps, ascmc, nil
}

// RiseTrans implements ephemeris.Oracle with the standard
// hour-angle sunrise/sunset approximation, iterated three times
// against the body's own motion. BodySun uses the Sun's longitude;
// every other body id is treated as the Moon.
func (o *Oracle) RiseTrans(jdUT float64, bodyID int, ephFlags, rsmiFlags int, lon, lat, altM, pressure, temperature float64) (jd float64, status int, err error) {
	rising := rsmiFlags&ephemeris.RiseCalcRise != 0

	alt0 := -0.8333 // upper limb at the horizon, with standard refraction
	if rsmiFlags&ephemeris.RiseBitDiscCenter != 0 {
		alt0 = 0.0
	}
	if rsmiFlags&ephemeris.RiseBitNoRefraction != 0 {
		alt0 += 0.5667 // remove the ~34' standard refraction term folded into -0.8333
	}

	const siderealDegPerDay = 360.98564736629
	midnight := math.Floor(jdUT)
	T := (midnight - j2000JD) / 36525.0
	gmstMidnight := norm360(280.46061837 + siderealDegPerDay*(midnight-j2000JD) + 0.000387933*T*T)

	jdGuess := midnight
	for i := 0; i < 3; i++ {
		lonBody := sunLongitude(jdGuess)
		if bodyID != ephemeris.BodySun {
			lonBody = moonLongitude(jdGuess)
		}
		// Right ascension approximated by ecliptic longitude — close
		// enough for a deterministic reference oracle's precision budget.
		ra := lonBody
		eps := deg2rad(23.4392911)
		decl := math.Asin(math.Sin(deg2rad(lonBody)) * math.Sin(eps))

		latR := deg2rad(lat)
		cosH := (math.Sin(deg2rad(alt0)) - math.Sin(latR)*math.Sin(decl)) / (math.Cos(latR) * math.Cos(decl))
		if cosH > 1 || cosH < -1 {
			return 0, -2, nil // body never rises/sets at this latitude on this day
		}
		H := rad2deg(math.Acos(cosH))

		target := ra - H
		if !rising {
			target = ra + H
		}
		fracDay := norm360(target-lon-gmstMidnight) / siderealDegPerDay
		jdGuess = midnight + fracDay
	}

	return jdGuess, 0, nil
}

// Deltat implements ephemeris.Oracle by delegating to the package's
// polynomial ΔT table (seconds).
func (o *Oracle) Deltat(jdUT float64) (float64, error) {
	return o.deltaT.Deltat(jdUT)
}

var _ ephemeris.Oracle = (*Oracle)(nil)
