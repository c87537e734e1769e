// Package finder locates the next tithi/nakshatra/yoga boundary
// crossing after a given start time, by composing panchanga's
// continuous functions with an ephemeris.Provider and driving
// solve.Solve over the residual.
//
// Translated near line-for-line from finder.py
// (original_source/.../vedic/panchanga/finder.py): same per-quantity
// target/period setup, same cycle-unwrap rule, same SolveResult
// pass-through.
package finder

import (
	"math"

	"github.com/vedicgo/panchanga/ephemeris"
	"github.com/vedicgo/panchanga/panchanga"
	"github.com/vedicgo/panchanga/solve"
)

// Params configures a single find call. The zero value selects the
// per-quantity defaults documented on each Next* function.
type Params struct {
	AccuracySeconds float64
	ScanStepDays    float64
	MaxDaysAhead    float64
}

func (p Params) resolved(defaultMaxDaysAhead float64) Params {
	if p.AccuracySeconds <= 0 {
		p.AccuracySeconds = solve.DefaultAccuracySeconds
	}
	if p.ScanStepDays <= 0 {
		p.ScanStepDays = solve.DefaultScanStepDays
	}
	if p.MaxDaysAhead <= 0 {
		p.MaxDaysAhead = defaultMaxDaysAhead
	}
	return p
}

// unwrapCycle applies the documented cycle-unwrap heuristic: once the
// sought target has wrapped past the cycle boundary (target >=
// period), a probed value still in the early half of the next cycle is
// treated as having already wrapped, keeping the residual continuous.
func unwrapCycle(val, target, period float64) float64 {
	if target >= period && val < period/2.0 {
		return val + period
	}
	return val
}

func solveParams(p Params) solve.Params {
	return solve.Params{AccuracySeconds: p.AccuracySeconds, ScanStepDays: p.ScanStepDays}
}

// NextTithiEnd finds the end of the current tithi after startJD.
// Defaults: accuracy_seconds=0.1, scan_step_days=1/12 day,
// max_days_ahead=1.5.
func NextTithiEnd(provider *ephemeris.Provider, startJD float64, params Params) (solve.Result, error) {
	p := params.resolved(1.5)

	s0, ss0, err := provider.PlanetLonSpeed(startJD, ephemeris.BodySun)
	if err != nil {
		return solve.Result{}, err
	}
	m0, ms0, err := provider.PlanetLonSpeed(startJD, ephemeris.BodyMoon)
	if err != nil {
		return solve.Result{}, err
	}

	curr, _ := panchanga.Tithi(m0, ms0, s0, ss0)
	target := math.Floor(curr) + 1.0
	const period = 30.0

	var evalErr error
	f := func(jd float64) (float64, float64) {
		s, ss, err := provider.PlanetLonSpeed(jd, ephemeris.BodySun)
		if err != nil {
			evalErr = err
			return 0, 0
		}
		m, ms, err := provider.PlanetLonSpeed(jd, ephemeris.BodyMoon)
		if err != nil {
			evalErr = err
			return 0, 0
		}
		val, speed := panchanga.Tithi(m, ms, s, ss)
		val = unwrapCycle(val, target, period)
		return val - target, speed
	}

	res, err := solve.Solve(f, startJD, startJD+p.MaxDaysAhead, solveParams(p))
	if evalErr != nil {
		return solve.Result{}, evalErr
	}
	return res, err
}

// NextNakshatraEnd finds the end of the current nakshatra after
// startJD. Defaults: accuracy_seconds=0.1, scan_step_days=1/12 day,
// max_days_ahead=1.3.
func NextNakshatraEnd(provider *ephemeris.Provider, startJD float64, params Params) (solve.Result, error) {
	p := params.resolved(1.3)

	m0, ms0, err := provider.PlanetLonSpeed(startJD, ephemeris.BodyMoon)
	if err != nil {
		return solve.Result{}, err
	}
	curr, _ := panchanga.Nakshatra(m0, ms0)
	target := math.Floor(curr) + 1.0
	const period = 27.0

	var evalErr error
	f := func(jd float64) (float64, float64) {
		m, ms, err := provider.PlanetLonSpeed(jd, ephemeris.BodyMoon)
		if err != nil {
			evalErr = err
			return 0, 0
		}
		val, speed := panchanga.Nakshatra(m, ms)
		val = unwrapCycle(val, target, period)
		return val - target, speed
	}

	res, err := solve.Solve(f, startJD, startJD+p.MaxDaysAhead, solveParams(p))
	if evalErr != nil {
		return solve.Result{}, evalErr
	}
	return res, err
}

// NextYogaEnd finds the end of the current yoga after startJD.
// Defaults: accuracy_seconds=0.1, scan_step_days=1/12 day,
// max_days_ahead=1.3.
func NextYogaEnd(provider *ephemeris.Provider, startJD float64, params Params) (solve.Result, error) {
	p := params.resolved(1.3)

	s0, ss0, err := provider.PlanetLonSpeed(startJD, ephemeris.BodySun)
	if err != nil {
		return solve.Result{}, err
	}
	m0, ms0, err := provider.PlanetLonSpeed(startJD, ephemeris.BodyMoon)
	if err != nil {
		return solve.Result{}, err
	}

	curr, _ := panchanga.Yoga(m0, ms0, s0, ss0)
	target := math.Floor(curr) + 1.0
	const period = 27.0

	var evalErr error
	f := func(jd float64) (float64, float64) {
		s, ss, err := provider.PlanetLonSpeed(jd, ephemeris.BodySun)
		if err != nil {
			evalErr = err
			return 0, 0
		}
		m, ms, err := provider.PlanetLonSpeed(jd, ephemeris.BodyMoon)
		if err != nil {
			evalErr = err
			return 0, 0
		}
		val, speed := panchanga.Yoga(m, ms, s, ss)
		val = unwrapCycle(val, target, period)
		return val - target, speed
	}

	res, err := solve.Solve(f, startJD, startJD+p.MaxDaysAhead, solveParams(p))
	if evalErr != nil {
		return solve.Result{}, evalErr
	}
	return res, err
}
