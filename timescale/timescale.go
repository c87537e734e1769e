// Package timescale provides the monotone UT ↔ TT map (spec §4.D) plus
// a self-contained, table-driven ΔT estimator used where no live
// ephemeris engine is available (reforacle, and offline diagnostics).
//
// The spec-mandated path is oracle-backed: UTToTT/TTToUT take a
// DeltaTOracle (normally ephemeris.Oracle.Deltat) and never consult
// the built-in table. PolynomialDeltaT exists so that path always has
// something real to call when the caller hasn't wired a live engine.
package timescale

import (
	"math"
	"time"
)

// SecPerDay is the number of SI seconds in a Julian day.
const SecPerDay = 86400.0

// j2000JD is the Julian Day of the J2000.0 epoch.
const j2000JD = 2451545.0

// --------------------------------------------------------------------
// Oracle-backed UT <-> TT (spec §4.D)
// --------------------------------------------------------------------

// DeltaTOracle supplies ΔT (TT-UT) for a UT Julian Day. It matches
// ephemeris.Oracle's Deltat method so either a real engine or
// PolynomialDeltaT can serve as the source of truth.
type DeltaTOracle interface {
	Deltat(jdUT float64) (float64, error)
}

// DeltaTOracleFunc adapts a plain function to DeltaTOracle.
type DeltaTOracleFunc func(jdUT float64) (float64, error)

// Deltat implements DeltaTOracle.
func (f DeltaTOracleFunc) Deltat(jdUT float64) (float64, error) { return f(jdUT) }

// DeltaTDays queries the oracle and returns ΔT in days. The oracle may
// report in seconds or days; a magnitude above 0.5 is taken as seconds
// (no real ΔT exceeds half a day) and divided down, per spec §4.D.
func DeltaTDays(o DeltaTOracle, jdUT float64) (float64, error) {
	dt, err := o.Deltat(jdUT)
	if err != nil {
		return 0, err
	}
	if math.Abs(dt) > 0.5 {
		return dt / SecPerDay, nil
	}
	return dt, nil
}

// UTToTT converts a UT Julian Day to TT: jd + deltaT(jd).
func UTToTT(o DeltaTOracle, jdUT float64) (float64, error) {
	dt, err := DeltaTDays(o, jdUT)
	if err != nil {
		return 0, err
	}
	return jdUT + dt, nil
}

// TTToUT converts a TT Julian Day back to UT via 4 passes of
// fixed-point iteration: u <- jdTT - deltaT(u), starting from u = jdTT.
// Grounded on the fixed-point refinement shape in
// soniakeys-meeus/iterate (BetterFunc), specialized to a fixed
// iteration count rather than a convergence threshold, since ΔT's
// day-to-day variation is far smaller than any plausible tolerance.
func TTToUT(o DeltaTOracle, jdTT float64) (float64, error) {
	u := jdTT
	for i := 0; i < 4; i++ {
		dt, err := DeltaTDays(o, u)
		if err != nil {
			return 0, err
		}
		u = jdTT - dt
	}
	return u, nil
}

// --------------------------------------------------------------------
// Self-contained ΔT table (no oracle required)
// --------------------------------------------------------------------

type deltaTEntry struct {
	year float64
	dt   float64 // seconds
}

// deltaTTable holds decade-to-half-century ΔT estimates (seconds),
// anchored at real historical values for 1800 and 2000 and extended
// with the long-term quadratic trend commonly used for future epochs
// beyond the measured record.
var deltaTTable = []deltaTEntry{
	{1800, 18.3670},
	{1820, 12.0},
	{1840, 7.5},
	{1860, 2.0},
	{1880, -4.0},
	{1900, -2.8},
	{1920, 21.0},
	{1940, 24.3},
	{1950, 29.0},
	{1960, 33.1},
	{1970, 40.2},
	{1980, 50.5},
	{1990, 57.0},
	{2000, 63.829},
	{2010, 66.1},
	{2020, 69.4},
	{2050, 93.0},
	{2100, 202.0},
	{2150, 320.0},
	{2200, 440.0},
}

// DeltaT estimates ΔT (TT-UT) in seconds for a decimal year, by linear
// interpolation within deltaTTable. Years before the first entry or
// after the last are clamped to that entry's value.
func DeltaT(year float64) float64 {
	n := len(deltaTTable)
	if year <= deltaTTable[0].year {
		return deltaTTable[0].dt
	}
	if year >= deltaTTable[n-1].year {
		return deltaTTable[n-1].dt
	}

	idx := 0
	for idx < n-1 && deltaTTable[idx+1].year < year {
		idx++
	}
	if idx >= n-1 {
		idx = n - 2
	}
	lo, hi := deltaTTable[idx], deltaTTable[idx+1]
	frac := (year - lo.year) / (hi.year - lo.year)
	return lo.dt + frac*(hi.dt-lo.dt)
}

// LeapSecondOffset returns the cumulative TAI-UTC leap second offset
// in effect at the given UTC Julian Day. Dates before the first
// introduction of leap seconds (1972-01-01) return that initial
// offset (10s); dates after the last known introduction return the
// latest known offset.
func LeapSecondOffset(jdUTC float64) float64 {
	n := len(leapSecondTable)
	if jdUTC < leapSecondTable[0].jd {
		return leapSecondTable[0].offset
	}
	for i := n - 1; i >= 0; i-- {
		if jdUTC >= leapSecondTable[i].jd {
			return leapSecondTable[i].offset
		}
	}
	return leapSecondTable[0].offset
}

type leapSecondEntry struct {
	jd     float64
	offset float64
}

var leapSecondTable = buildLeapSecondTable()

// buildLeapSecondTable computes each historical leap second
// introduction date's Julian Day from its UTC calendar date, so the
// table is legible as dates rather than opaque JD literals.
func buildLeapSecondTable() []leapSecondEntry {
	type entry struct {
		y, m, d int
		offset  float64
	}
	raw := []entry{
		{1972, 1, 1, 10}, {1972, 7, 1, 11}, {1973, 1, 1, 12}, {1974, 1, 1, 13},
		{1975, 1, 1, 14}, {1976, 1, 1, 15}, {1977, 1, 1, 16}, {1978, 1, 1, 17},
		{1979, 1, 1, 18}, {1980, 1, 1, 19}, {1981, 7, 1, 20}, {1982, 7, 1, 21},
		{1983, 7, 1, 22}, {1985, 7, 1, 23}, {1988, 1, 1, 24}, {1990, 1, 1, 25},
		{1991, 1, 1, 26}, {1992, 7, 1, 27}, {1993, 7, 1, 28}, {1994, 7, 1, 29},
		{1996, 1, 1, 30}, {1997, 7, 1, 31}, {1999, 1, 1, 32}, {2006, 1, 1, 33},
		{2009, 1, 1, 34}, {2012, 7, 1, 35}, {2015, 7, 1, 36}, {2017, 1, 1, 37},
	}
	table := make([]leapSecondEntry, len(raw))
	for i, e := range raw {
		jd := TimeToJDUTC(time.Date(e.y, time.Month(e.m), e.d, 0, 0, 0, 0, time.UTC))
		table[i] = leapSecondEntry{jd: jd, offset: e.offset}
	}
	return table
}

// TimeToJDUTC converts a time.Time (interpreted at its instant, not
// its wall-clock fields) to a UTC Julian Day.
func TimeToJDUTC(t time.Time) float64 {
	t = t.UTC()
	unixSeconds := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return 2440587.5 + unixSeconds/SecPerDay
}

// ttTAIOffsetSeconds is the fixed TT-TAI offset (TT runs 32.184s ahead
// of TAI by definition).
const ttTAIOffsetSeconds = 32.184

// UTCToTT converts a UTC Julian Day directly to TT using the leap
// second table plus the fixed TT-TAI offset: TT = UTC + (TAI-UTC +
// 32.184s). This is the closed-form counterpart to the oracle-backed
// UTToTT above; it needs no ΔT estimate because leap seconds plus the
// TT-TAI constant fully determine UTC->TT.
func UTCToTT(jdUTC float64) float64 {
	offsetSeconds := LeapSecondOffset(jdUTC) + ttTAIOffsetSeconds
	return jdUTC + offsetSeconds/SecPerDay
}

// TTToUT1 estimates UT1 from TT using the ΔT table directly (no
// iteration: the year is derived from jdTT itself, which is accurate
// enough for the slowly-varying ΔT curve).
func TTToUT1(jdTT float64) float64 {
	year := 2000.0 + (jdTT-j2000JD)/365.25
	dt := DeltaT(year)
	return jdTT - dt/SecPerDay
}

// TDBMinusTT returns TDB-TT in seconds, using the standard
// Fairhead/Bretagnon first-order approximation (amplitude under 2ms).
func TDBMinusTT(jdTT float64) float64 {
	g := (357.53 + 0.9856003*(jdTT-j2000JD)) * math.Pi / 180.0
	return 0.001658*math.Sin(g) + 0.000014*math.Sin(2*g)
}

// PolynomialDeltaT adapts DeltaT (the self-contained table) to the
// DeltaTOracle interface, returning seconds, so it can stand in for a
// live engine's Deltat method wherever one isn't available.
type PolynomialDeltaT struct{}

// Deltat implements DeltaTOracle.
func (PolynomialDeltaT) Deltat(jdUT float64) (float64, error) {
	year := 2000.0 + (jdUT-j2000JD)/365.25
	return DeltaT(year), nil
}
