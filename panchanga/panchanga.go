// Package panchanga holds the pure, stateless continuous functions
// that define tithi, nakshatra, and yoga from a pair of Sun/Moon
// longitude+speed samples, plus the nakshatra/pada decomposition of a
// single longitude. Nothing here touches an ephemeris — every
// function is Sun/Moon numbers in, index+speed out.
//
// Grounded on temporal.py (original_source/.../vedic/panchanga), kept
// as a near line-for-line translation since the arithmetic itself is
// the specification.
package panchanga

import (
	"github.com/vedicgo/panchanga/angle"
	"github.com/vedicgo/panchanga/units"
)

// OneStar is the angular width of one nakshatra: 360/27 degrees.
const OneStar = 360.0 / 27.0

// OnePada is the angular width of one pada: 360/108 degrees.
const OnePada = 360.0 / 108.0

// Tithi returns the continuous tithi index in [0,30) and its speed in
// tithis/day. One tithi spans 12 degrees of (Moon - Sun) elongation.
func Tithi(moonLon, moonSpd, sunLon, sunSpd float64) (index, speed float64) {
	dist := angle.Normalize360(moonLon - sunLon)
	relSpeed := moonSpd - sunSpd
	return dist / 12.0, relSpeed / 12.0
}

// Nakshatra returns the continuous nakshatra index in [0,27) and its
// speed in nakshatras/day, from the Moon's longitude alone.
func Nakshatra(moonLon, moonSpd float64) (index, speed float64) {
	const scale = 27.0 / 360.0
	return angle.Normalize360(moonLon) * scale, moonSpd * scale
}

// Yoga returns the continuous yoga index in [0,27) and its speed in
// yogas/day, from (Moon + Sun) longitude.
func Yoga(moonLon, moonSpd, sunLon, sunSpd float64) (index, speed float64) {
	const scale = 27.0 / 360.0
	s := angle.Normalize360(moonLon + sunLon)
	spd := moonSpd + sunSpd
	return s * scale, spd * scale
}

// PadaInfo is the nakshatra/pada decomposition of a single ecliptic
// longitude.
type PadaInfo struct {
	NakNo        int     // 1..27
	PadaNo       int     // 1..4
	RemainderDeg float64 // offset within the pada, in [0, OnePada)
}

// RemainderAngle presents RemainderDeg as a units.Angle for display.
func (p PadaInfo) RemainderAngle() units.Angle {
	return units.AngleFromDegrees(p.RemainderDeg)
}

// NakshatraPadaFromLongitude decomposes an ecliptic longitude into its
// 1-indexed nakshatra number, 1-indexed pada within that nakshatra,
// and the remaining offset within the pada.
func NakshatraPadaFromLongitude(lon float64) PadaInfo {
	lon = angle.Normalize360(lon)
	nakIdx := int(lon / OneStar) // 0..26
	if nakIdx > 26 {
		nakIdx = 26 // guards against floating-point roundoff pushing lon to 360-epsilon
	}
	withinStar := lon - float64(nakIdx)*OneStar
	padaIdx := int(withinStar / OnePada) // 0..3
	if padaIdx > 3 {
		padaIdx = 3
	}
	remainder := withinStar - float64(padaIdx)*OnePada
	return PadaInfo{
		NakNo:        nakIdx + 1,
		PadaNo:       padaIdx + 1,
		RemainderDeg: remainder,
	}
}
