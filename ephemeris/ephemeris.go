// Package ephemeris wraps an injected engine oracle (the pluggable
// collaborator spec'd in the external-interfaces section) together
// with the active calibration.Calibration and a geographic site,
// adding a session-scoped, single-owner cache in front of every call.
//
// The Oracle itself is never implemented here — this package only
// speaks to one through the interface below. reforacle supplies a
// deterministic, cgo-free Oracle for tests and examples; a real
// engine binding (Swiss Ephemeris or similar) can replace it without
// touching anything in this package.
package ephemeris

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vedicgo/panchanga/calibration"
)

// Body ids, passed straight through to the Oracle. The two node
// variants are owned by calibration.NodeMode's selection, not by the
// caller.
const (
	BodySun      = 0
	BodyMoon     = 1
	BodyTrueNode = 11
	BodyMeanNode = 10
)

// Flag bits, opaque to this package beyond their symbolic names, per
// the external-interfaces contract. Values are chosen to match the
// historical Swiss-Ephemeris bit assignments so a real binding's
// constants can be substituted without remapping call sites. The one
// exception is RiseBitHinduRising: here it is a single bit of its own,
// whereas Swiss Ephemeris defines it as a combination of the
// disc-center, no-refraction and no-ecliptic-latitude bits.
const (
	FlagSpeed    = 1 << 8
	FlagTruePos  = 1 << 4
	FlagSidereal = 1 << 16
	FlagTopoctr  = 1 << 15

	RiseCalcRise = 1 << 0
	RiseCalcSet  = 1 << 1

	RiseBitHinduRising = 1 << 10
	RiseBitDiscCenter  = 1 << 8
	RiseBitDiscBottom  = 1 << 13
	RiseBitNoRefraction = 1 << 9
)

// Oracle is the pluggable external engine collaborator. Every method
// here is a thin, symbolically-flagged pass-through to whatever real
// or synthetic ephemeris computation backs it.
type Oracle interface {
	SetEphePath(path string)
	SetSidMode(modeID int32, t0, ayanT0 float64)
	SetTopo(lon, lat, altM float64)
	CalcUT(jdUT float64, bodyID int, flags int) (lon, speedLon float64, err error)
	GetAyanamsaExUT(jdUT float64, flags int) (float64, error)
	HousesEx(jdUT, lat, lon float64, hsys byte, flags int) (cusps [12]float64, ascmc [8]float64, err error)
	RiseTrans(jdUT float64, bodyID int, ephFlags, rsmiFlags int, lon, lat, altM float64, pressure, temperature float64) (jd float64, status int, err error)
	Deltat(jdUT float64) (float64, error)
}

func norm360(x float64) float64 {
	m := math.Mod(x, 360.0)
	if m < 0 {
		m += 360.0
	}
	return m
}

// SidMode maps an ayanamsa mode to the engine's sid-mode integer. The
// actual numeric codes are an Oracle-owned namespace; these values
// only need to be stable within a process. session.Session uses this
// to call Oracle.SetSidMode when installing sidereal mode.
func SidMode(mode calibration.AyanamsaMode) int32 {
	switch mode {
	case calibration.TrueCitra:
		return 1
	case calibration.Krishnamurti:
		return 2
	case calibration.Raman:
		return 3
	case calibration.UserDefined:
		return 255
	default: // LahiriClassic
		return 0
	}
}

// cacheKey is a structurally-hashable, comparable cache entry key:
// (op tag, calibration signature, quantized inputs). Every field is a
// plain comparable scalar so cacheKey is usable as a map key without
// any hashing boilerplate.
type cacheKey struct {
	op     string
	sig    calibration.Signature
	jdQ    int64
	body   int
	flags  int
	lonQ   int64
	latQ   int64
	altQ   int64
	pressQ int64
	tempQ  int64
	hsys   byte
	rise   bool
}

func quantize(v, scale float64) int64 {
	return int64(math.Round(v * scale))
}

const (
	jdScale   = 1e9 // ~86 microseconds
	geoScale  = 1e6 // ~11 cm
	altScale  = 1e1
	atmScale  = 1e2
)

// Provider is the session-scoped, cached facade over an Oracle. Its
// cache is per-Provider, single-owner, unlocked — session.Session
// creates exactly one Provider per scope and never shares it across
// goroutines.
type Provider struct {
	oracle Oracle
	cal    calibration.Calibration
	sig    calibration.Signature
	lon    float64
	lat    float64
	altM   float64

	cache map[cacheKey]cachedValue
}

type cachedValue struct {
	f1, f2   float64
	i1       int
	cusps    [12]float64
	ascmc    [8]float64
	hasArray bool
}

// NewProvider builds a Provider bound to a single Oracle, Calibration,
// and geographic site. Session.Open is the usual caller.
func NewProvider(oracle Oracle, cal calibration.Calibration, lon, lat, altM float64) *Provider {
	return &Provider{
		oracle: oracle,
		cal:    cal,
		sig:    cal.Signature(),
		lon:    lon,
		lat:    lat,
		altM:   altM,
		cache:  make(map[cacheKey]cachedValue),
	}
}

// planetFlags composes the engine flags implied by the active
// Calibration for a plain planetary position query.
func (p *Provider) planetFlags() int {
	flags := FlagSpeed
	if p.cal.UseTruePos {
		flags |= FlagTruePos
	}
	if p.cal.Zodiac == calibration.Sidereal {
		flags |= FlagSidereal
	}
	if p.cal.Perspective == calibration.Topocentric && p.cal.Topo.Enabled {
		flags |= FlagTopoctr
	}
	return flags
}

// mapNode resolves TRUE_NODE/MEAN_NODE queries to the Calibration's
// active node variant; any other body id passes through unchanged.
func (p *Provider) mapNode(bodyID int) int {
	if bodyID == BodyTrueNode || bodyID == BodyMeanNode {
		if p.cal.Nodes == calibration.TrueNode {
			return BodyTrueNode
		}
		return BodyMeanNode
	}
	return bodyID
}

// PlanetLonSpeed returns a body's ecliptic longitude (normalized to
// [0,360)) and speed in degrees/day, applying the Calibration's node
// selection and engine flags, cached on
// ("calc_ut", signature, q(jd), body, flags).
func (p *Provider) PlanetLonSpeed(jdUT float64, bodyID int) (lon, speed float64, err error) {
	body := p.mapNode(bodyID)
	flags := p.planetFlags()

	key := cacheKey{op: "calc_ut", sig: p.sig, jdQ: quantize(jdUT, jdScale), body: body, flags: flags}
	if v, ok := p.cache[key]; ok {
		return v.f1, v.f2, nil
	}

	lon, speed, err = p.oracle.CalcUT(jdUT, body, flags)
	if err != nil {
		return 0, 0, errors.Wrap(err, "ephemeris: calc_ut failed")
	}
	lon = norm360(lon)
	p.cache[key] = cachedValue{f1: lon, f2: speed}
	return lon, speed, nil
}

// Ayanamsa returns the tropical-sidereal offset at jdUT, cached on
// ("ayan", signature, q(jd)).
func (p *Provider) Ayanamsa(jdUT float64) (float64, error) {
	key := cacheKey{op: "ayan", sig: p.sig, jdQ: quantize(jdUT, jdScale)}
	if v, ok := p.cache[key]; ok {
		return v.f1, nil
	}
	ay, err := p.oracle.GetAyanamsaExUT(jdUT, 0)
	if err != nil {
		return 0, errors.Wrap(err, "ephemeris: get_ayanamsa_ex_ut failed")
	}
	p.cache[key] = cachedValue{f1: ay}
	return ay, nil
}

// Houses returns house cusps and angles for hsys, at jdUT, in the
// house mode selected by the Calibration. TropicalDerived computes
// tropical cusps and subtracts the ayanamsa from every angle;
// SiderealNative asks the engine directly with the sidereal flag set.
func (p *Provider) Houses(jdUT float64, hsys calibration.HouseSystem) (cusps [12]float64, ascmc [8]float64, err error) {
	if p.cal.Houses == calibration.SiderealNative {
		flags := FlagSidereal
		key := cacheKey{op: "houses_sid", sig: p.sig, jdQ: quantize(jdUT, jdScale),
			lonQ: quantize(p.lon, geoScale), latQ: quantize(p.lat, geoScale), hsys: byte(hsys), flags: flags}
		if v, ok := p.cache[key]; ok {
			return v.cusps, v.ascmc, nil
		}
		cusps, ascmc, err = p.oracle.HousesEx(jdUT, p.lat, p.lon, byte(hsys), flags)
		if err != nil {
			return cusps, ascmc, errors.Wrap(err, "ephemeris: houses_ex (sidereal) failed")
		}
		p.cache[key] = cachedValue{cusps: cusps, ascmc: ascmc, hasArray: true}
		return cusps, ascmc, nil
	}

	key := cacheKey{op: "houses_trop", sig: p.sig, jdQ: quantize(jdUT, jdScale),
		lonQ: quantize(p.lon, geoScale), latQ: quantize(p.lat, geoScale), hsys: byte(hsys)}
	var rawCusps [12]float64
	var rawAscmc [8]float64
	if v, ok := p.cache[key]; ok {
		rawCusps, rawAscmc = v.cusps, v.ascmc
	} else {
		rawCusps, rawAscmc, err = p.oracle.HousesEx(jdUT, p.lat, p.lon, byte(hsys), 0)
		if err != nil {
			return cusps, ascmc, errors.Wrap(err, "ephemeris: houses_ex (tropical) failed")
		}
		p.cache[key] = cachedValue{cusps: rawCusps, ascmc: rawAscmc, hasArray: true}
	}

	ay, err := p.Ayanamsa(jdUT)
	if err != nil {
		return cusps, ascmc, err
	}
	for i, c := range rawCusps {
		cusps[i] = norm360(c - ay)
	}
	for i, a := range rawAscmc {
		ascmc[i] = norm360(a - ay)
	}
	return cusps, ascmc, nil
}

// RiseSetOverride carries optional atmospheric overrides for
// DiscPolicy rise/set queries; nil fields fall back to the
// Calibration's sunrise atmosphere defaults.
type RiseSetOverride struct {
	PressureMbar *float64
	TemperatureC *float64
}

// RiseSet computes the next rise (rise=true) or set (rise=false)
// transit of bodyID at/after jdUT, following the Calibration's
// sunrise policy. PyjhoraDrik forces altitude to 0 and ignores
// atmospheric inputs; DiscPolicy maps disc/refraction/atmosphere into
// the rsmi flags and forwards pressure/temperature.
func (p *Provider) RiseSet(jdUT float64, bodyID int, rise bool, override RiseSetOverride) (jd float64, status int, err error) {
	rsmi := RiseCalcSet
	if rise {
		rsmi = RiseCalcRise
	}

	if p.cal.Sunrise.Style == calibration.PyjhoraDrik {
		rsmi |= RiseBitHinduRising
		ephFlags := FlagTruePos | FlagSpeed

		key := cacheKey{op: "rise_set_drik", sig: p.sig, jdQ: quantize(jdUT, jdScale), body: bodyID,
			rise: rise, flags: ephFlags<<16 | rsmi, lonQ: quantize(p.lon, geoScale), latQ: quantize(p.lat, geoScale)}
		if v, ok := p.cache[key]; ok {
			return v.f1, v.i1, nil
		}

		jd, status, err = p.oracle.RiseTrans(jdUT, bodyID, ephFlags, rsmi, p.lon, p.lat, 0, 0, 0)
		if err != nil {
			return 0, 0, errors.Wrap(err, "ephemeris: rise_trans (drik) failed")
		}
		p.cache[key] = cachedValue{f1: jd, i1: status}
		return jd, status, nil
	}

	switch p.cal.Sunrise.Disc {
	case calibration.DiscCenter:
		rsmi |= RiseBitDiscCenter
	default: // DiscEdge
		rsmi |= RiseBitDiscBottom
	}
	if !p.cal.Sunrise.UseRefraction {
		rsmi |= RiseBitNoRefraction
	}

	pressure := p.cal.Sunrise.PressureMbar
	if override.PressureMbar != nil {
		pressure = *override.PressureMbar
	}
	temperature := p.cal.Sunrise.TemperatureC
	if override.TemperatureC != nil {
		temperature = *override.TemperatureC
	}

	key := cacheKey{op: "rise_set_disc", sig: p.sig, jdQ: quantize(jdUT, jdScale), body: bodyID,
		rise: rise, flags: rsmi, lonQ: quantize(p.lon, geoScale), latQ: quantize(p.lat, geoScale),
		altQ: quantize(p.altM, altScale), pressQ: quantize(pressure, atmScale), tempQ: quantize(temperature, atmScale)}
	if v, ok := p.cache[key]; ok {
		return v.f1, v.i1, nil
	}

	jd, status, err = p.oracle.RiseTrans(jdUT, bodyID, 0, rsmi, p.lon, p.lat, p.altM, pressure, temperature)
	if err != nil {
		return 0, 0, errors.Wrap(err, "ephemeris: rise_trans (disc) failed")
	}
	p.cache[key] = cachedValue{f1: jd, i1: status}
	return jd, status, nil
}

// Deltat exposes the oracle's raw Delta-T for callers (timescale's
// oracle-backed UT<->TT conversion) that need it uncached — Delta-T
// varies by microseconds across a session's lifetime and isn't worth
// the cache-key overhead.
func (p *Provider) Deltat(jdUT float64) (float64, error) {
	dt, err := p.oracle.Deltat(jdUT)
	if err != nil {
		return 0, errors.Wrap(err, "ephemeris: deltat failed")
	}
	return dt, nil
}
