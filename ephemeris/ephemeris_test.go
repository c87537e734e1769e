package ephemeris

import (
	"testing"

	"github.com/vedicgo/panchanga/calibration"
)

// fakeOracle is a minimal, call-counting Oracle test double — it
// exists only to verify Provider's caching and flag composition, not
// to compute anything astronomically real.
type fakeOracle struct {
	calcUTCalls   int
	ayanCalls     int
	housesCalls   int
	riseCalls     int
	lastCalcFlags int
	lastBody      int

	lastRiseAltM    float64
	lastPressure    float64
	lastTemperature float64
}

func (f *fakeOracle) SetEphePath(path string)                               {}
func (f *fakeOracle) SetSidMode(modeID int32, t0, ayanT0 float64)            {}
func (f *fakeOracle) SetTopo(lon, lat, altM float64)                        {}

func (f *fakeOracle) CalcUT(jdUT float64, bodyID int, flags int) (float64, float64, error) {
	f.calcUTCalls++
	f.lastCalcFlags = flags
	f.lastBody = bodyID
	return 370.0, 13.2, nil // intentionally out of [0,360) to exercise norm360
}

func (f *fakeOracle) GetAyanamsaExUT(jdUT float64, flags int) (float64, error) {
	f.ayanCalls++
	return 24.0, nil
}

func (f *fakeOracle) HousesEx(jdUT, lat, lon float64, hsys byte, flags int) ([12]float64, [8]float64, error) {
	f.housesCalls++
	var cusps [12]float64
	var ascmc [8]float64
	for i := range cusps {
		cusps[i] = float64(i) * 30.0
	}
	return cusps, ascmc, nil
}

func (f *fakeOracle) RiseTrans(jdUT float64, bodyID int, ephFlags, rsmiFlags int, lon, lat, altM, pressure, temperature float64) (float64, int, error) {
	f.riseCalls++
	f.lastRiseAltM, f.lastPressure, f.lastTemperature = altM, pressure, temperature
	return jdUT + 0.25, 0, nil
}

func (f *fakeOracle) Deltat(jdUT float64) (float64, error) { return 69.0, nil }

func newTestProvider(cal calibration.Calibration) (*Provider, *fakeOracle) {
	o := &fakeOracle{}
	return NewProvider(o, cal, 77.2, 28.6, 0), o
}

func TestPlanetLonSpeed_NormalizesAndCaches(t *testing.T) {
	p, o := newTestProvider(calibration.Default())
	lon, speed, err := p.PlanetLonSpeed(2451545.0, BodySun)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lon != 10.0 { // 370 normalized to [0,360)
		t.Errorf("lon = %v, want 10.0", lon)
	}
	if speed != 13.2 {
		t.Errorf("speed = %v, want 13.2", speed)
	}

	if _, _, err := p.PlanetLonSpeed(2451545.0, BodySun); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	if o.calcUTCalls != 1 {
		t.Errorf("calcUTCalls = %d, want 1 (second call should hit cache)", o.calcUTCalls)
	}
}

func TestPlanetLonSpeed_NodeSelection(t *testing.T) {
	cal := calibration.Default()
	cal.Nodes = calibration.TrueNode
	p, o := newTestProvider(cal)
	if _, _, err := p.PlanetLonSpeed(2451545.0, BodyMeanNode); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.lastBody != BodyTrueNode {
		t.Errorf("lastBody = %d, want BodyTrueNode (%d) since Calibration.Nodes = TrueNode", o.lastBody, BodyTrueNode)
	}
}

func TestPlanetLonSpeed_FlagComposition(t *testing.T) {
	cal := calibration.Default()
	cal.Zodiac = calibration.Sidereal
	cal.UseTruePos = true
	p, o := newTestProvider(cal)
	if _, _, err := p.PlanetLonSpeed(2451545.0, BodySun); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.lastCalcFlags&FlagSidereal == 0 {
		t.Error("sidereal flag not set despite Zodiac = Sidereal")
	}
	if o.lastCalcFlags&FlagTruePos == 0 {
		t.Error("true-position flag not set despite UseTruePos = true")
	}
	if o.lastCalcFlags&FlagSpeed == 0 {
		t.Error("speed flag should always be set")
	}
}

func TestHouses_TropicalDerivedSubtractsAyanamsa(t *testing.T) {
	cal := calibration.Default()
	cal.Houses = calibration.TropicalDerived
	p, _ := newTestProvider(cal)
	cusps, _, err := p.Houses(2451545.0, calibration.HouseWholeSign)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// raw cusp[1] = 30.0, ayanamsa = 24.0 -> 6.0
	if cusps[1] != 6.0 {
		t.Errorf("cusps[1] = %v, want 6.0 (30 - ayanamsa 24)", cusps[1])
	}
}

func TestHouses_SiderealNativeSkipsAyanamsaSubtraction(t *testing.T) {
	cal := calibration.Default()
	cal.Houses = calibration.SiderealNative
	p, o := newTestProvider(cal)
	cusps, _, err := p.Houses(2451545.0, calibration.HouseWholeSign)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cusps[1] != 30.0 {
		t.Errorf("cusps[1] = %v, want raw 30.0 (sidereal-native, no ayanamsa subtraction)", cusps[1])
	}
	if o.ayanCalls != 0 {
		t.Errorf("ayanCalls = %d, want 0 for sidereal-native houses", o.ayanCalls)
	}
}

func TestRiseSet_DrikForcesAltitudeAndIgnoresAtmosphere(t *testing.T) {
	cal := calibration.Default()
	cal.Sunrise.Style = calibration.PyjhoraDrik
	o := &fakeOracle{}
	p := NewProvider(o, cal, 77.2, 28.6, 250)
	press := 950.0
	jd, _, err := p.RiseSet(2451545.0, BodySun, true, RiseSetOverride{PressureMbar: &press})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jd != 2451545.25 {
		t.Errorf("jd = %v, want 2451545.25", jd)
	}
	if o.lastRiseAltM != 0 || o.lastPressure != 0 || o.lastTemperature != 0 {
		t.Errorf("oracle got alt/pressure/temperature = %v/%v/%v, want 0/0/0 under drik policy",
			o.lastRiseAltM, o.lastPressure, o.lastTemperature)
	}
}

func TestRiseSet_DiscPolicyForwardsOverrides(t *testing.T) {
	cal := calibration.Default()
	cal.Sunrise.Style = calibration.DiscPolicy
	p, o := newTestProvider(cal)
	p2 := 950.0
	t2 := 22.0
	if _, _, err := p.RiseSet(2451545.0, BodySun, false, RiseSetOverride{PressureMbar: &p2, TemperatureC: &t2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.riseCalls != 1 {
		t.Errorf("riseCalls = %d, want 1", o.riseCalls)
	}
	if o.lastPressure != 950.0 || o.lastTemperature != 22.0 {
		t.Errorf("oracle got pressure/temperature = %v/%v, want 950/22 from overrides", o.lastPressure, o.lastTemperature)
	}
}

func TestRiseSet_CacheHitAvoidsSecondOracleCall(t *testing.T) {
	cal := calibration.Default()
	p, o := newTestProvider(cal)
	if _, _, err := p.RiseSet(2451545.0, BodySun, true, RiseSetOverride{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := p.RiseSet(2451545.0, BodySun, true, RiseSetOverride{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.riseCalls != 1 {
		t.Errorf("riseCalls = %d, want 1 (second call should hit cache)", o.riseCalls)
	}
}

func TestSidMode_UserDefinedIsDistinct(t *testing.T) {
	if SidMode(calibration.UserDefined) == SidMode(calibration.LahiriClassic) {
		t.Error("UserDefined sid-mode collides with LahiriClassic")
	}
}
