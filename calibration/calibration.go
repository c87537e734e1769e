// Package calibration defines the immutable policy record that
// governs every ephemeris query: zodiac frame, ayanamsa, perspective,
// node variant, house system, sunrise policy, topocentric site, and a
// handful of precision flags. A Calibration is constructed once and
// shared freely — ephemeris.Provider keys its cache off its Signature
// rather than the struct itself.
package calibration

// ZodiacType selects the tropical or sidereal reference frame.
type ZodiacType int

const (
	Tropical ZodiacType = iota
	Sidereal
)

// PerspectiveType selects the observing point.
type PerspectiveType int

const (
	TrueGeocentric PerspectiveType = iota
	Heliocentric
	Topocentric
)

// AyanamsaMode selects the sidereal-zero-point model. UserDefined is
// the only mode that consults T0/AyanT0.
type AyanamsaMode int

const (
	LahiriClassic AyanamsaMode = iota
	TrueCitra
	Krishnamurti
	Raman
	UserDefined
)

// AyanamsaConfig is the ayanamsa sub-record. T0 and AyanT0 are used
// iff Mode == UserDefined.
type AyanamsaConfig struct {
	Mode   AyanamsaMode
	T0     float64
	AyanT0 float64
}

// DefaultAyanamsaConfig returns the Lahiri-classic default.
func DefaultAyanamsaConfig() AyanamsaConfig {
	return AyanamsaConfig{Mode: LahiriClassic}
}

// NodeMode selects which lunar-node variant planet_lon_speed serves
// for TRUE_NODE/MEAN_NODE queries.
type NodeMode int

const (
	MeanNode NodeMode = iota
	TrueNode
)

// HouseMode selects how Provider.Houses computes cusps.
type HouseMode int

const (
	TropicalDerived HouseMode = iota
	SiderealNative
)

// HouseSystem is a single-byte house-system tag, passed to the engine
// oracle verbatim.
type HouseSystem byte

const (
	HousePlacidus      HouseSystem = 'P'
	HouseWholeSign     HouseSystem = 'W'
	HouseEqual         HouseSystem = 'E'
	HousePorphyry      HouseSystem = 'O'
	HouseKoch          HouseSystem = 'K'
	HouseCampanus      HouseSystem = 'C'
	HouseRegiomontanus HouseSystem = 'R'
	HouseAlcabitius    HouseSystem = 'A'
)

// SunriseStyle selects the rise/set query policy.
type SunriseStyle int

const (
	PyjhoraDrik SunriseStyle = iota
	DiscPolicy
)

// DiscMode selects which edge of the solar/lunar disc DiscPolicy
// targets.
type DiscMode int

const (
	DiscCenter DiscMode = iota
	DiscEdge
)

// SunriseConfig is the rise/set sub-record.
type SunriseConfig struct {
	Style         SunriseStyle
	Disc          DiscMode
	UseRefraction bool
	PressureMbar  float64
	TemperatureC  float64
}

// DefaultSunriseConfig returns the documented defaults: Hindu-rising
// drik policy, standard atmosphere.
func DefaultSunriseConfig() SunriseConfig {
	return SunriseConfig{
		Style:         PyjhoraDrik,
		Disc:          DiscCenter,
		UseRefraction: true,
		PressureMbar:  1013.25,
		TemperatureC:  15.0,
	}
}

// TopoConfig is the topocentric-site sub-record. Longitude/latitude
// live on the Session, not here — Calibration only says whether and
// at what altitude topocentric perspective applies.
type TopoConfig struct {
	Enabled   bool
	AltitudeM float64
}

// Calibration is the immutable policy record. Construct via Default()
// and override fields on the returned value (sub-records are plain
// structs, so a field assignment never aliases another Calibration's
// state) or via New with explicit values.
type Calibration struct {
	Zodiac      ZodiacType
	Perspective PerspectiveType
	Ayanamsa    AyanamsaConfig
	Nodes       NodeMode
	Houses      HouseMode
	HouseSystem HouseSystem
	Sunrise     SunriseConfig
	Topo        TopoConfig

	UseMicroseconds bool
	UseSpeed        bool
	UseTruePos      bool
	ResetTopoOnExit bool
}

// Default returns the package's documented default Calibration:
// sidereal zodiac, Lahiri ayanamsa, mean nodes, tropical-derived whole
// sign houses, drik sunrise, topocentric disabled.
func Default() Calibration {
	return Calibration{
		Zodiac:      Sidereal,
		Perspective: TrueGeocentric,
		Ayanamsa:    DefaultAyanamsaConfig(),
		Nodes:       MeanNode,
		Houses:      TropicalDerived,
		HouseSystem: HouseWholeSign,
		Sunrise:     DefaultSunriseConfig(),
		Topo:        TopoConfig{},

		UseSpeed:        true,
		UseTruePos:      true,
		ResetTopoOnExit: true,
	}
}

// New builds a Calibration from explicit nested option records,
// bypassing Default entirely. Prefer Default() plus field overrides
// unless every field genuinely needs to be caller-supplied.
func New(zodiac ZodiacType, perspective PerspectiveType, ayanamsa AyanamsaConfig, nodes NodeMode, houses HouseMode, houseSystem HouseSystem, sunrise SunriseConfig, topo TopoConfig, useMicroseconds, useSpeed, useTruePos, resetTopoOnExit bool) Calibration {
	return Calibration{
		Zodiac:          zodiac,
		Perspective:     perspective,
		Ayanamsa:        ayanamsa,
		Nodes:           nodes,
		Houses:          houses,
		HouseSystem:     houseSystem,
		Sunrise:         sunrise,
		Topo:            topo,
		UseMicroseconds: useMicroseconds,
		UseSpeed:        useSpeed,
		UseTruePos:      useTruePos,
		ResetTopoOnExit: resetTopoOnExit,
	}
}

// Signature is the canonical, order-stable, comparable projection of
// a Calibration's scalar fields. Two Calibrations with equal
// Signatures are semantically interchangeable for caching purposes —
// ephemeris.Provider keys its cache off this, never off the
// Calibration value itself.
type Signature struct {
	Zodiac      ZodiacType
	Perspective PerspectiveType

	AyanamsaMode   AyanamsaMode
	AyanamsaT0     float64
	AyanamsaAyanT0 float64

	Nodes       NodeMode
	Houses      HouseMode
	HouseSystem HouseSystem

	SunriseStyle  SunriseStyle
	Disc          DiscMode
	UseRefraction bool
	PressureMbar  float64
	TemperatureC  float64

	TopoEnabled   bool
	TopoAltitude  float64
	UseMicrosec   bool
	UseSpeedFlag  bool
	UseTrueposVal bool
	ResetTopo     bool
}

// Signature computes the Calibration's cache-namespace tuple. It is a
// pure function of c: identical field values always produce an
// identical, comparable Signature.
func (c Calibration) Signature() Signature {
	return Signature{
		Zodiac:      c.Zodiac,
		Perspective: c.Perspective,

		AyanamsaMode:   c.Ayanamsa.Mode,
		AyanamsaT0:     c.Ayanamsa.T0,
		AyanamsaAyanT0: c.Ayanamsa.AyanT0,

		Nodes:       c.Nodes,
		Houses:      c.Houses,
		HouseSystem: c.HouseSystem,

		SunriseStyle:  c.Sunrise.Style,
		Disc:          c.Sunrise.Disc,
		UseRefraction: c.Sunrise.UseRefraction,
		PressureMbar:  c.Sunrise.PressureMbar,
		TemperatureC:  c.Sunrise.TemperatureC,

		TopoEnabled:   c.Topo.Enabled,
		TopoAltitude:  c.Topo.AltitudeM,
		UseMicrosec:   c.UseMicroseconds,
		UseSpeedFlag:  c.UseSpeed,
		UseTrueposVal: c.UseTruePos,
		ResetTopo:     c.ResetTopoOnExit,
	}
}
