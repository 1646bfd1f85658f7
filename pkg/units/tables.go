package units

// Tier identifies one of the registry tables.
type Tier int

// Tier constants, leaf tier first.
const (
	TierPrefix     Tier = iota // SI prefixes
	TierBase                   // SI base units, mapped to dimensions
	TierDerived                // named SI derived units
	TierVeryCommon             // non-SI units whose short symbols are enabled
	TierCommon                 // non-SI and imperial units, long names only
)

func (t Tier) String() string {
	switch t {
	case TierPrefix:
		return "prefixes"
	case TierBase:
		return "base"
	case TierDerived:
		return "derived"
	case TierVeryCommon:
		return "very-common"
	case TierCommon:
		return "common"
	default:
		return "unknown"
	}
}

// Tiers returns every tier in registry order.
func Tiers() []Tier {
	return []Tier{TierPrefix, TierBase, TierDerived, TierVeryCommon, TierCommon}
}

// ParseTier resolves a tier by its String form.
func ParseTier(s string) (Tier, bool) {
	for _, t := range Tiers() {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// Entry is one registry row. Conversion is expression text over units of
// a lower tier, or a dimension name for base units.
type Entry struct {
	Name       string
	Symbol     string
	Conversion string
	Aliases    []string
	Tier       Tier
}

// Dimension names of the base units.
const (
	Length            = "length"
	Mass              = "mass"
	Time              = "time"
	ElectricCurrent   = "electric_current"
	Temperature       = "temperature"
	AmountOfSubstance = "amount_of_substance"
	LuminousIntensity = "luminous_intensity"
)

// Prefix factors from NIST SP 330 table 5.
var prefixes = []Entry{
	{Name: "yotta", Symbol: "Y", Conversion: "(10**24)"},
	{Name: "zetta", Symbol: "Z", Conversion: "(10**21)"},
	{Name: "exa", Symbol: "E", Conversion: "(10**18)"},
	{Name: "peta", Symbol: "P", Conversion: "(10**15)"},
	{Name: "tera", Symbol: "T", Conversion: "(10**12)"},
	{Name: "giga", Symbol: "G", Conversion: "(10**9)"},
	{Name: "mega", Symbol: "M", Conversion: "(10**6)"},
	{Name: "kilo", Symbol: "k", Conversion: "(10**3)"},
	{Name: "hecto", Symbol: "h", Conversion: "(10**2)"},
	{Name: "deka", Symbol: "da", Conversion: "(10**1)", Aliases: []string{"deca"}},
	{Name: "deci", Symbol: "d", Conversion: "(10**(-1))"},
	{Name: "centi", Symbol: "c", Conversion: "(10**(-2))"},
	{Name: "milli", Symbol: "m", Conversion: "(10**(-3))"},
	{Name: "micro", Symbol: "mu", Conversion: "(10**(-6))"},
	{Name: "nano", Symbol: "n", Conversion: "(10**(-9))"},
	{Name: "pico", Symbol: "p", Conversion: "(10**(-12))"},
	{Name: "femto", Symbol: "f", Conversion: "(10**(-15))"},
	{Name: "atto", Symbol: "a", Conversion: "(10**(-18))"},
	{Name: "zepto", Symbol: "z", Conversion: "(10**(-21))"},
	{Name: "yocto", Symbol: "y", Conversion: "(10**(-24))"},
}

// Base units from NIST SP 330 table 1. The gram, not the kilogram, is the
// base so that the kilo prefix composes like every other prefix.
var baseUnits = []Entry{
	{Name: "metre", Symbol: "m", Conversion: Length, Aliases: []string{"metres", "meter", "meters"}},
	{Name: "gram", Symbol: "g", Conversion: Mass, Aliases: []string{"grams", "gramme", "grammes"}},
	{Name: "second", Symbol: "s", Conversion: Time, Aliases: []string{"seconds"}},
	{Name: "ampere", Symbol: "A", Conversion: ElectricCurrent, Aliases: []string{"amperes"}},
	{Name: "kelvin", Symbol: "K", Conversion: Temperature, Aliases: []string{"kelvins"}},
	{Name: "mole", Symbol: "mol", Conversion: AmountOfSubstance, Aliases: []string{"moles"}},
	{Name: "candela", Symbol: "cd", Conversion: LuminousIntensity, Aliases: []string{"candelas"}},
}

// Derived units from NIST SP 330 table 3, degree Celsius omitted. The
// radian uses the symbol r so that rad stays free for the absorbed dose.
var derivedUnits = []Entry{
	{Name: "radian", Symbol: "r", Conversion: "(1)", Aliases: []string{"radians"}},
	{Name: "steradian", Symbol: "sr", Conversion: "(1)", Aliases: []string{"steradians"}},
	{Name: "hertz", Symbol: "Hz", Conversion: "(second**(-1))"},
	{Name: "newton", Symbol: "N", Conversion: "(metre*kilo*gram*second**(-2))", Aliases: []string{"newtons"}},
	{Name: "pascal", Symbol: "Pa", Conversion: "(metre**(-1)*kilo*gram*second**(-2))", Aliases: []string{"pascals"}},
	{Name: "joule", Symbol: "J", Conversion: "(metre**2*kilo*gram*second**(-2))", Aliases: []string{"joules"}},
	{Name: "watt", Symbol: "W", Conversion: "(metre**2*kilo*gram*second**(-3))", Aliases: []string{"watts"}},
	{Name: "coulomb", Symbol: "C", Conversion: "(second*ampere)", Aliases: []string{"coulombs"}},
	{Name: "volt", Symbol: "V", Conversion: "(metre**2*kilo*gram*second**(-3)*ampere**(-1))", Aliases: []string{"volts"}},
	{Name: "farad", Symbol: "F", Conversion: "(metre**(-2)*(kilo*gram)**(-1)*second**4*ampere**2)", Aliases: []string{"farads"}},
	{Name: "ohm", Symbol: "O", Conversion: "(metre**2*kilo*gram*second**(-3)*ampere**(-2))", Aliases: []string{"ohms"}},
	{Name: "siemens", Symbol: "S", Conversion: "(metre**(-2)*(kilo*gram)**(-1)*second**3*ampere**2)"},
	{Name: "weber", Symbol: "Wb", Conversion: "(metre**2*kilo*gram*second**(-2)*ampere**(-1))", Aliases: []string{"webers"}},
	{Name: "tesla", Symbol: "T", Conversion: "(kilo*gram*second**(-2)*ampere**(-1))", Aliases: []string{"teslas"}},
	{Name: "henry", Symbol: "H", Conversion: "(metre**2*kilo*gram*second**(-2)*ampere**(-2))", Aliases: []string{"henries", "henrys"}},
	{Name: "lumen", Symbol: "lm", Conversion: "(candela)", Aliases: []string{"lumens"}},
	{Name: "lux", Symbol: "lx", Conversion: "(metre**(-2)*candela)"},
	{Name: "becquerel", Symbol: "Bq", Conversion: "(second**(-1))", Aliases: []string{"becquerels"}},
	{Name: "gray", Symbol: "Gy", Conversion: "(metre**2*second**(-2))", Aliases: []string{"grays"}},
	{Name: "sievert", Symbol: "Sv", Conversion: "(metre**2*second**(-2))", Aliases: []string{"sieverts"}},
	{Name: "katal", Symbol: "kat", Conversion: "(second**(-1)*mole)", Aliases: []string{"katals"}},
}

// Non-SI units accepted for use with SI (NIST SP 330 tables 6 and 7)
// whose short symbols are unambiguous enough to enable by default.
var veryCommonUnits = []Entry{
	{Name: "minute", Symbol: "min", Conversion: "(60*second)", Aliases: []string{"minutes"}},
	{Name: "hour", Symbol: "h", Conversion: "(3600*second)", Aliases: []string{"hours"}},
	{Name: "degree", Symbol: "deg", Conversion: "(pi/180)", Aliases: []string{"degrees"}},
	{Name: "litre", Symbol: "L", Conversion: "(10**(-3)*metre**3)", Aliases: []string{"litres", "liter", "liters"}},
	{Name: "metricton", Symbol: "t", Conversion: "(10**3*kilo*gram)", Aliases: []string{"metrictons", "tonne", "tonnes"}},
	{Name: "neper", Symbol: "Np", Conversion: "(1)", Aliases: []string{"nepers"}},
	{Name: "bel", Symbol: "B", Conversion: "((1/2)*log(10))"},
	{Name: "electronvolt", Symbol: "eV", Conversion: "(1.60218*10**(-19)*joule)", Aliases: []string{"electronvolts"}},
	{Name: "atomicmassunit", Symbol: "u", Conversion: "(1.66054*10**(-27)*kilo*gram)", Aliases: []string{"atomicmassunits", "dalton", "daltons"}},
	{Name: "angstrom", Symbol: "å", Conversion: "(10**(-10)*metre)", Aliases: []string{"angstroms", "ångström", "Å"}},
}

// Further non-SI units and the common imperial lengths, masses and volume.
// Their short symbols collide with too many other names and are only
// available through author substitutions.
var commonUnits = []Entry{
	{Name: "day", Symbol: "d", Conversion: "(86400*second)", Aliases: []string{"days"}},
	{Name: "angleminute", Symbol: "'", Conversion: "(pi/10800)", Aliases: []string{"angleminutes", "arcminute", "arcminutes"}},
	{Name: "anglesecond", Symbol: `"`, Conversion: "(pi/648000)", Aliases: []string{"angleseconds", "arcsecond", "arcseconds"}},
	{Name: "astronomicalunit", Symbol: "au", Conversion: "(149597870700*metre)", Aliases: []string{"astronomicalunits"}},
	{Name: "nauticalmile", Symbol: "nmi", Conversion: "(1852*metre)", Aliases: []string{"nauticalmiles"}},
	{Name: "knot", Symbol: "kn", Conversion: "((1852/3600)*metre/second)", Aliases: []string{"knots"}},
	{Name: "are", Symbol: "a", Conversion: "(10**2*metre**2)", Aliases: []string{"ares"}},
	{Name: "hectare", Symbol: "ha", Conversion: "(10**4*metre**2)", Aliases: []string{"hectares"}},
	{Name: "bar", Symbol: "bar", Conversion: "(10**5*pascal)", Aliases: []string{"bars"}},
	{Name: "barn", Symbol: "b", Conversion: "(10**(-28)*metre**2)", Aliases: []string{"barns"}},
	{Name: "curie", Symbol: "Ci", Conversion: "(3.7*10**10*becquerel)", Aliases: []string{"curies"}},
	{Name: "roentgen", Symbol: "R", Conversion: "(2.58*10**(-4)*coulomb/(kilo*gram))", Aliases: []string{"roentgens"}},
	{Name: "rad", Symbol: "rad", Conversion: "(10**(-2)*gray)"},
	{Name: "rem", Symbol: "rem", Conversion: "(10**(-2)*sievert)"},
	{Name: "inch", Symbol: "in", Conversion: "(0.0254*metre)", Aliases: []string{"inches"}},
	{Name: "foot", Symbol: "ft", Conversion: "(0.3048*metre)", Aliases: []string{"feet"}},
	{Name: "yard", Symbol: "yd", Conversion: "(0.9144*metre)", Aliases: []string{"yards"}},
	{Name: "mile", Symbol: "mi", Conversion: "(1609.344*metre)", Aliases: []string{"miles"}},
	{Name: "pound", Symbol: "lb", Conversion: "(0.45359237*kilo*gram)", Aliases: []string{"pounds"}},
	{Name: "ounce", Symbol: "oz", Conversion: "(0.028349523125*kilo*gram)", Aliases: []string{"ounces"}},
	{Name: "gallon", Symbol: "gal", Conversion: "(3.785411784*10**(-3)*metre**3)", Aliases: []string{"gallons"}},
}
