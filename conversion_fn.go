package ucum

import "math"

// ConversionFunction models a non-ratio (special) unit's relationship to
// its base atom, as a pair of pure, invertible closures over float64.
// Explicit closures rather than an interface hierarchy keep the functions
// trivially inspectable and testable.
//
// ToBase converts a reading in the special unit into the pre-magnitude
// value of its underlying coherent atom (UCUM's f_from). FromBase is its
// inverse (UCUM's f_to): it converts a pre-magnitude coherent value back
// into a reading in the special unit.
type ConversionFunction struct {
	Name     string
	ToBase   func(value float64) float64
	FromBase func(value float64) float64

	// RequiresPositiveBase marks FromBase as a logarithm: converting a
	// coherent value of zero or less into this special unit is a
	// DomainError.
	RequiresPositiveBase bool

	// RequiresNonNegativeBase marks the scale as anchored at absolute
	// zero: a coherent value below zero, in either direction of a
	// conversion, is a DomainError.
	RequiresNonNegativeBase bool
}

// Named conversion-function constants for the special units of the UCUM
// functional-units table: Cel, degF, ln, lg, 2lg, ld, tan, 100tan, pH.
var (
	CelsiusConversion = &ConversionFunction{
		Name:                    "Cel",
		ToBase:                  func(c float64) float64 { return c + 273.15 },
		FromBase:                func(k float64) float64 { return k - 273.15 },
		RequiresNonNegativeBase: true,
	}
	FahrenheitConversion = &ConversionFunction{
		Name:                    "degF",
		ToBase:                  func(f float64) float64 { return f + 459.67 },
		FromBase:                func(k float64) float64 { return k - 459.67 },
		RequiresNonNegativeBase: true,
	}
	NeperConversion = &ConversionFunction{
		Name:                 "ln",
		ToBase:               math.Exp,
		FromBase:             math.Log,
		RequiresPositiveBase: true,
	}
	BelConversion = &ConversionFunction{
		Name:                 "lg",
		ToBase:               func(b float64) float64 { return math.Pow(10, b) },
		FromBase:             math.Log10,
		RequiresPositiveBase: true,
	}
	BelTwoConversion = &ConversionFunction{
		Name:                 "2lg",
		ToBase:               func(b float64) float64 { return math.Pow(10, b/2) },
		FromBase:             func(x float64) float64 { return 2 * math.Log10(x) },
		RequiresPositiveBase: true,
	}
	BitLogConversion = &ConversionFunction{
		Name:                 "ld",
		ToBase:               func(b float64) float64 { return math.Pow(2, b) },
		FromBase:             math.Log2,
		RequiresPositiveBase: true,
	}
	TanConversion = &ConversionFunction{
		Name:     "tan",
		ToBase:   math.Tan,
		FromBase: math.Atan,
	}
	HundredTanConversion = &ConversionFunction{
		Name:     "100tan",
		ToBase:   func(v float64) float64 { return 100 * math.Tan(v/100) },
		FromBase: func(x float64) float64 { return 100 * math.Atan(x/100) },
	}
	PHConversion = &ConversionFunction{
		Name:                 "pH",
		ToBase:               func(p float64) float64 { return math.Pow(10, -p) },
		FromBase:             func(x float64) float64 { return -math.Log10(x) },
		RequiresPositiveBase: true,
	}
)

// conversionFunctionByName resolves a catalog dataset's named conversion
// function identifier to the built-in closures above.
func conversionFunctionByName(name string) (*ConversionFunction, bool) {
	switch name {
	case "Cel":
		return CelsiusConversion, true
	case "degF":
		return FahrenheitConversion, true
	case "ln":
		return NeperConversion, true
	case "lg":
		return BelConversion, true
	case "2lg":
		return BelTwoConversion, true
	case "ld":
		return BitLogConversion, true
	case "tan":
		return TanConversion, true
	case "100tan":
		return HundredTanConversion, true
	case "pH":
		return PHConversion, true
	default:
		return nil, false
	}
}
