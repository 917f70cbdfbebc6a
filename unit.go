package ucum

import (
	"strconv"

	"gonum.org/v1/gonum/floats/scalar"
)

// Unit is the in-memory representation of a parsed or constructed UCUM
// unit: a pure atom, a composed unit, or "unity" (dimensionless 1).
// Unit values are short-lived results of parsing and arithmetic; the
// library never mutates a Unit once it has been returned to a caller.
type Unit struct {
	Magnitude float64
	Dimension Dimension

	// Cnv is non-nil exactly when this Unit is a non-ratio (special) unit
	// such as Celsius or bel. CnvPfx is the scalar applied inside Cnv's
	// argument to carry prefix effects.
	Cnv    *ConversionFunction
	CnvPfx float64

	Name        string
	CSCode      string
	CICode      string
	PrintSymbol string
	Property    string
	Class       string

	// IsMetric is conservatively false after any composition.
	IsMetric bool
}

// Unity is the dimensionless unit 1: magnitude 1, zero dimension, no
// conversion function, CnvPfx 1.
var Unity = Unit{Magnitude: 1, CnvPfx: 1, Name: "1"}

// Scalar returns a dimensionless Unit carrying the given numeric factor, as
// produced by a standalone number in an expression.
func Scalar(value float64) Unit {
	return Unit{Magnitude: value, CnvPfx: 1, Name: fmtNumber(value)}
}

// IsSpecial reports whether this Unit carries a non-ratio conversion
// function.
func (u Unit) IsSpecial() bool {
	return u.Cnv != nil
}

// equalsWithTolerance reports whether two Units have the same dimension and
// magnitudes equal within a relative tolerance.
func (u Unit) equalsWithTolerance(o Unit, tol float64) bool {
	if !u.Dimension.Equals(o.Dimension) {
		return false
	}
	return scalar.EqualWithinRel(u.Magnitude, o.Magnitude, tol)
}

// String renders the Unit's composed name.
func (u Unit) String() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Dimension.String()
}

func fmtNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// composeName builds the human-readable name of a Mul or Div result:
// operands joined by the operator. Mul/Div use it rather than rendering the
// Dimension, which would lose per-atom naming; Pow names its result with
// powName instead.
func composeName(op byte, left, right string) string {
	switch op {
	case '.':
		return left + "." + right
	case '/':
		return left + "/" + right
	default:
		return left
	}
}
