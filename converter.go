package ucum

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// defaultTolerance is the relative tolerance used for round-trip checks.
const defaultTolerance = 1e-12

// Convert performs a dimensional compatibility check followed by
// ratio↔ratio, special→any, or any→special conversion, depending on which
// of from/to carry a conversion function.
func Convert(magnitude float64, from, to Unit) (float64, *Error) {
	if !from.Dimension.Equals(to.Dimension) {
		return 0, newError(ErrIncommensurableUnits, 0, "", "cannot convert %q to %q: incommensurable dimensions", from.Name, to.Name)
	}

	x := magnitude
	if from.IsSpecial() {
		x = from.Cnv.ToBase(magnitude*from.CnvPfx) * from.Magnitude
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, newError(ErrDomainError, 0, "", "value %v is out of domain for %q", magnitude, from.Name)
		}
		if from.Cnv.RequiresNonNegativeBase && x < 0 {
			return 0, newError(ErrDomainError, 0, "", "value %v %q is below absolute zero", magnitude, from.Name)
		}
	} else {
		x = magnitude * from.Magnitude
	}

	if !to.IsSpecial() {
		result := x / to.Magnitude
		if math.IsInf(result, 0) {
			return 0, newError(ErrOverflow, 0, "", "conversion of %v %q to %q overflowed", magnitude, from.Name, to.Name)
		}
		return result, nil
	}

	arg := x / to.Magnitude
	if to.Cnv.RequiresPositiveBase && arg <= 0 {
		return 0, newError(ErrDomainError, 0, "", "value %v is out of domain for %q", arg, to.Name)
	}
	if to.Cnv.RequiresNonNegativeBase && arg < 0 {
		return 0, newError(ErrDomainError, 0, "", "value %v %q is below absolute zero", magnitude, from.Name)
	}
	result := to.Cnv.FromBase(arg) / to.CnvPfx
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, newError(ErrDomainError, 0, "", "value %v is out of domain for %q", magnitude, to.Name)
	}
	return result, nil
}

// EqualWithinTolerance reports whether two conversion results agree within
// the default relative tolerance.
func EqualWithinTolerance(a, b float64) bool {
	return scalar.EqualWithinRel(a, b, defaultTolerance)
}
