package ucum

// Atom is a catalog-defined UCUM unit identifier. Atoms are created
// once at catalog load and are never mutated afterwards; callers only ever
// see copies produced by parsing or arithmetic.
type Atom struct {
	CSCode      string // case-sensitive code, e.g. "m"
	CICode      string // case-insensitive code, e.g. "M"
	Name        string // e.g. "meter"
	Property    string // e.g. "length"
	PrintSymbol string
	Class       string // e.g. "si", "dimless", "iso1000"
	IsMetric    bool   // only metric atoms may accept a prefix
	IsArbitrary bool
	IsSpecial   bool // true iff Conversion is non-nil
	Magnitude   float64
	Dimension   Dimension
	Conversion  *ConversionFunction // non-nil for non-ratio (special) units
	CnvPfx      float64             // conversion prefix default, always 1 for catalog atoms
	Synonyms    []string
}

// unitOf builds the short-lived Unit value representing this atom alone,
// with no prefix applied.
func (a Atom) unitOf() Unit {
	return Unit{
		Magnitude:   a.Magnitude,
		Dimension:   a.Dimension,
		Cnv:         a.Conversion,
		CnvPfx:      a.CnvPfx,
		Name:        a.Name,
		CSCode:      a.CSCode,
		CICode:      a.CICode,
		PrintSymbol: a.PrintSymbol,
		Property:    a.Property,
		Class:       a.Class,
		IsMetric:    a.IsMetric,
	}
}
