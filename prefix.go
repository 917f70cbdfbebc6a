package ucum

// Prefix is a multiplicative modifier applied to a metric atom.
// A Prefix is immutable once loaded into a Catalog: prefix codes are unique
// within each case mode, and no code is ever overwritten after load.
//
// The prefix table itself lives in catalogdata/catalog.json rather than as
// Go literals here, alongside the atom table it is cross-referenced with;
// see buildCatalog in catalog.go.
type Prefix struct {
	CSCode string  // case-sensitive code, e.g. "k"
	CICode string  // case-insensitive code, e.g. "K"
	Name   string  // e.g. "kilo"
	Factor float64 // multiplicative value, e.g. 1e3
	Base   int     // 10 for decimal prefixes, 2 for binary prefixes
	Exp    int     // exponent of Base that produces Factor
}
