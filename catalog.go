package ucum

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed catalogdata/catalog.json
var embeddedCatalogData embed.FS

// PrefixRecord is the JSON shape of one prefix entry in a catalog dataset.
type PrefixRecord struct {
	Code    string  `json:"code"`
	CodeSyn string  `json:"codeSyn"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Exp     int     `json:"exp"`
	Base    int     `json:"base"`
}

// UnitRecord is the JSON shape of one atomic-unit entry in a catalog
// dataset.
type UnitRecord struct {
	Code        string   `json:"code"`
	CodeSyn     string   `json:"codeSyn"`
	Name        string   `json:"name"`
	Property    string   `json:"property"`
	PrintSymbol string   `json:"printSymbol"`
	Class       string   `json:"class"`
	IsMetric    bool     `json:"isMetric"`
	IsSpecial   bool     `json:"isSpecial"`
	IsArbitrary bool     `json:"isArbitrary"`
	Magnitude   float64  `json:"magnitude"`
	Dim         []int    `json:"dim"`
	Cnv         string   `json:"cnv"`
	CnvPfx      float64  `json:"cnvPfx"`
	Synonyms    []string `json:"synonyms"`
}

// Dataset is the top-level JSON document shape consumed by LoadCatalog:
// two arrays, prefixes and units.
type Dataset struct {
	Prefixes []PrefixRecord `json:"prefixes"`
	Units    []UnitRecord   `json:"units"`
}

// defaultMaxPrefixExponent bounds the base-10 exponents a dataset's
// prefixes may use.
const defaultMaxPrefixExponent = 24

// Catalog is the loaded-once, read-only registry of Prefixes and Atomic
// Units. A Catalog is immutable after construction; concurrent readers
// across goroutines are safe.
type Catalog struct {
	prefixesByCS map[string]Prefix
	prefixesByCI map[string]Prefix
	// sortedCSPrefixCodes and sortedCIPrefixCodes are ordered longest-first
	// so prefix/atom splitting greedily matches the longest prefix.
	sortedCSPrefixCodes []string
	sortedCIPrefixCodes []string

	atomsByCS      map[string]Atom
	atomsByCI      map[string]Atom
	atomsByName    map[string]Atom
	atomsBySynonym map[string]Atom

	baseUnitByDim map[Dimension]Atom

	maxPrefixExponent int
}

// Option configures Catalog construction.
type Option func(*catalogOptions)

type catalogOptions struct {
	maxPrefixExponent int
}

// WithMaxPrefixExponent overrides the maximum permitted base-10 prefix
// exponent (default 24).
func WithMaxPrefixExponent(n int) Option {
	return func(o *catalogOptions) { o.maxPrefixExponent = n }
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
	defaultCatalogErr  error
)

// Default returns the process-wide Catalog built from the embedded default
// dataset, constructing it exactly once. Subsequent calls return the same
// instance.
func Default() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		data, err := embeddedCatalogData.ReadFile("catalogdata/catalog.json")
		if err != nil {
			defaultCatalogErr = err
			return
		}
		defaultCatalog, defaultCatalogErr = LoadCatalog(data)
	})
	return defaultCatalog, defaultCatalogErr
}

// LoadCatalog parses a catalog dataset and builds an immutable
// Catalog from it. A code shall not be overwritten: duplicate definition of
// a prefix or atom code is a load-time error.
func LoadCatalog(jsonData []byte, opts ...Option) (*Catalog, error) {
	var ds Dataset
	if err := json.Unmarshal(jsonData, &ds); err != nil {
		return nil, fmt.Errorf("ucum: invalid catalog dataset: %w", err)
	}
	return buildCatalog(ds, opts...)
}

func buildCatalog(ds Dataset, opts ...Option) (*Catalog, error) {
	cfg := catalogOptions{maxPrefixExponent: defaultMaxPrefixExponent}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Catalog{
		prefixesByCS:      make(map[string]Prefix),
		prefixesByCI:      make(map[string]Prefix),
		atomsByCS:         make(map[string]Atom),
		atomsByCI:         make(map[string]Atom),
		atomsByName:       make(map[string]Atom),
		atomsBySynonym:    make(map[string]Atom),
		baseUnitByDim:     make(map[Dimension]Atom),
		maxPrefixExponent: cfg.maxPrefixExponent,
	}

	for _, pr := range ds.Prefixes {
		p := Prefix{
			CSCode: pr.Code,
			CICode: pr.CodeSyn,
			Name:   pr.Name,
			Factor: pr.Value,
			Base:   pr.Base,
			Exp:    pr.Exp,
		}
		if abs(p.Exp) > c.maxPrefixExponent && p.Base == 10 {
			return nil, fmt.Errorf("ucum: prefix %q exceeds maxPrefixExponent %d", p.CSCode, c.maxPrefixExponent)
		}
		if _, exists := c.prefixesByCS[p.CSCode]; exists {
			return nil, fmt.Errorf("ucum: duplicate prefix code %q", p.CSCode)
		}
		c.prefixesByCS[p.CSCode] = p
		ciKey := strings.ToUpper(p.CICode)
		if _, exists := c.prefixesByCI[ciKey]; exists {
			return nil, fmt.Errorf("ucum: duplicate prefix synonym code %q", p.CICode)
		}
		c.prefixesByCI[ciKey] = p
	}
	c.sortedCSPrefixCodes = sortedKeysByLength(c.prefixesByCS)
	c.sortedCIPrefixCodes = sortedKeysByLength(c.prefixesByCI)

	for _, ur := range ds.Units {
		a := Atom{
			CSCode:      ur.Code,
			CICode:      ur.CodeSyn,
			Name:        ur.Name,
			Property:    ur.Property,
			PrintSymbol: ur.PrintSymbol,
			Class:       ur.Class,
			IsMetric:    ur.IsMetric,
			IsArbitrary: ur.IsArbitrary,
			IsSpecial:   ur.IsSpecial,
			Magnitude:   ur.Magnitude,
			CnvPfx:      1,
			Synonyms:    ur.Synonyms,
		}
		if len(ur.Dim) == 7 {
			copy(a.Dimension[:], ur.Dim)
		} else if len(ur.Dim) != 0 {
			return nil, fmt.Errorf("ucum: unit %q has dimension vector of length %d, want 7", ur.Code, len(ur.Dim))
		}
		if ur.Cnv != "" {
			fn, ok := conversionFunctionByName(ur.Cnv)
			if !ok {
				return nil, fmt.Errorf("ucum: unit %q references unknown conversion function %q", ur.Code, ur.Cnv)
			}
			a.Conversion = fn
			if ur.CnvPfx != 0 {
				a.CnvPfx = ur.CnvPfx
			}
		}

		if _, exists := c.atomsByCS[a.CSCode]; exists {
			return nil, fmt.Errorf("ucum: duplicate atom code %q", a.CSCode)
		}
		c.atomsByCS[a.CSCode] = a
		ciKey := strings.ToUpper(a.CICode)
		if ciKey != "" {
			if _, exists := c.atomsByCI[ciKey]; exists {
				return nil, fmt.Errorf("ucum: duplicate atom synonym code %q", a.CICode)
			}
			c.atomsByCI[ciKey] = a
		}
		nameKey := strings.ToLower(a.Name)
		if nameKey != "" {
			c.atomsByName[nameKey] = a
		}
		for _, syn := range a.Synonyms {
			c.atomsBySynonym[strings.ToLower(syn)] = a
		}

		// Coherent (magnitude-1) atoms win the base-unit slot for their
		// dimension; the first ratio atom seen stands in for axes whose
		// base unit is not coherent on this scale (gram on a
		// kilogram-coherent dataset).
		if a.Conversion == nil {
			existing, exists := c.baseUnitByDim[a.Dimension]
			if !exists || (a.Magnitude == 1 && existing.Magnitude != 1) {
				c.baseUnitByDim[a.Dimension] = a
			}
		}
	}

	return c, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sortedKeysByLength(m map[string]Prefix) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}

// PrefixByCode looks up a prefix by its code in the requested case mode.
// Case-insensitive lookups fold the input to uppercase before
// matching the catalog's canonical case-insensitive form.
func (c *Catalog) PrefixByCode(code string, caseSensitive bool) (Prefix, bool) {
	if caseSensitive {
		p, ok := c.prefixesByCS[code]
		return p, ok
	}
	p, ok := c.prefixesByCI[strings.ToUpper(code)]
	return p, ok
}

// AtomByCode looks up an atom by its code in the requested case mode.
func (c *Catalog) AtomByCode(code string, caseSensitive bool) (Atom, bool) {
	if caseSensitive {
		a, ok := c.atomsByCS[code]
		return a, ok
	}
	a, ok := c.atomsByCI[strings.ToUpper(code)]
	return a, ok
}

// AtomByName looks up an atom by its full English name, case-insensitively.
func (c *Catalog) AtomByName(name string) (Atom, bool) {
	a, ok := c.atomsByName[strings.ToLower(name)]
	return a, ok
}

// AtomBySynonym looks up an atom by one of its diagnostic synonyms.
func (c *Catalog) AtomBySynonym(term string) (Atom, bool) {
	a, ok := c.atomsBySynonym[strings.ToLower(term)]
	return a, ok
}

// BaseUnitForDim returns the base atom whose dimension matches the given
// Dimension (e.g. the atom for pure length): a magnitude-1 ratio atom when
// the catalog has one, otherwise the first ratio atom loaded with that
// dimension (the gram, for mass).
func (c *Catalog) BaseUnitForDim(d Dimension) (Atom, bool) {
	a, ok := c.baseUnitByDim[d]
	return a, ok
}

// Synonyms returns the recorded synonyms for an atom code, read-only, for
// diagnostic suggestion hooks.
func (c *Catalog) Synonyms(code string) []string {
	a, ok := c.AtomByCode(code, true)
	if !ok {
		return nil
	}
	out := make([]string, len(a.Synonyms))
	copy(out, a.Synonyms)
	return out
}

// Commensurables returns every atom in the catalog sharing the given
// dimension, sorted by case-sensitive code for deterministic output.
func (c *Catalog) Commensurables(d Dimension) []string {
	var out []string
	for code, a := range c.atomsByCS {
		if a.Dimension.Equals(d) {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}

// prefixSplit attempts to split symbol into a (prefix, remainder) pair by
// longest-matching prefix code in the given case mode.
func (c *Catalog) prefixSplit(symbol string, caseSensitive bool) (Prefix, string, bool) {
	codes := c.sortedCSPrefixCodes
	if !caseSensitive {
		codes = c.sortedCIPrefixCodes
	}
	for _, code := range codes {
		matchKey := code
		candidate := symbol
		if !caseSensitive {
			candidate = strings.ToUpper(symbol)
		}
		if !strings.HasPrefix(candidate, matchKey) {
			continue
		}
		remainderLen := len(symbol) - len(code)
		if remainderLen <= 0 {
			continue
		}
		remainder := symbol[len(code):]
		p, ok := c.PrefixByCode(code, caseSensitive)
		if !ok {
			continue
		}
		return p, remainder, true
	}
	return Prefix{}, "", false
}
