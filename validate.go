package ucum

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid       bool
	Unit        *Unit
	Messages    []Message
	Suggestions []string
}

// ConversionResult is the outcome of ConvertExpr.
type ConversionResult struct {
	Magnitude float64
	Messages  []Message
}

// parseExpression runs the lexer and parser and evaluates the resulting
// AST into a Unit, in one shot.
func parseExpression(cat *Catalog, expr string, caseSensitive bool) (Unit, []Message, *Error) {
	tok, err := NewTokenizer(expr)
	if err != nil {
		return Unit{}, nil, err
	}
	p := NewParser(tok, cat, caseSensitive)
	node, messages, err := p.Parse()
	if err != nil {
		return Unit{}, messages, err
	}
	u, evalErr := node.Eval(cat)
	if evalErr != nil {
		if e, ok := evalErr.(*Error); ok {
			return Unit{}, messages, e
		}
		return Unit{}, messages, newError(ErrInvalidSyntax, 0, "", "%v", evalErr)
	}
	return u, messages, nil
}

// Validate runs the parser in tolerant mode: valid=true iff no
// hard errors occurred. messages carries both fatal and corrective
// diagnostics; suggestions are populated only on failure.
func Validate(cat *Catalog, expr string, caseSensitive bool) ValidationResult {
	u, messages, err := parseExpression(cat, expr, caseSensitive)
	if err != nil {
		msgs := append([]Message{}, messages...)
		msgs = append(msgs, Message{Offset: err.Offset, Text: err.Error(), Fatal: true})
		sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Offset < msgs[j].Offset })
		return ValidationResult{
			Valid:       false,
			Messages:    msgs,
			Suggestions: suggest(cat, err.Token, caseSensitive),
		}
	}
	return ValidationResult{Valid: true, Unit: &u, Messages: messages}
}

// ConvertExpr converts a magnitude between two unit expressions: parse
// both sides, then run the conversion engine. magnitude is
// a decimal.Decimal, matching how callers such as a FHIR Quantity type pair
// a decimal value with a UCUM unit code, and is only narrowed to float64 at
// the arithmetic engine's boundary.
func ConvertExpr(cat *Catalog, from string, magnitude decimal.Decimal, to string, caseSensitive bool) (ConversionResult, *Error) {
	fromUnit, fromMsgs, err := parseExpression(cat, from, caseSensitive)
	if err != nil {
		return ConversionResult{}, err
	}
	toUnit, toMsgs, err := parseExpression(cat, to, caseSensitive)
	if err != nil {
		return ConversionResult{}, err
	}
	result, err := Convert(magnitude.InexactFloat64(), fromUnit, toUnit)
	if err != nil {
		return ConversionResult{}, err
	}
	messages := append(append([]Message{}, fromMsgs...), toMsgs...)
	return ConversionResult{Magnitude: result, Messages: messages}, nil
}

// GetCommensurables parses expr, then lists every catalog atom code
// sharing its dimension.
func GetCommensurables(cat *Catalog, expr string, caseSensitive bool) ([]string, *Error) {
	u, _, err := parseExpression(cat, expr, caseSensitive)
	if err != nil {
		return nil, err
	}
	return cat.Commensurables(u.Dimension), nil
}

// MustParse works like GetSpecifiedUnit but panics on error.
// Use this function only when you know the expression is valid.
func MustParse(cat *Catalog, expr string, caseSensitive bool) Unit {
	u, _, err := parseExpression(cat, expr, caseSensitive)
	if err != nil {
		panic(err)
	}
	return u
}

// GetSpecifiedUnit parses expr and returns the resulting Unit, or nil if
// parsing failed.
func GetSpecifiedUnit(cat *Catalog, expr string, caseSensitive bool) (*Unit, *Error) {
	u, _, err := parseExpression(cat, expr, caseSensitive)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// suggest offers catalog atoms within one edit of the failed token. It is
// a peripheral diagnostic aid, not part of the core parsing/conversion
// semantics.
func suggest(cat *Catalog, badToken string, caseSensitive bool) []string {
	if badToken == "" {
		return nil
	}
	var out []string
	for code := range cat.atomsByCS {
		if levenshteinAtMost1(badToken, code) {
			out = append(out, code)
		}
	}
	for syn, a := range cat.atomsBySynonym {
		if levenshteinAtMost1(strings.ToLower(badToken), syn) {
			out = append(out, a.CSCode)
		}
	}
	return out
}

// levenshteinAtMost1 reports whether a and b differ by at most one
// single-character insertion, deletion, or substitution.
func levenshteinAtMost1(a, b string) bool {
	if a == b {
		return true
	}
	la, lb := len(a), len(b)
	if la == lb {
		diff := 0
		for i := 0; i < la; i++ {
			if a[i] != b[i] {
				diff++
				if diff > 1 {
					return false
				}
			}
		}
		return diff == 1
	}
	if la+1 != lb && lb+1 != la {
		return false
	}
	longer, shorter := a, b
	if lb > la {
		longer, shorter = b, a
	}
	i, j, skipped := 0, 0, false
	for i < len(longer) && j < len(shorter) {
		if longer[i] == shorter[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		i++
	}
	return true
}
