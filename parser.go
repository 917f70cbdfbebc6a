package ucum

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Parser implements the recursive-descent UCUM grammar over a flat
// token stream, collecting non-fatal corrective messages alongside the
// resulting AST.
type Parser struct {
	tok           *Tokenizer
	cat           *Catalog
	caseSensitive bool
	messages      []Message
}

// NewParser builds a Parser over an already-tokenized input.
func NewParser(tok *Tokenizer, cat *Catalog, caseSensitive bool) *Parser {
	return &Parser{tok: tok, cat: cat, caseSensitive: caseSensitive}
}

// Parse consumes the full token stream and returns the root Node. A
// non-nil *Error is fatal (a syntax or lookup failure); messages still
// holds any corrective rewrites applied before the failure.
func (p *Parser) Parse() (Node, []Message, *Error) {
	node, err := p.parseExpr()
	sort.SliceStable(p.messages, func(i, j int) bool { return p.messages[i].Offset < p.messages[j].Offset })
	if err != nil {
		return nil, p.messages, err
	}
	if next := p.tok.Peek(); next.Kind != EOF {
		return nil, p.messages, newError(ErrInvalidSyntax, next.Pos.Offset, next.Value, "unexpected trailing input %q", next.Value)
	}
	return node, p.messages, nil
}

func (p *Parser) note(offset int, text, original, rewrite string) {
	p.messages = append(p.messages, Message{Offset: offset, Text: text, Fatal: false, Original: original, Rewrite: rewrite})
}

// expr := '/' term (op term)* | term (op term)*
func (p *Parser) parseExpr() (Node, *Error) {
	if p.tok.Peek().Kind == Slash {
		p.tok.Next()
		inner, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node := Node(&LeadingInverseNode{Inner: inner})
		return p.parseOpChain(node)
	}
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return p.parseOpChain(first)
}

// parseOpChain consumes zero or more (op term) pairs left-associatively,
// applying the missing-'.' correction when a numeric factor is juxtaposed
// against the next term with no explicit operator.
func (p *Parser) parseOpChain(left Node) (Node, *Error) {
	for {
		next := p.tok.Peek()
		switch next.Kind {
		case Dot, Slash:
			opTok := p.tok.Next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &BinaryNode{Op: opTok.Kind, Left: left, Right: right}
		case AtomTok, Number, LParen, Annotation:
			if _, isNumber := left.(*NumberNode); !isNumber {
				return left, nil
			}
			offset := next.Pos.Offset
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			p.note(offset, "inserted '.'", "", ".")
			left = &BinaryNode{Op: Dot, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

// term := component (exponent)?
func (p *Parser) parseTerm() (Node, *Error) {
	comp, err := p.parseComponent()
	if err != nil {
		return nil, err
	}
	if p.tok.Peek().Kind == Number {
		expTok := p.tok.Next()
		n, convErr := strconv.Atoi(expTok.Value)
		if convErr != nil {
			return nil, newError(ErrInvalidSyntax, expTok.Pos.Offset, expTok.Value, "invalid exponent %q", expTok.Value)
		}
		return &PowerNode{Base: comp, Exp: n}, nil
	}
	return comp, nil
}

// component := '(' expr ')' | number | annotatable_atom
func (p *Parser) parseComponent() (Node, *Error) {
	tok := p.tok.Peek()
	switch tok.Kind {
	case LParen:
		p.tok.Next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closing := p.tok.Next()
		if closing.Kind != RParen {
			return nil, newError(ErrInvalidSyntax, closing.Pos.Offset, closing.Value, "expected ')'")
		}
		return &GroupNode{Inner: inner}, nil
	case Number:
		p.tok.Next()
		// Parsed through decimal.Decimal rather than strconv.ParseFloat
		// directly so a numeric factor like "1000000000000000000" keeps
		// its exact value up to the point it is narrowed for the
		// (necessarily float64) arithmetic engine.
		d, convErr := decimal.NewFromString(tok.Value)
		if convErr != nil {
			return nil, newError(ErrInvalidSyntax, tok.Pos.Offset, tok.Value, "invalid number %q", tok.Value)
		}
		return &NumberNode{Value: d}, nil
	case Annotation:
		p.tok.Next()
		if p.tok.Peek().Kind == AtomTok {
			atomNode, err := p.parseAtomToken()
			if err != nil {
				return nil, err
			}
			an := atomNode.(*AtomNode)
			original := "{" + tok.Value + "}" + an.Symbol
			an.Annotation = tok.Value
			p.note(tok.Pos.Offset, "moved annotation", original, an.Symbol+"{"+tok.Value+"}")
			return an, nil
		}
		if a, ok := p.cat.AtomByCode("["+tok.Value+"]", p.caseSensitive); ok {
			p.note(tok.Pos.Offset, "braces used for bracketed atom", "{"+tok.Value+"}", a.CSCode)
			return &AtomNode{Symbol: a.CSCode, CaseSens: p.caseSensitive, Offset: tok.Pos.Offset}, nil
		}
		return &AnnotationOnlyNode{Annotation: tok.Value}, nil
	case AtomTok:
		return p.parseAtomToken()
	case EOF:
		return nil, newError(ErrInvalidSyntax, tok.Pos.Offset, "", "unexpected end of input")
	default:
		return nil, newError(ErrInvalidSyntax, tok.Pos.Offset, tok.Value, "unexpected token %q", tok.Value)
	}
}

func (p *Parser) parseAtomToken() (Node, *Error) {
	tok := p.tok.Next()

	// Composite atom codes like "mm[Hg]" lex as two tokens (letters, then a
	// bracket). If the concatenation resolves as a catalog atom — directly
	// or via a metric prefix split — it is one atom, and that reading wins
	// over the bel/neper reference form below.
	if next := p.tok.Peek(); p.isBracketAtom(next) && atomResolvable(p.cat, tok.Value+next.Value, p.caseSensitive) {
		p.tok.Next()
		return &AtomNode{Symbol: tok.Value + next.Value, Annotation: next.Annotation, CaseSens: p.caseSensitive, Offset: tok.Pos.Offset}, nil
	}

	if (tok.Value == "B" || tok.Value == "Np") && p.isBracketAtom(p.tok.Peek()) {
		refTok := p.tok.Next()
		inner := refTok.Value[1 : len(refTok.Value)-1]
		refNode, err := p.parseSubExpr(inner, refTok.Pos.Offset)
		if err != nil {
			return nil, err
		}
		base := &AtomNode{Symbol: tok.Value, Annotation: tok.Annotation, CaseSens: p.caseSensitive, Offset: tok.Pos.Offset}
		return &BelReferenceNode{Base: base, Reference: refNode}, nil
	}

	if kind, rewrite := detectAtomCorrection(p.cat, tok.Value, p.caseSensitive); kind != noCorrection {
		switch kind {
		case correctionFullName:
			p.note(tok.Pos.Offset, "used unit name instead of code", tok.Value, rewrite)
		case correctionMissingBrackets:
			p.note(tok.Pos.Offset, "missing brackets around bracketed atom", tok.Value, rewrite)
		}
	}

	return &AtomNode{Symbol: tok.Value, Annotation: tok.Annotation, CaseSens: p.caseSensitive, Offset: tok.Pos.Offset}, nil
}

func (p *Parser) isBracketAtom(t Token) bool {
	return t.Kind == AtomTok && len(t.Value) >= 2 && t.Value[0] == '[' && t.Value[len(t.Value)-1] == ']'
}

// parseSubExpr re-tokenizes and parses a bracket's interior as an
// independent expression (used for "B[...]"/"Np[...]" references).
func (p *Parser) parseSubExpr(src string, baseOffset int) (Node, *Error) {
	tok, err := NewTokenizer(src)
	if err != nil {
		err.Offset += baseOffset
		return nil, err
	}
	sub := NewParser(tok, p.cat, p.caseSensitive)
	node, msgs, err := sub.Parse()
	if err != nil {
		err.Offset += baseOffset
		return nil, err
	}
	for _, m := range msgs {
		m.Offset += baseOffset
		p.messages = append(p.messages, m)
	}
	return node, nil
}

// atomResolvable reports whether symbol will resolve as an atom without any
// corrective rewrite: an exact code match, or a metric atom behind a
// longest-match prefix.
func atomResolvable(cat *Catalog, symbol string, caseSensitive bool) bool {
	if _, ok := cat.AtomByCode(symbol, caseSensitive); ok {
		return true
	}
	if _, remainder, ok := cat.prefixSplit(symbol, caseSensitive); ok {
		if a, ok := cat.AtomByCode(remainder, caseSensitive); ok && a.IsMetric {
			return true
		}
	}
	return false
}

// correctionKind classifies a tolerant rewrite detected while resolving an
// atom token, so the parser can record it as a corrective Message.
type correctionKind int

const (
	noCorrection correctionKind = iota
	correctionFullName
	correctionMissingBrackets
)

// detectAtomCorrection walks the same fallback order as resolveAtom far
// enough to tell whether the symbol will resolve via one of the tolerant
// rewrites rather than an exact or prefixed match, and what the rewritten
// form would look like.
func detectAtomCorrection(cat *Catalog, symbol string, caseSensitive bool) (correctionKind, string) {
	if atomResolvable(cat, symbol, caseSensitive) {
		return noCorrection, ""
	}
	if a, ok := cat.AtomByName(symbol); ok {
		return correctionFullName, a.CSCode
	}
	if a, ok := cat.AtomByCode("["+symbol+"]", caseSensitive); ok {
		return correctionMissingBrackets, a.CSCode
	}
	return noCorrection, ""
}

// resolveAtom resolves an atom token:
//  1. exact code lookup,
//  2. longest-matching prefix split against a metric atom,
//  3. corrective fallbacks (full name, missing brackets),
//  4. UnknownAtom.
func resolveAtom(cat *Catalog, symbol string, caseSensitive bool, offset int) (Unit, *Error) {
	if a, ok := cat.AtomByCode(symbol, caseSensitive); ok {
		return a.unitOf(), nil
	}

	if prefix, remainder, ok := cat.prefixSplit(symbol, caseSensitive); ok {
		if a, ok := cat.AtomByCode(remainder, caseSensitive); ok && a.IsMetric {
			u := a.unitOf()
			if u.IsSpecial() {
				if prefix.Base == 2 {
					return Unit{}, newError(ErrUnknownPrefix, offset, symbol, "binary prefix %q is not permitted on non-ratio unit %q", prefix.CSCode, a.CSCode)
				}
				u.CnvPfx *= prefix.Factor
			} else {
				u.Magnitude *= prefix.Factor
			}
			u.Name = prefix.Name + u.Name
			u.IsMetric = false
			return u, nil
		}
	}

	if a, ok := cat.AtomByName(symbol); ok {
		return a.unitOf(), nil
	}

	if a, ok := cat.AtomByCode("["+symbol+"]", caseSensitive); ok {
		return a.unitOf(), nil
	}

	return Unit{}, newError(ErrUnknownAtom, offset, symbol, "unknown unit atom %q", symbol)
}
