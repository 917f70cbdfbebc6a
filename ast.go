package ucum

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Node is a parsed UCUM expression fragment that evaluates to a Unit
// against a Catalog.
type Node interface {
	Eval(cat *Catalog) (Unit, error)
	String() string
}

// AtomNode is a single atom token, optionally carrying a trailing
// annotation.
type AtomNode struct {
	Symbol     string
	Annotation string
	CaseSens   bool
	Offset     int
}

// Eval resolves the atom, applying the atom-resolution order:
// exact code match, then prefix+metric-atom split, then the corrective
// fallbacks (full name, missing brackets), else UnknownAtom.
func (n *AtomNode) Eval(cat *Catalog) (Unit, error) {
	u, err := resolveAtom(cat, n.Symbol, n.CaseSens, n.Offset)
	if err != nil {
		return Unit{}, err
	}
	if n.Annotation != "" {
		u.Name = u.Name + "{" + n.Annotation + "}"
	}
	return u, nil
}

func (n *AtomNode) String() string {
	if n.Annotation != "" {
		return n.Symbol + "{" + n.Annotation + "}"
	}
	return n.Symbol
}

// AnnotationOnlyNode is a bare {...} annotation with no adjacent atom: it
// denotes the dimensionless unit 1, annotated.
type AnnotationOnlyNode struct {
	Annotation string
}

func (n *AnnotationOnlyNode) Eval(cat *Catalog) (Unit, error) {
	u := Unity
	u.Name = "1{" + n.Annotation + "}"
	return u, nil
}

func (n *AnnotationOnlyNode) String() string { return "{" + n.Annotation + "}" }

// NumberNode is a standalone numeric factor: a dimensionless Unit with
// the literal as its magnitude. The literal is held as a decimal.Decimal
// until evaluation so a long digit run does not round before it reaches
// the arithmetic engine.
type NumberNode struct {
	Value decimal.Decimal
}

func (n *NumberNode) Eval(cat *Catalog) (Unit, error) {
	return Scalar(n.Value.InexactFloat64()), nil
}

func (n *NumberNode) String() string { return n.Value.String() }

// BinaryNode is a '.' or '/' combination of two sub-expressions.
type BinaryNode struct {
	Op    TokenKind
	Left  Node
	Right Node
}

func (n *BinaryNode) Eval(cat *Catalog) (Unit, error) {
	left, err := n.Left.Eval(cat)
	if err != nil {
		return Unit{}, err
	}
	right, err := n.Right.Eval(cat)
	if err != nil {
		return Unit{}, err
	}
	switch n.Op {
	case Dot:
		return Mul(left, right)
	case Slash:
		return Div(left, right)
	default:
		return Unit{}, newError(ErrInvalidSyntax, 0, "", "unsupported operator %v", n.Op)
	}
}

func (n *BinaryNode) String() string {
	op := "."
	if n.Op == Slash {
		op = "/"
	}
	return fmt.Sprintf("(%s%s%s)", n.Left, op, n.Right)
}

// PowerNode applies an integer exponent to its base.
type PowerNode struct {
	Base Node
	Exp  int
}

func (n *PowerNode) Eval(cat *Catalog) (Unit, error) {
	base, err := n.Base.Eval(cat)
	if err != nil {
		return Unit{}, err
	}
	return Pow(base, n.Exp)
}

func (n *PowerNode) String() string { return fmt.Sprintf("%s%d", n.Base, n.Exp) }

// GroupNode is a parenthesized sub-expression.
type GroupNode struct {
	Inner Node
}

func (n *GroupNode) Eval(cat *Catalog) (Unit, error) { return n.Inner.Eval(cat) }

func (n *GroupNode) String() string { return fmt.Sprintf("(%s)", n.Inner) }

// LeadingInverseNode models a leading solidus, the leading-solidus
// production of the UCUM grammar: it inverts the first term only, and any
// operators that follow apply to that inverted term.
type LeadingInverseNode struct {
	Inner Node
}

func (n *LeadingInverseNode) Eval(cat *Catalog) (Unit, error) {
	inner, err := n.Inner.Eval(cat)
	if err != nil {
		return Unit{}, err
	}
	return Invert(inner)
}

func (n *LeadingInverseNode) String() string { return "/" + n.Inner.String() }

// BelReferenceNode models "B[...]" / "Np[...]": a logarithmic-level unit
// whose reference value is itself a parsed unit expression rather than a
// catalog constant. The reference unit's magnitude folds into the special
// unit's linear magnitude and its dimension is adopted in full; CnvPfx is
// left to carry prefix effects only, as it does for prefixed special
// atoms.
type BelReferenceNode struct {
	Base      *AtomNode // "B" or "Np"
	Reference Node
}

func (n *BelReferenceNode) Eval(cat *Catalog) (Unit, error) {
	base, err := n.Base.Eval(cat)
	if err != nil {
		return Unit{}, err
	}
	ref, err := n.Reference.Eval(cat)
	if err != nil {
		return Unit{}, err
	}
	if ref.IsSpecial() {
		return Unit{}, newError(ErrNonRatioOperation, n.Base.Offset, n.Base.Symbol, "bel/neper reference unit must be a ratio unit")
	}
	out := base
	out.Magnitude = base.Magnitude * ref.Magnitude
	out.Dimension = ref.Dimension
	out.Name = base.Name + "[" + ref.Name + "]"
	out.IsMetric = false
	return out, nil
}

func (n *BelReferenceNode) String() string { return n.Base.String() + "[" + n.Reference.String() + "]" }
