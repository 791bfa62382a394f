package format

import (
	"slices"

	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/style"
)

// Node is an element of a format [Tree]: a [*Text], a [*Substitution] or a
// [*Group]. The set of node types is closed.
type Node interface {
	node()
}

// Text is a run of literal label text.
type Text struct {
	value string
}

// Substitution is an expression whose result becomes label text.
type Substitution struct {
	expr *lang.Expr
}

// Group overrides style properties for its children.
type Group struct {
	overrides style.Defaults
	children  []Node
}

func (*Text) node()         {}
func (*Substitution) node() {}
func (*Group) node()        {}

// NewText returns a literal text node.
func NewText(s string) *Text { return &Text{value: s} }

// NewSubstitution returns a substitution of x.
func NewSubstitution(x *lang.Expr) *Substitution { return &Substitution{expr: x} }

// NewGroup returns a group applying overrides to children. The children
// slice is copied.
func NewGroup(overrides style.Defaults, children ...Node) *Group {
	return &Group{
		overrides: overrides.Clone(),
		children:  slices.Clone(children),
	}
}

// Value returns the literal text.
func (t *Text) Value() string { return t.value }

// Expr returns the substituted expression.
func (s *Substitution) Expr() *lang.Expr { return s.expr }

// Overrides returns a copy of the style overrides of the group.
func (g *Group) Overrides() style.Defaults { return g.overrides.Clone() }

// Children returns a copy of the child nodes of the group.
func (g *Group) Children() []Node { return slices.Clone(g.children) }

// Visitor handles each node type and produces an R.
type Visitor[R any] interface {
	Text(*Text) R
	Substitution(*Substitution) R
	Group(*Group) R
}

// Visit dispatches n to the visitor method matching its type.
func Visit[R any](n Node, v Visitor[R]) R {
	switch n := n.(type) {
	case *Text:
		return v.Text(n)
	case *Substitution:
		return v.Substitution(n)
	case *Group:
		return v.Group(n)
	}

	panic("format: unknown node type")
}

// equalNodes reports whether a and b are structurally identical.
func equalNodes(a, b []Node) bool {
	return slices.EqualFunc(a, b, equalNode)
}

func equalNode(a, b Node) bool {
	switch x := a.(type) {
	case *Text:
		y, ok := b.(*Text)

		return ok && x.value == y.value

	case *Substitution:
		y, ok := b.(*Substitution)

		return ok && x.expr.Equal(y.expr)

	case *Group:
		y, ok := b.(*Group)

		return ok && x.overrides.Equal(y.overrides) &&
			equalNodes(x.children, y.children)
	}

	return false
}
