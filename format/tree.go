package format

import (
	"slices"
	"strings"

	"github.com/ardnew/labelfmt/style"
)

// Tree is a parsed format string. It is immutable: accessors return copies
// and no method modifies the receiver.
type Tree struct {
	source string
	nodes  []Node
	count  int
}

// NewTree returns a tree of the given top-level nodes.
func NewTree(nodes ...Node) *Tree {
	t := &Tree{nodes: slices.Clone(nodes)}
	t.source = t.String()
	t.count = countNodes(t.nodes)

	return t
}

func countNodes(nodes []Node) int {
	n := len(nodes)
	for _, node := range nodes {
		if g, ok := node.(*Group); ok {
			n += countNodes(g.children)
		}
	}

	return n
}

// Source returns the format string the tree was parsed from.
func (t *Tree) Source() string {
	if t == nil {
		return ""
	}

	return t.source
}

// Nodes returns a copy of the top-level nodes.
func (t *Tree) Nodes() []Node {
	if t == nil {
		return nil
	}

	return slices.Clone(t.nodes)
}

// Len returns the number of nodes in the tree at every depth.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}

	return t.count
}

// Equal reports whether t and o are structurally identical. Sources are not
// compared.
func (t *Tree) Equal(o *Tree) bool {
	return equalNodes(t.Nodes(), o.Nodes())
}

// Walk calls fn for every node in pre-order with the node's pre-order index
// and nesting depth. Returning false from fn skips the children of a group.
func (t *Tree) Walk(fn func(index int, n Node, depth int) bool) {
	if t == nil {
		return
	}

	index := 0
	walk(t.nodes, 0, &index, fn)
}

func walk(nodes []Node, depth int, index *int, fn func(int, Node, int) bool) {
	for _, n := range nodes {
		i := *index
		*index++

		descend := fn(i, n, depth)

		if g, ok := n.(*Group); ok {
			if descend {
				walk(g.children, depth+1, index, fn)
			} else {
				*index += countNodes(g.children)
			}
		}
	}
}

// Expressions returns the source of every expression in the tree in
// pre-order. Group overrides are listed before the group's children.
func (t *Tree) Expressions() []string {
	var out []string

	t.Walk(func(_ int, n Node, _ int) bool {
		switch n := n.(type) {
		case *Substitution:
			out = append(out, n.expr.Source())
		case *Group:
			out = append(out, n.overrides.Expressions()...)
		}

		return true
	})

	return out
}

// Attributes returns the attribute names referenced anywhere in the tree,
// without duplicates, ordered by first use in pre-order.
func (t *Tree) Attributes() []string {
	var out []string

	add := func(names []string) {
		for _, name := range names {
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}

	t.Walk(func(_ int, n Node, _ int) bool {
		switch n := n.(type) {
		case *Substitution:
			add(n.expr.Attributes())
		case *Group:
			add(n.overrides.Attributes())
		}

		return true
	})

	return out
}

// String serializes the tree. Parsing the result yields a tree equal to t.
func (t *Tree) String() string {
	if t == nil {
		return ""
	}

	var sb strings.Builder

	writeNodes(&sb, t.nodes)

	return sb.String()
}

// Format returns the serialized form of tree.
func Format(tree *Tree) string { return tree.String() }

func writeNodes(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		Visit[struct{}](n, writer{sb})
	}
}

type writer struct{ sb *strings.Builder }

func (w writer) Text(t *Text) struct{} {
	w.sb.WriteString(escapeText(t.value))

	return struct{}{}
}

func (w writer) Substitution(s *Substitution) struct{} {
	w.sb.WriteByte('[')
	w.sb.WriteString(s.expr.Source())
	w.sb.WriteByte(']')

	return struct{}{}
}

func (w writer) Group(g *Group) struct{} {
	w.sb.WriteString(groupOpen)

	for _, key := range g.overrides.SetKeys() {
		e, _ := g.overrides.Get(key)

		w.sb.WriteByte(' ')
		w.sb.WriteString(key.Attr())
		w.sb.WriteByte('=')

		switch e.Kind {
		case style.KindExpression:
			w.sb.WriteString(e.String())
		default:
			w.sb.WriteString(quoteValue(e.String()))
		}
	}

	w.sb.WriteByte('>')
	writeNodes(w.sb, g.children)
	w.sb.WriteString(groupClose)

	return struct{}{}
}

func escapeText(s string) string {
	if !strings.ContainsAny(s, `\[<`) {
		return s
	}

	var sb strings.Builder

	for _, r := range s {
		if r == '\\' || r == '[' || r == '<' {
			sb.WriteByte('\\')
		}

		sb.WriteRune(r)
	}

	return sb.String()
}

// quoteValue returns s unchanged if it reads back as a bare token, and
// double quoted otherwise.
func quoteValue(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\r\n\"'[]<>=\\/") {
		return s
	}

	var sb strings.Builder

	sb.WriteByte('"')

	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}

		sb.WriteRune(r)
	}

	sb.WriteByte('"')

	return sb.String()
}
