package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/log"
	"github.com/ardnew/labelfmt/style"
)

// Parse validates a format expression and prints its structure.
type Parse struct {
	Input

	Output string `default:"text" enum:"text,tree,json,yaml" help:"Output: canonical text, indented tree, json, or yaml." short:"o"`
}

// Node is the serialized description of one format node.
type Node struct {
	Index      int               `json:"index"                yaml:"index"`
	Depth      int               `json:"depth"                yaml:"depth"`
	Kind       string            `json:"kind"                 yaml:"kind"`
	Text       string            `json:"text,omitempty"       yaml:"text,omitempty"`
	Expression string            `json:"expression,omitempty" yaml:"expression,omitempty"`
	Attributes []string          `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Overrides  map[string]string `json:"overrides,omitempty"  yaml:"overrides,omitempty"`
}

// Outline is the serialized description of a format tree.
type Outline struct {
	Source      string   `json:"source"                yaml:"source"`
	Canonical   string   `json:"canonical"             yaml:"canonical"`
	Expressions []string `json:"expressions,omitempty" yaml:"expressions,omitempty"`
	Nodes       []Node   `json:"nodes"                 yaml:"nodes"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context, g *Globals, s *Streams) error {
	src, ok, err := p.Source(s)
	if err != nil {
		return err
	}

	if !ok {
		f, _, ferr := g.Finder(ctx)
		if ferr != nil {
			return ferr
		}

		if f.Tree() == nil {
			return ErrNoFormat
		}

		src = f.Tree().Source()
	}

	tree, err := format.Parse(ctx, src, format.WithLogger(log.Default()))
	if err != nil {
		reportParseError(s, err)

		return err
	}

	switch p.Output {
	case OutputText:
		_, err = fmt.Fprintln(s.Out, tree.String())

		return err

	case "tree":
		for _, n := range Describe(tree).Nodes {
			fmt.Fprintln(s.Out, n.line())
		}

		return nil
	}

	return encode(ctx, s.Out, p.Output, Describe(tree))
}

// Describe returns the outline of tree.
func Describe(tree *format.Tree) Outline {
	o := Outline{
		Source:      tree.Source(),
		Canonical:   tree.String(),
		Expressions: tree.Expressions(),
		Nodes:       make([]Node, 0, tree.Len()),
	}

	tree.Walk(func(index int, n format.Node, depth int) bool {
		o.Nodes = append(o.Nodes, format.Visit[Node](n, describer{index, depth}))

		return true
	})

	return o
}

type describer struct{ index, depth int }

func (d describer) Text(t *format.Text) Node {
	return Node{Index: d.index, Depth: d.depth, Kind: "text", Text: t.Value()}
}

func (d describer) Substitution(s *format.Substitution) Node {
	return Node{
		Index:      d.index,
		Depth:      d.depth,
		Kind:       "substitution",
		Expression: s.Expr().Source(),
		Attributes: s.Expr().Attributes(),
	}
}

func (d describer) Group(g *format.Group) Node {
	n := Node{Index: d.index, Depth: d.depth, Kind: "group"}

	o := g.Overrides()
	for _, key := range o.SetKeys() {
		e, _ := o.Get(key)

		if n.Overrides == nil {
			n.Overrides = make(map[string]string)
		}

		n.Overrides[string(key)] = e.String()
	}

	return n
}

// line renders n as one line of the tree outline.
func (n Node) line() string {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("  ", n.Depth))
	fmt.Fprintf(&sb, "%d %s", n.Index, n.Kind)

	switch n.Kind {
	case "text":
		fmt.Fprintf(&sb, " %q", n.Text)

	case "substitution":
		sb.WriteString(" [" + n.Expression + "]")

		if len(n.Attributes) > 0 {
			sb.WriteString(" uses " + strings.Join(n.Attributes, ","))
		}

	case "group":
		for _, key := range style.Keys() {
			if v, ok := n.Overrides[string(key)]; ok {
				sb.WriteString(" " + string(key) + "=" + v)
			}
		}
	}

	return sb.String()
}

var _ format.Visitor[Node] = describer{}
