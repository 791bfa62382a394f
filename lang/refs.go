package lang

import "github.com/expr-lang/expr/ast"

// refCollector records the feature attributes an expression reads. It runs
// as an expr-lang patch visitor during compilation and never rewrites nodes.
type refCollector struct {
	seen  map[string]struct{}
	names []string
}

// Visit implements ast.Visitor.
func (c *refCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if !isBuiltin(n.Value) {
			c.add(n.Value)
		}

	case *ast.MemberNode:
		// feature.NAME and feature["NAME"]
		base, ok := n.Node.(*ast.IdentifierNode)
		if !ok || base.Value != builtinFeature {
			return
		}

		if s, ok := n.Property.(*ast.StringNode); ok {
			c.add(s.Value)
		}

	case *ast.CallNode:
		// attr("name") and has("name") refer to attributes by string.
		callee, ok := n.Callee.(*ast.IdentifierNode)
		if !ok || len(n.Arguments) != 1 {
			return
		}

		if callee.Value != builtinAttr && callee.Value != builtinHas {
			return
		}

		if s, ok := n.Arguments[0].(*ast.StringNode); ok {
			c.add(s.Value)
		}
	}
}

func (c *refCollector) add(name string) {
	if _, ok := c.seen[name]; ok {
		return
	}

	c.seen[name] = struct{}{}
	c.names = append(c.names, name)
}
