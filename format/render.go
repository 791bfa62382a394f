package format

import (
	"context"
	"log/slog"

	"go.uber.org/multierr"
	"golang.org/x/text/unicode/norm"

	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/style"
)

// Run is a span of label text drawn with one resolved style.
type Run struct {
	Text  string         `json:"text"  yaml:"text"`
	Style style.Resolved `json:"style" yaml:"style"`
	Node  int            `json:"node"  yaml:"node"`
}

// Render walks tree depth-first and returns one run for every text and
// substitution node. Properties resolve against the enclosing group
// overrides, innermost first, then outer, then the fallback set with
// [WithFallback].
//
// A node whose text or style fails to resolve yields no run. Rendering
// continues with the next node and the failures are returned combined,
// each tagged with the pre-order index of its node. Render stops early only
// when ctx is done.
func Render(
	ctx context.Context,
	tree *Tree,
	outer style.Defaults,
	attrs lang.Attributes,
	opts ...Option,
) ([]Run, error) {
	cfg := makeConfig(opts...)

	r := &renderer{
		ctx:   ctx,
		cfg:   cfg,
		attrs: attrs,
		stack: []style.Defaults{outer},
	}

	tree.Walk(r.visit)

	cfg.logger.TraceContext(ctx, "render complete",
		slog.Int("nodes", tree.Len()),
		slog.Int("runs", len(r.runs)),
		slog.Int("errors", len(multierr.Errors(r.errs))))

	return r.runs, r.errs
}

// renderer holds the state of one Render call.
type renderer struct {
	ctx   context.Context
	cfg   config
	attrs lang.Attributes
	stack []style.Defaults // effective defaults, innermost last
	depth []int            // tree depth of each pushed group
	runs  []Run
	errs  error
	done  bool
}

func (r *renderer) visit(index int, n Node, depth int) bool {
	if r.done {
		return false
	}

	if err := r.ctx.Err(); err != nil {
		r.errs = multierr.Append(r.errs, err)
		r.done = true

		return false
	}

	// Pop the groups that the walk has left.
	for len(r.depth) > 0 && r.depth[len(r.depth)-1] >= depth {
		r.depth = r.depth[:len(r.depth)-1]
		r.stack = r.stack[:len(r.stack)-1]
	}

	switch n := n.(type) {
	case *Group:
		r.stack = append(r.stack, n.overrides.Overlay(r.top()))
		r.depth = append(r.depth, depth)

	case *Text:
		r.emit(index, n.value, nil)

	case *Substitution:
		r.emit(index, "", n.expr)
	}

	return true
}

func (r *renderer) top() style.Defaults { return r.stack[len(r.stack)-1] }

// emit resolves the style and text of one node and appends its run.
func (r *renderer) emit(index int, text string, x *lang.Expr) {
	resolved, err := style.Resolve(r.attrs, r.top(), r.cfg.fallback)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			r.errs = multierr.Append(r.errs, style.AtNode(e, index))
		}

		return
	}

	if x != nil {
		value, err := x.Evaluate(r.attrs)
		if err != nil {
			r.errs = multierr.Append(r.errs, &style.EvaluationError{
				Node:   index,
				Source: x.Source(),
				Err:    err,
			})

			r.cfg.logger.DebugContext(r.ctx, "substitution failed",
				slog.Int("node", index),
				slog.String("source", x.Source()),
				slog.Any("error", err))

			return
		}

		text = lang.FormatValue(value)
	}

	text = norm.NFC.String(resolved.TextTransform.Apply(text))

	if text == "" && !r.keepEmpty(resolved) {
		return
	}

	r.runs = append(r.runs, Run{Text: text, Style: resolved, Node: index})
}

func (r *renderer) keepEmpty(s style.Resolved) bool {
	switch r.cfg.emptyRuns {
	case KeepAll:
		return true
	case SkipAll:
		return false
	default:
		return len(r.runs) == 0 || r.runs[len(r.runs)-1].Style != s
	}
}
