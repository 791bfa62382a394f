package placement

import (
	"context"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/lang"
)

// Dummy is a finder with a single centered candidate.
type Dummy struct {
	core
}

// NewDummy returns an unconfigured dummy finder.
func NewDummy() *Dummy { return &Dummy{} }

// Kind returns [KindDummy].
func (d *Dummy) Kind() Kind { return KindDummy }

// Candidates returns the single centered candidate.
func (d *Dummy) Candidates() []Candidate {
	return []Candidate{{Direction: Center, Defaults: d.defaults.Clone()}}
}

// Render renders the format tree for one feature.
func (d *Dummy) Render(
	ctx context.Context,
	attrs lang.Attributes,
	opts ...format.Option,
) ([]format.Run, error) {
	return d.render(ctx, d.defaults, attrs, opts...)
}
