package format

import (
	"slices"

	"github.com/ardnew/labelfmt/log"
	"github.com/ardnew/labelfmt/style"
)

// EmptyRuns selects which runs with empty text [Render] emits.
type EmptyRuns uint8

const (
	// KeepStyled emits an empty run only if its style differs from the
	// style of the previously emitted run.
	KeepStyled EmptyRuns = iota
	// KeepAll emits every empty run.
	KeepAll
	// SkipAll never emits empty runs.
	SkipAll
)

var emptyRunsNames = [...]string{"styled", "all", "none"}

// String returns the policy name.
func (e EmptyRuns) String() string {
	if int(e) < len(emptyRunsNames) {
		return emptyRunsNames[e]
	}

	return "unknown"
}

// ParseEmptyRuns returns the policy named s, or [KeepStyled] if s names no
// policy.
func ParseEmptyRuns(s string) EmptyRuns {
	for i, name := range emptyRunsNames {
		if name == s {
			return EmptyRuns(i)
		}
	}

	return KeepStyled
}

// EmptyRunsNames returns the names accepted by [ParseEmptyRuns].
func EmptyRunsNames() []string { return slices.Clone(emptyRunsNames[:]) }

// Option configures parsing and rendering.
type Option func(*config)

type config struct {
	logger    log.Logger
	fallback  style.Defaults
	emptyRuns EmptyRuns
}

func makeConfig(opts ...Option) config {
	var c config

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// WithLogger sets the logger receiving parse and render traces.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithFallback sets the style consulted after every other layer during
// rendering.
func WithFallback(d style.Defaults) Option {
	return func(c *config) { c.fallback = d.Clone() }
}

// WithEmptyRuns sets the empty run policy of rendering.
func WithEmptyRuns(policy EmptyRuns) Option {
	return func(c *config) { c.emptyRuns = policy }
}
