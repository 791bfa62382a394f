package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"go.uber.org/multierr"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/log"
	"github.com/ardnew/labelfmt/pkg"
	"github.com/ardnew/labelfmt/placement"
	"github.com/ardnew/labelfmt/style"
)

// Render renders a format expression for one or more features.
type Render struct {
	Input

	Attrs      []string `arg:""          help:"Feature attributes as NAME=VALUE."                                                           optional:""`
	Features   string   `help:"YAML file holding a list of feature attribute maps." placeholder:"FILE"                                  short:"F"   type:"existingfile"`
	Output     string   `default:"styled" enum:"styled,plain,json,yaml" help:"Output: styled terminal text, plain text, json, or yaml." short:"o"`
	EmptyRuns  string   `default:"styled" enum:"styled,all,none" help:"Which empty runs to keep: style-changing, all, or none."`
	Candidates bool     `help:"Render once per candidate placement."`
}

// Result is the rendering of one feature, for one candidate when requested.
type Result struct {
	Feature   int          `json:"feature"             yaml:"feature"`
	Direction string       `json:"direction,omitempty" yaml:"direction,omitempty"`
	Text      string       `json:"text"                yaml:"text"`
	Runs      []format.Run `json:"runs"                yaml:"runs"`
	Errors    []string     `json:"errors,omitempty"    yaml:"errors,omitempty"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context, g *Globals, s *Streams) error {
	f, _, err := g.Finder(ctx)
	if err != nil {
		return err
	}

	if err := r.Configure(f, s); err != nil {
		return err
	}

	features, err := r.features(ctx)
	if err != nil {
		return err
	}

	opts := []format.Option{
		format.WithFallback(style.Builtin()),
		format.WithEmptyRuns(format.ParseEmptyRuns(r.EmptyRuns)),
		format.WithLogger(log.Default()),
	}

	var (
		results []Result
		errs    error
	)

	for i, attrs := range features {
		for _, c := range r.candidates(f) {
			res := Result{Feature: i}

			var (
				runs []format.Run
				rerr error
			)

			if c == nil {
				runs, rerr = f.Render(ctx, attrs, opts...)
			} else {
				res.Direction = c.Direction.String()
				runs, rerr = c.Render(ctx, f.Tree(), attrs, opts...)
			}

			res.Runs = runs
			res.Text = text(runs)

			for _, e := range multierr.Errors(rerr) {
				res.Errors = append(res.Errors, e.Error())
			}

			errs = multierr.Append(errs, rerr)
			results = append(results, res)
		}
	}

	if err := r.write(ctx, s.Out, results); err != nil {
		return err
	}

	if errs != nil {
		return ErrRender.Wrap(errs).With(slog.Int("errors", len(multierr.Errors(errs))))
	}

	return nil
}

// candidates returns the candidates to render, or a single nil entry when
// the finder's own defaults are used.
func (r *Render) candidates(f placement.Finder) []*placement.Candidate {
	if !r.Candidates {
		return []*placement.Candidate{nil}
	}

	cs := f.Candidates()
	out := make([]*placement.Candidate, len(cs))

	for i := range cs {
		out[i] = &cs[i]
	}

	return out
}

// features returns the attribute sets to render. Command-line attributes
// override those read from --features.
func (r *Render) features(ctx context.Context) ([]lang.Attributes, error) {
	attrs, err := lang.ParseAttributes(r.Attrs)
	if err != nil {
		return nil, err
	}

	if r.Features == "" {
		return []lang.Attributes{attrs}, nil
	}

	data, err := os.ReadFile(r.Features)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err).With(slog.String("file", r.Features))
	}

	var raw []map[string]any
	if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
		return nil, pkg.ErrDecode.Wrap(err).With(slog.String("file", r.Features))
	}

	out := make([]lang.Attributes, len(raw))

	for i, m := range raw {
		a := lang.Attributes(m).Normalize()
		for k, v := range attrs {
			a[k] = v
		}

		out[i] = a
	}

	return out, nil
}

func (r *Render) write(ctx context.Context, w io.Writer, results []Result) error {
	switch r.Output {
	case OutputJSON, OutputYAML:
		return encode(ctx, w, r.Output, results)
	}

	styled := r.Output == "styled"
	re := lipgloss.NewRenderer(w)

	for _, res := range results {
		var line strings.Builder

		if res.Direction != "" {
			line.WriteString(res.Direction + "\t")
		}

		if !styled {
			line.WriteString(res.Text)
		} else {
			for _, run := range res.Runs {
				line.WriteString(RunStyle(re, run.Style).Render(run.Text))
			}
		}

		if _, err := fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}

	return nil
}

// RunStyle returns the terminal style approximating s: the fill as
// foreground, the halo fill as background when the halo is visible, and
// bold text for sizes above the builtin default.
func RunStyle(re *lipgloss.Renderer, s style.Resolved) lipgloss.Style {
	st := re.NewStyle()

	if s.Fill.A > 0 {
		st = st.Foreground(lipgloss.Color(s.Fill.Hex()))
	}

	if s.HaloRadius > 0 && s.HaloFill.A > 0 {
		st = st.Background(lipgloss.Color(s.HaloFill.Hex()))
	}

	if size, ok := style.Builtin().TextSize.Literal(); ok && s.TextSize > size {
		st = st.Bold(true)
	}

	return st
}

func text(runs []format.Run) string {
	var sb strings.Builder

	for _, run := range runs {
		sb.WriteString(run.Text)
	}

	return sb.String()
}
