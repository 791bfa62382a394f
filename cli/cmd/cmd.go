package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/labelfmt/log"
	"github.com/ardnew/labelfmt/pkg"
	"github.com/ardnew/labelfmt/placement"
)

// Streams are the standard streams available to a command.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() *Streams {
	return &Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Globals are the flags shared by every command.
type Globals struct {
	Style string   `help:"Style document (.yaml, .yml or .hcl) defining labels." placeholder:"FILE" short:"s" type:"existingfile"`
	Label string   `help:"Label of the style document to use (default: first)."                     short:"l"`
	Set   []string `help:"Override a property as KEY=VALUE; [VALUE] is an expression."              placeholder:"KEY=VALUE" sep:"none"`
}

// Document loads the style document named by --style.
func (g *Globals) Document(ctx context.Context) (*placement.Document, error) {
	if g.Style == "" {
		return nil, ErrNoStyle
	}

	return placement.LoadDocument(ctx, g.Style)
}

// Finder returns the finder selected by the global flags and the name it is
// described under. Without a style document an unconfigured simple finder
// named "label" is returned.
func (g *Globals) Finder(ctx context.Context) (placement.Finder, string, error) {
	var (
		f    placement.Finder
		name = "label"
		err  error
	)

	if g.Style != "" {
		doc, derr := g.Document(ctx)
		if derr != nil {
			return nil, "", derr
		}

		l, lerr := doc.Lookup(g.Label)
		if lerr != nil {
			return nil, "", lerr
		}

		name = l.Name

		f, err = l.Build()
	} else {
		f, err = placement.New(string(placement.KindSimple))
	}

	if err != nil {
		return nil, "", err
	}

	if err := g.apply(f); err != nil {
		return nil, "", err
	}

	log.DebugContext(ctx, "finder ready",
		slog.String("label", name),
		slog.String("kind", string(f.Kind())),
		slog.Int("overrides", len(g.Set)))

	return f, name, nil
}

func (g *Globals) apply(f placement.Finder) error {
	for _, kv := range g.Set {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return ErrInvalidSet.With(slog.String("set", kv))
		}

		if err := f.Set(strings.TrimSpace(key), value); err != nil {
			return pkg.WrapError(err).With(slog.String("set", kv))
		}
	}

	return nil
}

// Input selects the format expression of a command.
type Input struct {
	Expr string `help:"Format expression, or '-' to read it from standard input." placeholder:"EXPR" short:"e"`
	File string `help:"Read the format expression from FILE."                      placeholder:"FILE" short:"f" type:"existingfile"`
}

// stdinSource is the --expr value that reads standard input.
const stdinSource = "-"

// Source returns the format expression given on the command line, and
// false when neither --expr nor --file was used.
func (in *Input) Source(s *Streams) (string, bool, error) {
	switch {
	case in.Expr == stdinSource:
		b, err := io.ReadAll(s.In)
		if err != nil {
			return "", false, pkg.ErrReadInput.Wrap(err)
		}

		return strings.TrimRight(string(b), "\r\n"), true, nil

	case in.Expr != "":
		return in.Expr, true, nil

	case in.File != "":
		b, err := os.ReadFile(in.File)
		if err != nil {
			return "", false, pkg.ErrReadInput.Wrap(err).With(slog.String("file", in.File))
		}

		return strings.TrimRight(string(b), "\r\n"), true, nil
	}

	return "", false, nil
}

// Configure replaces the format tree of f with the expression given on the
// command line, if any. It fails when f is left without a format.
func (in *Input) Configure(f placement.Finder, s *Streams) error {
	src, ok, err := in.Source(s)
	if err != nil {
		return err
	}

	if ok {
		if err := f.SetFormatExpression(src); err != nil {
			reportParseError(s, err)

			return err
		}
	}

	if f.Tree() == nil {
		return ErrNoFormat
	}

	return nil
}
