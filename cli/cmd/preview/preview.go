package preview

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/labelfmt/cli/cmd"
	"github.com/ardnew/labelfmt/log"
	"github.com/ardnew/labelfmt/pkg"
)

// Preview edits a format expression interactively, re-rendering it for the
// given attributes on every keystroke.
type Preview struct {
	cmd.Input

	Attrs     []string `arg:""                                               help:"Initial feature attributes as NAME=VALUE." optional:""`
	NoHistory bool     `help:"Neither read nor write the expression history."`
}

// Run executes the preview command.
func (p *Preview) Run(ctx context.Context, g *cmd.Globals, s *cmd.Streams) error {
	f, name, err := g.Finder(ctx)
	if err != nil {
		return err
	}

	src, ok, err := p.Source(s)
	if err != nil {
		return err
	}

	if !ok {
		src = f.Tree().Source()
	}

	var path string
	if !p.NoHistory {
		path = filepath.Join(pkg.CacheDir(), historyFile)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "history not loaded",
			slog.String("path", path),
			slog.Any("error", err))
	}

	log.DebugContext(ctx, "preview start",
		slog.String("label", name),
		slog.Int("history", history.Len()))

	m := newModel(ctx, f, src, strings.Join(p.Attrs, " "), history, lipgloss.NewRenderer(s.Out))

	_, err = tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(s.In),
		tea.WithOutput(s.Out),
	).Run()

	return err
}
