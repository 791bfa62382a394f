package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/labelfmt/cli/cmd"
	"github.com/ardnew/labelfmt/cli/cmd/preview"
	"github.com/ardnew/labelfmt/pkg"
)

// CLI is the top-level command-line interface for labelfmt.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Globals

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Parse   cmd.Parse       `cmd:"" help:"Parse a format expression and print its tree."`
	Inspect cmd.Inspect     `cmd:"" help:"Show the properties of a label."`
	Preview preview.Preview `cmd:"" help:"Edit a format expression interactively."`

	Render cmd.Render `cmd:"" default:"withargs" help:"Render a format expression for feature attributes."`
}

// Run executes the labelfmt CLI with the given context, streams and
// arguments. The exit function is called with the exit code when Kong
// terminates early, such as after printing help.
func Run(
	ctx context.Context,
	streams *cmd.Streams,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure logging before Kong reports anything.
	cli.Log.scan(args)

	vars := kong.Vars{"version": pkg.Version()}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(streams.Out, streams.Err),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), pkg.ConfigPath(pkg.ConfigFile)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx, streams.Err)

	// No-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli.Globals, streams)
}
