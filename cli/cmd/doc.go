// Package cmd implements the labelfmt subcommands.
//
// Every command resolves a [placement.Finder] from the global flags: the
// label selected from a style document, or an ad hoc simple finder, with
// --set overrides applied on top. Commands write to the [Streams] bound by
// the command line so they can be exercised without a terminal.
package cmd
