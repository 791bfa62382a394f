// Package cli contains the command line interface for labelfmt.
//
// # Commands
//
//   - parse: parse a format expression and print its tree
//   - render: render a format expression for feature attributes (default)
//   - inspect: show the properties of a label from a style document
//   - preview: edit a format expression interactively
//
// # Configuration
//
// Flags may also be set in $XDG_CONFIG_HOME/labelfmt/config.yaml. Nested
// mappings are joined with hyphens, and a mapping named after a command
// applies only to that command:
//
//	log:
//	  level: debug
//	style: ~/maps/labels.yaml
//	render:
//	  output: plain
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time: timestamp layout (rfc3339, kitchen, none, ...)
//   - --log-caller: include the source location
//   - --log-pretty: colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// (go build -tags pprof):
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, ...)
//   - --pprof-dir: profile output directory
//   - --pprof-addr: serve net/http/pprof while the command runs
//
// # Examples
//
//	labelfmt render -e '[NAME] <format size="8">[POP]</format>' NAME=Oslo POP=700000
//	labelfmt NAME=Oslo --style labels.yaml
//	labelfmt parse -e '[NAME]' --output yaml
//	labelfmt inspect --style labels.yaml --label city --keys
//	labelfmt preview --style labels.yaml NAME=Oslo
package cli
