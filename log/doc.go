// Package log wraps [log/slog] with a small, immutable configuration layer
// and a colorized handler for terminals.
//
// A [Logger] is created with [Make] and functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("none"))
//	logger.Debug("parsed format", slog.Int("nodes", tree.Len()))
//
// Options never mutate a Logger. [Logger.Wrap] and [Logger.With] return
// modified copies, so a Logger may be shared freely between goroutines.
//
// The package-level functions ([Info], [Debug], ...) write through a default
// Logger that the command line reconfigures with [Config]. Functions without
// a context argument use [DefaultContextProvider].
//
// [LevelTrace] sits below [LevelDebug] and is used for per-node parser and
// renderer events.
//
// With [WithPretty] enabled, text records print unquoted values colored by
// kind and JSON records are indented one attribute per line. Colors are
// dropped when the output is not a terminal.
package log
