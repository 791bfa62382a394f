// Package profile starts optional runtime profiling of labelfmt commands
// using [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	labelfmt --pprof-mode cpu render -e 'hello [NAME]' NAME=world
//	go tool pprof -http=: ~/.cache/labelfmt/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Profiler.Start] returns a no-op, so
// callers never need build constraints of their own.
//
// Builds with the tag also register the [net/http/pprof] handlers, which
// the command line serves when started with --pprof-addr.
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
