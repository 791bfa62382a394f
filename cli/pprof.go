//go:build pprof

package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/labelfmt/log"
	"github.com/ardnew/labelfmt/pkg"
	"github.com/ardnew/labelfmt/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModes}" help:"Enable profiling."                          placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}" help:"Profile output directory."               type:"path"`
	Addr string `help:"Serve net/http/pprof on ADDR while the command runs." placeholder:"ADDR"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModes": strings.Join(profile.Modes(), ","),
		"pprofDir":   filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start starts the configured profiler and pprof server.
func (c pprofConfig) start(ctx context.Context) (stop func()) {
	var stops []func()

	if c.Addr != "" {
		srv := &http.Server{Addr: c.Addr, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WarnContext(ctx, "pprof server failed",
					slog.String("addr", c.Addr),
					slog.Any("error", err))
			}
		}()

		log.DebugContext(ctx, "pprof serve", slog.String("addr", c.Addr))

		stops = append(stops, func() { _ = srv.Close() })
	}

	p := profile.Make(
		profile.WithMode(c.Mode),
		profile.WithPath(c.Dir),
		profile.WithQuiet(true),
	)

	if p.Enabled() {
		if err := os.MkdirAll(c.Dir, 0o755); err != nil {
			log.WarnContext(ctx, "pprof disabled",
				slog.String("dir", c.Dir),
				slog.Any("error", err))
		} else {
			log.DebugContext(ctx, "pprof start",
				slog.String("mode", c.Mode),
				slog.String("dir", c.Dir))

			profiler := p.Start()

			stops = append(stops, func() {
				log.DebugContext(ctx, "pprof stop", slog.String("mode", c.Mode))
				profiler.Stop()
			})
		}
	}

	return func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}
}
