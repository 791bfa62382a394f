package cli

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/labelfmt/log"
)

// logLevel configures the default logger as a side effect of parsing, so
// that messages emitted while Kong parses use the requested level.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logFormat configures the default logger format as a side effect of parsing.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"${logLevels}"      help:"Set log level."`
	Format     logFormat `default:"${logFormat}" enum:"${logFormats}"     help:"Set log format."`
	TimeLayout string    `default:"rfc3339"      enum:"${logTimeLayouts}" help:"Set timestamp layout."     name:"time"`
	Caller     bool      `help:"Include the source location of each message." negatable:""`
	Pretty     bool      `default:"true"                                      help:"Colorize log output." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":       log.DefaultLevel.String(),
		"logLevels":      strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":      log.DefaultFormat.String(),
		"logFormats":     strings.Join(slices.Collect(log.Formats()), ","),
		"logTimeLayouts": strings.Join(log.TimeLayouts(), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies every parsed logging flag to the default logger.
func (c *logConfig) start(ctx context.Context, w io.Writer) {
	log.Config(
		log.WithOutput(w),
		log.WithLevel(log.ParseLevel(string(c.Level))),
		log.WithFormat(log.ParseFormat(string(c.Format))),
		log.WithTimeLayout(c.TimeLayout),
		log.WithCaller(c.Caller),
		log.WithPretty(c.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(c.Level)),
		slog.String("format", string(c.Format)),
		slog.String("time", c.TimeLayout),
		slog.Bool("caller", c.Caller),
		slog.Bool("pretty", c.Pretty))
}

// scan applies logging flags found in args before Kong parses them. Kong
// only reaches the flags after resolving commands, and the boolean flags
// have no parse hook of their own.
func (c *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		// next consumes the following argument as the flag's value.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		switch name {
		case "--log-level":
			_ = c.Level.UnmarshalText([]byte(next()))
		case "--log-format":
			_ = c.Format.UnmarshalText([]byte(next()))
		case "--log-caller", "--no-log-caller":
			c.Caller = flagValue(name, value, assigned)
			log.Config(log.WithCaller(c.Caller))
		case "--log-pretty", "--no-log-pretty":
			c.Pretty = flagValue(name, value, assigned)
			log.Config(log.WithPretty(c.Pretty))
		}
	}
}

// flagValue returns the value of a negatable boolean flag.
func flagValue(name, value string, assigned bool) bool {
	v := true

	if assigned {
		if b, err := strconv.ParseBool(value); err == nil {
			v = b
		}
	}

	if strings.HasPrefix(name, "--no-") {
		return !v
	}

	return v
}
