package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/labelfmt/log"
	"github.com/ardnew/labelfmt/pkg"
)

// resolve returns a [kong.ConfigurationLoader] for YAML config files.
//
// Nested mappings are joined into flag names with hyphens, so both of the
// following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// A mapping named after a command applies only to that command's flags:
//
//	render:
//	  output: plain
//
// Underscores may be used in place of hyphens. Command-line flags override
// config file values. A file that cannot be parsed is ignored with a
// warning.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err)
		}

		var raw map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
			log.WarnContext(ctx, "config ignored",
				slog.Any("error", pkg.ErrDecode.Wrap(err)))

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", raw)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	var names []string

	if parent != nil && parent.Command != nil {
		names = append(names, parent.Command.Name+"-"+flag.Name)
	}

	names = append(names, flag.Name)

	for _, name := range names {
		if value, ok := c[name]; ok {
			return value, nil
		}

		if value, ok := c[strings.ReplaceAll(name, "-", "_")]; ok {
			return value, nil
		}
	}

	return nil, nil
}

func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = scalar(value)
	}
}

// scalar converts numbers to the strings Kong parses flag values from.
func scalar(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	}

	return v
}
