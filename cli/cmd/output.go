package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/pkg"
)

// Output names the encodings shared by the structured commands.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// encode writes v to w as JSON or YAML.
func encode(ctx context.Context, w io.Writer, output string, v any) error {
	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return pkg.ErrEncode.Wrap(err).With(slog.String("output", output))
		}

		return nil

	case OutputYAML:
		b, err := yaml.MarshalContext(ctx, v, yaml.Indent(2))
		if err != nil {
			return pkg.ErrEncode.Wrap(err).With(slog.String("output", output))
		}

		_, err = w.Write(b)

		return err
	}

	return pkg.ErrInvalidFormat.With(slog.String("output", output))
}

// reportParseError prints the source context of a parse error.
func reportParseError(s *Streams, err error) {
	var perr *format.ParseError
	if !errors.As(err, &perr) {
		return
	}

	if c := perr.Context(); c != "" {
		fmt.Fprint(s.Err, c)
	}
}
