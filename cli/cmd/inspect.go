package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/labelfmt/placement"
)

// Inspect prints the configuration of labels.
type Inspect struct {
	Input

	Get  []string `help:"Print only the named properties."                 placeholder:"KEY" short:"g"`
	Keys bool     `help:"List the property keys accepted by --get and --set."`
	All  bool     `help:"Describe every label of the style document."`
}

// Run executes the inspect command.
func (i *Inspect) Run(ctx context.Context, g *Globals, s *Streams) error {
	if i.All {
		return i.all(ctx, g, s)
	}

	f, name, err := g.Finder(ctx)
	if err != nil {
		return err
	}

	if src, ok, err := i.Source(s); err != nil {
		return err
	} else if ok {
		if err := f.SetFormatExpression(src); err != nil {
			reportParseError(s, err)

			return err
		}
	}

	switch {
	case i.Keys:
		for _, key := range f.Keys() {
			fmt.Fprintln(s.Out, key)
		}

		return nil

	case len(i.Get) > 0:
		for _, key := range i.Get {
			e, err := f.Get(key)
			if err != nil {
				return err
			}

			value := e.String()
			if e.IsUnset() {
				value = "<unset>"
			}

			fmt.Fprintf(s.Out, "%s: %s\n", key, value)
		}

		return nil
	}

	doc := placement.Document{Labels: []placement.Label{placement.Describe(name, f)}}

	return doc.EncodeYAML(ctx, s.Out)
}

func (i *Inspect) all(ctx context.Context, g *Globals, s *Streams) error {
	doc, err := g.Document(ctx)
	if err != nil {
		return err
	}

	out := placement.Document{Labels: make([]placement.Label, 0, len(doc.Labels))}

	for _, l := range doc.Labels {
		f, err := l.Build()
		if err != nil {
			return err
		}

		if err := g.apply(f); err != nil {
			return err
		}

		out.Labels = append(out.Labels, placement.Describe(l.Name, f))
	}

	return out.EncodeYAML(ctx, s.Out)
}
