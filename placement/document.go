package placement

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/pkg"
)

// Document is a style document: a list of named label configurations.
type Document struct {
	Labels []Label `json:"labels" yaml:"labels"`
}

// Label is the serialized configuration of one finder. Style maps property
// keys to values written as [style.Defaults.Set] accepts them.
type Label struct {
	Name      string            `json:"name"                yaml:"name"`
	Placement string            `json:"placement,omitempty" yaml:"placement,omitempty"`
	Positions string            `json:"positions,omitempty" yaml:"positions,omitempty"`
	Format    string            `json:"format,omitempty"    yaml:"format,omitempty"`
	Style     map[string]string `json:"style,omitempty"     yaml:"style,omitempty"`
}

// hclDocument is the HCL form of a Document:
//
//	label "city" {
//	  placement = "simple"
//	  format    = "[NAME]"
//	  style     = { face_name = "DejaVu Sans Book", text_size = 12 }
//	}
type hclDocument struct {
	Labels []hclLabel `hcl:"label,block"`
}

type hclLabel struct {
	Name      string            `hcl:"name,label"`
	Placement string            `hcl:"placement,optional"`
	Positions string            `hcl:"positions,optional"`
	Format    string            `hcl:"format,optional"`
	Style     map[string]string `hcl:"style,optional"`
}

// LoadDocument reads a style document from path. Files ending in .hcl are
// decoded as HCL and all others as YAML.
func LoadDocument(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkg.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return DecodeHCL(path, data)
	}

	return DecodeYAML(ctx, data)
}

// DecodeYAML decodes a YAML style document. Scalar style values of any
// type are accepted and converted to text.
func DecodeYAML(ctx context.Context, data []byte) (*Document, error) {
	var raw struct {
		Labels []struct {
			Name      string         `yaml:"name"`
			Placement string         `yaml:"placement"`
			Positions string         `yaml:"positions"`
			Format    string         `yaml:"format"`
			Style     map[string]any `yaml:"style"`
		} `yaml:"labels"`
	}

	if err := yaml.UnmarshalContext(ctx, data, &raw, yaml.Strict()); err != nil {
		return nil, pkg.ErrDecode.Wrap(err).With(slog.String("syntax", "yaml"))
	}

	doc := &Document{Labels: make([]Label, len(raw.Labels))}

	for i, l := range raw.Labels {
		doc.Labels[i] = Label{
			Name:      l.Name,
			Placement: l.Placement,
			Positions: l.Positions,
			Format:    l.Format,
		}

		if len(l.Style) > 0 {
			doc.Labels[i].Style = make(map[string]string, len(l.Style))
			for k, v := range l.Style {
				doc.Labels[i].Style[k] = lang.FormatValue(v)
			}
		}
	}

	return doc, doc.validate()
}

// DecodeHCL decodes an HCL style document. The filename is used in
// diagnostics only.
func DecodeHCL(filename string, data []byte) (*Document, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, pkg.ErrDecode.Wrap(diags).With(slog.String("syntax", "hcl"))
	}

	var raw hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, pkg.ErrDecode.Wrap(diags).With(slog.String("syntax", "hcl"))
	}

	doc := &Document{Labels: make([]Label, len(raw.Labels))}
	for i, l := range raw.Labels {
		doc.Labels[i] = Label(l)
	}

	return doc, doc.validate()
}

// EncodeYAML writes doc as YAML.
func (doc *Document) EncodeYAML(ctx context.Context, w io.Writer) error {
	data, err := yaml.MarshalContext(ctx, doc, yaml.Indent(2))
	if err != nil {
		return pkg.ErrEncode.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

func (doc *Document) validate() error {
	if len(doc.Labels) == 0 {
		return ErrNoLabels
	}

	seen := make(map[string]bool, len(doc.Labels))

	for _, l := range doc.Labels {
		if seen[l.Name] {
			return ErrDuplicateLabel.With(slog.String("label", l.Name))
		}

		seen[l.Name] = true
	}

	return nil
}

// Names returns the label names of doc in document order.
func (doc *Document) Names() []string {
	names := make([]string, len(doc.Labels))
	for i, l := range doc.Labels {
		names[i] = l.Name
	}

	return names
}

// Lookup returns the label named name. An empty name selects the first
// label.
func (doc *Document) Lookup(name string) (Label, error) {
	if name == "" && len(doc.Labels) > 0 {
		return doc.Labels[0], nil
	}

	i := slices.IndexFunc(doc.Labels, func(l Label) bool { return l.Name == name })
	if i < 0 {
		return Label{}, ErrLabelNotFound.With(
			slog.String("label", name),
			slog.String("labels", strings.Join(doc.Names(), ",")),
		)
	}

	return doc.Labels[i], nil
}

// Build returns a finder configured by l. Style keys are applied in key
// order, then the format expression is parsed.
func (l Label) Build() (Finder, error) {
	f, err := New(l.Placement)
	if err != nil {
		return nil, err
	}

	if l.Positions != "" {
		if err := f.Set(PositionsKey, l.Positions); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(l.Style))
	for k := range l.Style {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		if err := f.Set(k, l.Style[k]); err != nil {
			return nil, pkg.WrapError(err).With(slog.String("label", l.Name))
		}
	}

	if l.Format != "" {
		if err := f.SetFormatExpression(l.Format); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Describe returns the serialized configuration of f under name.
func Describe(name string, f Finder) Label {
	l := Label{
		Name:      name,
		Placement: string(f.Kind()),
		Format:    f.FormatExpression(),
	}

	if s, ok := f.(*Simple); ok {
		l.Positions = s.Positions()
	}

	d := f.Defaults()

	for _, key := range d.SetKeys() {
		e, _ := d.Get(key)

		if l.Style == nil {
			l.Style = make(map[string]string)
		}

		l.Style[string(key)] = e.Text()
	}

	return l
}

// Finders builds every label of doc.
func (doc *Document) Finders() (map[string]Finder, error) {
	out := make(map[string]Finder, len(doc.Labels))

	for _, l := range doc.Labels {
		f, err := l.Build()
		if err != nil {
			return nil, err
		}

		out[l.Name] = f
	}

	return out, nil
}
