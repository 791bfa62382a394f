package placement

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/pkg"
	"github.com/ardnew/labelfmt/style"
)

const yamlDocument = `labels:
  - name: city
    placement: simple
    positions: N,S,12,10
    format: "<format size=14>[NAME]</format> ([POP])"
    style:
      face_name: DejaVu Sans Book
      fill: "#336699"
      halo_radius: 1.5
  - name: road
    format: "[REF]"
    style:
      text_transform: uppercase
      text_size: "[LANES * 2]"
`

const hclSource = `
label "city" {
  placement = "simple"
  positions = "N,S,12,10"
  format    = "<format size=14>[NAME]</format> ([POP])"
  style = {
    face_name   = "DejaVu Sans Book"
    fill        = "#336699"
    halo_radius = 1.5
  }
}

label "road" {
  format = "[REF]"
  style = {
    text_transform = "uppercase"
    text_size      = "[LANES * 2]"
  }
}
`

func checkDocument(t *testing.T, doc *Document) {
	t.Helper()

	if got := doc.Names(); !reflect.DeepEqual(got, []string{"city", "road"}) {
		t.Fatalf("Names() = %v, want [city road]", got)
	}

	finders, err := doc.Finders()
	if err != nil {
		t.Fatal(err)
	}

	city, ok := finders["city"].(*Simple)
	if !ok {
		t.Fatalf("city = %T, want *Simple", finders["city"])
	}

	if city.Positions() != "N,S,12,10" {
		t.Errorf("city positions = %q", city.Positions())
	}

	if face, _ := city.FaceName().Literal(); face != "DejaVu Sans Book" {
		t.Errorf("city face = %q", face)
	}

	if fill, _ := city.Fill().Literal(); fill != style.RGB(0x33, 0x66, 0x99) {
		t.Errorf("city fill = %v", fill)
	}

	if r, _ := city.HaloRadius().Literal(); r != 1.5 {
		t.Errorf("city halo radius = %v", r)
	}

	road := finders["road"]
	if road.Kind() != KindDummy {
		t.Errorf("road kind = %v, want dummy", road.Kind())
	}

	if x := road.TextSize().Expr(); x == nil || x.Source() != "LANES * 2" {
		t.Errorf("road text size = %v", style.Extract(road.TextSize()))
	}

	runs, err := road.Render(context.Background(), lang.Attributes{"REF": "a1", "LANES": 3},
		format.WithFallback(style.Builtin()))
	if err != nil {
		t.Fatal(err)
	}

	if runs[0].Text != "A1" || runs[0].Style.TextSize != 6 {
		t.Errorf("road run = %+v, want A1 at size 6", runs[0])
	}
}

func TestDecodeYAML(t *testing.T) {
	doc, err := DecodeYAML(context.Background(), []byte(yamlDocument))
	if err != nil {
		t.Fatal(err)
	}

	checkDocument(t, doc)
}

func TestDecodeHCL(t *testing.T) {
	doc, err := DecodeHCL("labels.hcl", []byte(hclSource))
	if err != nil {
		t.Fatal(err)
	}

	checkDocument(t, doc)
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"labels.yaml": yamlDocument,
		"labels.HCL":  hclSource,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatal(err)
			}

			doc, err := LoadDocument(context.Background(), path)
			if err != nil {
				t.Fatal(err)
			}

			checkDocument(t, doc)
		})
	}

	_, err := LoadDocument(context.Background(), filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("LoadDocument(missing) error = %v, want ErrReadInput", err)
	}
}

func TestDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"no labels", "labels: []\n", ErrNoLabels},
		{"duplicate", "labels:\n  - name: a\n  - name: a\n", ErrDuplicateLabel},
		{"unknown field", "labels:\n  - name: a\n    colour: red\n", pkg.ErrDecode},
		{"malformed", "labels: [\n", pkg.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeYAML(context.Background(), []byte(tt.yaml)); !errors.Is(err, tt.want) {
				t.Errorf("DecodeYAML() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := DecodeHCL("bad.hcl", []byte(`label {`)); !errors.Is(err, pkg.ErrDecode) {
		t.Errorf("DecodeHCL() error = %v, want ErrDecode", err)
	}

	if _, err := DecodeHCL("bad.hcl", []byte(`label "a" { colour = "red" }`)); !errors.Is(err, pkg.ErrDecode) {
		t.Errorf("DecodeHCL(unknown attribute) error = %v, want ErrDecode", err)
	}
}

func TestLabel_BuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		label Label
		want  error
	}{
		{"placement", Label{Placement: "shield"}, pkg.ErrUnknownPlacement},
		{"positions", Label{Placement: "simple", Positions: "X"}, pkg.ErrInvalidPositions},
		{"style key", Label{Style: map[string]string{"weight": "bold"}}, pkg.ErrUnknownProperty},
		{"style value", Label{Style: map[string]string{"halo_radius": "-1"}}, style.ErrInvalidLiteral},
		{"format", Label{Format: "[NAME"}, format.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.label.Build(); !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDescribe_RoundTrip(t *testing.T) {
	ctx := context.Background()

	doc, err := DecodeYAML(ctx, []byte(yamlDocument))
	if err != nil {
		t.Fatal(err)
	}

	finders, err := doc.Finders()
	if err != nil {
		t.Fatal(err)
	}

	described := &Document{}
	for _, name := range doc.Names() {
		described.Labels = append(described.Labels, Describe(name, finders[name]))
	}

	var buf bytes.Buffer
	if err := described.EncodeYAML(ctx, &buf); err != nil {
		t.Fatal(err)
	}

	again, err := DecodeYAML(ctx, buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeYAML(EncodeYAML()) error = %v\n%s", err, buf.String())
	}

	if !reflect.DeepEqual(again.Labels, described.Labels) {
		t.Errorf("round trip = %+v, want %+v", again.Labels, described.Labels)
	}

	rebuilt, err := again.Finders()
	if err != nil {
		t.Fatal(err)
	}

	for name, f := range finders {
		g := rebuilt[name]

		if !f.Defaults().Equal(g.Defaults()) {
			t.Errorf("%s defaults differ after round trip", name)
		}

		if !f.Tree().Equal(g.Tree()) {
			t.Errorf("%s tree differs after round trip", name)
		}
	}
}

func TestDescribe_BracketedLiteral(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"[Bold]", `\Sans`, " [Wide] "} {
		t.Run(name, func(t *testing.T) {
			f := NewDummy()
			f.SetFaceName(name)

			var buf bytes.Buffer

			doc := &Document{Labels: []Label{Describe("label", f)}}
			if err := doc.EncodeYAML(ctx, &buf); err != nil {
				t.Fatal(err)
			}

			again, err := DecodeYAML(ctx, buf.Bytes())
			if err != nil {
				t.Fatalf("DecodeYAML() error = %v\n%s", err, buf.String())
			}

			g, err := again.Labels[0].Build()
			if err != nil {
				t.Fatal(err)
			}

			if g.FaceName().Kind() != style.KindLiteral {
				t.Fatalf("face name kind = %v, want literal", g.FaceName().Kind())
			}

			if got, _ := g.FaceName().Literal(); got != name {
				t.Errorf("face name = %q, want %q", got, name)
			}
		})
	}
}

func TestDocument_Lookup(t *testing.T) {
	doc, _ := DecodeYAML(context.Background(), []byte(yamlDocument))

	if l, err := doc.Lookup(""); err != nil || l.Name != "city" {
		t.Errorf("Lookup(\"\") = %q, %v, want city", l.Name, err)
	}

	if l, err := doc.Lookup("road"); err != nil || l.Name != "road" {
		t.Errorf("Lookup(road) = %q, %v", l.Name, err)
	}

	if _, err := doc.Lookup("river"); !errors.Is(err, ErrLabelNotFound) {
		t.Errorf("Lookup(river) error = %v, want ErrLabelNotFound", err)
	}
}
