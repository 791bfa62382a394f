package style

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/pkg"
)

func TestDefaults_FreshIsUnset(t *testing.T) {
	var d Defaults

	for _, key := range Keys() {
		got, err := d.Get(key)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", key, err)
		}

		if !got.IsUnset() {
			t.Errorf("Get(%s) = %+v, want unset", key, got)
		}
	}

	if !d.IsZero() || len(d.SetKeys()) != 0 {
		t.Error("fresh Defaults reports set properties")
	}
}

func TestDefaults_SetGet(t *testing.T) {
	tests := []struct {
		key  Key
		text string
		kind Kind
		want string
	}{
		{KeyFaceName, "DejaVu Sans Bold", KindLiteral, "DejaVu Sans Bold"},
		{KeyFaceName, "[FONT]", KindExpression, "[FONT]"},
		{KeyTextSize, "12", KindLiteral, "12"},
		{KeyTextSize, "10.5", KindLiteral, "10.5"},
		{KeyTextSize, "[SIZE * 2]", KindExpression, "[SIZE * 2]"},
		{KeyFill, "red", KindLiteral, "#ff0000"},
		{KeyHaloFill, "#ffffff80", KindLiteral, "rgba(255,255,255,0.502)"},
		{KeyHaloRadius, "0", KindLiteral, "0"},
		{KeyHaloRadius, "1.5", KindLiteral, "1.5"},
		{KeyTextTransform, "uppercase", KindLiteral, "uppercase"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key)+"="+tt.text, func(t *testing.T) {
			var d Defaults

			if err := d.Set(tt.key, tt.text); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, err := d.Get(tt.key)
			if err != nil {
				t.Fatal(err)
			}

			if got.Kind != tt.kind || got.String() != tt.want {
				t.Errorf("Get() = %v %q, want %v %q", got.Kind, got.String(), tt.kind, tt.want)
			}

			if !slices.Equal(d.SetKeys(), []Key{tt.key}) {
				t.Errorf("SetKeys() = %v, want [%s]", d.SetKeys(), tt.key)
			}
		})
	}
}

func TestDefaults_SetEscapedLiteral(t *testing.T) {
	tests := []struct {
		text    string
		literal string
		display string
		written string
	}{
		{`\[Bold]`, "[Bold]", "[Bold]", `\[Bold]`},
		{`\\Sans`, `\Sans`, `\Sans`, `\\Sans`},
		{`\Plain`, "Plain", "Plain", "Plain"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var d Defaults

			if err := d.Set(KeyFaceName, tt.text); err != nil {
				t.Fatal(err)
			}

			if got, ok := d.FaceName.Literal(); !ok || got != tt.literal {
				t.Fatalf("FaceName = %q (literal %v), want %q", got, ok, tt.literal)
			}

			e, _ := d.Get(KeyFaceName)
			if e.String() != tt.display || e.Text() != tt.written {
				t.Errorf("String() = %q, Text() = %q, want %q, %q",
					e.String(), e.Text(), tt.display, tt.written)
			}
		})
	}

	var d Defaults
	if err := d.Set(KeyTextSize, "[RANK]"); err != nil {
		t.Fatal(err)
	}

	if e, _ := d.Get(KeyTextSize); e.Text() != "[RANK]" {
		t.Errorf("expression Text() = %q, want [RANK]", e.Text())
	}
}

func TestValidate_NonFinite(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if err := ValidateTextSize(v); !errors.Is(err, ErrInvalidLiteral) {
			t.Errorf("ValidateTextSize(%v) error = %v, want ErrInvalidLiteral", v, err)
		}

		if err := ValidateHaloRadius(v); !errors.Is(err, ErrInvalidLiteral) {
			t.Errorf("ValidateHaloRadius(%v) error = %v, want ErrInvalidLiteral", v, err)
		}
	}

	var d Defaults

	if err := d.SetTextSize(math.Inf(1)); !errors.Is(err, ErrInvalidLiteral) {
		t.Errorf("SetTextSize(+Inf) error = %v, want ErrInvalidLiteral", err)
	}

	if err := d.Set(KeyHaloRadius, "Inf"); err == nil {
		t.Error("Set(halo_radius, Inf) accepted")
	}

	if d.TextSize.IsSet() || d.HaloRadius.IsSet() {
		t.Error("non-finite literal was stored")
	}
}

func TestDefaults_SetInvalid(t *testing.T) {
	tests := []struct {
		key  Key
		text string
		want error
	}{
		{KeyHaloRadius, "-1", ErrInvalidLiteral},
		{KeyTextSize, "0", ErrInvalidLiteral},
		{KeyTextSize, "big", pkg.ErrInvalidNumber},
		{KeyFill, "nocolor", pkg.ErrInvalidColor},
		{KeyTextTransform, "wavy", pkg.ErrInvalidTransform},
		{KeyFaceName, "[ ]", lang.ErrEmptyExpression},
		{KeyFaceName, "[NAME +]", lang.ErrCompile},
		{Key("font_weight"), "bold", pkg.ErrUnknownProperty},
	}

	for _, tt := range tests {
		t.Run(string(tt.key)+"="+tt.text, func(t *testing.T) {
			d := Defaults{HaloRadius: Literal(2.0)}

			err := d.Set(tt.key, tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("Set() error = %v, want %v", err, tt.want)
			}

			if r, _ := d.HaloRadius.Literal(); r != 2 {
				t.Errorf("rejected Set modified halo radius to %v", r)
			}
		})
	}
}

func TestDefaults_SetHaloRadiusRejectsNegative(t *testing.T) {
	var d Defaults

	if err := d.SetHaloRadius(-1); !errors.Is(err, ErrInvalidLiteral) {
		t.Fatalf("SetHaloRadius(-1) error = %v, want ErrInvalidLiteral", err)
	}

	if d.HaloRadius.IsSet() {
		t.Error("rejected halo radius was stored")
	}

	if err := d.SetTextSize(-3); !errors.Is(err, ErrInvalidLiteral) {
		t.Errorf("SetTextSize(-3) error = %v, want ErrInvalidLiteral", err)
	}
}

func TestDefaults_CloneIsIndependent(t *testing.T) {
	a := Defaults{FaceName: Literal("Arial")}
	b := a.Clone()

	b.FaceName.SetLiteral("Verdana")

	if got, _ := a.FaceName.Literal(); got != "Arial" {
		t.Errorf("clone mutation leaked: %q", got)
	}

	if a.Equal(b) {
		t.Error("Equal() = true after divergence")
	}
}

func TestDefaults_Overlay(t *testing.T) {
	child := Defaults{TextSize: Literal(14.0)}
	parent := Defaults{TextSize: Literal(10.0), FaceName: Literal("Arial")}

	got := child.Overlay(parent)

	if v, _ := got.TextSize.Literal(); v != 14 {
		t.Errorf("TextSize = %v, want 14", v)
	}

	if v, _ := got.FaceName.Literal(); v != "Arial" {
		t.Errorf("FaceName = %q, want Arial", v)
	}

	if got.Fill.IsSet() {
		t.Error("Fill set by overlay of unset fields")
	}
}

func TestResolve(t *testing.T) {
	attrs := lang.Attributes{"SIZE": 12.0, "RADIUS": -1.0}

	t.Run("global default", func(t *testing.T) {
		fallback := Builtin()
		fallback.FaceName.SetLiteral("DejaVu Sans")

		got, err := Resolve(attrs, Defaults{}, fallback)
		if err != nil {
			t.Fatal(err)
		}

		if got.FaceName != "DejaVu Sans" {
			t.Errorf("FaceName = %q, want DejaVu Sans", got.FaceName)
		}
	})

	t.Run("first layer wins", func(t *testing.T) {
		label := Defaults{TextSize: Expression[float64](lang.MustCompile("SIZE"))}

		got, err := Resolve(attrs, label, Builtin())
		if err != nil {
			t.Fatal(err)
		}

		if got.TextSize != 12 {
			t.Errorf("TextSize = %v, want 12", got.TextSize)
		}
	})

	t.Run("unresolved", func(t *testing.T) {
		_, err := Resolve(attrs, Defaults{TextSize: Literal(1.0)})

		var ue *UnresolvedPropertyError
		if !errors.As(err, &ue) || !errors.Is(err, ErrUnresolved) {
			t.Fatalf("Resolve() error = %v, want UnresolvedPropertyError", err)
		}

		if ue.Property != KeyFaceName {
			t.Errorf("Property = %q, want %q", ue.Property, KeyFaceName)
		}
	})

	t.Run("text transform defaults to none", func(t *testing.T) {
		base := Builtin()
		base.TextTransform.Clear()

		got, err := Resolve(attrs, base)
		if err != nil || got.TextTransform != TransformNone {
			t.Errorf("TextTransform = %v, %v, want none", got.TextTransform, err)
		}
	})

	t.Run("invalid expression result", func(t *testing.T) {
		label := Defaults{HaloRadius: Expression[float64](lang.MustCompile("RADIUS"))}

		_, err := Resolve(attrs, label, Builtin())
		if !errors.Is(err, ErrEvaluate) || !errors.Is(err, ErrInvalidLiteral) {
			t.Fatalf("Resolve() error = %v, want ErrEvaluate wrapping ErrInvalidLiteral", err)
		}

		var ee *EvaluationError
		if errors.As(err, &ee) && ee.Property != KeyHaloRadius {
			t.Errorf("Property = %q, want %q", ee.Property, KeyHaloRadius)
		}
	})
}

func TestParseKey(t *testing.T) {
	for _, key := range Keys() {
		if got, err := ParseKey(string(key)); err != nil || got != key {
			t.Errorf("ParseKey(%q) = %q, %v", key, got, err)
		}

		if got, ok := KeyForAttr(key.Attr()); !ok || got != key {
			t.Errorf("KeyForAttr(%q) = %q, %v", key.Attr(), got, ok)
		}
	}

	if got, _ := ParseKey("halo-fill"); got != KeyHaloFill {
		t.Errorf("ParseKey(halo-fill) = %q", got)
	}

	if _, err := ParseKey("weight"); !errors.Is(err, pkg.ErrUnknownProperty) {
		t.Errorf("ParseKey(weight) error = %v", err)
	}
}

func TestDefaults_Expressions(t *testing.T) {
	var d Defaults

	_ = d.Set(KeyFill, "[COLOR]")
	_ = d.Set(KeyFaceName, "[FONT]")
	_ = d.Set(KeyTextSize, "9")

	if got := d.Expressions(); !slices.Equal(got, []string{"FONT", "COLOR"}) {
		t.Errorf("Expressions() = %v", got)
	}
}

func TestDefaults_Attributes(t *testing.T) {
	var d Defaults

	_ = d.Set(KeyFaceName, "[FONT]")
	_ = d.Set(KeyFill, `[has("COLOR") ? COLOR : FONT]`)
	_ = d.Set(KeyHaloRadius, "2")

	if got := d.Attributes(); !slices.Equal(got, []string{"FONT", "COLOR"}) {
		t.Errorf("Attributes() = %v, want [FONT COLOR]", got)
	}
}
