package style

import (
	"errors"
	"testing"

	"github.com/ardnew/labelfmt/pkg"
)

func TestTextTransform_Apply(t *testing.T) {
	tests := []struct {
		transform TextTransform
		input     string
		want      string
	}{
		{TransformNone, "Main St", "Main St"},
		{TransformUppercase, "Main St", "MAIN ST"},
		{TransformUppercase, "straße", "STRASSE"},
		{TransformLowercase, "Main St", "main st"},
		{TransformCapitalize, "new york city", "New York City"},
		{TransformReverse, "abc", "cba"},
		{TransformReverse, "añb", "bña"},
	}

	for _, tt := range tests {
		t.Run(tt.transform.String()+"/"+tt.input, func(t *testing.T) {
			if got := tt.transform.Apply(tt.input); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTextTransform(t *testing.T) {
	for _, name := range TransformNames() {
		tr, err := ParseTextTransform(name)
		if err != nil {
			t.Fatalf("ParseTextTransform(%q) error = %v", name, err)
		}

		if tr.String() != name {
			t.Errorf("String() = %q, want %q", tr.String(), name)
		}
	}

	if tr, err := ParseTextTransform(" UPPERCASE "); err != nil || tr != TransformUppercase {
		t.Errorf("ParseTextTransform(UPPERCASE) = %v, %v", tr, err)
	}

	if _, err := ParseTextTransform("smallcaps"); !errors.Is(err, pkg.ErrInvalidTransform) {
		t.Errorf("ParseTextTransform(smallcaps) error = %v, want ErrInvalidTransform", err)
	}

	if _, err := ToTextTransform(3); !errors.Is(err, ErrConvert) {
		t.Errorf("ToTextTransform(3) error = %v, want ErrConvert", err)
	}
}
