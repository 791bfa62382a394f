package lang

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{"empty", "", ErrEmptyExpression},
		{"blank", "   \t", ErrEmptyExpression},
		{"dangling operator", "POP +", ErrCompile},
		{"unbalanced", "(NAME", ErrCompile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.source)
			if !errors.Is(err, tt.want) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.source, err, tt.want)
			}
		})
	}
}

func TestCompile_Source(t *testing.T) {
	x := MustCompile("  POP * 2 ")
	if x.Source() != "POP * 2" {
		t.Errorf("Source() = %q, want %q", x.Source(), "POP * 2")
	}

	if x.String() != x.Source() {
		t.Errorf("String() = %q, want %q", x.String(), x.Source())
	}
}

func TestExpr_Attributes(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{"POP", []string{"POP"}},
		{`NAME + " (" + string(RANK) + ")"`, []string{"NAME", "RANK"}},
		{`attr("name:en") ?? NAME`, []string{"NAME", "name:en"}},
		{`has("ref") ? ref : ""`, []string{"ref"}},
		{`feature.height`, []string{"height"}},
		{`coalesce(a, b, a)`, []string{"a", "b"}},
		{`1 + 2`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := MustCompile(tt.source).Attributes()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Attributes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpr_Evaluate(t *testing.T) {
	attrs := Attributes{
		"POP":     int64(42),
		"NAME":    "Springfield",
		"RANK":    int64(3),
		"name:en": "Spring Field",
		"blank":   " ",
		"AREA":    12.5,
	}

	tests := []struct {
		source string
		want   string
	}{
		{"POP", "42"},
		{"POP * 2", "84"},
		{"AREA * 2", "25"},
		{`NAME + " (" + string(RANK) + ")"`, "Springfield (3)"},
		{`attr("name:en")`, "Spring Field"},
		{`attr("missing") ?? NAME`, "Springfield"},
		{`has("POP")`, "true"},
		{`has("missing")`, "false"},
		{`coalesce(blank, missing, NAME)`, "Springfield"},
		{`feature.NAME`, "Springfield"},
		{"MISSING", ""},
		{"upper(NAME)", "SPRINGFIELD"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := MustCompile(tt.source).Evaluate(attrs)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}

			if s := FormatValue(got); s != tt.want {
				t.Errorf("Evaluate() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestExpr_EvaluateError(t *testing.T) {
	x := MustCompile("int(NAME)")

	_, err := x.Evaluate(Attributes{"NAME": "abc"})
	if !errors.Is(err, ErrEvaluate) {
		t.Fatalf("Evaluate() error = %v, want %v", err, ErrEvaluate)
	}

	var nilExpr *Expr
	if _, err := nilExpr.Evaluate(nil); !errors.Is(err, ErrEmptyExpression) {
		t.Errorf("nil Evaluate() error = %v", err)
	}
}

func TestExpr_EvaluateNoCache(t *testing.T) {
	x := MustCompile("POP")

	for _, pop := range []int64{1, 2, 3} {
		got, err := x.Evaluate(Attributes{"POP": pop})
		if err != nil {
			t.Fatal(err)
		}

		if got != pop {
			t.Errorf("Evaluate() = %v, want %v", got, pop)
		}
	}
}

func TestExpr_EvaluateConcurrent(t *testing.T) {
	x := MustCompile(`NAME + "-" + string(ID)`)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func(id int64) {
			defer wg.Done()

			got, err := x.Evaluate(Attributes{"NAME": "n", "ID": id})
			if err != nil {
				t.Error(err)

				return
			}

			want := "n-" + FormatValue(id)
			if got != want {
				t.Errorf("Evaluate() = %v, want %v", got, want)
			}
		}(int64(i))
	}

	wg.Wait()
}

func TestExpr_Equal(t *testing.T) {
	a := MustCompile("POP")
	b := MustCompile(" POP ")
	c := MustCompile("NAME")

	var n *Expr

	if !a.Equal(b) {
		t.Error("expected equal expressions")
	}

	if a.Equal(c) {
		t.Error("expected different expressions")
	}

	if a.Equal(n) || !n.Equal(nil) {
		t.Error("unexpected nil comparison")
	}
}

func TestBuiltinNames(t *testing.T) {
	want := []string{"attr", "coalesce", "feature", "has"}
	if got := BuiltinNames(); !slices.Equal(got, want) {
		t.Errorf("BuiltinNames() = %v, want %v", got, want)
	}
}
