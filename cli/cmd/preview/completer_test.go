package preview

import (
	"slices"
	"testing"

	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/lang"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "NAME", 4, "NAME", 0, 4},
		{"attribute pair", "NAME=x PO", 9, "PO", 7, 9},
		{"before equals", "NAME=x", 2, "NAME", 0, 4},
		{"in substitution", "hello [NA", 9, "NA", 7, 9},
		{"in tag", "<format halo-f", 14, "halo-f", 8, 14},
		{"after operator", "[A + B", 6, "B", 5, 6},
		{"at boundary", "[A + ", 5, "", 5, 5},
		{"cursor clamp", "AB", 9, "AB", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestAttrCandidates(t *testing.T) {
	tree := format.MustParse(`[NAME] <format size=[RANK * 2]>[POP]</format>`)

	got := attrCandidates(tree, lang.Attributes{"POP": int64(1)})
	if want := []string{"NAME", "RANK"}; !slices.Equal(got, want) {
		t.Errorf("attrCandidates() = %v, want %v", got, want)
	}
}

func TestFormatCandidates(t *testing.T) {
	assigned := lang.Attributes{"NAME": "x"}

	inside := formatCandidates("<format ", 8, assigned)
	if !slices.Contains(inside, "halo-fill") || !slices.Contains(inside, "NAME") {
		t.Errorf("tag candidates = %v", inside)
	}

	outside := formatCandidates("[", 1, assigned)
	if !slices.Contains(outside, "coalesce") || slices.Contains(outside, "halo-fill") {
		t.Errorf("expression candidates = %v", outside)
	}
}

func TestComplete(t *testing.T) {
	candidates := []string{"NAME", "NAME_EN", "RANK"}

	if got := complete("", candidates); got != nil {
		t.Errorf("empty word matched %v", got)
	}

	var got []string
	for _, m := range complete("NM", candidates) {
		got = append(got, m.Str)
	}

	slices.Sort(got)

	if want := []string{"NAME", "NAME_EN"}; !slices.Equal(got, want) {
		t.Errorf("complete(NM) = %v, want %v", got, want)
	}

	if got := complete("RANK", candidates); got != nil {
		t.Errorf("exact sole match kept: %v", got)
	}
}
