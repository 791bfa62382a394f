package preview

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", historyFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []string{"[NAME]", "a\nb", `back\slash`, "[NAME]", "  "} {
		if err := h.Add(e); err != nil {
			t.Fatalf("Add(%q): %v", e, err)
		}
	}

	want := []string{"a\nb", `back\slash`, "[NAME]"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %q, want %q", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded = %q, want %q", got, want)
	}
}

func TestHistory_Get(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("one")
	_ = h.Add("two")
	_ = h.Add("two")

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	if e, ok := h.Get(1); !ok || e != "two" {
		t.Errorf("Get(1) = %q, %v", e, ok)
	}

	if _, ok := h.Get(2); ok {
		t.Error("Get(2) succeeded")
	}
}
