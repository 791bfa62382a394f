package preview

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/labelfmt/placement"
)

func testModel(t *testing.T, src, attrs string) model {
	t.Helper()

	f, err := placement.New(string(placement.KindSimple))
	if err != nil {
		t.Fatalf("placement.New() error = %v", err)
	}

	return newModel(context.Background(), f, src, attrs, NewHistory(""),
		lipgloss.NewRenderer(&bytes.Buffer{}))
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()

	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Render(t *testing.T) {
	m := testModel(t, `[NAME] ([POP])`, `NAME=Oslo POP=700000`)

	if m.failure != nil {
		t.Fatalf("failure = %v", m.failure)
	}

	if got, want := m.label(), "Oslo (700000)"; got != want {
		t.Errorf("label() = %q, want %q", got, want)
	}

	if view := m.View(); !strings.Contains(view, "Oslo (700000)") {
		t.Errorf("View() missing rendered label:\n%s", view)
	}
}

func TestModel_QuotedAttribute(t *testing.T) {
	m := testModel(t, `[NAME]`, `NAME="New York"`)

	if got, want := m.label(), "New York"; got != want {
		t.Errorf("label() = %q, want %q", got, want)
	}
}

func TestModel_Typing(t *testing.T) {
	m := testModel(t, `[NAME]`, `NAME=Bergen`)

	m = send(t, m, typed("!"))

	if got, want := m.inputs[fieldFormat].Value(), `[NAME]!`; got != want {
		t.Fatalf("format = %q, want %q", got, want)
	}

	if got, want := m.label(), "Bergen!"; got != want {
		t.Errorf("label() = %q, want %q", got, want)
	}
}

func TestModel_ParseError(t *testing.T) {
	m := testModel(t, `[NAME`, `NAME=x`)

	if m.failure == nil {
		t.Fatal("failure = nil, want parse error")
	}

	if m.runs != nil {
		t.Errorf("runs = %v, want none", m.runs)
	}

	if view := m.View(); !strings.Contains(view, m.failure.Error()) {
		t.Errorf("View() missing error:\n%s", view)
	}
}

func TestModel_AttributeError(t *testing.T) {
	m := testModel(t, `[NAME]`, `NAME`)

	if m.failure == nil {
		t.Fatal("failure = nil, want attribute error")
	}
}

func TestModel_FocusSwitch(t *testing.T) {
	m := testModel(t, ``, ``)

	if m.focus != fieldFormat {
		t.Fatalf("focus = %d, want format", m.focus)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldAttrs {
		t.Fatalf("focus after tab = %d, want attrs", m.focus)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldFormat {
		t.Errorf("focus after shift+tab = %d, want format", m.focus)
	}
}

func TestModel_Completion(t *testing.T) {
	m := testModel(t, `hello [NAM`, `NAME=x`)

	if !slices.ContainsFunc(m.matches, func(mt fuzzy.Match) bool { return mt.Str == "NAME" }) {
		t.Fatalf("matches = %v, want NAME", m.matches)
	}

	m.selected = slices.IndexFunc(m.matches, func(mt fuzzy.Match) bool { return mt.Str == "NAME" })
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

	if got, want := m.inputs[fieldFormat].Value(), `hello [NAME`; got != want {
		t.Errorf("format = %q, want %q", got, want)
	}

	if m.focus != fieldFormat {
		t.Errorf("tab with matches moved focus to %d", m.focus)
	}
}

func TestModel_AttrCompletion(t *testing.T) {
	m := testModel(t, `[NAME] [RANK]`, `NAME=x`)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

	if m.focus != fieldAttrs {
		t.Fatalf("focus = %d, want attrs", m.focus)
	}

	m = send(t, m, typed(" R"))

	if len(m.matches) == 0 || m.matches[0].Str != "RANK" {
		t.Fatalf("matches = %v, want RANK", m.matches)
	}

	// No completion of attribute values.
	m = send(t, m, typed("ANK=N"))
	if len(m.matches) != 0 {
		t.Errorf("matches after '=' = %v, want none", m.matches)
	}
}

func TestModel_History(t *testing.T) {
	m := testModel(t, `[A]`, `A=1`)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.history.Entries(); !slices.Equal(got, []string{`[A]`}) {
		t.Fatalf("history = %v, want [[A]]", got)
	}

	m.inputs[fieldFormat].SetValue(`[A] !`)
	m.refresh()
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m.inputs[fieldFormat].SetValue(``)
	m.refresh()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got, want := m.inputs[fieldFormat].Value(), `[A] !`; got != want {
		t.Errorf("first recall = %q, want %q", got, want)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got, want := m.inputs[fieldFormat].Value(), `[A]`; got != want {
		t.Errorf("second recall = %q, want %q", got, want)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.inputs[fieldFormat].Value(); got != "" {
		t.Errorf("recall past newest = %q, want empty", got)
	}
}

func TestModel_KeepSkipsInvalid(t *testing.T) {
	m := testModel(t, `[A`, `A=1`)

	next, c := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if c != nil {
		t.Error("enter on invalid format returned a command")
	}

	if n := next.(model).history.Len(); n != 0 {
		t.Errorf("history length = %d, want 0", n)
	}
}

func TestModel_Edited(t *testing.T) {
	m := testModel(t, `[A]`, `A=1 B=2`)

	m = send(t, m, editedMsg{src: `[B]`})

	if got, want := m.label(), "2"; got != want {
		t.Errorf("label() = %q, want %q", got, want)
	}
}

func TestModel_Quit(t *testing.T) {
	m := testModel(t, `[A]`, ``)

	next, c := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if c == nil {
		t.Fatal("esc returned no command")
	}

	if _, ok := c().(tea.QuitMsg); !ok {
		t.Error("esc did not quit")
	}

	if view := next.View(); view != "" {
		t.Errorf("View() after quit = %q, want empty", view)
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{``, nil},
		{`A=1  B=2`, []string{`A=1`, `B=2`}},
		{`NAME="New York" POP=1`, []string{`NAME="New York"`, `POP=1`}},
		{`S='a b'`, []string{`S='a b'`}},
	}

	for _, tt := range tests {
		if got := splitFields(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("splitFields(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
