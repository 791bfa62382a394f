package preview

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"go.uber.org/multierr"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/labelfmt/cli/cmd"
	"github.com/ardnew/labelfmt/format"
	"github.com/ardnew/labelfmt/lang"
	"github.com/ardnew/labelfmt/log"
	"github.com/ardnew/labelfmt/placement"
	"github.com/ardnew/labelfmt/style"
)

const (
	formatPrompt = "format ❯ "
	attrsPrompt  = " attrs ❯ "
	defaultWidth = 80
)

var (
	promptStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	blurredStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

const help = "tab complete/switch field · ↑/↓ history · enter keep · ctrl+e edit · esc quit"

// field identifies one of the two inputs.
type field int

const (
	fieldFormat field = iota
	fieldAttrs
)

// model is the Bubble Tea model of the preview editor.
type model struct {
	ctx      context.Context
	finder   placement.Finder
	opts     []format.Option
	inputs   [2]textinput.Model
	focus    field
	history  *History
	histIdx  int
	renderer *lipgloss.Renderer

	runs    []format.Run
	failure error // parse or attribute error; nothing is rendered
	partial error // render errors alongside runs

	matches   fuzzy.Matches
	selected  int
	wordStart int
	wordEnd   int

	width    int
	quitting bool
}

func newModel(
	ctx context.Context,
	f placement.Finder,
	src, attrs string,
	history *History,
	renderer *lipgloss.Renderer,
) model {
	newInput := func(prompt, value string) textinput.Model {
		ti := textinput.New()
		ti.Prompt = prompt
		ti.CharLimit = 4096
		ti.Width = defaultWidth - len(prompt)
		ti.SetValue(value)
		ti.CursorEnd()

		return ti
	}

	m := model{
		ctx:    ctx,
		finder: f,
		opts: []format.Option{
			format.WithFallback(style.Builtin()),
			format.WithLogger(log.Default()),
		},
		inputs: [2]textinput.Model{
			newInput(formatPrompt, src),
			newInput(attrsPrompt, attrs),
		},
		history:  history,
		histIdx:  history.Len(),
		renderer: renderer,
		selected: -1,
		width:    defaultWidth,
	}

	m.setFocus(fieldFormat)
	m.refresh()

	return m
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.inputs[fieldFormat].Width = msg.Width - len(formatPrompt) - 1
		m.inputs[fieldAttrs].Width = msg.Width - len(attrsPrompt) - 1

		return m, nil

	case editedMsg:
		if msg.err != nil {
			m.failure = msg.err

			return m, nil
		}

		m.inputs[fieldFormat].SetValue(msg.src)
		m.refresh()

		return m, nil
	}

	var c tea.Cmd

	m.inputs[m.focus], c = m.inputs[m.focus].Update(msg)

	return m, c
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyTab:
		if len(m.matches) > 0 {
			m.accept()

			return m, nil
		}

		m.setFocus(1 - m.focus)

		return m, nil

	case tea.KeyShiftTab:
		m.setFocus(1 - m.focus)

		return m, nil

	case tea.KeyDown:
		if len(m.matches) > 0 {
			m.selected = (m.selected + 1) % len(m.matches)

			return m, nil
		}

		if m.focus == fieldFormat {
			m.recall(+1)
		}

		return m, nil

	case tea.KeyUp:
		if len(m.matches) > 0 {
			m.selected = (m.selected - 1 + len(m.matches)) % len(m.matches)

			return m, nil
		}

		if m.focus == fieldFormat {
			m.recall(-1)
		}

		return m, nil

	case tea.KeyEnter:
		return m, m.keep()

	case tea.KeyCtrlE:
		return m, editFormat(m.inputs[fieldFormat].Value())
	}

	var c tea.Cmd

	m.inputs[m.focus], c = m.inputs[m.focus].Update(msg)
	m.refresh()

	return m, c
}

func (m *model) setFocus(f field) {
	m.inputs[m.focus].Blur()
	m.inputs[m.focus].PromptStyle = blurredStyle

	m.focus = f

	m.inputs[f].Focus()
	m.inputs[f].PromptStyle = promptStyle

	m.updateMatches()
}

// refresh re-parses the format, re-renders it and recomputes completions.
func (m *model) refresh() {
	m.runs, m.failure, m.partial = nil, nil, nil

	attrs, aerr := parseAttrs(m.inputs[fieldAttrs].Value())

	if err := m.finder.SetFormatExpression(m.inputs[fieldFormat].Value()); err != nil {
		m.failure = err
	} else if aerr != nil {
		m.failure = aerr
	} else {
		m.runs, m.partial = m.finder.Render(m.ctx, attrs, m.opts...)
	}

	m.updateMatches()
}

func (m *model) updateMatches() {
	in := m.inputs[m.focus]
	value := in.Value()

	word, start, end := wordBounds(value, in.Position())
	m.wordStart, m.wordEnd = start, end
	m.selected = 0

	attrs := assignedAttrs(m.inputs[fieldAttrs].Value())

	switch {
	case m.focus == fieldAttrs && start > 0 && value[start-1] == '=':
		m.matches = nil
	case m.focus == fieldAttrs:
		m.matches = complete(word, attrCandidates(m.finder.Tree(), attrs))
	default:
		m.matches = complete(word, formatCandidates(value, start, attrs))
	}
}

// accept replaces the word at the cursor with the selected match.
func (m *model) accept() {
	if m.selected < 0 || m.selected >= len(m.matches) {
		return
	}

	in := &m.inputs[m.focus]
	value := in.Value()
	repl := m.matches[m.selected].Str

	in.SetValue(value[:m.wordStart] + repl + value[m.wordEnd:])
	in.SetCursor(m.wordStart + len(repl))

	m.refresh()
	m.matches = nil
}

// recall replaces the format with a neighboring history entry.
func (m *model) recall(delta int) {
	i := m.histIdx + delta
	if i < 0 || i > m.history.Len() {
		return
	}

	m.histIdx = i

	src, ok := m.history.Get(i)
	if !ok {
		src = ""
	}

	m.inputs[fieldFormat].SetValue(src)
	m.inputs[fieldFormat].CursorEnd()
	m.refresh()
}

// keep records the current format in the history and prints the rendering
// above the editor.
func (m *model) keep() tea.Cmd {
	if m.failure != nil {
		return nil
	}

	src := m.inputs[fieldFormat].Value()
	if err := m.history.Add(src); err != nil {
		log.WarnContext(m.ctx, "history not saved", slog.Any("error", err))
	}

	m.histIdx = m.history.Len()

	return tea.Println(hintStyle.Render(m.finder.FormatExpression()) + "\n" + m.label())
}

// label renders the runs with terminal styles.
func (m model) label() string {
	var sb strings.Builder

	for _, run := range m.runs {
		sb.WriteString(cmd.RunStyle(m.renderer, run.Style).Render(run.Text))
	}

	return sb.String()
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.inputs[fieldFormat].View() + "\n")
	b.WriteString(m.inputs[fieldAttrs].View() + "\n")

	if bar := candidateBar(m.matches, m.selected, m.width); bar != "" {
		b.WriteString(bar + "\n")
	} else {
		b.WriteString(hintStyle.Render(help) + "\n")
	}

	b.WriteString("\n")

	if m.failure != nil {
		b.WriteString(errorStyle.Render(m.failure.Error()) + "\n")

		var perr *format.ParseError
		if errors.As(m.failure, &perr) {
			b.WriteString(hintStyle.Render(perr.Context()))
		}

		return b.String()
	}

	b.WriteString(m.label() + "\n")

	for _, err := range multierr.Errors(m.partial) {
		b.WriteString(errorStyle.Render(err.Error()) + "\n")
	}

	return b.String()
}

// parseAttrs parses whitespace-separated NAME=VALUE pairs. Values may be
// quoted to include spaces.
func parseAttrs(s string) (lang.Attributes, error) {
	return lang.ParseAttributes(splitFields(s))
}

// assignedAttrs parses the complete pairs of s, skipping a name still being
// typed.
func assignedAttrs(s string) lang.Attributes {
	pairs := slices.DeleteFunc(splitFields(s), func(f string) bool {
		return !strings.Contains(f, "=")
	})

	attrs, _ := lang.ParseAttributes(pairs)

	return attrs
}

func splitFields(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
	)

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}

			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}

	flush()

	return out
}
