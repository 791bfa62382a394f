package preview

import (
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const defaultEditor = "vi"

// editedMsg carries the format expression returned by the external editor.
type editedMsg struct {
	src string
	err error
}

// editor returns the command line of the user's editor.
func editor() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if f := strings.Fields(os.Getenv(env)); len(f) > 0 {
			return f
		}
	}

	return []string{defaultEditor}
}

// editFormat opens src in the external editor and reports the edited text
// as an editedMsg once the editor exits.
func editFormat(src string) tea.Cmd {
	fail := func(err error) tea.Cmd {
		return func() tea.Msg { return editedMsg{err: err} }
	}

	f, err := os.CreateTemp("", "labelfmt-*.fmt")
	if err != nil {
		return fail(err)
	}

	path := f.Name()

	if _, err := f.WriteString(src + "\n"); err != nil {
		f.Close()
		os.Remove(path)

		return fail(err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)

		return fail(err)
	}

	argv := append(editor(), path)

	return tea.ExecProcess(exec.Command(argv[0], argv[1:]...), func(err error) tea.Msg {
		defer os.Remove(path)

		if err != nil {
			return editedMsg{err: err}
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return editedMsg{err: err}
		}

		return editedMsg{src: strings.TrimRight(string(b), "\r\n")}
	})
}
