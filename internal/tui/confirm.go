// Package tui is the interactive terminal client: a landing page that starts
// or reopens threads and a chat page that streams the agent's answers.
package tui

import (
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
)

// ConfirmResult is the outcome of a confirmation dialog.
type ConfirmResult int

const (
	ConfirmYes ConfirmResult = iota
	ConfirmNo
	ConfirmCancelled
)

// ConfirmOptions configures Confirm.
type ConfirmOptions struct {
	Prompt      string
	Affirmative string // default "Yes", localized
	Negative    string // default "No", localized
	Default     bool   // true preselects Affirmative
	// Destructive renders the selected affirmative button in the error color.
	Destructive bool
	Output      io.Writer // default os.Stdout
	Input       io.Reader // default the terminal
}

// Confirm shows an inline yes/no dialog and blocks until it is answered.
// y/n and the first letter of each label answer directly; esc cancels.
func Confirm(opts ConfirmOptions) (ConfirmResult, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	progOpts := []tea.ProgramOption{tea.WithOutput(opts.Output)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}

	final, err := tea.NewProgram(newConfirmModel(opts), progOpts...).Run()
	if err != nil {
		return ConfirmCancelled, err
	}
	return final.(confirmModel).result, nil
}

type confirmKeyMap struct {
	Toggle key.Binding
	Submit key.Binding
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

// mnemonicKeys binds fallback plus the lower and upper case first letter of
// label.
func mnemonicKeys(fallback, label string) []string {
	keys := []string{fallback, strings.ToUpper(fallback)}
	if r, _ := utf8.DecodeRuneInString(label); r != utf8.RuneError && unicode.IsLetter(r) {
		lower := string(unicode.ToLower(r))
		if lower != fallback {
			keys = append(keys, lower, string(unicode.ToUpper(r)))
		}
	}
	return keys
}

func newConfirmKeyMap(affirmative, negative string) confirmKeyMap {
	yes := mnemonicKeys("y", affirmative)
	no := mnemonicKeys("n", negative)
	// Labels sharing a first letter would make the mnemonic ambiguous.
	if len(yes) > 2 && len(no) > 2 && yes[2] == no[2] {
		yes, no = yes[:2], no[:2]
	}
	return confirmKeyMap{
		Toggle: key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab", "shift+tab")),
		Submit: key.NewBinding(key.WithKeys("enter")),
		Yes:    key.NewBinding(key.WithKeys(yes...)),
		No:     key.NewBinding(key.WithKeys(no...)),
		Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c")),
	}
}

type confirmModel struct {
	opts      ConfirmOptions
	selection bool // true = affirmative
	result    ConfirmResult
	done      bool
	keys      confirmKeyMap
}

func newConfirmModel(opts ConfirmOptions) confirmModel {
	if opts.Affirmative == "" {
		opts.Affirmative = tripI18n.T("common.yes", "Yes")
	}
	if opts.Negative == "" {
		opts.Negative = tripI18n.T("common.no", "No")
	}
	return confirmModel{
		opts:      opts,
		selection: opts.Default,
		result:    ConfirmCancelled,
		keys:      newConfirmKeyMap(opts.Affirmative, opts.Negative),
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) answer(r ConfirmResult) (tea.Model, tea.Cmd) {
	m.result = r
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Cancel):
		return m.answer(ConfirmCancelled)
	case key.Matches(k, m.keys.Yes):
		return m.answer(ConfirmYes)
	case key.Matches(k, m.keys.No):
		return m.answer(ConfirmNo)
	case key.Matches(k, m.keys.Toggle):
		m.selection = !m.selection
	case key.Matches(k, m.keys.Submit):
		if m.selection {
			return m.answer(ConfirmYes)
		}
		return m.answer(ConfirmNo)
	}
	return m, nil
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	s := GetStyles()
	button := func(label string, selected, danger bool) string {
		label = " " + label + " "
		switch {
		case selected && danger:
			return s.ConfirmSelected.Background(s.Error.GetForeground()).Render(label)
		case selected:
			return s.ConfirmSelected.Render(label)
		}
		return s.ConfirmUnselected.Render(label)
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		button(m.opts.Affirmative, m.selection, m.opts.Destructive),
		"  ",
		button(m.opts.Negative, !m.selection, false),
	)
	return tea.NewView("\n" + s.ConfirmPrompt.Render(m.opts.Prompt) + "\n\n" + buttons + "\n")
}
