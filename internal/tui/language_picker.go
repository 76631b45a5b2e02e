package tui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/tui/theme"
)

// pickerListPercent is the share of the width given to the language list.
const pickerListPercent = 35

type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var pickerKeys = pickerKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// LanguagePickerModel lists the embedded locales next to a preview of the
// chat strings in the highlighted one.
type LanguagePickerModel struct {
	langs    []tripI18n.LangInfo
	cursor   int
	preview  viewport.Model
	width    int
	height   int
	ready    bool
	selected string
}

// NewLanguagePickerModel starts with the cursor on activeTag.
func NewLanguagePickerModel(activeTag string) LanguagePickerModel {
	langs := tripI18n.AvailableLanguages(activeTag)
	cursor := 0
	for i, l := range langs {
		if l.Active {
			cursor = i
		}
	}
	return LanguagePickerModel{langs: langs, cursor: cursor}
}

// Selected returns the chosen tag, or "" when the picker was cancelled.
func (m LanguagePickerModel) Selected() string { return m.selected }

func (m LanguagePickerModel) Init() tea.Cmd { return nil }

func (m LanguagePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.ready {
			m.preview = viewport.New()
			m.ready = true
		}
		m.preview.SetWidth(max(0, m.width-m.listWidth()-4))
		m.preview.SetHeight(max(0, m.height-4))
		m.updatePreview()
		return m, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, pickerKeys.Cancel):
			return m, tea.Quit
		case key.Matches(msg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.updatePreview()
			}
		case key.Matches(msg, pickerKeys.Down):
			if m.cursor < len(m.langs)-1 {
				m.cursor++
				m.updatePreview()
			}
		case key.Matches(msg, pickerKeys.Select):
			if len(m.langs) > 0 {
				m.selected = m.langs[m.cursor].Tag
			}
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m LanguagePickerModel) listWidth() int {
	return m.width * pickerListPercent / 100
}

func (m *LanguagePickerModel) updatePreview() {
	if !m.ready || len(m.langs) == 0 {
		return
	}
	st := GetStyles()
	values := tripI18n.PreviewStrings(m.langs[m.cursor].Tag)

	var b strings.Builder
	b.WriteString("\n")
	for _, kv := range tripI18n.PreviewKeys() {
		label := st.Muted.Render(fmt.Sprintf("  %-28s", kv[1]))
		b.WriteString(label + st.Title.Render(values[kv[0]]) + "\n")
	}
	m.preview.SetContent(b.String())
}

func (m LanguagePickerModel) View() tea.View {
	if !m.ready {
		return tea.NewView(tripI18n.T("common.loading", "Loading..."))
	}
	st := GetStyles()
	listWidth := m.listWidth()
	previewWidth := max(0, m.width-listWidth-4)
	paneHeight := max(0, m.height-3)

	header := st.Title.Render(tripI18n.T("tui.language.title", "Languages")) +
		strings.Repeat(" ", max(1, listWidth-8)) +
		st.Title.Render(tripI18n.T("tui.language.preview", "Preview"))

	list := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Current().GetBorderActive())).
		Width(listWidth).
		Height(paneHeight).
		Render(m.renderList())
	preview := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Current().GetBorderInactive())).
		Width(previewWidth).
		Height(paneHeight).
		Render(m.preview.View())

	footer := st.Help.Render(tripI18n.T("tui.language.help", "↑/↓: navigate  enter: select  esc: cancel"))
	v := tea.NewView(header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, list, " ", preview) + "\n" + footer)
	v.AltScreen = true
	return v
}

func (m LanguagePickerModel) renderList() string {
	st := GetStyles()
	var b strings.Builder
	for i, l := range m.langs {
		name := l.Name
		if l.Active {
			name += " *"
		}
		if i != m.cursor {
			b.WriteString("  " + st.Item.Render(name) + "\n")
			continue
		}
		b.WriteString("▸ " + st.ItemActive.Render(name) + "\n")
		desc := l.Tag
		if l.EnglishName != l.Name {
			desc += ", " + l.EnglishName
		}
		b.WriteString("    " + st.Muted.Render(desc) + "\n")
	}
	return b.String()
}

// RunLanguagePicker runs the picker on out and returns the selected tag,
// or "" if the user cancelled.
func RunLanguagePicker(activeTag string, out io.Writer) (string, error) {
	p := tea.NewProgram(NewLanguagePickerModel(activeTag), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(LanguagePickerModel); ok {
		return m.Selected(), nil
	}
	return "", nil
}
