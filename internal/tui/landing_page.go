package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/list"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/router"
	"github.com/wethinkt/go-tripchat/internal/session"
	"github.com/wethinkt/go-tripchat/internal/threads"
)

type threadsLoadedMsg struct {
	threads []mastra.Thread
	err     error
}

type threadDeletedMsg struct {
	thread mastra.Thread
	err    error
}

// threadItem implements list.Item for a thread.
type threadItem struct {
	thread mastra.Thread
}

func (i threadItem) Title() string {
	if i.thread.Title != "" {
		return i.thread.Title
	}
	return tripI18n.T("tui.landing.untitled", "Untitled conversation")
}
func (i threadItem) Description() string { return i.thread.ID }
func (i threadItem) FilterValue() string { return i.Title() }

// threadDelegate renders one thread per line with its age on the right.
type threadDelegate struct {
	focused *bool
}

func (d threadDelegate) Height() int                             { return 1 }
func (d threadDelegate) Spacing() int                            { return 0 }
func (d threadDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d threadDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(threadItem)
	if !ok {
		return
	}
	s := GetStyles()
	age := tripI18n.RelativeTimeShort(ti.thread.UpdatedAt)
	avail := max(10, m.Width()-lipgloss.Width(age)-4)
	title := ansi.Truncate(ti.Title(), avail, "…")
	gap := max(1, m.Width()-lipgloss.Width(title)-lipgloss.Width(age)-4)
	line := title + strings.Repeat(" ", gap) + s.Muted.Render(age)

	if index == m.Index() && d.focused != nil && *d.focused {
		fmt.Fprint(w, s.ItemActive.Render(line))
		return
	}
	fmt.Fprint(w, s.Item.Render(line))
}

type landingFocus int

const (
	focusInput landingFocus = iota
	focusSuggestions
	focusThreads
)

// LandingPageModel starts new conversations and lists existing ones.
type LandingPageModel struct {
	svc     *Services
	landing *session.Landing
	deleter *threads.Deleter

	width, height int
	input         textinput.Model
	list          list.Model
	listFocused   *bool
	focus         landingFocus
	suggestion    int
	keys          landingKeyMap

	loaded  bool
	loadErr error
	pending *mastra.Thread // awaiting delete confirmation
	notice  string
}

// NewLandingPageModel creates the landing page. It mints the id of the next
// thread.
func NewLandingPageModel(svc *Services) *LandingPageModel {
	ti := textinput.New()
	ti.Placeholder = tripI18n.T("tui.chat.placeholder", "Ask about travel destinations...")
	ti.Prompt = "› "
	ti.Focus()

	focused := false
	l := list.New(nil, threadDelegate{focused: &focused}, 0, 0)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.Styles.NoItems = GetStyles().Muted.PaddingLeft(2)

	return &LandingPageModel{
		svc:         svc,
		landing:     session.NewLanding(svc.Suggestions),
		deleter:     threads.NewDeleter(svc.Remote, svc.Cache, svc.Identity),
		input:       ti,
		list:        l,
		listFocused: &focused,
		keys:        defaultLandingKeyMap(),
	}
}

// Title is shown in the shell header.
func (m *LandingPageModel) Title() string {
	return tripI18n.T("tui.landing.title", "Home")
}

// ThreadID is the id the next conversation will be created under.
func (m *LandingPageModel) ThreadID() string {
	return m.landing.ThreadID()
}

func (m *LandingPageModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchThreads())
}

func (m *LandingPageModel) fetchThreads() tea.Cmd {
	q := threads.ThreadsQuery(m.svc.Remote, m.svc.Identity)
	cache := m.svc.Cache
	return func() tea.Msg {
		list, err := query.Fetch(context.Background(), cache, q)
		return threadsLoadedMsg{threads: list, err: err}
	}
}

func (m *LandingPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case threadsLoadedMsg:
		m.loaded = true
		m.loadErr = msg.err
		if msg.err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.threads))
		for i, t := range msg.threads {
			items[i] = threadItem{thread: t}
		}
		cmd := m.list.SetItems(items)
		if len(items) == 0 && m.focus == focusThreads {
			m.setFocus(focusInput)
		}
		m.layout()
		return m, cmd

	case ThreadsChangedMsg, pageRevealedMsg:
		return m, m.fetchThreads()

	case threadDeletedMsg:
		s := GetStyles()
		if msg.err != nil {
			m.notice = s.Failed.Render(tripI18n.Tf("tui.landing.deleteFailed", "Could not delete thread: %v", msg.err))
		} else {
			m.notice = s.Success.Render(tripI18n.Tf("tui.landing.deleted", "Deleted %q", threadItem{msg.thread}.Title()))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LandingPageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		switch {
		case key.Matches(msg, m.keys.Yes):
			t := *m.pending
			m.pending = nil
			return m, m.delete(t)
		case key.Matches(msg, m.keys.No):
			m.pending = nil
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Focus) {
		m.cycleFocus(msg.String() == "shift+tab")
		return m, nil
	}

	switch m.focus {
	case focusSuggestions:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.suggestion = max(0, m.suggestion-1)
		case key.Matches(msg, m.keys.Down):
			m.suggestion = min(len(m.landing.Suggestions())-1, m.suggestion+1)
		case key.Matches(msg, m.keys.Submit):
			if nav, ok := m.landing.Suggest(m.suggestion); ok {
				return m, navigate(nav)
			}
		case key.Matches(msg, m.keys.Back):
			m.setFocus(focusInput)
		}
		return m, nil

	case focusThreads:
		switch {
		case key.Matches(msg, m.keys.Submit):
			if item, ok := m.list.SelectedItem().(threadItem); ok {
				return m, navigate(router.Navigation{To: router.Chat(item.thread.ID)})
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if item, ok := m.list.SelectedItem().(threadItem); ok {
				t := item.thread
				m.pending = &t
				m.notice = ""
			}
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.setFocus(focusInput)
			return m, nil
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		if nav, ok := m.landing.Submit(m.input.Value()); ok {
			return m, navigate(nav)
		}
		return m, nil
	case key.Matches(msg, m.keys.Back):
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LandingPageModel) delete(t mastra.Thread) tea.Cmd {
	deleter := m.deleter
	return func() tea.Msg {
		err := deleter.Delete(context.Background(), t.ID)
		return threadDeletedMsg{thread: t, err: err}
	}
}

func (m *LandingPageModel) cycleFocus(reverse bool) {
	order := []landingFocus{focusInput, focusSuggestions}
	if len(m.list.Items()) > 0 {
		order = append(order, focusThreads)
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
		}
	}
	if reverse {
		idx = (idx - 1 + len(order)) % len(order)
	} else {
		idx = (idx + 1) % len(order)
	}
	m.setFocus(order[idx])
}

func (m *LandingPageModel) setFocus(f landingFocus) {
	m.focus = f
	*m.listFocused = f == focusThreads
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// landingHeaderLines counts the lines above the thread list: title,
// subtitle, blank, input box, suggestions section and the threads heading.
func (m *LandingPageModel) landingHeaderLines() int {
	return 2 + 1 + 3 + 2 + len(m.landing.Suggestions()) + 2
}

func (m *LandingPageModel) layout() {
	w := max(20, m.width-4)
	m.input.SetWidth(max(10, w-6))
	listHeight := max(1, m.height-m.landingHeaderLines()-3)
	m.list.SetSize(w, min(listHeight, max(1, len(m.list.Items()))))
}

func (m *LandingPageModel) View() tea.View {
	s := GetStyles()
	w := max(20, m.width-4)

	box := s.InputInactive
	if m.focus == focusInput {
		box = s.InputActive
	}

	var sugg []string
	for i, text := range m.landing.Suggestions() {
		line := fmt.Sprintf("%d. %s", i+1, text)
		if m.focus == focusSuggestions && i == m.suggestion {
			sugg = append(sugg, s.ItemActive.Render(line))
		} else {
			sugg = append(sugg, s.Item.Render(line))
		}
	}

	var threadList string
	switch {
	case !m.loaded:
		threadList = s.Muted.PaddingLeft(2).Render(tripI18n.T("common.loading", "Loading..."))
	case m.loadErr != nil:
		threadList = s.Failed.PaddingLeft(2).Render(tripI18n.Tf("tui.landing.loadError", "Could not load conversations: %v", m.loadErr))
	case len(m.list.Items()) == 0:
		threadList = s.Muted.PaddingLeft(2).Render(tripI18n.T("tui.landing.noThreads", "No conversations yet"))
	default:
		threadList = m.list.View()
	}

	footer := m.notice
	if m.pending != nil {
		footer = s.ConfirmPrompt.Render(tripI18n.Tf("tui.landing.confirmDelete", "Delete %q? (y/n)", threadItem{*m.pending}.Title()))
	}

	help := s.Help.Render(strings.Join([]string{
		tripI18n.T("tui.landing.helpSend", "enter: start"),
		tripI18n.T("tui.landing.helpTab", "tab: suggestions/threads"),
		tripI18n.T("tui.landing.helpDelete", "d: delete"),
		tripI18n.T("tui.landing.helpQuit", "esc: quit"),
	}, "  "))

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(tripI18n.T("tui.chat.emptyTitle", "Travel Assistant")),
		s.Subtitle.Render(tripI18n.T("tui.chat.emptySubtitle", "Ask me about destinations, weather, and travel recommendations")),
		"",
		box.Width(w).Render(m.input.View()),
		s.Section.Render(tripI18n.T("tui.landing.suggestions", "Try asking")),
		strings.Join(sugg, "\n"),
		s.Section.Render(tripI18n.T("tui.landing.threads", "Recent conversations")),
		threadList,
		"",
		footer,
		help,
	)
	v := tea.NewView(lipgloss.NewStyle().Padding(0, 2).Render(content))
	v.AltScreen = true
	return v
}
