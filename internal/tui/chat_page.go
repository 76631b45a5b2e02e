package tui

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/clipboard"
	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/render"
	"github.com/wethinkt/go-tripchat/internal/router"
	"github.com/wethinkt/go-tripchat/internal/session"
	"github.com/wethinkt/go-tripchat/internal/threads"
	"github.com/wethinkt/go-tripchat/internal/tui/theme"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// chatLoadedMsg delivers the result of loading the thread.
type chatLoadedMsg struct {
	boot session.Bootstrap
	err  error
}

// streamStartedMsg is sent once the chat request is accepted.
type streamStartedMsg struct {
	owner  *ChatPageModel
	stream ChunkStream
	err    error
}

// streamChunkMsg delivers one chunk; the stream is passed back for the
// next read.
type streamChunkMsg struct {
	chunk  mastra.Chunk
	stream ChunkStream
}

// streamClosedMsg signals the end of a stream.
type streamClosedMsg struct {
	stream ChunkStream
	err    error
}

type chatTitleMsg struct {
	title string
}

type copiedMsg struct {
	method clipboard.Method
	err    error
}

// ChatPageModel is the conversation view of one thread.
type ChatPageModel struct {
	svc     *Services
	loc     router.Location
	initial string

	width, height int
	ready         bool
	loading       bool
	loadErr       error

	session  *session.Chat
	stream   ChunkStream
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keys     chatKeyMap
	expand   bool
	notice   string
}

// NewChatPageModel creates the page for loc. state carries the message a
// new thread starts with.
func NewChatPageModel(svc *Services, loc router.Location, state router.State) *ChatPageModel {
	t := theme.Current()
	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.GetAccent()))),
	)
	ti := textinput.New()
	ti.Placeholder = tripI18n.T("tui.chat.placeholder", "Ask about travel destinations...")
	ti.Prompt = "› "
	ti.Focus()

	return &ChatPageModel{
		svc:     svc,
		loc:     loc,
		initial: state.InitialMessage,
		loading: true,
		input:   ti,
		spinner: sp,
		keys:    defaultChatKeyMap(),
	}
}

// Title is shown in the shell header.
func (m *ChatPageModel) Title() string {
	if m.session != nil && m.session.Title() != "" {
		return m.session.Title()
	}
	if m.loc.New || (m.session != nil && len(m.session.Messages()) == 0) {
		return tripI18n.T("tui.chat.newTitle", "New conversation")
	}
	return tripI18n.T("tui.chat.untitled", "Conversation")
}

// Location returns the route the page is mounted at.
func (m *ChatPageModel) Location() router.Location {
	if m.session != nil {
		return m.session.Location()
	}
	return m.loc
}

func (m *ChatPageModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick, textinput.Blink)
}

func (m *ChatPageModel) load() tea.Cmd {
	loader := m.svc.loader()
	loc := m.loc
	return func() tea.Msg {
		boot, err := loader.Load(context.Background(), loc)
		return chatLoadedMsg{boot: boot, err: err}
	}
}

func (m *ChatPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case chatLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			tuilog.Log.Error("chat: load failed", "thread", m.loc.ThreadID, "error", msg.err)
			return m, nil
		}
		if msg.boot.Redirect {
			return m, navigate(router.Navigation{To: router.Landing, Replace: true})
		}
		m.session = session.NewChat(m.loc, msg.boot, m.svc.chatOptions())
		m.refresh()

		req, nav, ok := m.session.SendInitial(m.initial)
		if !ok {
			return m, nil
		}
		m.loc = nav.To
		m.refresh()
		return m, tea.Batch(navigate(nav), m.send(req))

	case streamStartedMsg:
		if msg.owner != m || m.session == nil {
			return m, nil
		}
		if msg.err != nil {
			m.session.Finish(msg.err)
			m.refresh()
			return m, nil
		}
		m.stream = msg.stream
		return m, waitForChunk(msg.stream)

	case streamChunkMsg:
		if msg.stream != m.stream {
			return m, nil
		}
		m.session.Apply(msg.chunk)
		m.refresh()
		return m, waitForChunk(msg.stream)

	case streamClosedMsg:
		if msg.stream != m.stream {
			return m, nil
		}
		m.stream = nil
		m.session.Finish(msg.err)
		m.refresh()
		return m, nil

	case ThreadsChangedMsg:
		if m.session == nil {
			return m, nil
		}
		return m, m.fetchTitle()

	case chatTitleMsg:
		if m.session != nil && msg.title != "" {
			m.session.SetTitle(msg.title)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = GetStyles().Failed.Render(tripI18n.Tf("tui.chat.copyFailed", "Copy failed: %v", msg.err))
		} else {
			m.notice = GetStyles().Success.Render(tripI18n.Tf("tui.chat.copied", "Copied to clipboard (%s)", msg.method))
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatPageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.Close()
		return m, func() tea.Msg { return PopPageMsg{} }
	}
	if m.session == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Copy):
		target, ok := render.CopyTarget(m.session.Messages(), m.session.Status())
		if !ok {
			return m, nil
		}
		return m, m.copy(render.MessageText(target))

	case key.Matches(msg, m.keys.ToggleReasoning):
		m.expand = !m.expand
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PgUp, m.keys.PgDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Send):
		m.session.SetInput(m.input.Value())
		req, ok := m.session.Submit()
		if !ok {
			return m, nil
		}
		m.input.Reset()
		m.notice = ""
		m.refresh()
		return m, m.send(req)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetInput(m.input.Value())
	return m, cmd
}

// Close abandons the open stream, if any.
func (m *ChatPageModel) Close() {
	if m.stream != nil {
		m.stream.Close()
		m.stream = nil
	}
}

func (m *ChatPageModel) send(req mastra.ChatRequest) tea.Cmd {
	send := m.svc.Send
	return func() tea.Msg {
		stream, err := send(context.Background(), req)
		return streamStartedMsg{owner: m, stream: stream, err: err}
	}
}

// waitForChunk returns a command that blocks until the next chunk arrives.
func waitForChunk(s ChunkStream) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-s.Chunks()
		if !ok {
			return streamClosedMsg{stream: s, err: s.Err()}
		}
		return streamChunkMsg{chunk: c, stream: s}
	}
}

func (m *ChatPageModel) fetchTitle() tea.Cmd {
	q := threads.ThreadsQuery(m.svc.Remote, m.svc.Identity)
	cache := m.svc.Cache
	id := m.session.ThreadID()
	return func() tea.Msg {
		list, err := query.Fetch(context.Background(), cache, q)
		if err != nil {
			return nil
		}
		for _, t := range list {
			if t.ID == id {
				return chatTitleMsg{title: t.Title}
			}
		}
		return nil
	}
}

func (m *ChatPageModel) copy(text string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		method, err := svc.copyText(text)
		return copiedMsg{method: method, err: err}
	}
}

// chatChrome is the number of lines around the viewport: status, input box and
// help.
const chatChrome = 1 + 3 + 1

func (m *ChatPageModel) layout() {
	w := max(20, m.width)
	h := max(3, m.height-chatChrome)
	if !m.ready {
		m.viewport = viewport.New()
		m.ready = true
	}
	m.viewport.SetWidth(w)
	m.viewport.SetHeight(h)
	m.input.SetWidth(max(10, w-6))
	m.refresh()
}

func (m *ChatPageModel) refresh() {
	if !m.ready || m.session == nil {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderContent())
	if atBottom || m.session.Status().Busy() {
		m.viewport.GotoBottom()
	}
}

func (m *ChatPageModel) renderContent() string {
	msgs := m.session.Messages()
	if len(msgs) == 0 {
		return m.emptyState()
	}
	return RenderConversation(msgs, ConversationOptions{
		Width:           m.viewport.Width(),
		Status:          m.session.Status(),
		ExpandReasoning: m.expand,
	})
}

func (m *ChatPageModel) emptyState() string {
	s := GetStyles()
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render(tripI18n.T("tui.chat.emptyTitle", "Travel Assistant")),
		s.Subtitle.Render(tripI18n.T("tui.chat.emptySubtitle", "Ask me about destinations, weather, and travel recommendations")),
	)
	return lipgloss.Place(m.viewport.Width(), m.viewport.Height(), lipgloss.Center, lipgloss.Center, content)
}

func (m *ChatPageModel) statusLine() string {
	s := GetStyles()
	switch m.session.Status() {
	case chat.StatusStreaming:
		return m.spinner.View() + " " + s.Muted.Render(tripI18n.T("tui.chat.thinking", "Thinking..."))
	case chat.StatusError:
		if err := m.session.Err(); err != nil {
			return s.Failed.Render(tripI18n.Tf("tui.chat.error", "Error: %v", err))
		}
	}
	return m.notice
}

func (m *ChatPageModel) View() tea.View {
	s := GetStyles()

	if m.loading {
		v := tea.NewView(m.spinner.View() + " " + tripI18n.T("tui.chat.loading", "Loading conversation..."))
		v.AltScreen = true
		return v
	}
	if m.loadErr != nil {
		content := s.Failed.Render(tripI18n.Tf("tui.chat.loadError", "Could not load conversation: %v", m.loadErr)) +
			"\n\n" + s.Help.Render(tripI18n.T("tui.chat.loadErrorHelp", "esc: back  ctrl+c: quit"))
		v := tea.NewView(content)
		v.AltScreen = true
		return v
	}
	if !m.ready || m.session == nil {
		v := tea.NewView("")
		v.AltScreen = true
		return v
	}

	box := s.InputInactive
	if !m.session.Status().Busy() {
		box = s.InputActive
	}
	input := box.Width(max(10, m.viewport.Width())).Render(m.input.View())

	help := []string{
		tripI18n.T("tui.chat.helpSend", "enter: send"),
		tripI18n.T("tui.chat.helpCopy", "ctrl+y: copy answer"),
		tripI18n.T("tui.chat.helpReasoning", "ctrl+r: reasoning"),
		tripI18n.T("tui.chat.helpScroll", "pgup/pgdn: scroll"),
		tripI18n.T("tui.chat.helpBack", "esc: back"),
	}

	content := strings.Join([]string{
		m.viewport.View(),
		m.statusLine(),
		input,
		s.Help.Render(strings.Join(help, "  ")),
	}, "\n")
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}
