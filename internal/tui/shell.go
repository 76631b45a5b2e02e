package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/router"
	"github.com/wethinkt/go-tripchat/internal/threads"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// headerHeight is the shell's one-line header above every page.
const headerHeight = 1

// NavItem represents a page in the navigation stack
type NavItem struct {
	Title string
	Model tea.Model
}

// NavStack manages navigation history
type NavStack struct {
	items []NavItem
}

func NewNavStack() *NavStack {
	return &NavStack{items: make([]NavItem, 0)}
}

// Push adds a page, initializes it and sends it the current window size.
func (ns *NavStack) Push(item NavItem, width, height int) tea.Cmd {
	ns.items = append(ns.items, item)
	initCmd := item.Model.Init()
	if width > 0 && height > 0 {
		sizeCmd := func() tea.Msg {
			return tea.WindowSizeMsg{Width: width, Height: height}
		}
		return tea.Batch(initCmd, sizeCmd)
	}
	return initCmd
}

// Pop removes the top page, closing it if it holds resources.
func (ns *NavStack) Pop() {
	if len(ns.items) == 0 {
		return
	}
	top := ns.items[len(ns.items)-1]
	if c, ok := top.Model.(interface{ Close() }); ok {
		c.Close()
	}
	ns.items = ns.items[:len(ns.items)-1]
}

func (ns *NavStack) Peek() (NavItem, bool) {
	if len(ns.items) == 0 {
		return NavItem{}, false
	}
	return ns.items[len(ns.items)-1], true
}

func (ns *NavStack) IsEmpty() bool {
	return len(ns.items) == 0
}

func (ns *NavStack) Len() int {
	return len(ns.items)
}

// threadsInvalidatedMsg carries a notification from the cache subscription.
type threadsInvalidatedMsg struct {
	ch <-chan query.Key
}

// Shell is the main TUI container. It maps router navigations onto a page
// stack: a push for a plain navigation, a swap for a replacing one.
type Shell struct {
	width   int
	height  int
	stack   *NavStack
	history *router.History
	svc     *Services

	start       router.Location
	startState  router.State
	unsubscribe func()
}

// NewShell creates the shell, opening start first. state is handed to the
// first page, e.g. the message a new thread starts with.
func NewShell(svc *Services, start router.Location, state router.State) *Shell {
	return &Shell{
		stack:      NewNavStack(),
		history:    router.NewHistory(start),
		svc:        svc,
		start:      start,
		startState: state,
	}
}

// Location returns the current route.
func (s *Shell) Location() router.Location {
	return s.history.Current()
}

func (s *Shell) Init() tea.Cmd {
	tuilog.Log.Info("Shell.Init: starting", "route", s.start.String())
	cmds := []tea.Cmd{
		s.stack.Push(s.newPage(s.start, s.startState), s.width, s.height),
	}
	if s.svc != nil && s.svc.Cache != nil {
		ch, cancel := s.svc.Cache.Subscribe(threads.ListKey(s.svc.Identity))
		s.unsubscribe = cancel
		cmds = append(cmds, waitForInvalidation(ch))
	}
	return tea.Batch(cmds...)
}

func waitForInvalidation(ch <-chan query.Key) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return threadsInvalidatedMsg{ch: ch}
	}
}

func (s *Shell) newPage(loc router.Location, state router.State) NavItem {
	if loc.IsLanding() {
		page := NewLandingPageModel(s.svc)
		return NavItem{Title: page.Title(), Model: page}
	}
	page := NewChatPageModel(s.svc, loc, state)
	return NavItem{Title: page.Title(), Model: page}
}

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		return s, s.updateTop(tea.WindowSizeMsg{Width: msg.Width, Height: max(0, msg.Height-headerHeight)})

	case NavigateMsg:
		tuilog.Log.Info("Shell.Update: navigate", "to", msg.Nav.To.String(), "replace", msg.Nav.Replace)
		return s, s.navigate(msg.Nav)

	case PopPageMsg:
		tuilog.Log.Info("Shell.Update: PopPageMsg received")
		return s, s.back()

	case SettingsChangedMsg:
		// Styles and translations are read at render time; a resize makes
		// pages rebuild their cached content.
		tuilog.Log.Info("Shell.Update: settings changed")
		return s, s.updateTop(tea.WindowSizeMsg{Width: s.width, Height: max(0, s.height-headerHeight)})

	case threadsInvalidatedMsg:
		return s, tea.Batch(s.updateTop(ThreadsChangedMsg{}), waitForInvalidation(msg.ch))

	case streamStartedMsg:
		// The page that sent the request may be gone already.
		if top, ok := s.stack.Peek(); !ok || top.Model != tea.Model(msg.owner) {
			if msg.stream != nil {
				msg.stream.Close()
			}
			return s, nil
		}
	}

	cmds = append(cmds, s.updateTop(msg))
	return s, tea.Batch(cmds...)
}

func (s *Shell) updateTop(msg tea.Msg) tea.Cmd {
	current, ok := s.stack.Peek()
	if !ok {
		return nil
	}
	newModel, cmd := current.Model.Update(msg)
	current.Model = newModel
	if t, ok := newModel.(interface{ Title() string }); ok {
		current.Title = t.Title()
	}
	s.stack.items[len(s.stack.items)-1] = current
	return cmd
}

// navigate applies nav to the history and the page stack. Replacing the
// current thread's own route only updates the history; the page stays
// mounted.
func (s *Shell) navigate(nav router.Navigation) tea.Cmd {
	cur := s.history.Current()
	if nav.Replace && !cur.IsLanding() && cur.ThreadID == nav.To.ThreadID {
		s.history.Navigate(nav)
		return nil
	}

	s.history.Navigate(nav)
	page := s.newPage(nav.To, s.history.TakeState())
	if nav.Replace {
		s.stack.Pop()
	}
	return s.stack.Push(page, s.width, s.height)
}

// back pops the current page. With nothing behind it a chat page falls back
// to the landing page and the landing page quits.
func (s *Shell) back() tea.Cmd {
	if s.history.Back() {
		s.stack.Pop()
		var cmds []tea.Cmd
		// Send WindowSizeMsg to the revealed page so it re-renders
		if s.width > 0 && s.height > 0 {
			width, height := s.width, s.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: width, Height: height}
			})
		}
		cmds = append(cmds, func() tea.Msg { return pageRevealedMsg{} })
		return tea.Batch(cmds...)
	}
	if !s.history.Current().IsLanding() {
		return s.navigate(router.Navigation{To: router.Landing, Replace: true})
	}
	tuilog.Log.Info("Shell.Update: nothing to go back to, quitting")
	s.Close()
	return tea.Quit
}

// Close ends the cache subscription and closes every page.
func (s *Shell) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	for !s.stack.IsEmpty() {
		s.stack.Pop()
	}
}

func (s *Shell) View() tea.View {
	current, ok := s.stack.Peek()
	if !ok {
		v := tea.NewView(tripI18n.T("tui.shell.empty", "No pages to display"))
		v.AltScreen = true
		return v
	}

	v := current.Model.View()
	v.SetContent(s.header(current.Title) + "\n" + v.Content)
	v.AltScreen = true
	return v
}

func (s *Shell) header(title string) string {
	st := GetStyles()
	brand := st.HeaderBrand.Render("✈ tripchat")
	route := st.Muted.Render(s.history.Current().String())
	if s.width <= 0 {
		return brand + st.Header.Render(" › "+title)
	}
	avail := max(0, s.width-lipgloss.Width(brand)-lipgloss.Width(route)-4)
	left := brand + st.Header.Render(" › "+ansi.Truncate(title, avail, "…"))
	gap := max(1, s.width-lipgloss.Width(left)-lipgloss.Width(route))
	return left + strings.Repeat(" ", gap) + route
}
