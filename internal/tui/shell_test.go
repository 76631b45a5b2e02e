package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/router"
)

type sizeProbeModel struct {
	lastWidth  int
	lastHeight int
	seenSize   bool
	revealed   bool
}

func (m *sizeProbeModel) Init() tea.Cmd { return nil }

func (m *sizeProbeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.lastWidth = msg.Width
		m.lastHeight = msg.Height
		m.seenSize = true
	case pageRevealedMsg:
		m.revealed = true
	}
	return m, nil
}

func (m *sizeProbeModel) View() tea.View {
	return tea.NewView("")
}

func runAllCmdMessages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, runAllCmdMessages(sub)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// fakeRemote serves threads from memory.
type fakeRemote struct {
	mu      sync.Mutex
	threads map[string]mastra.Thread
	msgs    map[string][]chat.Message
	deleted []string
}

func newFakeRemote(ts ...mastra.Thread) *fakeRemote {
	r := &fakeRemote{threads: map[string]mastra.Thread{}, msgs: map[string][]chat.Message{}}
	for _, t := range ts {
		r.threads[t.ID] = t
	}
	return r
}

func (r *fakeRemote) ListThreads(context.Context, string, string) ([]mastra.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []mastra.Thread
	for _, t := range r.threads {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeRemote) GetThread(_ context.Context, id, _ string) (mastra.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[id]
	if !ok {
		return mastra.Thread{}, fmt.Errorf("get thread: %w", mastra.ErrThreadNotFound)
	}
	return t, nil
}

func (r *fakeRemote) ThreadMessages(_ context.Context, id, _ string) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msgs[id], nil
}

func (r *fakeRemote) DeleteThread(_ context.Context, id, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	delete(r.threads, id)
	return nil
}

// fakeStream replays buffered chunks.
type fakeStream struct {
	ch     chan mastra.Chunk
	err    error
	closed bool
}

func newFakeStream(chunks ...mastra.Chunk) *fakeStream {
	s := &fakeStream{ch: make(chan mastra.Chunk, len(chunks))}
	for _, c := range chunks {
		s.ch <- c
	}
	close(s.ch)
	return s
}

func (s *fakeStream) Chunks() <-chan mastra.Chunk { return s.ch }
func (s *fakeStream) Err() error                  { return s.err }
func (s *fakeStream) Close()                      { s.closed = true }

var testIdentity = config.Identity{ResourceID: "user-1", AgentID: "travelAgent"}

// newTestServices wires a fake remote and records every chat request.
func newTestServices(remote *fakeRemote, reply ...mastra.Chunk) (*Services, *[]mastra.ChatRequest) {
	var sent []mastra.ChatRequest
	svc := &Services{
		Remote:   remote,
		Cache:    query.NewClient(0),
		Identity: testIdentity,
		Send: func(_ context.Context, req mastra.ChatRequest) (ChunkStream, error) {
			sent = append(sent, req)
			return newFakeStream(reply...), nil
		},
	}
	return svc, &sent
}

func TestShellPopPageRebroadcastsFullWindowSize(t *testing.T) {
	revealed := &sizeProbeModel{}
	top := &sizeProbeModel{}

	s := &Shell{
		width:   120,
		height:  40,
		stack:   NewNavStack(),
		history: router.NewHistory(router.Landing),
	}
	s.history.Navigate(router.Navigation{To: router.Chat("a")})
	s.stack.items = append(s.stack.items,
		NavItem{Title: "revealed", Model: revealed},
		NavItem{Title: "top", Model: top},
	)

	model, cmd := s.Update(PopPageMsg{})
	shell, ok := model.(*Shell)
	if !ok {
		t.Fatalf("expected *Shell model, got %T", model)
	}
	if len(shell.stack.items) != 1 {
		t.Fatalf("expected one page after pop, got %d", len(shell.stack.items))
	}
	if !shell.Location().IsLanding() {
		t.Fatalf("location after pop = %s", shell.Location())
	}

	msgs := runAllCmdMessages(cmd)
	var rawSize *tea.WindowSizeMsg
	for _, msg := range msgs {
		if ws, ok := msg.(tea.WindowSizeMsg); ok {
			copy := ws
			rawSize = &copy
		}
	}
	if rawSize == nil {
		t.Fatalf("expected a WindowSizeMsg in command batch, got %#v", msgs)
	}
	if rawSize.Width != 120 || rawSize.Height != 40 {
		t.Fatalf("expected full window size 120x40 from rebroadcast, got %dx%d", rawSize.Width, rawSize.Height)
	}

	for _, msg := range msgs {
		model, _ = shell.Update(msg)
		shell = model.(*Shell)
	}

	if !revealed.seenSize || !revealed.revealed {
		t.Fatal("revealed page was not refreshed")
	}
	// Shell has a one-line header, so child page should receive height-1.
	if revealed.lastWidth != 120 || revealed.lastHeight != 39 {
		t.Fatalf("expected revealed child size 120x39, got %dx%d", revealed.lastWidth, revealed.lastHeight)
	}
}

func TestShellReplaceSameThreadKeepsPage(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	s := NewShell(svc, router.NewChat("t1"), router.State{InitialMessage: "hi"})
	s.Init()
	before, _ := s.stack.Peek()

	s.Update(NavigateMsg{Nav: router.Navigation{To: router.Chat("t1"), Replace: true}})

	after, _ := s.stack.Peek()
	if s.stack.Len() != 1 || after.Model != before.Model {
		t.Fatal("page was remounted")
	}
	if got := s.Location().String(); got != "/chat/t1" {
		t.Errorf("location = %q", got)
	}
}

func TestShellNavigatePushesPage(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	s := NewShell(svc, router.Landing, router.State{})
	s.Init()

	s.Update(NavigateMsg{Nav: router.Navigation{To: router.Chat("t1")}})
	if s.stack.Len() != 2 {
		t.Fatalf("stack len = %d, want 2", s.stack.Len())
	}
	top, _ := s.stack.Peek()
	if _, ok := top.Model.(*ChatPageModel); !ok {
		t.Fatalf("top = %T", top.Model)
	}
}

func TestShellBackFromLoneChatShowsLanding(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	s := NewShell(svc, router.Chat("t1"), router.State{})
	s.Init()

	s.Update(PopPageMsg{})

	top, _ := s.stack.Peek()
	if _, ok := top.Model.(*LandingPageModel); !ok {
		t.Fatalf("top = %T, want landing", top.Model)
	}
	if s.stack.Len() != 1 || !s.Location().IsLanding() {
		t.Errorf("len=%d location=%s", s.stack.Len(), s.Location())
	}
}

func TestShellBackOnLandingQuits(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	s := NewShell(svc, router.Landing, router.State{})
	s.Init()

	_, cmd := s.Update(PopPageMsg{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestShellClosesStreamOfUnmountedPage(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	s := NewShell(svc, router.Landing, router.State{})
	s.Init()

	gone := NewChatPageModel(svc, router.Chat("old"), router.State{})
	stream := newFakeStream()
	s.Update(streamStartedMsg{owner: gone, stream: stream})
	if !stream.closed {
		t.Error("stream of an unmounted page was left open")
	}
}

func TestShellForwardsThreadInvalidation(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	probe := &sizeProbeModel{}
	s := NewShell(svc, router.Landing, router.State{})
	s.stack.items = append(s.stack.items, NavItem{Title: "probe", Model: probe})

	ch, cancel := svc.Cache.Subscribe(query.Key{"threads", testIdentity.ResourceID})
	defer cancel()
	svc.Cache.Invalidate(query.Key{"threads", testIdentity.ResourceID})

	msg := waitForInvalidation(ch)()
	if _, ok := msg.(threadsInvalidatedMsg); !ok {
		t.Fatalf("msg = %T", msg)
	}
	_, cmd := s.Update(msg)
	if cmd == nil {
		t.Fatal("expected the subscription to be re-armed")
	}
}
