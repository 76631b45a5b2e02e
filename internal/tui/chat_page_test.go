package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/clipboard"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/render"
	"github.com/wethinkt/go-tripchat/internal/router"
)

var helloReply = []mastra.Chunk{
	{Type: mastra.ChunkStart, MessageID: "a1"},
	{Type: mastra.ChunkTextStart, ID: "t1"},
	{Type: mastra.ChunkTextDelta, ID: "t1", Delta: "Hello"},
	{Type: mastra.ChunkTextDelta, ID: "t1", Delta: " there"},
	{Type: mastra.ChunkTextEnd, ID: "t1"},
	{Type: mastra.ChunkFinish, FinishReason: "stop"},
}

var enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}

// loadPage mounts a chat page and delivers its load result.
func loadPage(t *testing.T, svc *Services, loc router.Location, state router.State) (*ChatPageModel, tea.Cmd) {
	t.Helper()
	page := NewChatPageModel(svc, loc, state)
	page.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	msg := page.load()()
	_, cmd := page.Update(msg)
	return page, cmd
}

// drive feeds every message cmd produces back into the page until the
// command chain ends, returning the messages the page did not consume.
func drive(page *ChatPageModel, cmd tea.Cmd) []tea.Msg {
	var rest []tea.Msg
	queue := runAllCmdMessages(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		switch msg.(type) {
		case streamStartedMsg, streamChunkMsg, streamClosedMsg, copiedMsg:
			_, next := page.Update(msg)
			queue = append(queue, runAllCmdMessages(next)...)
		default:
			rest = append(rest, msg)
		}
	}
	return rest
}

func TestChatPageSendsInitialMessageOnce(t *testing.T) {
	svc, sent := newTestServices(newFakeRemote(), helloReply...)
	page, cmd := loadPage(t, svc, router.NewChat("t1"), router.State{InitialMessage: "Beach ideas?"})

	rest := drive(page, cmd)
	if len(*sent) != 1 {
		t.Fatalf("requests sent = %d, want 1", len(*sent))
	}
	req := (*sent)[0]
	if req.Memory.Thread != "t1" || req.Memory.Resource != testIdentity.ResourceID {
		t.Errorf("memory = %+v", req.Memory)
	}

	var nav *router.Navigation
	for _, m := range rest {
		if n, ok := m.(NavigateMsg); ok {
			nav = &n.Nav
		}
	}
	if nav == nil || !nav.Replace || nav.To.New || nav.To.ThreadID != "t1" {
		t.Fatalf("navigation = %+v", nav)
	}
	if page.Location().New {
		t.Error("page still carries the new-thread flag")
	}

	msgs := page.session.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if got := render.MessageText(msgs[1]); got != "Hello there" {
		t.Errorf("answer = %q", got)
	}
	if page.session.Status() != chat.StatusReady {
		t.Errorf("status = %s", page.session.Status())
	}

	// A later stream event must not resend the initial message.
	page.Update(ThreadsChangedMsg{})
	if len(*sent) != 1 {
		t.Errorf("initial message resent: %d requests", len(*sent))
	}
}

func TestChatPageWithoutInitialMessageSendsNothing(t *testing.T) {
	svc, sent := newTestServices(newFakeRemote())
	_, cmd := loadPage(t, svc, router.NewChat("t1"), router.State{})
	if cmd != nil || len(*sent) != 0 {
		t.Errorf("requests sent = %d", len(*sent))
	}
}

func TestChatPageBlankSubmitIsNoop(t *testing.T) {
	remote := newFakeRemote(mastra.Thread{ID: "t1", Title: "Lisbon"})
	svc, sent := newTestServices(remote, helloReply...)
	page, _ := loadPage(t, svc, router.Chat("t1"), router.State{})

	page.input.SetValue("   ")
	_, cmd := page.Update(enterKey)
	drive(page, cmd)
	if len(*sent) != 0 {
		t.Fatalf("blank input was sent")
	}

	page.input.SetValue("Weather in Lisbon?")
	_, cmd = page.Update(enterKey)
	drive(page, cmd)
	if len(*sent) != 1 {
		t.Fatalf("requests sent = %d, want 1", len(*sent))
	}
	if page.input.Value() != "" {
		t.Errorf("input not cleared: %q", page.input.Value())
	}
	if page.Title() != "Lisbon" {
		t.Errorf("title = %q", page.Title())
	}
}

func TestChatPageRedirectsMissingThread(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	page, cmd := loadPage(t, svc, router.Chat("gone"), router.State{})
	if page.session != nil {
		t.Error("missing thread was mounted")
	}
	msgs := runAllCmdMessages(cmd)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %#v", msgs)
	}
	nav, ok := msgs[0].(NavigateMsg)
	if !ok || !nav.Nav.To.IsLanding() || !nav.Nav.Replace {
		t.Errorf("msg = %#v", msgs[0])
	}
}

func TestChatPageCopiesLastAnswer(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote(), helloReply...)
	var copied string
	svc.Copy = func(text string) (clipboard.Method, error) {
		copied = text
		return clipboard.MethodOSC52, nil
	}
	page, cmd := loadPage(t, svc, router.NewChat("t1"), router.State{InitialMessage: "hi"})
	drive(page, cmd)

	_, cmd = page.Update(tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl})
	drive(page, cmd)
	if copied != "Hello there" {
		t.Errorf("copied = %q", copied)
	}
	if !strings.Contains(page.notice, "osc52") {
		t.Errorf("notice = %q", page.notice)
	}
}

func TestChatPageStreamErrorKeepsMessages(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote(),
		mastra.Chunk{Type: mastra.ChunkStart, MessageID: "a1"},
		mastra.Chunk{Type: mastra.ChunkError, ErrorText: "agent unavailable"},
	)
	page, cmd := loadPage(t, svc, router.NewChat("t1"), router.State{InitialMessage: "hi"})
	drive(page, cmd)

	if page.session.Status() != chat.StatusError {
		t.Fatalf("status = %s", page.session.Status())
	}
	if !strings.Contains(page.statusLine(), "agent unavailable") {
		t.Errorf("status line = %q", page.statusLine())
	}
	if len(page.session.Messages()) == 0 {
		t.Error("messages dropped on error")
	}
}

func TestChatPageBackClosesStream(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	page, _ := loadPage(t, svc, router.NewChat("t1"), router.State{})
	stream := &fakeStream{ch: make(chan mastra.Chunk)}
	page.stream = stream

	_, cmd := page.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !stream.closed {
		t.Error("stream left open")
	}
	if _, ok := cmd().(PopPageMsg); !ok {
		t.Error("expected PopPageMsg")
	}
}

func TestChatPageEmptyStateOnlyWithoutMessages(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	page, _ := loadPage(t, svc, router.NewChat("t1"), router.State{})
	if !strings.Contains(page.renderContent(), "Travel Assistant") {
		t.Error("new chat does not show the empty state")
	}

	remote := newFakeRemote(mastra.Thread{ID: "t2"})
	remote.msgs["t2"] = []chat.Message{{
		ID:    "a1",
		Role:  chat.RoleAssistant,
		Parts: []chat.Part{chat.TextPart{Text: "  "}},
	}}
	svc, _ = newTestServices(remote)
	page, _ = loadPage(t, svc, router.Chat("t2"), router.State{})
	if page.session == nil {
		t.Fatal("thread not mounted")
	}
	if strings.Contains(page.renderContent(), "Travel Assistant") {
		t.Error("thread with only suppressed messages shows the empty state")
	}
}

func TestChatPageThinkingOnlyWhileStreaming(t *testing.T) {
	svc, _ := newTestServices(newFakeRemote())
	page, _ := loadPage(t, svc, router.NewChat("t1"), router.State{})

	page.session.SetInput("Beach ideas?")
	if _, ok := page.session.Submit(); !ok {
		t.Fatal("submit refused")
	}
	if strings.Contains(page.statusLine(), "Thinking") {
		t.Error("thinking indicator shown before the stream started")
	}

	page.session.Apply(mastra.Chunk{Type: mastra.ChunkStart, MessageID: "a1"})
	if page.session.Status() != chat.StatusStreaming {
		t.Fatalf("status = %v", page.session.Status())
	}
	if !strings.Contains(page.statusLine(), "Thinking") {
		t.Error("thinking indicator missing while streaming")
	}
}
