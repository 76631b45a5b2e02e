package session

import (
	"errors"
	"strings"
	"time"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/router"
	"github.com/wethinkt/go-tripchat/internal/threads"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// Options configure a Chat.
type Options struct {
	Identity        config.Identity
	Cache           *query.Client
	InvalidateDelay time.Duration

	// AfterFunc schedules f after d. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) *time.Timer
}

// Chat is the live session of one mounted chat page. Remounting a page
// builds a new Chat, which resets the initial-message latch.
type Chat struct {
	loc      router.Location
	title    string
	messages []chat.Message
	status   chat.Status
	input    string
	err      error

	// initialSent guards the navigation message against being sent twice
	// while this Chat lives.
	initialSent bool

	acc  *mastra.Accumulator
	opts Options
}

// NewChat creates the session for loc from its bootstrap.
func NewChat(loc router.Location, boot Bootstrap, opts Options) *Chat {
	if opts.AfterFunc == nil {
		opts.AfterFunc = time.AfterFunc
	}
	msgs := make([]chat.Message, len(boot.Messages))
	copy(msgs, boot.Messages)
	return &Chat{
		loc:      loc,
		title:    boot.Title,
		messages: msgs,
		status:   chat.StatusReady,
		opts:     opts,
	}
}

func (c *Chat) ThreadID() string          { return c.loc.ThreadID }
func (c *Chat) Location() router.Location { return c.loc }
func (c *Chat) Title() string             { return c.title }
func (c *Chat) SetTitle(t string)         { c.title = t }
func (c *Chat) Status() chat.Status       { return c.status }
func (c *Chat) Input() string             { return c.input }
func (c *Chat) SetInput(s string)         { c.input = s }
func (c *Chat) Err() error                { return c.err }
func (c *Chat) InitialSent() bool         { return c.initialSent }

// Messages returns the conversation in arrival order.
func (c *Chat) Messages() []chat.Message {
	out := make([]chat.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// SendInitial sends the message carried by the navigation into a new thread.
// It fires at most once per Chat, only on a new-thread location, only for a
// non-empty message and never while streaming. On success it returns the
// request to post and a navigation that drops the new-thread flag in place.
func (c *Chat) SendInitial(initialMessage string) (mastra.ChatRequest, router.Navigation, bool) {
	if !c.loc.New || initialMessage == "" || c.initialSent || c.status == chat.StatusStreaming {
		return mastra.ChatRequest{}, router.Navigation{}, false
	}
	c.initialSent = true
	req := c.send(initialMessage)

	c.loc = c.loc.WithoutNew()
	nav := router.Navigation{To: c.loc, Replace: true}
	c.scheduleInvalidate()
	return req, nav, true
}

// Submit sends the current input. Blank input or a streaming session is a
// no-op that leaves the input untouched.
func (c *Chat) Submit() (mastra.ChatRequest, bool) {
	if strings.TrimSpace(c.input) == "" || c.status == chat.StatusStreaming {
		return mastra.ChatRequest{}, false
	}
	req := c.send(c.input)
	c.input = ""
	c.scheduleInvalidate()
	return req, true
}

func (c *Chat) send(text string) mastra.ChatRequest {
	msg := chat.NewUserMessage(text)
	msg.CreatedAt = time.Now()
	c.messages = append(c.messages, msg)
	c.status = chat.StatusSubmitted
	c.err = nil
	c.acc = nil
	tuilog.Log.Info("session: send", "thread", c.loc.ThreadID, "message", msg.ID, "len", len(text))
	return mastra.NewChatRequest(c.loc.ThreadID, c.opts.Identity.ResourceID, c.messages)
}

// Apply folds one streamed chunk into the assistant message being built.
func (c *Chat) Apply(ch mastra.Chunk) {
	switch ch.Type {
	case mastra.ChunkError:
		c.status = chat.StatusError
		c.err = errors.New(ch.ErrorText)
		tuilog.Log.Warn("session: stream error", "thread", c.loc.ThreadID, "error", ch.ErrorText)
		return
	case mastra.ChunkAbort:
		c.status = chat.StatusReady
		return
	}

	if c.acc == nil {
		c.acc = mastra.NewAccumulator(chat.NewID())
		c.messages = append(c.messages, c.acc.Message())
	}
	if c.status == chat.StatusSubmitted {
		c.status = chat.StatusStreaming
	}
	c.acc.Apply(ch)
	c.messages[len(c.messages)-1] = c.acc.Message()

	if ch.Type == mastra.ChunkFinish {
		c.invalidate()
	}
}

// Finish ends the stream. A non-nil err puts the session in the error state.
func (c *Chat) Finish(err error) {
	c.acc = nil
	if err != nil {
		c.status = chat.StatusError
		c.err = err
		tuilog.Log.Warn("session: stream failed", "thread", c.loc.ThreadID, "error", err)
		return
	}
	if c.status != chat.StatusError {
		c.status = chat.StatusReady
	}
}

// scheduleInvalidate refreshes the thread list after the configured delay,
// giving the server time to persist the thread. The timer outlives the page.
func (c *Chat) scheduleInvalidate() {
	if c.opts.Cache == nil {
		return
	}
	c.opts.AfterFunc(c.opts.InvalidateDelay, c.invalidate)
}

func (c *Chat) invalidate() {
	if c.opts.Cache == nil {
		return
	}
	c.opts.Cache.Invalidate(threads.ListKey(c.opts.Identity))
}
