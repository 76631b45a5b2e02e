// Package session holds the page controllers: the chat session bound to one
// thread and the landing page that starts new threads. They are plain state
// machines; the TUI drives them and performs the I/O they ask for.
package session

import (
	"context"
	"fmt"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/router"
	"github.com/wethinkt/go-tripchat/internal/threads"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// Bootstrap is what a chat page needs before it can render.
type Bootstrap struct {
	Messages []chat.Message
	Title    string
	// Redirect is set when the thread does not exist; the page must not
	// render and the caller navigates to the landing page instead.
	Redirect bool
}

// Loader fetches the data a chat page starts from.
type Loader struct {
	Remote   threads.Remote
	Cache    *query.Client
	Identity config.Identity
}

// Load resolves the bootstrap for loc. A new thread starts empty without
// touching the network. Otherwise the thread's messages are fetched through
// the cache and a missing thread yields a redirect.
func (l Loader) Load(ctx context.Context, loc router.Location) (Bootstrap, error) {
	if loc.New {
		return Bootstrap{}, nil
	}
	if loc.IsLanding() {
		return Bootstrap{}, fmt.Errorf("load chat: no thread id")
	}

	defer tuilog.Log.Timed("session load " + loc.ThreadID)()
	res, err := query.Fetch(ctx, l.Cache, threads.ThreadMessagesQuery(l.Remote, l.Identity, loc.ThreadID))
	if err != nil {
		return Bootstrap{}, fmt.Errorf("load chat: %w", err)
	}
	if !res.Exists {
		tuilog.Log.Info("session: thread not found, redirecting", "thread", loc.ThreadID)
		return Bootstrap{Redirect: true}, nil
	}
	msgs := make([]chat.Message, len(res.Messages))
	copy(msgs, res.Messages)
	return Bootstrap{Messages: msgs, Title: res.Thread.Title}, nil
}
