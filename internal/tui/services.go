package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wethinkt/go-tripchat/internal/clipboard"
	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/router"
	"github.com/wethinkt/go-tripchat/internal/session"
	"github.com/wethinkt/go-tripchat/internal/threads"
)

// ChunkStream is an open chat response.
type ChunkStream interface {
	Chunks() <-chan mastra.Chunk
	Err() error
	Close()
}

// SendFunc posts a chat request and returns its response stream.
type SendFunc func(ctx context.Context, req mastra.ChatRequest) (ChunkStream, error)

// TransportSender adapts a mastra.Transport to a SendFunc.
func TransportSender(t *mastra.Transport) SendFunc {
	return func(ctx context.Context, req mastra.ChatRequest) (ChunkStream, error) {
		s, err := t.Send(ctx, req)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Services are the backends pages talk to. One value is shared by every
// page of a program.
type Services struct {
	Remote          threads.Remote
	Send            SendFunc
	Cache           *query.Client
	Identity        config.Identity
	InvalidateDelay time.Duration
	// Suggestions shown on the landing page; nil uses the defaults.
	Suggestions []string
	// Copy writes to the clipboard. Defaults to clipboard.Copy.
	Copy func(text string) (clipboard.Method, error)
}

func (s *Services) loader() session.Loader {
	return session.Loader{Remote: s.Remote, Cache: s.Cache, Identity: s.Identity}
}

func (s *Services) chatOptions() session.Options {
	return session.Options{
		Identity:        s.Identity,
		Cache:           s.Cache,
		InvalidateDelay: s.InvalidateDelay,
	}
}

func (s *Services) copyText(text string) (clipboard.Method, error) {
	if s.Copy != nil {
		return s.Copy(text)
	}
	return clipboard.Copy(text)
}

// NavigateMsg asks the shell to change location.
type NavigateMsg struct {
	Nav router.Navigation
}

// PopPageMsg asks the shell to go back.
type PopPageMsg struct{}

// ThreadsChangedMsg tells the current page that the cached thread list was
// invalidated.
type ThreadsChangedMsg struct{}

// SettingsChangedMsg tells the shell the theme or language was swapped
// while the program runs.
type SettingsChangedMsg struct{}

// pageRevealedMsg is sent to a page uncovered by going back.
type pageRevealedMsg struct{}

func navigate(nav router.Navigation) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Nav: nav} }
}
