package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/wethinkt/go-tripchat/internal/router"
)

// DefaultSuggestions are the starter prompts offered on the landing page.
var DefaultSuggestions = []string{
	"Where can I travel for a beach vacation?",
	"What's the weather like in Tokyo?",
	"Recommend me a mountain destination",
	"Best places to visit in Europe",
}

// Landing collects the first message of a thread that does not exist yet.
type Landing struct {
	threadID    string
	suggestions []string
}

// NewLanding mints the id the next thread will be created under. Nothing is
// persisted until the first message is sent.
func NewLanding(suggestions []string) *Landing {
	if suggestions == nil {
		suggestions = DefaultSuggestions
	}
	return &Landing{
		threadID:    uuid.NewString(),
		suggestions: suggestions,
	}
}

func (l *Landing) ThreadID() string      { return l.threadID }
func (l *Landing) Suggestions() []string { return l.suggestions }

// Submit returns the navigation into the new thread carrying text as its
// initial message. Blank text returns false.
func (l *Landing) Submit(text string) (router.Navigation, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return router.Navigation{}, false
	}
	return router.Navigation{
		To:      router.NewChat(l.threadID),
		Replace: true,
		State:   router.State{InitialMessage: text},
	}, true
}

// Suggest submits suggestion i.
func (l *Landing) Suggest(i int) (router.Navigation, bool) {
	if i < 0 || i >= len(l.suggestions) {
		return router.Navigation{}, false
	}
	return l.Submit(l.suggestions[i])
}
