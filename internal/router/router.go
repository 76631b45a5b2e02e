// Package router models the client's two routes, the landing page "/" and a
// chat "/chat/<threadID>[?new=true]", plus an in-memory history that carries
// transient navigation state.
package router

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const chatPrefix = "/chat/"

// Location is a parsed route. A zero Location is the landing page.
type Location struct {
	ThreadID string
	New      bool
}

// Landing is the landing page location.
var Landing = Location{}

// Chat returns the location of an existing thread.
func Chat(threadID string) Location {
	return Location{ThreadID: threadID}
}

// NewChat returns the location of a thread that does not exist yet.
func NewChat(threadID string) Location {
	return Location{ThreadID: threadID, New: true}
}

// IsLanding reports whether l is the landing page.
func (l Location) IsLanding() bool {
	return l.ThreadID == ""
}

// WithoutNew returns l with the new-thread flag cleared.
func (l Location) WithoutNew() Location {
	l.New = false
	return l
}

func (l Location) String() string {
	if l.IsLanding() {
		return "/"
	}
	s := chatPrefix + url.PathEscape(l.ThreadID)
	if l.New {
		s += "?new=true"
	}
	return s
}

// Parse reads a route path such as "/chat/abc?new=true".
func Parse(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse route %q: %w", raw, err)
	}
	path := u.Path
	if path == "" || path == "/" {
		return Landing, nil
	}
	if !strings.HasPrefix(path, chatPrefix) {
		return Location{}, fmt.Errorf("unknown route %q", raw)
	}
	id := strings.TrimPrefix(path, chatPrefix)
	if id == "" || strings.Contains(id, "/") {
		return Location{}, fmt.Errorf("invalid thread id in route %q", raw)
	}
	loc := Location{ThreadID: id}
	if v := u.Query().Get("new"); v != "" {
		loc.New, _ = strconv.ParseBool(v)
	}
	return loc, nil
}

// State is transient data carried by a navigation. It is never part of the
// route string.
type State struct {
	InitialMessage string
}

// Navigation is a request to change the current location.
type Navigation struct {
	To      Location
	Replace bool
	State   State
}

type historyEntry struct {
	loc   Location
	state State
}

// History is an in-memory navigation stack.
type History struct {
	entries []historyEntry
}

// NewHistory starts a history at loc.
func NewHistory(loc Location) *History {
	return &History{entries: []historyEntry{{loc: loc}}}
}

// Navigate applies nav. Replace swaps the current entry instead of pushing.
func (h *History) Navigate(nav Navigation) {
	e := historyEntry{loc: nav.To, state: nav.State}
	if nav.Replace && len(h.entries) > 0 {
		h.entries[len(h.entries)-1] = e
		return
	}
	h.entries = append(h.entries, e)
}

// Current returns the current location.
func (h *History) Current() Location {
	if len(h.entries) == 0 {
		return Landing
	}
	return h.entries[len(h.entries)-1].loc
}

// Back pops the current entry. It reports false when there is nothing to go
// back to.
func (h *History) Back() bool {
	if len(h.entries) <= 1 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// TakeState returns the current entry's navigation state and clears it, so
// a second call returns the zero State.
func (h *History) TakeState() State {
	if len(h.entries) == 0 {
		return State{}
	}
	e := &h.entries[len(h.entries)-1]
	s := e.state
	e.state = State{}
	return s
}
