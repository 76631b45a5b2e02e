package server

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/mastra"
)

const titleMaxLen = 48

// Store keeps threads and their messages in memory.
type Store struct {
	mu       sync.RWMutex
	threads  map[string]*mastra.Thread
	messages map[string][]chat.Message
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		threads:  make(map[string]*mastra.Thread),
		messages: make(map[string][]chat.Message),
		now:      time.Now,
	}
}

// Threads returns the threads of resourceID, most recently updated first.
// An empty resourceID matches every thread.
func (s *Store) Threads(resourceID string) []mastra.Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mastra.Thread, 0, len(s.threads))
	for _, t := range s.threads {
		if resourceID == "" || t.ResourceID == resourceID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Thread returns one thread.
func (s *Store) Thread(id string) (mastra.Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	if !ok {
		return mastra.Thread{}, false
	}
	return *t, true
}

// Messages returns the messages of a thread in order.
func (s *Store) Messages(id string) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[id]
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Append adds messages to a thread, creating it under resourceID on first
// use. A new thread is titled after its first user message.
func (s *Store) Append(threadID, resourceID string, msgs ...chat.Message) mastra.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	t, ok := s.threads[threadID]
	if !ok {
		t = &mastra.Thread{
			ID:         threadID,
			ResourceID: resourceID,
			CreatedAt:  now,
		}
		s.threads[threadID] = t
	}
	for _, m := range msgs {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if t.Title == "" && m.Role == chat.RoleUser {
			t.Title = generateTitle(m)
		}
		s.messages[threadID] = append(s.messages[threadID], m)
	}
	t.UpdatedAt = now
	return *t
}

// Delete removes a thread. It reports whether the thread existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[id]; !ok {
		return false
	}
	delete(s.threads, id)
	delete(s.messages, id)
	return true
}

func generateTitle(m chat.Message) string {
	var text string
	for _, p := range m.Parts {
		if tp, ok := p.(chat.TextPart); ok {
			text += tp.Text
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimRight(text, "?!.")
	if r := []rune(text); len(r) > titleMaxLen {
		text = strings.TrimSpace(string(r[:titleMaxLen])) + "…"
	}
	return text
}
