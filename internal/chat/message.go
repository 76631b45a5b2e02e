// Package chat defines the conversation model shared by the agent client,
// the renderer and the UI: messages made of an ordered list of typed parts.
package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one conversation turn. Parts keep arrival order.
type Message struct {
	ID        string
	Role      Role
	Parts     []Part
	Metadata  map[string]any
	CreatedAt time.Time
}

// NewID returns a fresh message identifier.
func NewID() string {
	return uuid.NewString()
}

// NewUserMessage builds a user message holding a single text part.
func NewUserMessage(text string) Message {
	return Message{
		ID:    NewID(),
		Role:  RoleUser,
		Parts: []Part{TextPart{Text: text, State: StateDone}},
	}
}

type wireMessage struct {
	ID        string            `json:"id"`
	Role      Role              `json:"role"`
	Parts     []json.RawMessage `json:"parts"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
	CreatedAt *time.Time        `json:"createdAt,omitempty"`
}

// MarshalJSON encodes the message in the UI message wire shape.
func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{
		ID:       m.ID,
		Role:     m.Role,
		Parts:    make([]json.RawMessage, 0, len(m.Parts)),
		Metadata: m.Metadata,
	}
	if !m.CreatedAt.IsZero() {
		t := m.CreatedAt
		w.CreatedAt = &t
	}
	for i, p := range m.Parts {
		raw, err := MarshalPart(p)
		if err != nil {
			return nil, fmt.Errorf("encode part %d: %w", i, err)
		}
		w.Parts = append(w.Parts, raw)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a UI message. Parts that cannot be understood become
// UnknownPart values instead of failing the whole message.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.ID = w.ID
	m.Role = w.Role
	m.Metadata = w.Metadata
	m.CreatedAt = time.Time{}
	if w.CreatedAt != nil {
		m.CreatedAt = *w.CreatedAt
	}
	m.Parts = make([]Part, 0, len(w.Parts))
	for _, raw := range w.Parts {
		m.Parts = append(m.Parts, DecodePart(raw))
	}
	return nil
}

// Clone returns a copy whose parts slice can be modified independently.
func (m Message) Clone() Message {
	out := m
	out.Parts = append([]Part(nil), m.Parts...)
	return out
}

// LastIndex returns the index of the last message with the given role, or -1.
func LastIndex(msgs []Message, role Role) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == role {
			return i
		}
	}
	return -1
}
