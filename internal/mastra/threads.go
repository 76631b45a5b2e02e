package mastra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/wethinkt/go-tripchat/internal/chat"
)

// Thread is a persisted conversation.
type Thread struct {
	ID         string         `json:"id"`
	Title      string         `json:"title,omitempty"`
	ResourceID string         `json:"resourceId,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ListThreads returns the threads owned by resourceID, newest first.
func (c *Client) ListThreads(ctx context.Context, resourceID, agentID string) ([]Thread, error) {
	var raw json.RawMessage
	path := "/api/memory/threads" + query("resourceid", resourceID, "agentId", agentID)
	if err := c.doJSON(ctx, "list_threads", http.MethodGet, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}

	threads, err := decodeThreadList(raw)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].UpdatedAt.After(threads[j].UpdatedAt)
	})
	return threads, nil
}

// decodeThreadList accepts both a bare array and a paginated envelope.
func decodeThreadList(raw json.RawMessage) ([]Thread, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var threads []Thread
		if err := json.Unmarshal(trimmed, &threads); err != nil {
			return nil, err
		}
		return threads, nil
	}
	var env struct {
		Threads []Thread `json:"threads"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	return env.Threads, nil
}

// GetThread resolves a thread by id. A missing thread yields an error for
// which IsNotFound is true.
func (c *Client) GetThread(ctx context.Context, threadID, agentID string) (Thread, error) {
	var t *Thread
	path := "/api/memory/threads/" + url.PathEscape(threadID) + query("agentId", agentID)
	if err := c.doJSON(ctx, "get_thread", http.MethodGet, path, nil, &t); err != nil {
		if IsNotFound(err) {
			return Thread{}, fmt.Errorf("get thread %s: %w", threadID, ErrThreadNotFound)
		}
		return Thread{}, fmt.Errorf("get thread %s: %w", threadID, err)
	}
	if t == nil || t.ID == "" {
		return Thread{}, fmt.Errorf("get thread %s: %w", threadID, ErrThreadNotFound)
	}
	return *t, nil
}

// ThreadMessages returns the stored messages of a thread in order.
func (c *Client) ThreadMessages(ctx context.Context, threadID, agentID string) ([]chat.Message, error) {
	var resp struct {
		UIMessages []storedMessage `json:"uiMessages"`
		Messages   []storedMessage `json:"messages"`
	}
	path := "/api/memory/threads/" + url.PathEscape(threadID) + "/messages" + query("agentId", agentID)
	if err := c.doJSON(ctx, "thread_messages", http.MethodGet, path, nil, &resp); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("thread messages %s: %w", threadID, ErrThreadNotFound)
		}
		return nil, fmt.Errorf("thread messages %s: %w", threadID, err)
	}

	stored := resp.UIMessages
	if len(stored) == 0 {
		stored = resp.Messages
	}
	out := make([]chat.Message, 0, len(stored))
	for _, s := range stored {
		out = append(out, s.toMessage())
	}
	return out, nil
}

// DeleteThread removes a thread and its messages.
func (c *Client) DeleteThread(ctx context.Context, threadID, agentID string) error {
	path := "/api/memory/threads/" + url.PathEscape(threadID) + query("agentId", agentID)
	if err := c.doJSON(ctx, "delete_thread", http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete thread %s: %w", threadID, err)
	}
	return nil
}

// storedMessage covers the UI message shape and the storage shape, where
// parts sit under content.parts or content is a bare string.
type storedMessage struct {
	ID        string            `json:"id"`
	Role      chat.Role         `json:"role"`
	Parts     []json.RawMessage `json:"parts"`
	Content   json.RawMessage   `json:"content"`
	Metadata  map[string]any    `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (s storedMessage) toMessage() chat.Message {
	m := chat.Message{
		ID:        s.ID,
		Role:      s.Role,
		Metadata:  s.Metadata,
		CreatedAt: s.CreatedAt,
	}

	parts := s.Parts
	if len(parts) == 0 && chat.Present(s.Content) {
		var text string
		if err := json.Unmarshal(s.Content, &text); err == nil {
			m.Parts = []chat.Part{chat.TextPart{Text: text, State: chat.StateDone}}
			return m
		}
		var content struct {
			Parts    []json.RawMessage `json:"parts"`
			Metadata map[string]any    `json:"metadata"`
		}
		if err := json.Unmarshal(s.Content, &content); err == nil {
			parts = content.Parts
			if m.Metadata == nil {
				m.Metadata = content.Metadata
			}
		}
	}

	m.Parts = make([]chat.Part, 0, len(parts))
	for _, raw := range parts {
		m.Parts = append(m.Parts, chat.DecodePart(raw))
	}
	return m
}
