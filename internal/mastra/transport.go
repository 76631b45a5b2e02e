package mastra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// ChatPath is where the server mounts its chat route.
const ChatPath = "/chat"

// ChatRequest is the body posted to the chat endpoint. The server owns the
// conversation history, so Messages only ever holds the newest message.
type ChatRequest struct {
	ID       string         `json:"id"`
	Messages []chat.Message `json:"messages"`
	Memory   Memory         `json:"memory"`
}

// Memory tells the server where to persist the exchange.
type Memory struct {
	Thread   string `json:"thread"`
	Resource string `json:"resource"`
}

// NewChatRequest builds the request for threadID from the local history,
// keeping only its last message.
func NewChatRequest(threadID, resourceID string, history []chat.Message) ChatRequest {
	req := ChatRequest{
		ID:       threadID,
		Messages: []chat.Message{},
		Memory:   Memory{Thread: threadID, Resource: resourceID},
	}
	if n := len(history); n > 0 {
		req.Messages = []chat.Message{history[n-1]}
	}
	return req
}

// Transport posts chat requests and streams the response.
type Transport struct {
	url  string
	http *http.Client
}

// NewTransport creates a transport for the server at baseURL. The HTTP
// client has no overall timeout since responses stream for as long as the
// agent works; cancel the context to stop.
func NewTransport(baseURL string) *Transport {
	return &Transport{
		url:  strings.TrimRight(baseURL, "/") + ChatPath,
		http: &http.Client{},
	}
}

// WithHTTPClient returns a copy of t that uses hc.
func (t *Transport) WithHTTPClient(hc *http.Client) *Transport {
	cp := *t
	cp.http = hc
	return &cp
}

// Stream is an open chat response.
type Stream struct {
	chunks chan Chunk
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Chunks yields decoded chunks in arrival order. It is closed when the
// stream ends; check Err afterwards.
func (s *Stream) Chunks() <-chan Chunk {
	return s.chunks
}

// Err returns the error that ended the stream, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close abandons the stream.
func (s *Stream) Close() {
	s.cancel()
}

func (s *Stream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Send posts req and returns the response stream. Errors before the stream
// opens, including non-2xx statuses, are returned directly.
func (t *Transport) Send(ctx context.Context, req ChatRequest) (*Stream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	tuilog.Log.Info("mastra: chat send", "thread", req.Memory.Thread, "messages", len(req.Messages))
	resp, err := t.http.Do(httpReq)
	if err != nil {
		cancel()
		requestsTotal.WithLabelValues("chat", "transport_error").Inc()
		return nil, fmt.Errorf("send chat: %w", err)
	}
	requestsTotal.WithLabelValues("chat", statusLabel(resp.StatusCode)).Inc()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("send chat: %w", decodeAPIError(resp))
	}

	s := &Stream{
		chunks: make(chan Chunk, 64),
		cancel: cancel,
	}
	streamsActive.Inc()
	go func() {
		defer streamsActive.Dec()
		defer close(s.chunks)
		defer resp.Body.Close()

		count := 0
		err := readEvents(resp.Body, func(payload string) bool {
			if payload == doneSentinel {
				return false
			}
			var c Chunk
			if err := json.Unmarshal([]byte(payload), &c); err != nil {
				tuilog.Log.Warn("mastra: undecodable chunk", "error", err)
				return true
			}
			count++
			streamChunksTotal.WithLabelValues(c.Type).Inc()
			select {
			case s.chunks <- c:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			s.setErr(fmt.Errorf("read chat stream: %w", err))
		}
		tuilog.Log.Info("mastra: chat stream closed", "thread", req.Memory.Thread, "chunks", count, "error", s.Err())
	}()
	return s, nil
}
