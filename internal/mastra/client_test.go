package mastra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wethinkt/go-tripchat/internal/chat"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestListThreads(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "bare array",
			body: `[{"id":"a","updatedAt":"2026-01-01T00:00:00Z"},{"id":"b","updatedAt":"2026-02-01T00:00:00Z"}]`,
			want: []string{"b", "a"},
		},
		{
			name: "envelope",
			body: `{"threads":[{"id":"x","title":"Paris","updatedAt":"2026-01-01T00:00:00Z"}],"total":1}`,
			want: []string{"x"},
		},
		{
			name: "null",
			body: `null`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/memory/threads" {
					t.Errorf("path = %q", r.URL.Path)
				}
				gotQuery = r.URL.RawQuery
				_, _ = w.Write([]byte(tt.body))
			})

			threads, err := c.ListThreads(context.Background(), "user-1", "travelAgent")
			if err != nil {
				t.Fatalf("ListThreads: %v", err)
			}
			if gotQuery != "agentId=travelAgent&resourceid=user-1" {
				t.Errorf("query = %q", gotQuery)
			}
			if len(threads) != len(tt.want) {
				t.Fatalf("got %d threads, want %d", len(threads), len(tt.want))
			}
			for i, id := range tt.want {
				if threads[i].ID != id {
					t.Errorf("threads[%d].ID = %q, want %q", i, threads[i].ID, id)
				}
			}
		})
	}
}

func TestGetThreadNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"404", http.StatusNotFound, `{"error":"Thread not found"}`},
		{"null body", http.StatusOK, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.GetThread(context.Background(), "t1", "travelAgent")
			if !errors.Is(err, ErrThreadNotFound) {
				t.Fatalf("err = %v, want ErrThreadNotFound", err)
			}
			if !IsNotFound(err) {
				t.Error("IsNotFound = false")
			}
		})
	}
}

func TestGetThread(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/memory/threads/t1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"t1","title":"Lisbon trip","resourceId":"user-1"}`))
	})
	th, err := c.GetThread(context.Background(), "t1", "travelAgent")
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if th.Title != "Lisbon trip" || th.ResourceID != "user-1" {
		t.Errorf("thread = %+v", th)
	}
}

func TestGetThreadServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	})
	_, err := c.GetThread(context.Background(), "t1", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsNotFound(err) {
		t.Error("500 must not be reported as not found")
	}
	apiErr := asAPIError(err)
	if apiErr == nil || apiErr.StatusCode != 500 || apiErr.Message != "boom" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestThreadMessagesShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "uiMessages",
			body: `{"uiMessages":[{"id":"m1","role":"user","parts":[{"type":"text","text":"hi"}]}],"messages":[]}`,
		},
		{
			name: "content parts",
			body: `{"messages":[{"id":"m1","role":"user","content":{"format":2,"parts":[{"type":"text","text":"hi"}]}}]}`,
		},
		{
			name: "content string",
			body: `{"messages":[{"id":"m1","role":"user","content":"hi"}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/memory/threads/t1/messages" {
					t.Errorf("path = %q", r.URL.Path)
				}
				_, _ = w.Write([]byte(tt.body))
			})
			msgs, err := c.ThreadMessages(context.Background(), "t1", "travelAgent")
			if err != nil {
				t.Fatalf("ThreadMessages: %v", err)
			}
			if len(msgs) != 1 || len(msgs[0].Parts) != 1 {
				t.Fatalf("msgs = %+v", msgs)
			}
			tp, ok := msgs[0].Parts[0].(chat.TextPart)
			if !ok || tp.Text != "hi" {
				t.Errorf("part = %#v", msgs[0].Parts[0])
			}
			if msgs[0].Role != chat.RoleUser {
				t.Errorf("role = %q", msgs[0].Role)
			}
		})
	}
}

func TestDeleteThread(t *testing.T) {
	var method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]string{"result": "ok"})
	})
	if err := c.DeleteThread(context.Background(), "t1", "travelAgent"); err != nil {
		t.Fatalf("DeleteThread: %v", err)
	}
	if method != http.MethodDelete || path != "/api/memory/threads/t1" {
		t.Errorf("got %s %s", method, path)
	}
}
