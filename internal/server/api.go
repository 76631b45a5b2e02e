package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wethinkt/go-tripchat/internal/chat"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessagesResponse mirrors the memory API's messages payload.
type MessagesResponse struct {
	Messages   []chat.Message `json:"messages"`
	UIMessages []chat.Message `json:"uiMessages"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err string, msg string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: msg})
}

// handleListThreads returns the threads of ?resourceid= as a bare array.
func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	resourceID := r.URL.Query().Get("resourceid")
	if resourceID == "" {
		resourceID = r.URL.Query().Get("resourceId")
	}
	writeJSON(w, http.StatusOK, s.store.Threads(resourceID))
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	t, ok := s.store.Thread(chi.URLParam(r, "threadID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Thread not found", "")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleThreadMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "threadID")
	if _, ok := s.store.Thread(id); !ok {
		writeError(w, http.StatusNotFound, "Thread not found", "")
		return
	}
	msgs := s.store.Messages(id)
	writeJSON(w, http.StatusOK, MessagesResponse{Messages: msgs, UIMessages: msgs})
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(chi.URLParam(r, "threadID")) {
		writeError(w, http.StatusNotFound, "Thread not found", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "Thread deleted"})
}
