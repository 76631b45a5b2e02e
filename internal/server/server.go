// Package server implements a development stand-in for a Mastra agent
// server: the memory API for threads and a chat route that streams canned
// travel answers as a UI message stream. It backs `tripchat mock-server`
// and the tests of the client packages.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// Config holds server configuration.
type Config struct {
	Host string
	Port int
	// ChunkDelay paces streamed chunks so the client visibly streams.
	ChunkDelay time.Duration
	// Quiet disables request logging.
	Quiet bool
}

// DefaultConfig returns the address a default client config points at.
func DefaultConfig() Config {
	return Config{
		Host:       "localhost",
		Port:       4111,
		ChunkDelay: 40 * time.Millisecond,
	}
}

// Server serves the mock agent API.
type Server struct {
	store  *Store
	router chi.Router
	config Config
}

// New creates a server over store. A nil store starts empty.
func New(store *Store, config Config) *Server {
	if store == nil {
		store = NewStore()
	}
	s := &Server{store: store, config: config}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	if !s.config.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)

	r.Route("/api/memory/threads", func(r chi.Router) {
		r.Get("/", s.handleListThreads)
		r.Get("/{threadID}", s.handleGetThread)
		r.Get("/{threadID}/messages", s.handleThreadMessages)
		r.Delete("/{threadID}", s.handleDeleteThread)
	})
	r.Post(mastra.ChatPath, s.handleChat)

	return r
}

// Handler returns the HTTP handler, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store returns the backing thread store.
func (s *Server) Store() *Store {
	return s.store
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if s.config.Port == 0 {
		s.config.Port = ln.Addr().(*net.TCPAddr).Port
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	tuilog.Log.Info("server: listening", "addr", s.Addr())
	fmt.Printf("Mock agent server running at http://%s\n", s.Addr())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// corsMiddleware lets a browser client on another port talk to the server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
