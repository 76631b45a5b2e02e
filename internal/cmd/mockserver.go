package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/server"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// Mock server flags
var (
	mockHost  string
	mockPort  int
	mockDelay time.Duration
	mockQuiet bool
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run a local stand-in agent server",
	Long: `Run an in-memory server that speaks the agent server's thread and chat
API. Answers are canned: weather questions call a weather tool, planning
questions route through an agent network, everything else suggests
destinations. Threads are lost when the server stops.

Examples:
  tripchat mock-server                  # Serve on localhost:4111
  tripchat mock-server -p 5000 --delay 0s`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func runMockServer(cmd *cobra.Command, args []string) error {
	conf := server.DefaultConfig()
	conf.Host = mockHost
	conf.Port = mockPort
	conf.Quiet = mockQuiet
	if cmd.Flags().Changed("delay") {
		conf.ChunkDelay = mockDelay
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nShutting down...")
		case <-ctx.Done():
		}
		cancel()
	}()

	srv := server.New(nil, conf)
	pid := os.Getpid()
	if err := config.RegisterLocalServer(config.LocalServer{
		PID:       pid,
		URL:       "http://" + srv.Addr(),
		StartedAt: time.Now(),
	}); err != nil {
		tuilog.Log.Warn("register local server", "error", err)
	}
	defer config.UnregisterLocalServer(pid)

	return srv.ListenAndServe(ctx)
}
