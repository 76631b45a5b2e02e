package cmd

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wethinkt/go-tripchat/internal/config"
	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/router"
	"github.com/wethinkt/go-tripchat/internal/tui"
	"github.com/wethinkt/go-tripchat/internal/tui/theme"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

var tuiThread string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat (default)",
	Long: `Open the chat interface. The landing page lists your threads and
suggested questions; typing a message there starts a new thread.

Keys:
  enter   send / open thread
  tab     switch between input, suggestions and threads
  d       delete the selected thread
  ctrl+y  copy the last answer
  esc     back

Editing ~/.tripchat/config.json while the chat is open applies theme and
language changes immediately.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	tuilog.Log.Info("Starting TUI", "base_url", cfg.BaseURL, "resource", cfg.ResourceID)

	start := router.Landing
	if tuiThread != "" {
		loc, err := router.Parse("/chat/" + tuiThread)
		if err != nil {
			return err
		}
		start = loc
	}

	// Get initial terminal size - try stdout, stdin, stderr in order
	var opts []tea.ProgramOption
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stdin.Fd()), int(os.Stderr.Fd())} {
		if term.IsTerminal(fd) {
			w, h, err := term.GetSize(fd)
			if err == nil && w > 0 && h > 0 {
				tuilog.Log.Info("Terminal size", "fd", fd, "width", w, "height", h)
				opts = append(opts, tea.WithWindowSize(w, h))
				break
			}
		}
	}

	shell := tui.NewShell(services(), start, router.State{})
	defer shell.Close()
	p := tea.NewProgram(shell, opts...)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	watchSettings(ctx, p)

	_, err := p.Run()
	tuilog.Log.Info("TUI exited", "error", err)
	return err
}

// watchSettings applies theme and language edits to a running program.
func watchSettings(ctx context.Context, p *tea.Program) {
	path, err := config.Path()
	if err != nil {
		return
	}
	updates, err := config.Watch(ctx, path)
	if err != nil {
		tuilog.Log.Warn("config watch unavailable", "error", err)
		return
	}

	go func() {
		for next := range updates {
			changed := false
			if next.Theme != cfg.Theme {
				if t, err := theme.LoadByName(next.Theme); err == nil {
					tui.UseTheme(t)
					changed = true
				} else {
					tuilog.Log.Warn("reloaded theme not found", "theme", next.Theme)
				}
			}
			if next.Language != cfg.Language {
				tripI18n.Init(tripI18n.ResolveLocale(next.Language))
				changed = true
			}
			cfg.Theme, cfg.Language = next.Theme, next.Language
			if changed {
				p.Send(tui.SettingsChangedMsg{})
			}
		}
	}()
}

// openThreadHint explains how to reopen a thread after a one-shot command.
func openThreadHint(threadID string) string {
	return fmt.Sprintf("Continue in the chat with: tripchat --thread %s", threadID)
}
