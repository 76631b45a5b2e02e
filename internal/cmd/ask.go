package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/cli"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/threads"
)

var (
	askThread    string
	askReasoning bool
	askTools     bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and stream the answer",
	Long: `Send a single message to the travel assistant and print the answer
as it streams. Without --thread a new thread is created; its id is printed
to stderr so the conversation can be continued.

Examples:
  tripchat ask "What's the weather in Tokyo?"
  tripchat ask --tools "Plan 3 days in Lisbon"
  tripchat ask -t 1a2b "And what about Porto?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("question is empty")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	svc := services()
	threadID := chat.NewID()
	var history []chat.Message
	if askThread != "" {
		th, err := cli.ResolveThread(ctx, svc.Remote, svc.Identity.ResourceID, svc.Identity.AgentID, askThread)
		if err != nil {
			return err
		}
		threadID = th.ID
		msgs, err := query.Fetch(ctx, svc.Cache, threads.ThreadMessagesQuery(svc.Remote, svc.Identity, th.ID))
		if err != nil {
			return err
		}
		history = msgs.Messages
	}

	asker := cli.NewAsker(svc.Send, svc.Identity, cli.AskOptions{
		Stdout:        cmd.OutOrStdout(),
		Stderr:        cmd.ErrOrStderr(),
		ShowReasoning: askReasoning,
		ShowTools:     askTools,
	})
	if _, err := asker.Ask(ctx, threadID, history, text); err != nil {
		return err
	}
	if askThread == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), openThreadHint(threadID))
	}
	return nil
}
