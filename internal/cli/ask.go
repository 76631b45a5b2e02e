package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/config"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/tui"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// AskOptions configures a one-shot question.
type AskOptions struct {
	Stdout        io.Writer // Answer text (defaults to os.Stdout)
	Stderr        io.Writer // Reasoning and tool progress (defaults to os.Stderr)
	ShowReasoning bool
	ShowTools     bool
}

// Asker sends one message and streams the answer as plain text.
type Asker struct {
	send tui.SendFunc
	id   config.Identity
	opts AskOptions
}

// NewAsker creates an Asker posting through send.
func NewAsker(send tui.SendFunc, id config.Identity, opts AskOptions) *Asker {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Asker{send: send, id: id, opts: opts}
}

// Ask posts text to threadID after history and copies the answer to
// Stdout as it streams. It returns the folded assistant message.
func (a *Asker) Ask(ctx context.Context, threadID string, history []chat.Message, text string) (chat.Message, error) {
	msgs := append(append([]chat.Message(nil), history...), chat.NewUserMessage(text))
	stream, err := a.send(ctx, mastra.NewChatRequest(threadID, a.id.ResourceID, msgs))
	if err != nil {
		return chat.Message{}, err
	}
	defer stream.Close()

	acc := mastra.NewAccumulator(chat.NewID())
	var wrote, reasoning bool
	for c := range stream.Chunks() {
		acc.Apply(c)
		switch c.Type {
		case mastra.ChunkTextDelta:
			if reasoning {
				fmt.Fprintln(a.opts.Stderr)
				reasoning = false
			}
			fmt.Fprint(a.opts.Stdout, c.Delta)
			wrote = true
		case mastra.ChunkReasoningDelta:
			if a.opts.ShowReasoning {
				fmt.Fprint(a.opts.Stderr, c.Delta)
				reasoning = true
			}
		case mastra.ChunkToolInputAvailable:
			if a.opts.ShowTools {
				fmt.Fprintf(a.opts.Stderr, "[tool %s]\n", c.ToolName)
			}
		case mastra.ChunkError:
			tuilog.Log.Warn("ask: stream error", "thread", threadID, "error", c.ErrorText)
			return acc.Message(), errors.New(c.ErrorText)
		}
	}
	if wrote {
		fmt.Fprintln(a.opts.Stdout)
	}
	if err := stream.Err(); err != nil {
		return acc.Message(), fmt.Errorf("read answer: %w", err)
	}
	return acc.Message(), nil
}
