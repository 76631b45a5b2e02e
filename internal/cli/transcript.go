package cli

import (
	"fmt"
	"io"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/export"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/tui"
)

// TranscriptOptions configures `threads view`.
type TranscriptOptions struct {
	Width int
	// Styled renders like the chat page; otherwise plain markdown is written,
	// which suits pipes.
	Styled bool
}

// WriteTranscript prints a thread's conversation.
func WriteTranscript(w io.Writer, th mastra.Thread, msgs []chat.Message, opts TranscriptOptions) error {
	if !opts.Styled {
		return (&export.MarkdownExporter{}).Export(export.Document{Thread: th, Messages: msgs}, w)
	}

	st := tui.GetStyles()
	title := th.Title
	if title == "" {
		title = th.ID
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n",
		st.Title.Render(title),
		st.Muted.Render(th.ID),
		tui.RenderConversation(msgs, tui.ConversationOptions{Width: width, Status: chat.StatusReady}),
	)
	return err
}
