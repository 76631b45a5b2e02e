package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/render"
)

// MarkdownExporter writes a readable transcript. Only what the chat view
// would show is written; suppressed parts are left out.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(doc Document, w io.Writer) error {
	title := doc.Thread.Title
	if title == "" {
		title = doc.Thread.ID
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Thread:** %s  \n", doc.Thread.ID)
	if !doc.Thread.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "**Created:** %s  \n", doc.Thread.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "**Messages:** %d\n\n", len(doc.Messages))

	first := true
	for _, msg := range doc.Messages {
		if !render.Visible(msg) {
			continue
		}
		if !first {
			b.WriteString("---\n\n")
		}
		first = false
		fmt.Fprintf(&b, "## %s\n\n", roleHeading(msg.Role))
		for _, blk := range render.Message(msg, false) {
			writeBlock(&b, blk)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (e *MarkdownExporter) Extension() string { return "md" }

func roleHeading(r chat.Role) string {
	switch r {
	case chat.RoleUser:
		return "User"
	case chat.RoleAssistant:
		return "Assistant"
	case chat.RoleSystem:
		return "System"
	}
	return string(r)
}

func writeBlock(b *strings.Builder, blk render.Block) {
	switch v := blk.(type) {
	case render.ResponseText:
		b.WriteString(strings.TrimSpace(v.Text))
		b.WriteString("\n\n")

	case render.Reasoning:
		b.WriteString("<details><summary>Reasoning</summary>\n\n")
		b.WriteString(strings.TrimSpace(v.Text))
		b.WriteString("\n\n</details>\n\n")

	case render.ToolInvocation:
		fmt.Fprintf(b, "**Tool:** `%s` (%s)\n\n", v.Name, v.State)
		if v.HasInput() {
			writeJSON(b, "Input", v.Input)
		}
		if v.HasOutput() {
			writeJSON(b, "Output", v.Output)
		}
		if v.ErrorText != "" {
			fmt.Fprintf(b, "> Error: %s\n\n", v.ErrorText)
		}

	case render.NetworkExecution:
		nd, ok := chat.ParseNetwork(v.Data)
		if !ok {
			return
		}
		name := nd.Name
		if name == "" {
			name = "Agent network"
		}
		fmt.Fprintf(b, "**%s** (%s)\n\n", name, nd.Status)
		for i, step := range nd.Steps {
			fmt.Fprintf(b, "%d. %s: %s\n", i+1, step.Name, step.Status)
		}
		if len(nd.Steps) > 0 {
			b.WriteString("\n")
		}
	}
}

func writeJSON(b *strings.Builder, label string, raw json.RawMessage) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(raw)
	}
	fmt.Fprintf(b, "%s:\n\n```json\n%s\n```\n\n", label, pretty.String())
}
