package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/wethinkt/go-tripchat/internal/chat"
	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/render"
	"github.com/wethinkt/go-tripchat/internal/tui/theme"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// toolMaxLines caps each JSON payload shown in a tool block.
const toolMaxLines = 16

// Shared glamour renderer, rebuilt when the width or theme changes.
var (
	mdMu       sync.Mutex
	mdRenderer *glamour.TermRenderer
	mdWidth    int
)

func markdownRenderer(width int) *glamour.TermRenderer {
	mdMu.Lock()
	defer mdMu.Unlock()
	if mdRenderer == nil || mdWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(theme.Current().GetGlamour()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			tuilog.Log.Warn("renderer: glamour unavailable", "error", err)
			return nil
		}
		mdRenderer = r
		mdWidth = width
	}
	return mdRenderer
}

func resetMarkdown() {
	mdMu.Lock()
	mdRenderer = nil
	mdMu.Unlock()
}

// RenderMarkdown formats text for a terminal of the given width. It falls
// back to the raw text when glamour fails.
func RenderMarkdown(text string, width int) string {
	if r := markdownRenderer(width); r != nil {
		if out, err := r.Render(text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return text
}

// ConversationOptions control how a conversation is drawn.
type ConversationOptions struct {
	Width           int
	Status          chat.Status
	ExpandReasoning bool
}

// RenderConversation draws every visible message in order.
func RenderConversation(msgs []chat.Message, opts ConversationOptions) string {
	width := max(20, opts.Width-2)
	streaming := opts.Status == chat.StatusStreaming

	var out []string
	for _, m := range msgs {
		if !render.Visible(m) {
			continue
		}
		out = append(out, renderMessage(m, streaming, width, opts.ExpandReasoning))
	}
	return strings.Join(out, "\n\n")
}

func renderMessage(m chat.Message, streaming bool, width int, expand bool) string {
	s := GetStyles()
	var label string
	switch m.Role {
	case chat.RoleUser:
		label = s.UserLabel.Render(tripI18n.T("tui.label.user", "You"))
	case chat.RoleSystem:
		label = s.ReasoningLabel.Render(tripI18n.T("tui.label.system", "System"))
	default:
		label = s.AssistantLabel.Render(tripI18n.T("tui.label.assistant", "Travel Assistant"))
	}

	parts := []string{label}
	for _, b := range render.Message(m, streaming) {
		if r := renderBlock(b, m.Role, width, expand); r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, "\n")
}

func renderBlock(b render.Block, role chat.Role, width int, expand bool) string {
	s := GetStyles()
	switch b := b.(type) {
	case render.ResponseText:
		if role == chat.RoleUser {
			return s.UserBlock.Width(width).Render(b.Text)
		}
		return s.AssistantBlock.Width(width).Render(RenderMarkdown(b.Text, width-2))
	case render.Reasoning:
		return renderReasoning(b, width, expand)
	case render.ToolInvocation:
		return renderTool(b, width)
	case render.NetworkExecution:
		return renderNetwork(b, width)
	}
	return ""
}

// renderReasoning collapses finished reasoning to a one-line preview.
func renderReasoning(r render.Reasoning, width int, expand bool) string {
	s := GetStyles()
	title := tripI18n.T("tui.label.reasoning", "Reasoning")
	if r.Streaming {
		title = tripI18n.T("tui.label.reasoningLive", "Reasoning...")
	}
	label := s.ReasoningLabel.Render(title)

	text := strings.TrimSpace(r.Text)
	if text == "" {
		return label
	}
	if !expand && !r.Streaming {
		first, _, _ := strings.Cut(text, "\n")
		avail := max(10, width-lipgloss.Width(label)-1)
		return label + " " + s.Muted.Render(ansi.Truncate(first, avail, "…"))
	}
	return label + "\n" + s.ReasoningBlock.Width(width).Render(text)
}

func renderTool(t render.ToolInvocation, width int) string {
	s := GetStyles()
	header := s.ToolLabel.Render(tripI18n.Tf("tui.label.tool", "Tool: %s", t.Name)) + " " + toolStateBadge(t.State)

	var body []string
	if t.HasInput() {
		body = append(body, s.Muted.Render(tripI18n.T("tui.tool.input", "Input")), prettyJSON(t.Input, toolMaxLines))
	}
	if t.HasOutput() {
		body = append(body, s.Muted.Render(tripI18n.T("tui.tool.output", "Output")), prettyJSON(t.Output, toolMaxLines))
	}
	if t.ErrorText != "" {
		body = append(body, s.Failed.Render(t.ErrorText))
	}
	if len(body) == 0 {
		return header
	}
	return header + "\n" + s.ToolBlock.Width(width).Render(strings.Join(body, "\n"))
}

func toolStateBadge(state chat.ToolState) string {
	s := GetStyles()
	switch state {
	case chat.ToolInputStreaming, chat.ToolInputAvailable:
		return s.Pending.Render("● " + tripI18n.T("tui.tool.running", "running"))
	case chat.ToolOutputAvailable:
		return s.Success.Render("✓ " + tripI18n.T("tui.tool.done", "done"))
	case chat.ToolOutputError:
		return s.Failed.Render("✗ " + tripI18n.T("tui.tool.failed", "failed"))
	}
	return s.Muted.Render(string(state))
}

// prettyJSON indents raw and keeps at most maxLines lines. Bare strings are
// shown unquoted.
func prettyJSON(raw json.RawMessage, maxLines int) string {
	var str string
	if json.Unmarshal(raw, &str) == nil {
		return clampLines(str, maxLines)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return clampLines(string(raw), maxLines)
	}
	return clampLines(buf.String(), maxLines)
}

func clampLines(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if maxLines <= 0 || len(lines) <= maxLines {
		return s
	}
	more := len(lines) - maxLines
	return strings.Join(lines[:maxLines], "\n") + "\n" +
		GetStyles().Muted.Render(fmt.Sprintf("… %s", tripI18n.Tn("tui.moreLines", "{{.Count}} more line", "{{.Count}} more lines", more)))
}
