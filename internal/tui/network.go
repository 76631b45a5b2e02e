package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wethinkt/go-tripchat/internal/chat"
	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/render"
)

// renderNetwork draws an agent-network trace as a step list.
func renderNetwork(n render.NetworkExecution, width int) string {
	s := GetStyles()
	data, ok := chat.ParseNetwork(n.Data)
	if !ok {
		return s.NetworkLabel.Render(tripI18n.T("tui.network.title", "Agent network")) + " " +
			s.Muted.Render(tripI18n.T("tui.network.unreadable", "(unreadable trace)"))
	}

	name := data.Name
	if name == "" {
		name = tripI18n.T("tui.network.title", "Agent network")
	}
	status := data.Status
	if status == "" && n.Streaming {
		status = "running"
	}
	header := s.NetworkLabel.Render(name)
	if status != "" {
		header += " " + stepGlyph(status) + " " + s.Muted.Render(status)
	}

	inner := max(10, width-2)
	var lines []string
	for i, step := range data.Steps {
		line := stepGlyph(step.Status) + " " + step.Name
		if detail := stepDetail(step); detail != "" {
			avail := max(0, inner-lipgloss.Width(line)-3)
			if avail > 0 {
				line += s.Muted.Render(" · " + ansi.Truncate(detail, avail, "…"))
			}
		}
		connector := "├ "
		if i == len(data.Steps)-1 {
			connector = "└ "
		}
		lines = append(lines, s.Muted.Render(connector)+line)
	}
	if chat.Present(data.Output) {
		lines = append(lines, s.Muted.Render(tripI18n.T("tui.network.output", "Output")), prettyJSON(data.Output, toolMaxLines))
	}
	if len(lines) == 0 {
		return header
	}
	return header + "\n" + s.NetworkBlock.Width(width).Render(strings.Join(lines, "\n"))
}

// stepDetail summarises a step on one line, preferring its output.
func stepDetail(step chat.NetworkStep) string {
	raw := step.Output
	if !chat.Present(raw) {
		raw = step.Input
	}
	if !chat.Present(raw) {
		return ""
	}
	return strings.Join(strings.Fields(prettyJSON(raw, 0)), " ")
}

func stepGlyph(status string) string {
	s := GetStyles()
	switch strings.ToLower(status) {
	case "success", "finished", "completed", "done":
		return s.Success.Render("✓")
	case "failed", "error":
		return s.Failed.Render("✗")
	case "running", "pending", "in-progress":
		return s.Pending.Render("●")
	}
	return s.Muted.Render("○")
}
