package tui

import (
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/wethinkt/go-tripchat/internal/tui/theme"
)

// Styles holds all the computed lipgloss styles for the TUI.
type Styles struct {
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Muted       lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style

	// Conversation blocks
	UserBlock      lipgloss.Style
	AssistantBlock lipgloss.Style
	ReasoningBlock lipgloss.Style
	ToolBlock      lipgloss.Style
	NetworkBlock   lipgloss.Style

	// Block labels
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	ReasoningLabel lipgloss.Style
	ToolLabel      lipgloss.Style
	NetworkLabel   lipgloss.Style

	// Status badges
	Pending lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style

	// Input box
	InputActive   lipgloss.Style
	InputInactive lipgloss.Style

	// Landing lists
	Section    lipgloss.Style
	Item       lipgloss.Style
	ItemActive lipgloss.Style

	// Confirm dialog
	ConfirmPrompt     lipgloss.Style
	ConfirmSelected   lipgloss.Style
	ConfirmUnselected lipgloss.Style
}

var (
	stylesMu sync.RWMutex
	styles   *Styles
)

// GetStyles returns the current styles, building them from the theme on
// first use.
func GetStyles() *Styles {
	stylesMu.RLock()
	s := styles
	stylesMu.RUnlock()
	if s != nil {
		return s
	}
	built := buildStyles(theme.Current())
	stylesMu.Lock()
	styles = &built
	stylesMu.Unlock()
	return &built
}

// ReloadStyles rebuilds styles from the theme on disk.
func ReloadStyles() *Styles {
	theme.Reload()
	return UseTheme(theme.Current())
}

// UseTheme rebuilds styles from t.
func UseTheme(t theme.Theme) *Styles {
	theme.Use(t)
	built := buildStyles(t)
	stylesMu.Lock()
	styles = &built
	stylesMu.Unlock()
	resetMarkdown()
	return &built
}

// applyStyle applies a theme.Style to a lipgloss.Style builder.
func applyStyle(s lipgloss.Style, ts theme.Style) lipgloss.Style {
	if ts.Fg != "" {
		s = s.Foreground(lipgloss.Color(ts.Fg))
	}
	if ts.Bg != "" {
		s = s.Background(lipgloss.Color(ts.Bg))
	}
	if ts.Bold {
		s = s.Bold(true)
	}
	if ts.Italic {
		s = s.Italic(true)
	}
	if ts.Underline {
		s = s.Underline(true)
	}
	return s
}

func buildStyles(t theme.Theme) Styles {
	accent := lipgloss.Color(t.GetAccent())
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.TextSecondary.Fg)),
		HeaderBrand: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Subtitle: applyStyle(lipgloss.NewStyle(), t.TextSecondary),
		Muted:    applyStyle(lipgloss.NewStyle(), t.TextMuted),
		Help:     applyStyle(lipgloss.NewStyle(), t.TextMuted),
		Error:    applyStyle(lipgloss.NewStyle(), t.StatusError),

		UserBlock:      applyStyle(lipgloss.NewStyle(), t.UserBlock).Padding(0, 1),
		AssistantBlock: applyStyle(lipgloss.NewStyle(), t.AssistantBlock).Padding(0, 1),
		ReasoningBlock: applyStyle(lipgloss.NewStyle(), t.ReasoningBlock).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(t.GetBorderInactive())),
		ToolBlock:    applyStyle(lipgloss.NewStyle(), t.ToolBlock).Padding(0, 1),
		NetworkBlock: applyStyle(lipgloss.NewStyle(), t.NetworkBlock).Padding(0, 1),

		UserLabel:      applyStyle(lipgloss.NewStyle(), t.UserLabel),
		AssistantLabel: applyStyle(lipgloss.NewStyle(), t.AssistantLabel),
		ReasoningLabel: applyStyle(lipgloss.NewStyle(), t.ReasoningLabel),
		ToolLabel:      applyStyle(lipgloss.NewStyle(), t.ToolLabel),
		NetworkLabel:   applyStyle(lipgloss.NewStyle(), t.NetworkLabel),

		Pending: applyStyle(lipgloss.NewStyle(), t.StatusPending),
		Success: applyStyle(lipgloss.NewStyle(), t.StatusSuccess),
		Failed:  applyStyle(lipgloss.NewStyle(), t.StatusError),

		InputActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.GetBorderActive())).
			Padding(0, 1),
		InputInactive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.GetBorderInactive())).
			Padding(0, 1),

		Section: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.TextSecondary.Fg)).
			Bold(true).
			MarginTop(1),
		Item: lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color(t.TextPrimary.Fg)),
		ItemActive: lipgloss.NewStyle().
			PaddingLeft(1).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderLeftForeground(accent).
			Foreground(lipgloss.Color(t.TextPrimary.Fg)),

		ConfirmPrompt: applyStyle(lipgloss.NewStyle(), t.ConfirmPrompt).
			Bold(true),
		ConfirmSelected: applyStyle(lipgloss.NewStyle(), t.ConfirmSelected).
			Bold(true).
			Padding(0, 2),
		ConfirmUnselected: applyStyle(lipgloss.NewStyle(), t.ConfirmUnselected).
			Padding(0, 2),
	}
}
