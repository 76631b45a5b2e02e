package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wethinkt/go-tripchat/internal/tui/theme"
)

// ThemeDisplay handles theme visualization in the terminal.
type ThemeDisplay struct {
	w     io.Writer
	theme theme.Theme
}

// NewThemeDisplay creates a new theme display formatter.
func NewThemeDisplay(w io.Writer, t theme.Theme) *ThemeDisplay {
	return &ThemeDisplay{w: w, theme: t}
}

// themeEntry is one swatch in the theme preview.
type themeEntry struct {
	Name     string
	Style    theme.Style
	Category string
	Sample   string
}

// Show prints every theme style next to a sample rendered with it.
func (d *ThemeDisplay) Show() error {
	t := d.theme
	entries := []themeEntry{
		{"TextPrimary", t.TextPrimary, "Text", "Primary text"},
		{"TextSecondary", t.TextSecondary, "Text", "Secondary text"},
		{"TextMuted", t.TextMuted, "Text", "Muted help text"},

		{"UserBlock", t.UserBlock, "Blocks", " Where should I go in May? "},
		{"AssistantBlock", t.AssistantBlock, "Blocks", " Try Lisbon or Porto. "},
		{"ReasoningBlock", t.ReasoningBlock, "Blocks", " Comparing spring weather... "},
		{"ToolBlock", t.ToolBlock, "Blocks", ` {"location":"Tokyo"} `},
		{"NetworkBlock", t.NetworkBlock, "Blocks", " ├ routingAgent "},

		{"UserLabel", t.UserLabel, "Labels", "You"},
		{"AssistantLabel", t.AssistantLabel, "Labels", "Travel Assistant"},
		{"ReasoningLabel", t.ReasoningLabel, "Labels", "Reasoning"},
		{"ToolLabel", t.ToolLabel, "Labels", "Tool: weatherTool"},
		{"NetworkLabel", t.NetworkLabel, "Labels", "Travel planning network"},

		{"StatusPending", t.StatusPending, "Status", "● running"},
		{"StatusSuccess", t.StatusSuccess, "Status", "✓ done"},
		{"StatusError", t.StatusError, "Status", "✗ failed"},

		{"ConfirmPrompt", t.ConfirmPrompt, "Confirm", "Delete this thread?"},
		{"ConfirmSelected", t.ConfirmSelected, "Confirm", " Delete "},
		{"ConfirmUnselected", t.ConfirmUnselected, "Confirm", " Cancel "},
	}

	themesDir, _ := theme.ThemesDir()
	fmt.Fprintf(d.w, "Theme:       %s\n", t.Name)
	if t.Description != "" {
		fmt.Fprintf(d.w, "Description: %s\n", t.Description)
	}
	fmt.Fprintf(d.w, "Glamour:     %s\n", t.GetGlamour())
	fmt.Fprintf(d.w, "Themes Dir:  %s\n\n", themesDir)

	accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.GetAccent()))
	nameStyle := lipgloss.NewStyle().Width(20)
	colorStyle := lipgloss.NewStyle().Width(18).Foreground(lipgloss.Color(t.TextMuted.Fg))

	category := ""
	for _, e := range entries {
		if e.Category != category {
			if category != "" {
				fmt.Fprintln(d.w)
			}
			fmt.Fprintln(d.w, accent.Render(e.Category))
			fmt.Fprintln(d.w, strings.Repeat("─", len(e.Category)+2))
			category = e.Category
		}
		fmt.Fprintf(d.w, "  %s %s %s\n",
			nameStyle.Render(e.Name),
			colorStyle.Render(colors(e.Style)),
			swatch(e.Style).Render(e.Sample),
		)
	}
	fmt.Fprintln(d.w)
	return nil
}

func colors(s theme.Style) string {
	switch {
	case s.Fg != "" && s.Bg != "":
		return s.Fg + "/" + s.Bg
	case s.Bg != "":
		return "bg " + s.Bg
	}
	return s.Fg
}

func swatch(s theme.Style) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(s.Bold).Italic(s.Italic).Underline(s.Underline)
	if s.Fg != "" {
		st = st.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != "" {
		st = st.Background(lipgloss.Color(s.Bg))
	}
	return st
}

// ShowJSON writes the theme as JSON, usable as a starting point for a user
// theme file.
func (d *ThemeDisplay) ShowJSON() error {
	enc := json.NewEncoder(d.w)
	enc.SetIndent("", "  ")
	return enc.Encode(d.theme)
}

// ListThemes displays all available themes, marking active.
func ListThemes(w io.Writer, active string) error {
	themes, err := theme.ListAvailable()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available Themes:")
	fmt.Fprintln(w)
	for _, t := range themes {
		marker := "  "
		if t.Name == active {
			marker = "* "
		}
		source := "built-in"
		if !t.Embedded {
			source = "user"
		}
		fmt.Fprintf(w, "%s%-12s  %-10s  %s\n", marker, t.Name, "("+source+")", t.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Active theme marked with *")
	fmt.Fprintln(w, "Use 'tripchat theme set <name>' to change theme")
	return nil
}
