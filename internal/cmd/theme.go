package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-tripchat/internal/cli"
	"github.com/wethinkt/go-tripchat/internal/tui"
	"github.com/wethinkt/go-tripchat/internal/tui/theme"
)

// Theme command
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show and manage TUI themes",
	Long: `Show and manage TUI themes.

The theme controls colors for message blocks, labels, borders and the
confirmation dialog. Built-in themes are dark and light; user themes are
JSON files in ~/.tripchat/themes/ and only need the fields they change.

Examples:
  tripchat theme              # Show current theme with samples
  tripchat theme show light   # Show the light theme
  tripchat theme show --json  # Output theme as JSON (a starting point for your own)
  tripchat theme list         # List all available themes
  tripchat theme set light    # Switch to a theme`,
	Args: cobra.NoArgs,
	RunE: runThemeShow,
}

var themeShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Display a theme with styled samples",
	Long: `Display a theme with styled samples.

If no name is provided, shows the active theme.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThemeShow,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	Long:  `List all built-in and user themes. The active theme is marked with *.`,
	Args:  cobra.NoArgs,
	RunE:  runThemeList,
}

var themeSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Set the active theme",
	Long: `Set the active theme by name. A running chat picks the change up
immediately.

Examples:
  tripchat theme set dark
  tripchat theme set my-custom-theme`,
	Args: cobra.ExactArgs(1),
	RunE: runThemeSet,
}

// runThemeShow displays a theme by name, or the active theme if no name given.
func runThemeShow(cmd *cobra.Command, args []string) error {
	t := theme.Current()
	if len(args) > 0 {
		var err error
		t, err = theme.LoadByName(args[0])
		if err != nil {
			return fmt.Errorf("theme %q not found", args[0])
		}
	}

	display := cli.NewThemeDisplay(cmd.OutOrStdout(), t)
	if outputJSON {
		return display.ShowJSON()
	}
	return display.Show()
}

// runThemeList lists all available themes.
func runThemeList(cmd *cobra.Command, args []string) error {
	return cli.ListThemes(cmd.OutOrStdout(), cfg.Theme)
}

// runThemeSet sets the active theme.
func runThemeSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	if err := theme.SetActive(name); err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}
	if t, err := theme.LoadByName(name); err == nil {
		tui.UseTheme(t)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Theme set to: %s\n", name)
	return nil
}
