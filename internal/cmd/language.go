package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wethinkt/go-tripchat/internal/config"
	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/tui"
)

var languageCmd = &cobra.Command{
	Use:   "language [lang]",
	Short: "Get or set the display language",
	Long: `Get or set the display language. Use a BCP 47 tag (e.g., en, es).

Without an argument in a terminal, an interactive picker previews each
language. TRIPCHAT_LANG overrides the stored setting for a single run.

Examples:
  tripchat language          # pick interactively
  tripchat language es       # set to Spanish
  tripchat language --list   # list available languages`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLanguage,
}

var languageList bool

func init() {
	languageCmd.Flags().BoolVar(&languageList, "list", false, "list available languages")
}

func runLanguage(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	current := tripI18n.ResolveLocale(cfg.Language)

	if languageList {
		for _, l := range tripI18n.AvailableLanguages(current) {
			marker := "  "
			if l.Active {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%-8s %s (%s)\n", marker, l.Tag, l.Name, l.EnglishName)
		}
		return nil
	}

	var lang string
	if len(args) > 0 {
		lang = args[0]
	} else if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		picked, err := tui.RunLanguagePicker(current, os.Stdout)
		if err != nil {
			return err
		}
		if picked == "" {
			return nil
		}
		lang = picked
	} else {
		fmt.Fprintf(out, "Current language: %s\n", current)
		return nil
	}

	if !tripI18n.IsAvailable(lang) {
		var tags []string
		for _, l := range tripI18n.AvailableLanguages(current) {
			tags = append(tags, l.Tag)
		}
		return fmt.Errorf("language %q is not available (available: %s)", lang, strings.Join(tags, ", "))
	}

	stored, err := config.Load()
	if err != nil {
		return err
	}
	stored.Language = lang
	if err := config.Save(stored); err != nil {
		return err
	}
	fmt.Fprintf(out, "Language set to: %s\n", lang)
	return nil
}
