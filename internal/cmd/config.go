package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-tripchat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active configuration",
	Long: `Show the configuration tripchat runs with: ~/.tripchat/config.json
merged with the TRIPCHAT_* environment variables and command-line flags.

Environment overrides:
  TRIPCHAT_HOME         config directory (default ~/.tripchat)
  TRIPCHAT_BASE_URL     agent server URL
  TRIPCHAT_RESOURCE_ID  resource id threads are scoped to
  TRIPCHAT_AGENT_ID     agent id
  TRIPCHAT_LANG         display language`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	path, _ := config.Path()
	fmt.Fprintf(out, "Config:      %s\n", path)
	fmt.Fprintf(out, "Server:      %s\n", cfg.BaseURL)
	fmt.Fprintf(out, "Resource:    %s\n", cfg.ResourceID)
	fmt.Fprintf(out, "Agent:       %s\n", cfg.AgentID)
	fmt.Fprintf(out, "Theme:       %s\n", cfg.Theme)
	lang := cfg.Language
	if lang == "" {
		lang = "(from environment)"
	}
	fmt.Fprintf(out, "Language:    %s\n", lang)
	fmt.Fprintf(out, "Timeout:     %s\n", cfg.RequestTimeoutDuration())
	fmt.Fprintf(out, "Refresh:     %s after each answer\n", cfg.InvalidateDelayDuration())
	if ttl := cfg.CacheTTLDuration(); ttl > 0 {
		fmt.Fprintf(out, "Cache TTL:   %s\n", ttl)
	} else {
		fmt.Fprintln(out, "Cache TTL:   until invalidated")
	}

	if servers, err := config.LocalServers(); err == nil && len(servers) > 0 {
		fmt.Fprintln(out, "\nLocal mock servers:")
		for _, s := range servers {
			fmt.Fprintf(out, "  %-28s pid %-7d since %s\n", s.URL, s.PID, s.StartedAt.Format("15:04:05"))
		}
	}
	return nil
}
