// Package cmd provides the CLI commands for tripchat.
package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/wethinkt/go-tripchat/internal/config"
	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/tui"
	"github.com/wethinkt/go-tripchat/internal/tui/theme"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// global flags
var (
	profileFile *os.File // held open for profiling
	logPath     string
	verbose     bool
	outputJSON  bool
	baseURL     string
	resourceID  string
	metricsAddr string
)

// cfg is the configuration loaded before every command runs.
var cfg config.Config

// rootCmd is the root command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "tripchat",
	Short: "Terminal chat client for a travel assistant agent",
	Long: `tripchat is a terminal client for a travel assistant served by a Mastra
agent server. Conversations are stored on the server as threads.

Running without a subcommand launches the interactive chat.

Commands:
  ask          Ask one question and stream the answer
  threads      List, view, export and delete threads
  config       Show the active configuration
  mock-server  Run a local stand-in agent server
  theme        Manage TUI themes
  language     Get or set the display language

Examples:
  tripchat                                  # Launch the chat
  tripchat --thread abc123                  # Reopen a thread
  tripchat ask "Weather in Lisbon?"         # One-shot question
  tripchat threads list -l                  # Threads with titles and dates
  tripchat mock-server &                    # Local server for trying things out`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Start pprof profiling if TRIPCHAT_PROFILE is set
		if profilePath := os.Getenv("TRIPCHAT_PROFILE"); profilePath != "" {
			f, err := os.Create(profilePath)
			if err != nil {
				return fmt.Errorf("create profile file: %w", err)
			}
			profileFile = f

			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				profileFile = nil
				return fmt.Errorf("start CPU profile: %w", err)
			}
		}
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if profileFile != nil {
			pprof.StopCPUProfile()
			profileFile.Close()
			profileFile = nil
		}
		return tuilog.Log.Close()
	},
	RunE: runTUI,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the config and brings up logging, translations, the theme
// and the optional metrics endpoint.
func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if resourceID != "" {
		cfg.ResourceID = resourceID
	}

	if logPath != "" {
		if err := tuilog.Init(logPath); err != nil {
			return err
		}
	}
	if verbose {
		tuilog.Log.SetLevel(tuilog.LevelDebug)
	}

	tripI18n.Init(tripI18n.ResolveLocale(cfg.Language))

	if t, err := theme.LoadByName(cfg.Theme); err == nil {
		tui.UseTheme(t)
	} else {
		tuilog.Log.Warn("theme not found, using default", "theme", cfg.Theme, "error", err)
	}

	if metricsAddr != "" {
		serveMetrics(metricsAddr)
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		tuilog.Log.Info("metrics: listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tuilog.Log.Error("metrics server error", "error", err)
		}
	}()
}

// services wires the backends shared by the TUI and the thread commands.
func services() *tui.Services {
	return &tui.Services{
		Remote:          mastra.NewClient(cfg.BaseURL, mastra.WithTimeout(cfg.RequestTimeoutDuration())),
		Send:            tui.TransportSender(mastra.NewTransport(cfg.BaseURL)),
		Cache:           query.NewClient(cfg.CacheTTLDuration()),
		Identity:        cfg.Identity(),
		InvalidateDelay: cfg.InvalidateDelayDuration(),
	}
}

func init() {
	// Global flags on root
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug-level log)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write debug log to file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "agent server URL (default: config base_url)")
	rootCmd.PersistentFlags().StringVar(&resourceID, "resource", "", "resource id threads are scoped to (default: config resource_id)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9101")

	// TUI flags live on root and on the tui alias
	rootCmd.Flags().StringVarP(&tuiThread, "thread", "t", "", "open this thread instead of the landing page")
	tuiCmd.Flags().StringVarP(&tuiThread, "thread", "t", "", "open this thread instead of the landing page")

	// Ask flags
	askCmd.Flags().StringVarP(&askThread, "thread", "t", "", "continue this thread (default: start a new one)")
	askCmd.Flags().BoolVar(&askReasoning, "reasoning", false, "print the agent's reasoning to stderr")
	askCmd.Flags().BoolVar(&askTools, "tools", false, "print tool calls to stderr")

	// Threads flags
	threadsListCmd.Flags().BoolVarP(&threadsLong, "long", "l", false, "show titles and update times")
	threadsListCmd.Flags().StringVar(&threadsTemplate, "template", "", "custom Go text/template for output (implies --long)")
	threadsListCmd.Flags().StringVar(&threadsSortBy, "sort", "time", "sort by: title, time")
	threadsListCmd.Flags().BoolVar(&threadsSortDesc, "desc", false, "sort descending (default for time)")
	threadsListCmd.Flags().Bool("asc", false, "sort ascending (default for title)")
	threadsListCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	threadsViewCmd.Flags().BoolVar(&threadsViewRaw, "raw", false, "output plain markdown without styling")
	threadsDeleteCmd.Flags().BoolVarP(&threadsForceDelete, "force", "f", false, "skip confirmation prompt")
	threadsExportCmd.Flags().StringVarP(&threadsExportFormat, "format", "f", "md", "output format (json|jsonl|yaml|md)")
	threadsExportCmd.Flags().StringVarP(&threadsExportOut, "output", "o", "-", "output file (default stdout)")

	// Mock server flags
	mockServerCmd.Flags().StringVar(&mockHost, "host", "localhost", "server host")
	mockServerCmd.Flags().IntVarP(&mockPort, "port", "p", 4111, "server port")
	mockServerCmd.Flags().DurationVar(&mockDelay, "delay", 0, "pause between streamed chunks (default 40ms)")
	mockServerCmd.Flags().BoolVarP(&mockQuiet, "quiet", "q", false, "suppress HTTP request logging")

	// Logs flags
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "number of lines to show")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow the log as it grows")

	// Theme / version / config flags
	themeCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output theme as JSON")
	configCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")

	// Build command tree
	threadsCmd.AddCommand(threadsListCmd)
	threadsCmd.AddCommand(threadsViewCmd)
	threadsCmd.AddCommand(threadsDeleteCmd)
	threadsCmd.AddCommand(threadsExportCmd)
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mockServerCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(languageCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(versionCmd)
}
