package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wethinkt/go-tripchat/internal/cli"
	"github.com/wethinkt/go-tripchat/internal/export"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/threads"
	"github.com/wethinkt/go-tripchat/internal/tui"
)

// Threads command flags
var (
	threadsLong         bool
	threadsTemplate     string
	threadsSortBy       string
	threadsSortDesc     bool
	threadsViewRaw      bool
	threadsForceDelete  bool
	threadsExportFormat string
	threadsExportOut    string
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Manage conversation threads",
	Long: `List, view, export and delete the conversation threads stored on the
agent server for the configured resource.

A thread can be named by its full id, a unique id prefix, or its exact
title.

Examples:
  tripchat threads list               # Thread ids, newest first
  tripchat threads list -l            # With titles and update times
  tripchat threads view 1a2b          # Print a conversation
  tripchat threads export 1a2b -f json -o trip.json
  tripchat threads delete "Lisbon in May"`,
}

var threadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List threads",
	Long: `List the threads of the configured resource.

` + cli.ThreadSummaryTemplateHelp,
	Args: cobra.NoArgs,
	RunE: runThreadsList,
}

var threadsViewCmd = &cobra.Command{
	Use:   "view <thread>",
	Short: "Print a thread's conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runThreadsView,
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete <thread>",
	Short: "Delete a thread",
	Long: `Delete a thread and all of its messages from the agent server.

Asks for confirmation unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runThreadsDelete,
}

var threadsExportCmd = &cobra.Command{
	Use:   "export <thread>",
	Short: "Export a thread to a file",
	Long: `Export a thread with its messages as JSON, JSON lines, YAML or markdown.

Examples:
  tripchat threads export 1a2b                  # Markdown to stdout
  tripchat threads export 1a2b -f yaml -o trip.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runThreadsExport,
}

func runThreadsList(cmd *cobra.Command, args []string) error {
	svc := services()
	list, err := query.Fetch(cmd.Context(), svc.Cache, threads.ThreadsQuery(svc.Remote, svc.Identity))
	if err != nil {
		return err
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	formatter := cli.NewThreadsFormatter(cmd.OutOrStdout())
	if !threadsLong && threadsTemplate == "" {
		return formatter.FormatList(list)
	}

	desc := threadsSortDesc
	if asc, _ := cmd.Flags().GetBool("asc"); asc {
		desc = false
	} else if !cmd.Flags().Changed("desc") && threadsSortBy == "time" {
		desc = true
	}
	return formatter.FormatSummary(list, cli.ThreadListOptions{
		SortBy:     threadsSortBy,
		Descending: desc,
		Template:   threadsTemplate,
	})
}

// loadThread resolves q and fetches the thread's messages.
func loadThread(ctx context.Context, svc *tui.Services, q string) (mastra.Thread, threads.Messages, error) {
	th, err := cli.ResolveThread(ctx, svc.Remote, svc.Identity.ResourceID, svc.Identity.AgentID, q)
	if err != nil {
		return mastra.Thread{}, threads.Messages{}, err
	}
	msgs, err := query.Fetch(ctx, svc.Cache, threads.ThreadMessagesQuery(svc.Remote, svc.Identity, th.ID))
	if err != nil {
		return th, threads.Messages{}, err
	}
	if !msgs.Exists {
		return th, msgs, fmt.Errorf("thread %s was deleted", th.ID)
	}
	return th, msgs, nil
}

func runThreadsView(cmd *cobra.Command, args []string) error {
	svc := services()
	th, msgs, err := loadThread(cmd.Context(), svc, args[0])
	if err != nil {
		return err
	}

	opts := cli.TranscriptOptions{Styled: !threadsViewRaw}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		opts.Styled = false
	} else if w, _, err := term.GetSize(fd); err == nil {
		opts.Width = w
	}
	return cli.WriteTranscript(cmd.OutOrStdout(), th, msgs.Messages, opts)
}

func runThreadsDelete(cmd *cobra.Command, args []string) error {
	svc := services()
	deleter := cli.NewThreadDeleter(svc.Remote, svc.Cache, svc.Identity, cli.DeleteOptions{
		Force:  threadsForceDelete,
		Stdout: cmd.OutOrStdout(),
	})
	return deleter.Delete(cmd.Context(), args[0])
}

func runThreadsExport(cmd *cobra.Command, args []string) error {
	exporter, err := export.NewExporter(threadsExportFormat)
	if err != nil {
		return err
	}

	svc := services()
	th, msgs, err := loadThread(cmd.Context(), svc, args[0])
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if threadsExportOut != "" && threadsExportOut != "-" {
		f, err := os.Create(threadsExportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := exporter.Export(export.Document{Thread: th, Messages: msgs.Messages}, w); err != nil {
		return fmt.Errorf("export %s: %w", exporter.Extension(), err)
	}
	if w != cmd.OutOrStdout() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", th.ID, threadsExportOut)
	}
	return nil
}
