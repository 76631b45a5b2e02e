package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wethinkt/go-tripchat/internal/config"
	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/query"
	"github.com/wethinkt/go-tripchat/internal/threads"
	"github.com/wethinkt/go-tripchat/internal/tui"
)

// DeleteOptions configures thread deletion behavior.
type DeleteOptions struct {
	Force  bool      // Skip confirmation prompt
	Stdout io.Writer // For writing output (defaults to os.Stdout)

	// Confirm asks the user; defaults to tui.Confirm.
	Confirm func(tui.ConfirmOptions) (tui.ConfirmResult, error)
}

// ThreadDeleter handles thread deletion with confirmation.
type ThreadDeleter struct {
	remote threads.Remote
	cache  *query.Client
	id     config.Identity
	opts   DeleteOptions
}

// NewThreadDeleter creates a new thread deleter.
func NewThreadDeleter(remote threads.Remote, cache *query.Client, id config.Identity, opts DeleteOptions) *ThreadDeleter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Confirm == nil {
		opts.Confirm = tui.Confirm
	}
	if cache == nil {
		cache = query.NewClient(0)
	}
	return &ThreadDeleter{remote: remote, cache: cache, id: id, opts: opts}
}

// Delete removes the thread q resolves to after confirmation.
func (d *ThreadDeleter) Delete(ctx context.Context, q string) error {
	th, err := ResolveThread(ctx, d.remote, d.id.ResourceID, d.id.AgentID, q)
	if err != nil {
		return fmt.Errorf("%w\n\nUse 'tripchat threads list' to see available threads", err)
	}

	if !d.opts.Force {
		fmt.Fprintf(d.opts.Stdout, "Thread: %s\n", th.ID)
		if th.Title != "" {
			fmt.Fprintf(d.opts.Stdout, "Title: %s\n", th.Title)
		}
		if !th.UpdatedAt.IsZero() {
			fmt.Fprintf(d.opts.Stdout, "Updated: %s\n", th.UpdatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(d.opts.Stdout)

		result, err := d.opts.Confirm(tui.ConfirmOptions{
			Prompt:      tripI18n.T("cli.delete.prompt", "Permanently delete this thread and its messages?"),
			Affirmative: tripI18n.T("cli.delete.affirmative", "Delete"),
			Negative:    tripI18n.T("cli.delete.negative", "Cancel"),
			Default:     false,
			Destructive: true,
			Output:      d.opts.Stdout,
		})
		if err != nil || result != tui.ConfirmYes {
			fmt.Fprintln(d.opts.Stdout, tripI18n.T("cli.delete.cancelled", "Cancelled."))
			return nil
		}
	}

	if err := threads.NewDeleter(d.remote, d.cache, d.id).Delete(ctx, th.ID); err != nil {
		return err
	}
	fmt.Fprintln(d.opts.Stdout, tripI18n.Tf("cli.delete.done", "Deleted %s", th.ID))
	return nil
}
