// Package cli provides CLI output formatting and the thread commands'
// building blocks.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"
	"time"

	tripI18n "github.com/wethinkt/go-tripchat/internal/i18n"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/threads"
)

// ThreadsFormatter handles thread listing output.
type ThreadsFormatter struct {
	w io.Writer
}

// NewThreadsFormatter creates a new threads formatter.
func NewThreadsFormatter(w io.Writer) *ThreadsFormatter {
	return &ThreadsFormatter{w: w}
}

// ThreadListOptions configures thread list output.
type ThreadListOptions struct {
	SortBy     string // "time" or "title"
	Descending bool
	Template   string // Custom Go template
}

// ResolveThread finds the thread a user-provided query names: a full id, a
// unique id prefix or an exact title (case-insensitive).
func ResolveThread(ctx context.Context, remote threads.Remote, resourceID, agentID, query string) (mastra.Thread, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return mastra.Thread{}, fmt.Errorf("thread query is required")
	}

	th, err := remote.GetThread(ctx, query, agentID)
	if err == nil {
		return th, nil
	}
	if !mastra.IsNotFound(err) {
		return mastra.Thread{}, fmt.Errorf("resolve thread: %w", err)
	}

	list, err := remote.ListThreads(ctx, resourceID, agentID)
	if err != nil {
		return mastra.Thread{}, fmt.Errorf("resolve thread: %w", err)
	}
	var matches []mastra.Thread
	for _, t := range list {
		if strings.HasPrefix(t.ID, query) || strings.EqualFold(t.Title, query) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return mastra.Thread{}, fmt.Errorf("thread not found: %s", query)
	case 1:
		return matches[0], nil
	default:
		var b strings.Builder
		b.WriteString("thread query is ambiguous, matched multiple threads:\n")
		shown := min(len(matches), 5)
		for _, m := range matches[:shown] {
			fmt.Fprintf(&b, "  - %s  %s\n", m.ID, m.Title)
		}
		if len(matches) > shown {
			fmt.Fprintf(&b, "  ... and %d more", len(matches)-shown)
		}
		return mastra.Thread{}, fmt.Errorf("%s", strings.TrimSpace(b.String()))
	}
}

// FormatList outputs thread ids one per line.
func (f *ThreadsFormatter) FormatList(list []mastra.Thread) error {
	for _, t := range list {
		if _, err := fmt.Fprintln(f.w, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// ThreadSummaryData is the template data for thread summary.
type ThreadSummaryData struct {
	ID       string
	Title    string
	Resource string
	Created  time.Time
	Updated  time.Time
	Age      string
}

const defaultThreadSummaryTemplate = `{{range .}}{{if .Title}}{{.Title}}{{else}}(untitled){{end}}
  ID:       {{.ID}}
  Created:  {{.Created.Format "2006-01-02 15:04"}}
  Updated:  {{.Updated.Format "2006-01-02 15:04"}} ({{.Age}})

{{end}}`

// ThreadSummaryTemplateHelp documents the template variables.
const ThreadSummaryTemplateHelp = `Template variables:
  {{.ID}}        Thread identifier
  {{.Title}}     Title generated by the agent server (may be empty)
  {{.Resource}}  Owning resource id
  {{.Created}}   Creation time (time.Time)
  {{.Updated}}   Last update time (time.Time)
  {{.Age}}       Relative age of the last update, e.g. "3 hours ago"`

// FormatSummary outputs detailed thread information, followed by a count.
func (f *ThreadsFormatter) FormatSummary(list []mastra.Thread, opts ThreadListOptions) error {
	sortThreads(list, opts.SortBy, opts.Descending)

	data := make([]ThreadSummaryData, len(list))
	for i, t := range list {
		data[i] = ThreadSummaryData{
			ID:       t.ID,
			Title:    t.Title,
			Resource: t.ResourceID,
			Created:  t.CreatedAt,
			Updated:  t.UpdatedAt,
			Age:      tripI18n.RelativeTime(t.UpdatedAt),
		}
	}

	tmplStr := defaultThreadSummaryTemplate
	if opts.Template != "" {
		tmplStr = opts.Template
	}
	tmpl, err := template.New("threads").Parse(tmplStr)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	if err := tmpl.Execute(f.w, data); err != nil {
		return err
	}
	if opts.Template == "" {
		fmt.Fprintln(f.w, tripI18n.Tn("cli.threads.count", "{{.Count}} thread", "{{.Count}} threads", len(list)))
	}
	return nil
}

func sortThreads(list []mastra.Thread, sortBy string, descending bool) {
	switch sortBy {
	case "title", "name":
		sort.SliceStable(list, func(i, j int) bool {
			cmp := strings.Compare(strings.ToLower(list[i].Title), strings.ToLower(list[j].Title))
			if descending {
				return cmp > 0
			}
			return cmp < 0
		})
	case "time", "":
		sort.SliceStable(list, func(i, j int) bool {
			if descending {
				return list[i].UpdatedAt.After(list[j].UpdatedAt)
			}
			return list[i].UpdatedAt.Before(list[j].UpdatedAt)
		})
	}
}
