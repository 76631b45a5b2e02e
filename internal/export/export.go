// Package export writes a thread transcript to a file format.
package export

import (
	"fmt"
	"io"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/mastra"
)

// Document is one exported thread.
type Document struct {
	Thread   mastra.Thread  `json:"thread"`
	Messages []chat.Message `json:"messages"`
}

// Exporter writes a Document in one format.
type Exporter interface {
	Export(doc Document, w io.Writer) error
	Extension() string
}

// Formats lists the accepted format names.
var Formats = []string{"json", "jsonl", "yaml", "md"}

// NewExporter returns the exporter for format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, yaml, md)", format)
	}
}
