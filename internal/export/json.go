package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wethinkt/go-tripchat/internal/chat"
)

// JSONExporter writes the whole document as one indented JSON object.
type JSONExporter struct{}

func (e *JSONExporter) Export(doc Document, w io.Writer) error {
	if doc.Messages == nil {
		doc.Messages = []chat.Message{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (e *JSONExporter) Extension() string { return "json" }

// JSONLExporter writes one UI message per line.
type JSONLExporter struct{}

func (e *JSONLExporter) Export(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	for i, msg := range doc.Messages {
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("encode message %d: %w", i, err)
		}
	}
	return nil
}

func (e *JSONLExporter) Extension() string { return "jsonl" }
