package mastra

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Chunk types of the UI message stream.
const (
	ChunkStart               = "start"
	ChunkStartStep           = "start-step"
	ChunkFinishStep          = "finish-step"
	ChunkFinish              = "finish"
	ChunkError               = "error"
	ChunkAbort               = "abort"
	ChunkTextStart           = "text-start"
	ChunkTextDelta           = "text-delta"
	ChunkTextEnd             = "text-end"
	ChunkReasoningStart      = "reasoning-start"
	ChunkReasoningDelta      = "reasoning-delta"
	ChunkReasoningEnd        = "reasoning-end"
	ChunkToolInputStart      = "tool-input-start"
	ChunkToolInputDelta      = "tool-input-delta"
	ChunkToolInputAvailable  = "tool-input-available"
	ChunkToolOutputAvailable = "tool-output-available"
	ChunkToolOutputError     = "tool-output-error"
	ChunkMessageMetadata     = "message-metadata"
	chunkDataPrefix          = "data-"
)

// doneSentinel terminates a UI message stream.
const doneSentinel = "[DONE]"

// Chunk is one event of the UI message stream. Only the fields relevant to
// Type are set.
type Chunk struct {
	Type            string          `json:"type"`
	ID              string          `json:"id,omitempty"`
	MessageID       string          `json:"messageId,omitempty"`
	Delta           string          `json:"delta,omitempty"`
	ToolCallID      string          `json:"toolCallId,omitempty"`
	ToolName        string          `json:"toolName,omitempty"`
	InputTextDelta  string          `json:"inputTextDelta,omitempty"`
	Input           json.RawMessage `json:"input,omitempty"`
	Output          json.RawMessage `json:"output,omitempty"`
	ErrorText       string          `json:"errorText,omitempty"`
	Dynamic         bool            `json:"dynamic,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
	Transient       bool            `json:"transient,omitempty"`
	MessageMetadata map[string]any  `json:"messageMetadata,omitempty"`
	FinishReason    string          `json:"finishReason,omitempty"`
}

// IsData reports whether the chunk carries a custom data part.
func (c Chunk) IsData() bool {
	return strings.HasPrefix(c.Type, chunkDataPrefix)
}

// WriteEvent writes v as one server-sent event.
func WriteEvent(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// WriteDone writes the stream terminator.
func WriteDone(w io.Writer) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", doneSentinel)
	return err
}
