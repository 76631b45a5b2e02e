// Package render maps chat messages to an ordered list of display blocks.
// It decides what is shown and what is suppressed; how a block looks on a
// terminal or in an export is left to the caller.
package render

import (
	"encoding/json"

	"github.com/wethinkt/go-tripchat/internal/chat"
)

// Block is one visual element. Implementations: ResponseText, Reasoning,
// NetworkExecution and ToolInvocation.
type Block interface {
	isBlock()
}

// ResponseText is assistant or user prose, formatted as markdown.
type ResponseText struct {
	Text string
}

// Reasoning is a collapsible thinking block.
type Reasoning struct {
	Text      string
	Streaming bool
}

// NetworkExecution visualises an agent-network trace.
type NetworkExecution struct {
	Data      json.RawMessage
	Streaming bool
}

// ToolInvocation shows a tool call with its arguments and result.
// Input and Output are nil when absent.
type ToolInvocation struct {
	Name      string
	State     chat.ToolState
	Input     json.RawMessage
	Output    json.RawMessage
	ErrorText string
}

func (ResponseText) isBlock()     {}
func (Reasoning) isBlock()        {}
func (NetworkExecution) isBlock() {}
func (ToolInvocation) isBlock()   {}

// HasInput reports whether the invocation carries arguments.
func (t ToolInvocation) HasInput() bool { return chat.Present(t.Input) }

// HasOutput reports whether the invocation carries a result.
func (t ToolInvocation) HasOutput() bool { return chat.Present(t.Output) }
