package chat

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Part is one unit of message content. The set of implementations is closed:
// TextPart, ReasoningPart, ToolPart, DynamicToolPart, NetworkPart and
// UnknownPart.
type Part interface {
	// PartType returns the wire discriminant, e.g. "text" or "tool-weather".
	PartType() string
	isPart()
}

// PartState tracks whether streamed text is still growing.
type PartState string

const (
	StateStreaming PartState = "streaming"
	StateDone      PartState = "done"
)

// ToolState is the lifecycle of a tool invocation.
type ToolState string

const (
	ToolInputStreaming  ToolState = "input-streaming"
	ToolInputAvailable  ToolState = "input-available"
	ToolOutputAvailable ToolState = "output-available"
	ToolOutputError     ToolState = "output-error"
)

// Wire type tags.
const (
	TypeText        = "text"
	TypeReasoning   = "reasoning"
	TypeDynamicTool = "dynamic-tool"
	TypeNetwork     = "data-network"
	ToolPrefix      = "tool-"
)

type TextPart struct {
	Text  string
	State PartState
}

type ReasoningPart struct {
	Text  string
	State PartState
}

// ToolPart is a statically named tool call. Its wire type is "tool-<name>".
type ToolPart struct {
	ToolName   string
	ToolCallID string
	State      ToolState
	Input      json.RawMessage
	Output     json.RawMessage
	ErrorText  string
}

// DynamicToolPart is a tool result whose output may nest child messages,
// as produced by agent networks replayed from memory.
type DynamicToolPart struct {
	ToolName   string
	ToolCallID string
	State      ToolState
	Input      json.RawMessage
	Output     json.RawMessage
	ErrorText  string
}

// NetworkPart carries an agent-network execution trace.
type NetworkPart struct {
	ID   string
	Data json.RawMessage
}

// UnknownPart keeps any part this client does not understand.
type UnknownPart struct {
	Type string
	Raw  json.RawMessage
}

func (TextPart) PartType() string        { return TypeText }
func (ReasoningPart) PartType() string   { return TypeReasoning }
func (p ToolPart) PartType() string      { return ToolPrefix + p.ToolName }
func (DynamicToolPart) PartType() string { return TypeDynamicTool }
func (NetworkPart) PartType() string     { return TypeNetwork }
func (p UnknownPart) PartType() string   { return p.Type }

func (TextPart) isPart()        {}
func (ReasoningPart) isPart()   {}
func (ToolPart) isPart()        {}
func (DynamicToolPart) isPart() {}
func (NetworkPart) isPart()     {}
func (UnknownPart) isPart()     {}

// ChildMessage is one entry of a dynamic tool's childMessages list.
type ChildMessage struct {
	Type       string          `json:"type"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	Args       json.RawMessage `json:"args,omitempty"`
	ToolOutput json.RawMessage `json:"toolOutput,omitempty"`
	Content    string          `json:"content,omitempty"`
}

// DynamicOutput is the decoded output payload of a dynamic tool.
type DynamicOutput struct {
	ChildMessages []ChildMessage `json:"childMessages,omitempty"`
	Result        string         `json:"result,omitempty"`
}

// HasOutput reports whether the part carried an output payload at all.
func (p DynamicToolPart) HasOutput() bool {
	return Present(p.Output)
}

// Decoded returns the structured output. Payloads of another shape decode
// to an empty DynamicOutput.
func (p DynamicToolPart) Decoded() DynamicOutput {
	var out DynamicOutput
	if !Present(p.Output) {
		return out
	}
	if err := json.Unmarshal(p.Output, &out); err != nil {
		return DynamicOutput{}
	}
	return out
}

// Present reports whether raw holds a value other than JSON null.
func Present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

type wirePart struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	Text       *string         `json:"text,omitempty"`
	State      string          `json:"state,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	ErrorText  string          `json:"errorText,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// DecodePart turns one wire part into its typed form. It never fails:
// anything unrecognised or malformed becomes an UnknownPart.
func DecodePart(raw json.RawMessage) Part {
	var w wirePart
	if err := json.Unmarshal(raw, &w); err != nil {
		var head struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(raw, &head)
		return UnknownPart{Type: head.Type, Raw: raw}
	}

	switch {
	case w.Type == TypeText && w.Text != nil:
		return TextPart{Text: *w.Text, State: PartState(w.State)}
	case w.Type == TypeReasoning && w.Text != nil:
		return ReasoningPart{Text: *w.Text, State: PartState(w.State)}
	case w.Type == TypeDynamicTool:
		return DynamicToolPart{
			ToolName:   w.ToolName,
			ToolCallID: w.ToolCallID,
			State:      ToolState(w.State),
			Input:      w.Input,
			Output:     w.Output,
			ErrorText:  w.ErrorText,
		}
	case w.Type == TypeNetwork:
		return NetworkPart{ID: w.ID, Data: w.Data}
	case strings.HasPrefix(w.Type, ToolPrefix) && len(w.Type) > len(ToolPrefix):
		return ToolPart{
			ToolName:   strings.TrimPrefix(w.Type, ToolPrefix),
			ToolCallID: w.ToolCallID,
			State:      ToolState(w.State),
			Input:      w.Input,
			Output:     w.Output,
			ErrorText:  w.ErrorText,
		}
	}
	return UnknownPart{Type: w.Type, Raw: raw}
}

// MarshalPart encodes a part back to its wire form.
func MarshalPart(p Part) (json.RawMessage, error) {
	var w wirePart
	switch v := p.(type) {
	case TextPart:
		w = wirePart{Type: TypeText, Text: &v.Text, State: string(v.State)}
	case ReasoningPart:
		w = wirePart{Type: TypeReasoning, Text: &v.Text, State: string(v.State)}
	case ToolPart:
		w = wirePart{
			Type:       v.PartType(),
			ToolCallID: v.ToolCallID,
			State:      string(v.State),
			Input:      v.Input,
			Output:     v.Output,
			ErrorText:  v.ErrorText,
		}
	case DynamicToolPart:
		w = wirePart{
			Type:       TypeDynamicTool,
			ToolName:   v.ToolName,
			ToolCallID: v.ToolCallID,
			State:      string(v.State),
			Input:      v.Input,
			Output:     v.Output,
			ErrorText:  v.ErrorText,
		}
	case NetworkPart:
		w = wirePart{Type: TypeNetwork, ID: v.ID, Data: v.Data}
	case UnknownPart:
		if len(v.Raw) > 0 {
			return v.Raw, nil
		}
		w = wirePart{Type: v.Type}
	default:
		w = wirePart{Type: p.PartType()}
	}
	return json.Marshal(w)
}
