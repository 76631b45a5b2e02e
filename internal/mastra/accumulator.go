package mastra

import (
	"encoding/json"
	"strings"

	"github.com/wethinkt/go-tripchat/internal/chat"
)

// Accumulator folds stream chunks into the assistant message they describe.
type Accumulator struct {
	msg       chat.Message
	text      map[string]int
	reasoning map[string]int
	tools     map[string]int
	toolInput map[string]*strings.Builder
	finished  bool
	errText   string
}

// NewAccumulator starts an empty assistant message with the given id.
// A "start" chunk carrying a message id replaces it.
func NewAccumulator(id string) *Accumulator {
	return &Accumulator{
		msg:       chat.Message{ID: id, Role: chat.RoleAssistant},
		text:      make(map[string]int),
		reasoning: make(map[string]int),
		tools:     make(map[string]int),
		toolInput: make(map[string]*strings.Builder),
	}
}

// Message returns a snapshot of the message built so far.
func (a *Accumulator) Message() chat.Message {
	return a.msg.Clone()
}

// Finished reports whether a finish chunk arrived.
func (a *Accumulator) Finished() bool { return a.finished }

// ErrorText returns the text of an error chunk, if one arrived.
func (a *Accumulator) ErrorText() string { return a.errText }

// Apply folds c into the message. Unknown chunk types are ignored.
func (a *Accumulator) Apply(c Chunk) {
	switch c.Type {
	case ChunkStart:
		if c.MessageID != "" {
			a.msg.ID = c.MessageID
		}
		a.mergeMetadata(c.MessageMetadata)

	case ChunkTextStart:
		a.text[c.ID] = a.appendPart(chat.TextPart{State: chat.StateStreaming})
	case ChunkTextDelta:
		i := a.textIndex(c.ID)
		p := a.msg.Parts[i].(chat.TextPart)
		p.Text += c.Delta
		a.msg.Parts[i] = p
	case ChunkTextEnd:
		i := a.textIndex(c.ID)
		p := a.msg.Parts[i].(chat.TextPart)
		p.State = chat.StateDone
		a.msg.Parts[i] = p

	case ChunkReasoningStart:
		a.reasoning[c.ID] = a.appendPart(chat.ReasoningPart{State: chat.StateStreaming})
	case ChunkReasoningDelta:
		i := a.reasoningIndex(c.ID)
		p := a.msg.Parts[i].(chat.ReasoningPart)
		p.Text += c.Delta
		a.msg.Parts[i] = p
	case ChunkReasoningEnd:
		i := a.reasoningIndex(c.ID)
		p := a.msg.Parts[i].(chat.ReasoningPart)
		p.State = chat.StateDone
		a.msg.Parts[i] = p

	case ChunkToolInputStart:
		a.updateTool(c, func(t *toolFields) {
			t.State = chat.ToolInputStreaming
		})
	case ChunkToolInputDelta:
		b, ok := a.toolInput[c.ToolCallID]
		if !ok {
			b = &strings.Builder{}
			a.toolInput[c.ToolCallID] = b
		}
		b.WriteString(c.InputTextDelta)
		a.updateTool(c, func(t *toolFields) {
			if json.Valid([]byte(b.String())) {
				t.Input = json.RawMessage(b.String())
			}
		})
	case ChunkToolInputAvailable:
		a.updateTool(c, func(t *toolFields) {
			t.State = chat.ToolInputAvailable
			t.Input = c.Input
		})
	case ChunkToolOutputAvailable:
		a.updateTool(c, func(t *toolFields) {
			t.State = chat.ToolOutputAvailable
			t.Output = c.Output
		})
	case ChunkToolOutputError:
		a.updateTool(c, func(t *toolFields) {
			t.State = chat.ToolOutputError
			t.ErrorText = c.ErrorText
		})

	case ChunkMessageMetadata:
		a.mergeMetadata(c.MessageMetadata)
	case ChunkFinish:
		a.finished = true
		a.mergeMetadata(c.MessageMetadata)
	case ChunkError:
		a.errText = c.ErrorText

	default:
		if c.IsData() && !c.Transient {
			a.applyData(c)
		}
	}
}

func (a *Accumulator) appendPart(p chat.Part) int {
	a.msg.Parts = append(a.msg.Parts, p)
	return len(a.msg.Parts) - 1
}

// textIndex tolerates deltas whose start chunk was never seen.
func (a *Accumulator) textIndex(id string) int {
	if i, ok := a.text[id]; ok {
		return i
	}
	i := a.appendPart(chat.TextPart{State: chat.StateStreaming})
	a.text[id] = i
	return i
}

func (a *Accumulator) reasoningIndex(id string) int {
	if i, ok := a.reasoning[id]; ok {
		return i
	}
	i := a.appendPart(chat.ReasoningPart{State: chat.StateStreaming})
	a.reasoning[id] = i
	return i
}

// toolFields is the state shared by static and dynamic tool parts.
type toolFields struct {
	State     chat.ToolState
	Input     json.RawMessage
	Output    json.RawMessage
	ErrorText string
}

func (a *Accumulator) updateTool(c Chunk, fn func(*toolFields)) {
	i, ok := a.tools[c.ToolCallID]
	if !ok {
		var p chat.Part
		if c.Dynamic {
			p = chat.DynamicToolPart{ToolName: c.ToolName, ToolCallID: c.ToolCallID, State: chat.ToolInputStreaming}
		} else {
			p = chat.ToolPart{ToolName: c.ToolName, ToolCallID: c.ToolCallID, State: chat.ToolInputStreaming}
		}
		i = a.appendPart(p)
		a.tools[c.ToolCallID] = i
	}

	switch p := a.msg.Parts[i].(type) {
	case chat.ToolPart:
		f := toolFields{p.State, p.Input, p.Output, p.ErrorText}
		fn(&f)
		p.State, p.Input, p.Output, p.ErrorText = f.State, f.Input, f.Output, f.ErrorText
		if p.ToolName == "" {
			p.ToolName = c.ToolName
		}
		a.msg.Parts[i] = p
	case chat.DynamicToolPart:
		f := toolFields{p.State, p.Input, p.Output, p.ErrorText}
		fn(&f)
		p.State, p.Input, p.Output, p.ErrorText = f.State, f.Input, f.Output, f.ErrorText
		if p.ToolName == "" {
			p.ToolName = c.ToolName
		}
		a.msg.Parts[i] = p
	}
}

// applyData appends a data part, or replaces an earlier one of the same
// type and id, which is how network traces report progress.
func (a *Accumulator) applyData(c Chunk) {
	if c.Type == chat.TypeNetwork {
		if c.ID != "" {
			for i, p := range a.msg.Parts {
				if np, ok := p.(chat.NetworkPart); ok && np.ID == c.ID {
					np.Data = c.Data
					a.msg.Parts[i] = np
					return
				}
			}
		}
		a.appendPart(chat.NetworkPart{ID: c.ID, Data: c.Data})
		return
	}

	raw, err := json.Marshal(struct {
		Type string          `json:"type"`
		ID   string          `json:"id,omitempty"`
		Data json.RawMessage `json:"data,omitempty"`
	}{c.Type, c.ID, c.Data})
	if err != nil {
		return
	}
	a.appendPart(chat.UnknownPart{Type: c.Type, Raw: raw})
}

func (a *Accumulator) mergeMetadata(md map[string]any) {
	if len(md) == 0 {
		return
	}
	if a.msg.Metadata == nil {
		a.msg.Metadata = make(map[string]any, len(md))
	}
	for k, v := range md {
		a.msg.Metadata[k] = v
	}
}
