package render

import (
	"strings"

	"github.com/wethinkt/go-tripchat/internal/chat"
)

// defaultToolName labels nested tool calls that arrive without a name.
const defaultToolName = "Tool"

// Part maps a single part to zero or more blocks. streaming is true while
// the session is receiving a response.
func Part(p chat.Part, streaming bool) []Block {
	switch v := p.(type) {
	case chat.TextPart:
		if strings.TrimSpace(v.Text) == "" {
			return nil
		}
		return []Block{ResponseText{Text: v.Text}}

	case chat.ReasoningPart:
		return []Block{Reasoning{Text: v.Text, Streaming: streaming}}

	case chat.NetworkPart:
		return []Block{NetworkExecution{Data: v.Data, Streaming: streaming}}

	case chat.DynamicToolPart:
		if !v.HasOutput() {
			return nil
		}
		return dynamicChildren(v.Decoded().ChildMessages)

	case chat.ToolPart:
		inv := ToolInvocation{
			Name:  v.ToolName,
			State: v.State,
		}
		if chat.Present(v.Input) {
			inv.Input = v.Input
		}
		if chat.Present(v.Output) {
			inv.Output = v.Output
		}
		inv.ErrorText = v.ErrorText
		return []Block{inv}
	}
	return nil
}

func dynamicChildren(children []chat.ChildMessage) []Block {
	var blocks []Block
	for _, child := range children {
		switch child.Type {
		case "tool":
			name := child.ToolName
			if name == "" {
				name = defaultToolName
			}
			inv := ToolInvocation{Name: name, State: chat.ToolOutputAvailable}
			if chat.Present(child.Args) {
				inv.Input = child.Args
			}
			if chat.Present(child.ToolOutput) {
				inv.Output = child.ToolOutput
			}
			blocks = append(blocks, inv)
		case "text":
			if child.Content != "" {
				blocks = append(blocks, ResponseText{Text: child.Content})
			}
		}
	}
	return blocks
}

// Message maps every part of m in order.
func Message(m chat.Message, streaming bool) []Block {
	var blocks []Block
	for _, p := range m.Parts {
		blocks = append(blocks, Part(p, streaming)...)
	}
	return blocks
}

// Visible reports whether m should be shown at all: it needs a non-blank
// text part or a reasoning, network, dynamic tool or tool part.
func Visible(m chat.Message) bool {
	for _, p := range m.Parts {
		switch v := p.(type) {
		case chat.TextPart:
			if strings.TrimSpace(v.Text) != "" {
				return true
			}
		case chat.ReasoningPart, chat.NetworkPart, chat.DynamicToolPart, chat.ToolPart:
			return true
		}
	}
	return false
}

// MessageText concatenates the text parts of m in order, skipping every
// other kind of part.
func MessageText(m chat.Message) string {
	var b strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(chat.TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// CopyTarget returns the message offering the copy action: the last message,
// when it comes from the assistant and the session is ready.
func CopyTarget(msgs []chat.Message, status chat.Status) (chat.Message, bool) {
	if status != chat.StatusReady || len(msgs) == 0 {
		return chat.Message{}, false
	}
	last := msgs[len(msgs)-1]
	if last.Role != chat.RoleAssistant {
		return chat.Message{}, false
	}
	return last, true
}
