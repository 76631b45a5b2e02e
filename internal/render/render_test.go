package render

import (
	"encoding/json"
	"testing"

	"github.com/wethinkt/go-tripchat/internal/chat"
)

func TestPartText(t *testing.T) {
	for _, text := range []string{"", " ", "\n\t  \n"} {
		if got := Part(chat.TextPart{Text: text}, false); len(got) != 0 {
			t.Errorf("Part(text %q) = %v, want nothing", text, got)
		}
	}

	got := Part(chat.TextPart{Text: "Try Lisbon."}, false)
	if len(got) != 1 {
		t.Fatalf("expected one block, got %d", len(got))
	}
	if rt, ok := got[0].(ResponseText); !ok || rt.Text != "Try Lisbon." {
		t.Errorf("unexpected block %#v", got[0])
	}
}

func TestPartReasoningCarriesStreamingFlag(t *testing.T) {
	for _, streaming := range []bool{true, false} {
		got := Part(chat.ReasoningPart{Text: "checking the forecast"}, streaming)
		if len(got) != 1 {
			t.Fatalf("expected one block, got %d", len(got))
		}
		r, ok := got[0].(Reasoning)
		if !ok {
			t.Fatalf("expected Reasoning, got %T", got[0])
		}
		if r.Streaming != streaming {
			t.Errorf("Streaming = %v, want %v", r.Streaming, streaming)
		}
	}
}

func TestPartNetworkPassesRawPayload(t *testing.T) {
	data := json.RawMessage(`{"name":"travel-network","steps":[]}`)
	got := Part(chat.NetworkPart{Data: data}, true)
	if len(got) != 1 {
		t.Fatalf("expected one block, got %d", len(got))
	}
	n, ok := got[0].(NetworkExecution)
	if !ok {
		t.Fatalf("expected NetworkExecution, got %T", got[0])
	}
	if string(n.Data) != string(data) || !n.Streaming {
		t.Errorf("unexpected block %#v", n)
	}
}

func TestPartDynamicTool(t *testing.T) {
	p := chat.DynamicToolPart{
		ToolName: "routingAgent",
		State:    chat.ToolOutputAvailable,
		Output: json.RawMessage(`{"childMessages":[
			{"type":"tool","toolCallId":"a","toolName":"weatherTool","args":{"city":"Tokyo"},"toolOutput":{"temp":18}},
			{"type":"tool","toolCallId":"b"},
			{"type":"text","content":""},
			{"type":"text","content":"Tokyo looks great."},
			{"type":"image"}
		]}`),
	}
	got := Part(p, false)
	if len(got) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %#v", len(got), got)
	}

	first, ok := got[0].(ToolInvocation)
	if !ok {
		t.Fatalf("expected ToolInvocation, got %T", got[0])
	}
	if first.Name != "weatherTool" || !first.HasInput() || !first.HasOutput() || first.ErrorText != "" {
		t.Errorf("unexpected first invocation %#v", first)
	}
	if first.State != chat.ToolOutputAvailable {
		t.Errorf("State = %q, want output-available", first.State)
	}

	second := got[1].(ToolInvocation)
	if second.Name != "Tool" || second.HasInput() || second.HasOutput() {
		t.Errorf("unexpected nameless invocation %#v", second)
	}

	if rt, ok := got[2].(ResponseText); !ok || rt.Text != "Tokyo looks great." {
		t.Errorf("unexpected text block %#v", got[2])
	}
}

func TestPartDynamicToolWithoutOutput(t *testing.T) {
	if got := Part(chat.DynamicToolPart{ToolName: "x", State: chat.ToolInputAvailable}, false); len(got) != 0 {
		t.Errorf("expected nothing, got %#v", got)
	}
}

func TestPartToolInvocation(t *testing.T) {
	tests := []struct {
		name       string
		part       chat.ToolPart
		wantInput  bool
		wantOutput bool
		wantErr    string
	}{
		{
			name:      "input only",
			part:      chat.ToolPart{ToolName: "weatherTool", State: chat.ToolInputAvailable, Input: json.RawMessage(`{"city":"Oslo"}`)},
			wantInput: true,
		},
		{
			name:  "null input hidden",
			part:  chat.ToolPart{ToolName: "weatherTool", State: chat.ToolInputStreaming, Input: json.RawMessage(`null`)},
		},
		{
			name:       "output",
			part:       chat.ToolPart{ToolName: "weatherTool", State: chat.ToolOutputAvailable, Input: json.RawMessage(`{}`), Output: json.RawMessage(`{"temp":3}`)},
			wantInput:  true,
			wantOutput: true,
		},
		{
			name:       "output and error both kept",
			part:       chat.ToolPart{ToolName: "weatherTool", State: chat.ToolOutputError, Output: json.RawMessage(`{"partial":true}`), ErrorText: "timeout"},
			wantOutput: true,
			wantErr:    "timeout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Part(tt.part, false)
			if len(got) != 1 {
				t.Fatalf("expected one block, got %d", len(got))
			}
			inv := got[0].(ToolInvocation)
			if inv.Name != tt.part.ToolName || inv.State != tt.part.State {
				t.Errorf("header = %s/%s", inv.Name, inv.State)
			}
			if inv.HasInput() != tt.wantInput {
				t.Errorf("HasInput = %v, want %v", inv.HasInput(), tt.wantInput)
			}
			if inv.HasOutput() != tt.wantOutput {
				t.Errorf("HasOutput = %v, want %v", inv.HasOutput(), tt.wantOutput)
			}
			if inv.ErrorText != tt.wantErr {
				t.Errorf("ErrorText = %q, want %q", inv.ErrorText, tt.wantErr)
			}
		})
	}
}

func TestPartUnknownSuppressed(t *testing.T) {
	if got := Part(chat.UnknownPart{Type: "step-start"}, true); len(got) != 0 {
		t.Errorf("expected nothing, got %#v", got)
	}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name  string
		parts []chat.Part
		want  bool
	}{
		{"no parts", nil, false},
		{"empty text", []chat.Part{chat.TextPart{Text: ""}}, false},
		{"blank text and unknown", []chat.Part{chat.TextPart{Text: "  "}, chat.UnknownPart{Type: "step-start"}}, false},
		{"text", []chat.Part{chat.TextPart{Text: "hi"}}, true},
		{"empty reasoning still visible", []chat.Part{chat.ReasoningPart{}}, true},
		{"network", []chat.Part{chat.NetworkPart{}}, true},
		{"dynamic tool", []chat.Part{chat.DynamicToolPart{}}, true},
		{"tool", []chat.Part{chat.ToolPart{ToolName: "weatherTool"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visible(chat.Message{Parts: tt.parts}); got != tt.want {
				t.Errorf("Visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageText(t *testing.T) {
	m := chat.Message{Parts: []chat.Part{
		chat.TextPart{Text: "Pack "},
		chat.ReasoningPart{Text: "ignored"},
		chat.ToolPart{ToolName: "weatherTool"},
		chat.TextPart{Text: "an umbrella."},
	}}
	if got := MessageText(m); got != "Pack an umbrella." {
		t.Errorf("MessageText = %q", got)
	}
	if got := MessageText(chat.Message{}); got != "" {
		t.Errorf("MessageText(empty) = %q", got)
	}
}

func TestMessagePreservesOrder(t *testing.T) {
	m := chat.Message{Parts: []chat.Part{
		chat.ReasoningPart{Text: "r"},
		chat.TextPart{Text: "a"},
		chat.ToolPart{ToolName: "t"},
		chat.TextPart{Text: "b"},
	}}
	blocks := Message(m, false)
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}
	if _, ok := blocks[0].(Reasoning); !ok {
		t.Errorf("block 0 = %T", blocks[0])
	}
	if _, ok := blocks[2].(ToolInvocation); !ok {
		t.Errorf("block 2 = %T", blocks[2])
	}
	if rt, ok := blocks[3].(ResponseText); !ok || rt.Text != "b" {
		t.Errorf("block 3 = %#v", blocks[3])
	}
}

func TestCopyTarget(t *testing.T) {
	user := chat.Message{ID: "u", Role: chat.RoleUser}
	asst := chat.Message{ID: "a", Role: chat.RoleAssistant}

	if m, ok := CopyTarget([]chat.Message{user, asst}, chat.StatusReady); !ok || m.ID != "a" {
		t.Errorf("expected copy on last assistant message, got %v %v", m.ID, ok)
	}
	for _, st := range []chat.Status{chat.StatusStreaming, chat.StatusSubmitted, chat.StatusError} {
		if _, ok := CopyTarget([]chat.Message{user, asst}, st); ok {
			t.Errorf("copy offered while %s", st)
		}
	}
	if _, ok := CopyTarget([]chat.Message{asst, user}, chat.StatusReady); ok {
		t.Error("copy offered when last message is from the user")
	}
	if _, ok := CopyTarget(nil, chat.StatusReady); ok {
		t.Error("copy offered with no messages")
	}
}
