package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/wethinkt/go-tripchat/internal/chat"
	"github.com/wethinkt/go-tripchat/internal/mastra"
	"github.com/wethinkt/go-tripchat/internal/render"
	"github.com/wethinkt/go-tripchat/internal/tuilog"
)

// handleChat persists the posted message and streams a canned answer. The
// request carries only the newest message; history lives in the store.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req mastra.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if req.Memory.Thread == "" || req.Memory.Resource == "" {
		writeError(w, http.StatusBadRequest, "invalid request", "memory.thread and memory.resource are required")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request", "no message to answer")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	last := req.Messages[len(req.Messages)-1]
	s.store.Append(req.Memory.Thread, req.Memory.Resource, last)
	prompt := render.MessageText(last)
	chunks := script(prompt)
	tuilog.Log.Info("server: chat", "thread", req.Memory.Thread, "prompt_len", len(prompt), "chunks", len(chunks))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Vercel-AI-UI-Message-Stream", "v1")
	w.WriteHeader(http.StatusOK)

	acc := mastra.NewAccumulator(uuid.NewString())
	for _, c := range chunks {
		select {
		case <-r.Context().Done():
			return
		default:
		}
		acc.Apply(c)
		if err := mastra.WriteEvent(w, c); err != nil {
			return
		}
		flusher.Flush()
		if s.config.ChunkDelay > 0 {
			time.Sleep(s.config.ChunkDelay)
		}
	}
	s.store.Append(req.Memory.Thread, req.Memory.Resource, acc.Message())
	_ = mastra.WriteDone(w)
	flusher.Flush()
}

// script picks the canned response for a prompt.
func script(prompt string) []mastra.Chunk {
	lower := strings.ToLower(prompt)
	msgID := uuid.NewString()
	var body []mastra.Chunk
	switch {
	case strings.Contains(lower, "weather"):
		body = weatherScript(placeAfter(prompt, "in", "Tokyo"))
	case strings.Contains(lower, "europe"), strings.Contains(lower, "plan"), strings.Contains(lower, "itinerary"):
		body = networkScript(prompt)
	default:
		body = destinationScript(lower)
	}

	out := []mastra.Chunk{
		{Type: mastra.ChunkStart, MessageID: msgID},
		{Type: mastra.ChunkStartStep},
	}
	out = append(out, body...)
	return append(out,
		mastra.Chunk{Type: mastra.ChunkFinishStep},
		mastra.Chunk{Type: mastra.ChunkFinish, FinishReason: "stop"},
	)
}

func weatherScript(place string) []mastra.Chunk {
	callID := "call_" + uuid.NewString()[:8]
	input := mustJSON(map[string]string{"location": place})
	output := mustJSON(map[string]any{
		"location":    place,
		"temperature": 18.4,
		"feelsLike":   17.1,
		"humidity":    62,
		"windSpeed":   11.2,
		"conditions":  "Partly cloudy",
	})
	chunks := reasoning("r1", fmt.Sprintf("The user wants current conditions for %s. I'll call the weather tool.", place))
	chunks = append(chunks,
		mastra.Chunk{Type: mastra.ChunkToolInputStart, ToolCallID: callID, ToolName: "weatherTool"},
		mastra.Chunk{Type: mastra.ChunkToolInputDelta, ToolCallID: callID, InputTextDelta: string(input)},
		mastra.Chunk{Type: mastra.ChunkToolInputAvailable, ToolCallID: callID, ToolName: "weatherTool", Input: input},
		mastra.Chunk{Type: mastra.ChunkToolOutputAvailable, ToolCallID: callID, Output: output},
		mastra.Chunk{Type: mastra.ChunkFinishStep},
		mastra.Chunk{Type: mastra.ChunkStartStep},
	)
	return append(chunks, text("t1", fmt.Sprintf(
		"Right now in **%s** it's about 18°C and partly cloudy, with a light breeze and 62%% humidity.\n\n"+
			"Pack a light jacket for the evening. It's good weather for walking tours and outdoor markets.", place))...)
}

func networkScript(prompt string) []mastra.Chunk {
	id := "network-" + uuid.NewString()[:8]
	trace := func(status string, steps ...chat.NetworkStep) json.RawMessage {
		return mustJSON(chat.NetworkData{Name: "Travel planning network", Status: status, Steps: steps})
	}
	routing := chat.NetworkStep{Name: "routingAgent", Status: "success", Input: mustJSON(prompt)}
	research := chat.NetworkStep{Name: "destinationAgent", Status: "running"}
	researchDone := research
	researchDone.Status = "success"
	researchDone.Output = mustJSON("Lisbon, Prague and Ljubljana fit a mid-range budget.")
	weather := chat.NetworkStep{Name: "weatherTool", Status: "success", Output: mustJSON("Mild spring temperatures across all three.")}

	chunks := []mastra.Chunk{
		{Type: chat.TypeNetwork, ID: id, Data: trace("running", routing)},
		{Type: chat.TypeNetwork, ID: id, Data: trace("running", routing, research)},
		{Type: chat.TypeNetwork, ID: id, Data: trace("running", routing, researchDone, weather)},
		{Type: chat.TypeNetwork, ID: id, Data: trace("finished", routing, researchDone, weather)},
	}
	return append(chunks, text("t1",
		"Here are three European picks that balance cost and charm:\n\n"+
			"1. **Lisbon**: hilltop viewpoints, tram 28 and pastéis de nata.\n"+
			"2. **Prague**: Old Town Square, the castle district and great-value food.\n"+
			"3. **Ljubljana**: a compact green capital, close to Lake Bled.\n\n"+
			"Spring and early autumn are the sweet spots for weather and crowds.")...)
}

func destinationScript(lower string) []mastra.Chunk {
	var answer string
	switch {
	case strings.Contains(lower, "beach"):
		answer = "For a beach vacation consider **Algarve** in Portugal for golden cliffs, **Bali** for surf and temples, " +
			"or **Tulum** in Mexico for white sand next to Mayan ruins."
	case strings.Contains(lower, "mountain"):
		answer = "Try **Banff** in Canada: turquoise lakes, easy day hikes and the Icefields Parkway. " +
			"If you prefer Europe, **Zermatt** offers car-free streets under the Matterhorn."
	default:
		answer = "I can help with destinations, weather and travel recommendations. " +
			"Tell me what kind of trip you have in mind, such as beach, city or mountains, and when you want to go."
	}
	chunks := reasoning("r1", "Pick a few well-known destinations matching the request.")
	return append(chunks, text("t1", answer)...)
}

func reasoning(id, s string) []mastra.Chunk {
	out := []mastra.Chunk{{Type: mastra.ChunkReasoningStart, ID: id}}
	for _, d := range split(s) {
		out = append(out, mastra.Chunk{Type: mastra.ChunkReasoningDelta, ID: id, Delta: d})
	}
	return append(out, mastra.Chunk{Type: mastra.ChunkReasoningEnd, ID: id})
}

func text(id, s string) []mastra.Chunk {
	out := []mastra.Chunk{{Type: mastra.ChunkTextStart, ID: id}}
	for _, d := range split(s) {
		out = append(out, mastra.Chunk{Type: mastra.ChunkTextDelta, ID: id, Delta: d})
	}
	return append(out, mastra.Chunk{Type: mastra.ChunkTextEnd, ID: id})
}

// split breaks s into word-sized deltas that concatenate back to s.
func split(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if i > start && unicode.IsSpace(r) {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// placeAfter returns the capitalised words following word in prompt, e.g.
// "Tokyo" from "weather like in Tokyo?".
func placeAfter(prompt, word, fallback string) string {
	fields := strings.Fields(prompt)
	for i := 0; i < len(fields)-1; i++ {
		if !strings.EqualFold(fields[i], word) {
			continue
		}
		var place []string
		for _, f := range fields[i+1:] {
			f = strings.TrimFunc(f, func(r rune) bool { return unicode.IsPunct(r) })
			if f == "" || !unicode.IsUpper([]rune(f)[0]) {
				break
			}
			place = append(place, f)
		}
		if len(place) > 0 {
			return strings.Join(place, " ")
		}
	}
	return fallback
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
