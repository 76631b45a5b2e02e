package chat

import "encoding/json"

// NetworkData is the trace an agent network streams while routing a request
// between its member agents and tools.
type NetworkData struct {
	Name   string          `json:"name,omitempty"`
	Status string          `json:"status,omitempty"`
	Steps  []NetworkStep   `json:"steps,omitempty"`
	Output json.RawMessage `json:"output,omitempty"`
}

// NetworkStep is one routing decision or sub-agent run.
type NetworkStep struct {
	Name   string          `json:"name,omitempty"`
	Status string          `json:"status,omitempty"`
	Input  json.RawMessage `json:"input,omitempty"`
	Output json.RawMessage `json:"output,omitempty"`
}

// Network decodes the part's trace.
func (p NetworkPart) Network() (NetworkData, bool) {
	return ParseNetwork(p.Data)
}

// ParseNetwork decodes a raw trace. A payload of unexpected shape returns
// the zero value and false.
func ParseNetwork(raw json.RawMessage) (NetworkData, bool) {
	var d NetworkData
	if !Present(raw) {
		return d, false
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return NetworkData{}, false
	}
	return d, true
}
