package chat

// Status is the state of a live chat session.
type Status string

const (
	StatusReady     Status = "ready"
	StatusSubmitted Status = "submitted"
	StatusStreaming Status = "streaming"
	StatusError     Status = "error"
)

// Busy reports whether a request is in flight.
func (s Status) Busy() bool {
	return s == StatusSubmitted || s == StatusStreaming
}
