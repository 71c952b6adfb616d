package types

// ChatMessage represents one message of a stored transcript
type ChatMessage struct {
	Role    string `json:"role"`    // user, assistant, system
	Content string `json:"content"` // Message content
}

// HistoryItem represents one conversation in the history list
type HistoryItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Time         string `json:"time"` // formatted as 2006-01-02 15:04:05
	MessageCount int    `json:"messageCount"`
}

// Stream event names emitted by the sse_emitter endpoints
const (
	EventMessage  = "message"
	EventThinking = "thinking"
	EventError    = "error"
	EventComplete = "complete"
)

// StreamEvent represents one parsed SSE frame
type StreamEvent struct {
	Event string // empty for plain data frames
	Data  string
}
