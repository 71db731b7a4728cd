package ingest

import "time"

// MessageRequest is the HTTP body for a delivered chat event. MessageID is
// the chat platform's message id and becomes the dedup key downstream, so
// callers must pass it through unchanged.
type MessageRequest struct {
	MessageID  string                 `json:"message_id" binding:"required"`
	Source     string                 `json:"source" binding:"required"`
	Sender     string                 `json:"sender"`
	Text       string                 `json:"text" binding:"required"`
	ReceivedAt time.Time              `json:"received_at"`
	Attributes map[string]interface{} `json:"attributes"`
}

type MessageAccepted struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	AcceptedAt time.Time `json:"accepted_at"`
}
