package models

import "time"

// ChatMessage is the wire envelope for everything that flows through the
// broker. For the chat_messages topic, Text carries the raw message text as
// delivered by the chat platform; for control topics (rule_updates) it carries
// a serialized event body and Metadata.Attributes identifies the event type.
type ChatMessage struct {
	ID         string    `json:"id"`     // source message id, dedup key
	Source     string    `json:"source"` // chat/channel identifier
	Sender     string    `json:"sender,omitempty"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
	Metadata   Metadata  `json:"metadata"`
}

type Metadata struct {
	TraceID    string                 `json:"trace_id,omitempty"`
	Screening  *ScreeningInfo         `json:"screening,omitempty"`
	Dedup      *DedupInfo             `json:"dedup,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type ScreeningInfo struct {
	PassedAt time.Time `json:"passed_at"`
	RuleIDs  []string  `json:"rule_ids"`
}

type DedupInfo struct {
	IsFirst   bool      `json:"is_first"`
	CheckedAt time.Time `json:"checked_at"`
}
