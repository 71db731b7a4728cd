// Package archive keeps the messages the recorder refused, so rejected
// traffic stays inspectable after the fact. Writes are best effort; a lost
// rejection never blocks the message flow.
package archive

import (
	"time"

	"github.com/google/uuid"

	"tally/pkg/models"
)

const (
	ReasonMalformed   = "malformed"
	ReasonScreenedOut = "screened_out"
)

type Rejection struct {
	ID              string    `json:"id" bson:"_id"`
	SourceMessageID string    `json:"source_message_id" bson:"source_message_id"`
	Source          string    `json:"source" bson:"source"`
	Sender          string    `json:"sender,omitempty" bson:"sender,omitempty"`
	Text            string    `json:"text" bson:"text"`
	ReceivedAt      time.Time `json:"received_at" bson:"received_at"`
	ReasonKind      string    `json:"reason_kind" bson:"reason_kind"`
	Reason          string    `json:"reason" bson:"reason"`
	RuleIDs         []string  `json:"rule_ids,omitempty" bson:"rule_ids,omitempty"`
	RejectedAt      time.Time `json:"rejected_at" bson:"rejected_at"`
}

type RejectionFilter struct {
	ReasonKind string
	Source     string
	Limit      int
	Offset     int
}

func NewMalformedRejection(msg models.ChatMessage, reason string) *Rejection {
	return newRejection(msg, ReasonMalformed, reason, nil)
}

func NewScreenedOutRejection(msg models.ChatMessage, reason string, ruleIDs []string) *Rejection {
	return newRejection(msg, ReasonScreenedOut, reason, ruleIDs)
}

func newRejection(msg models.ChatMessage, kind, reason string, ruleIDs []string) *Rejection {
	return &Rejection{
		ID:              uuid.New().String(),
		SourceMessageID: msg.ID,
		Source:          msg.Source,
		Sender:          msg.Sender,
		Text:            msg.Text,
		ReceivedAt:      msg.ReceivedAt,
		ReasonKind:      kind,
		Reason:          reason,
		RuleIDs:         ruleIDs,
		RejectedAt:      time.Now(),
	}
}
