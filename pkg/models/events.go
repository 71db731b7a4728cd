package models

import "time"

// RuleUpdateEvent notifies running services that a screening rule changed and
// cached rule sets should be reloaded. Events travel on the rule_updates
// topic wrapped in a ChatMessage envelope.
type RuleUpdateEvent struct {
	EventType string                 `json:"event_type"`
	RuleID    string                 `json:"rule_id,omitempty"`
	Action    string                 `json:"action"` // "create", "update", "delete", "reload"
	Timestamp time.Time              `json:"timestamp"`
	ChangedBy string                 `json:"changed_by,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// RecordedBet is published to the recorded_bets topic after a row is
// appended. Summary is a human-readable confirmation line.
type RecordedBet struct {
	Record     BetRecord `json:"record"`
	Summary    string    `json:"summary"`
	RecordedAt time.Time `json:"recorded_at"`
}

const (
	EventTypeScreeningRuleUpdated = "screening_rule_updated"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionReload = "reload"
)
