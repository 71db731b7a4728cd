package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	kafka "tally/internal/broker"
	"tally/pkg/models"
)

// RuleEventProducer publishes rule-update events so recorder replicas reload
// their cached rules right away instead of on the next timer tick.
type RuleEventProducer struct {
	producer kafka.Producer
	topic    string
}

func NewRuleEventProducer(producer kafka.Producer, topic string) *RuleEventProducer {
	return &RuleEventProducer{
		producer: producer,
		topic:    topic,
	}
}

func (p *RuleEventProducer) PublishScreeningRuleEvent(ctx context.Context, action, ruleID, changedBy string) error {
	event := models.RuleUpdateEvent{
		EventType: models.EventTypeScreeningRuleUpdated,
		RuleID:    ruleID,
		Action:    action,
		Timestamp: time.Now(),
		ChangedBy: changedBy,
	}
	return p.publishEvent(ctx, event)
}

func (p *RuleEventProducer) publishEvent(ctx context.Context, event models.RuleUpdateEvent) error {
	if p.producer == nil || p.topic == "" {
		return nil
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rule event: %w", err)
	}

	msg := models.ChatMessage{
		ID:         uuid.New().String(),
		Source:     "ledger-service",
		Text:       string(eventJSON),
		ReceivedAt: time.Now(),
		Metadata: models.Metadata{
			Attributes: map[string]interface{}{
				"event_type": event.EventType,
			},
		},
	}

	return p.producer.Publish(ctx, p.topic, msg)
}
