// Package rulewatch reacts to rule-update events on the broker so recorder
// replicas refresh their screening rule cache without waiting out the reload
// interval.
package rulewatch

import (
	"context"
	"encoding/json"

	"tally/internal/logger"
	"tally/pkg/models"
)

type RuleReloader interface {
	ReloadRules(ctx context.Context, skipJitter ...bool) error
}

type Handler struct {
	expectedEventType string
	reloader          RuleReloader
	logger            logger.Logger
}

func NewHandler(expectedEventType string, reloader RuleReloader, log logger.Logger) *Handler {
	return &Handler{
		expectedEventType: expectedEventType,
		reloader:          reloader,
		logger:            log,
	}
}

// HandleRuleUpdateEvent consumes one message from the rule_updates topic.
// Messages with a foreign or missing event type are acked without action.
func (h *Handler) HandleRuleUpdateEvent(ctx context.Context, msg models.ChatMessage) error {
	eventType, ok := msg.Metadata.Attributes["event_type"].(string)
	if !ok {
		h.logger.Warnw("Rule update event missing event_type", "id", msg.ID)
		return nil
	}

	if eventType != h.expectedEventType {
		return nil
	}

	var event models.RuleUpdateEvent
	if err := json.Unmarshal([]byte(msg.Text), &event); err != nil {
		h.logger.Errorw("Failed to unmarshal rule update event", "error", err, "id", msg.ID)
		return err
	}

	h.logger.Infow("Received rule update event",
		"event_type", event.EventType,
		"action", event.Action,
		"rule_id", event.RuleID,
	)

	if err := h.reloader.ReloadRules(ctx, true); err != nil {
		h.logger.Errorw("Failed to reload rules after update event", "error", err)
		return err
	}

	h.logger.Infow("Rules reloaded after update event", "action", event.Action)
	return nil
}
