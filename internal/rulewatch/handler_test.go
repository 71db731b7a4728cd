package rulewatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/logger"
	"tally/pkg/models"
)

type fakeReloader struct {
	calls int
	err   error
}

func (r *fakeReloader) ReloadRules(_ context.Context, _ ...bool) error {
	r.calls++
	return r.err
}

func ruleUpdateMessage(t *testing.T, eventType string) models.ChatMessage {
	t.Helper()

	event := models.RuleUpdateEvent{
		EventType: eventType,
		RuleID:    "rule-1",
		Action:    models.ActionUpdate,
		Timestamp: time.Now(),
		ChangedBy: "system",
	}
	body, err := json.Marshal(event)
	require.NoError(t, err)

	return models.ChatMessage{
		ID:         "event-1",
		Source:     "rules-service",
		Text:       string(body),
		ReceivedAt: time.Now(),
		Metadata: models.Metadata{
			Attributes: map[string]interface{}{
				"event_type": eventType,
			},
		},
	}
}

func TestHandleRuleUpdateEventReloads(t *testing.T) {
	reloader := &fakeReloader{}
	h := NewHandler(models.EventTypeScreeningRuleUpdated, reloader, logger.NopLogger())

	err := h.HandleRuleUpdateEvent(context.Background(), ruleUpdateMessage(t, models.EventTypeScreeningRuleUpdated))
	require.NoError(t, err)
	assert.Equal(t, 1, reloader.calls)
}

func TestHandleRuleUpdateEventIgnoresForeignEventType(t *testing.T) {
	reloader := &fakeReloader{}
	h := NewHandler(models.EventTypeScreeningRuleUpdated, reloader, logger.NopLogger())

	err := h.HandleRuleUpdateEvent(context.Background(), ruleUpdateMessage(t, "something_else"))
	require.NoError(t, err)
	assert.Equal(t, 0, reloader.calls, "foreign events are acked without reloading")
}

func TestHandleRuleUpdateEventMissingEventType(t *testing.T) {
	reloader := &fakeReloader{}
	h := NewHandler(models.EventTypeScreeningRuleUpdated, reloader, logger.NopLogger())

	msg := models.ChatMessage{
		ID:         "event-2",
		Source:     "rules-service",
		Text:       "{}",
		ReceivedAt: time.Now(),
	}

	err := h.HandleRuleUpdateEvent(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, 0, reloader.calls)
}

func TestHandleRuleUpdateEventBadPayload(t *testing.T) {
	reloader := &fakeReloader{}
	h := NewHandler(models.EventTypeScreeningRuleUpdated, reloader, logger.NopLogger())

	msg := ruleUpdateMessage(t, models.EventTypeScreeningRuleUpdated)
	msg.Text = "not json"

	err := h.HandleRuleUpdateEvent(context.Background(), msg)
	assert.Error(t, err)
	assert.Equal(t, 0, reloader.calls)
}

func TestHandleRuleUpdateEventReloadFailure(t *testing.T) {
	reloader := &fakeReloader{err: errors.New("database gone")}
	h := NewHandler(models.EventTypeScreeningRuleUpdated, reloader, logger.NopLogger())

	err := h.HandleRuleUpdateEvent(context.Background(), ruleUpdateMessage(t, models.EventTypeScreeningRuleUpdated))
	assert.Error(t, err, "reload failures bubble up so the broker redelivers")
	assert.Equal(t, 1, reloader.calls)
}
