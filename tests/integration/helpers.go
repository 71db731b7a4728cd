package integration

import (
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/config"
	"tally/internal/constants"
	"tally/internal/logger"
	"tally/internal/rules"
	"tally/pkg/models"
)

const (
	containerStartupTimeout = 60
	timestampDelay          = 10 * time.Millisecond
)

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

func createTestScreeningConfig() config.ScreeningConfig {
	return config.ScreeningConfig{
		Fallback: config.FallbackConfig{
			OnError: constants.FallbackAllow,
		},
		Reload: config.ReloadConfig{
			IntervalSeconds: 60,
		},
	}
}

func createTestDedupConfig() config.DedupConfig {
	return config.DedupConfig{
		TTLSeconds:   300,
		OnRedisError: constants.FallbackAllow,
	}
}

func createTestScreeningRule(name, expression string, priority int, enabled bool) *rules.ScreeningRule {
	return &rules.ScreeningRule{
		Name:       name,
		Expression: expression,
		Priority:   priority,
		Enabled:    enabled,
	}
}

func createTestMessage(id, source, text string) models.ChatMessage {
	return models.ChatMessage{
		ID:         id,
		Source:     source,
		Sender:     "bettor",
		Text:       text,
		ReceivedAt: time.Now(),
		Metadata:   models.Metadata{},
	}
}

func createTestRecord(msgID, account string, amount int64) models.BetRecord {
	return models.BetRecord{
		SourceMessageID: msgID,
		Timestamp:       time.Now(),
		AccountName:     account,
		BetDetails:      "bets on TeamX",
		Amount:          decimal.NewFromInt(amount),
		Currency:        "USD",
	}
}
