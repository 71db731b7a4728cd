package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetRecord is the structured form of a single wager extracted from a chat
// message. SourceMessageID is unique across the ledger; the recorder never
// appends two rows for the same id. Records are immutable once appended.
type BetRecord struct {
	SourceMessageID string          `json:"source_message_id"`
	Source          string          `json:"source,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
	AccountName     string          `json:"account_name"`
	BetDetails      string          `json:"bet_details"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`

	// Optional fields extracted when the message carries them.
	Match       string              `json:"match,omitempty"`
	Period      string              `json:"period,omitempty"`
	Line        string              `json:"line,omitempty"`
	Odds        decimal.NullDecimal `json:"odds,omitempty"`
	ClosingOdds decimal.NullDecimal `json:"closing_odds,omitempty"`

	// Sheet is the monthly ledger tab the row lands in, assigned by the
	// recorder from Timestamp at append time.
	Sheet string `json:"sheet,omitempty"`
}
