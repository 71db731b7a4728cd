package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tally/internal/constants"
	"tally/pkg/models"
)

// Row is one appended ledger entry. Rows are append-only; kind separates
// bets from the End of Week markers that structure a sheet.
type Row struct {
	ID              string              `json:"id" db:"id"`
	Seq             int64               `json:"seq" db:"seq"`
	Kind            string              `json:"kind" db:"kind"`
	Sheet           string              `json:"sheet" db:"sheet"`
	SourceMessageID string              `json:"source_message_id" db:"source_message_id"`
	Source          string              `json:"source,omitempty" db:"source"`
	RecordedAt      time.Time           `json:"recorded_at" db:"recorded_at"`
	MessageAt       time.Time           `json:"message_at" db:"message_at"`
	AccountName     string              `json:"account_name" db:"account_name"`
	BetDetails      string              `json:"bet_details" db:"bet_details"`
	Amount          decimal.Decimal     `json:"amount" db:"amount"`
	Currency        string              `json:"currency" db:"currency"`
	Match           string              `json:"match,omitempty" db:"match"`
	Period          string              `json:"period,omitempty" db:"period"`
	Line            string              `json:"line,omitempty" db:"line"`
	Odds            decimal.NullDecimal `json:"odds,omitempty" db:"odds"`
	ClosingOdds     decimal.NullDecimal `json:"closing_odds,omitempty" db:"closing_odds"`
	Fingerprint     string              `json:"-" db:"fingerprint"`
}

type RowFilter struct {
	Sheet    string
	Account  string
	Currency string
	Kind     string
	Limit    int
	Offset   int
}

type CurrencyStake struct {
	Currency string          `json:"currency"`
	BetCount int             `json:"bet_count"`
	Staked   decimal.Decimal `json:"staked"`
}

type CloseWeekRequest struct {
	Sheet string `json:"sheet"`
}

type RateResponse struct {
	Base  string          `json:"base"`
	Quote string          `json:"quote"`
	Rate  decimal.Decimal `json:"rate"`
}

type SheetSummary struct {
	Sheet          string          `json:"sheet"`
	BetCount       int             `json:"bet_count"`
	MarkerCount    int             `json:"marker_count"`
	Staked         []CurrencyStake `json:"staked"`
	QuoteCurrency  string          `json:"quote_currency"`
	ConvertedStake decimal.Decimal `json:"converted_stake"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Commission     decimal.Decimal `json:"commission"`
}

// SheetFor maps a message timestamp to its ledger sheet, one tab per month.
func SheetFor(t time.Time) string {
	return t.Format(constants.SheetTimeLayout)
}

// NewRowFromRecord builds the ledger row for a parsed bet. The sheet comes
// from the record when the recorder assigned one, otherwise from the message
// timestamp.
func NewRowFromRecord(rec models.BetRecord, fingerprint string) *Row {
	sheet := rec.Sheet
	if sheet == "" {
		sheet = SheetFor(rec.Timestamp)
	}

	return &Row{
		ID:              uuid.New().String(),
		Kind:            constants.RowKindBet,
		Sheet:           sheet,
		SourceMessageID: rec.SourceMessageID,
		Source:          rec.Source,
		MessageAt:       rec.Timestamp,
		AccountName:     rec.AccountName,
		BetDetails:      rec.BetDetails,
		Amount:          rec.Amount,
		Currency:        rec.Currency,
		Match:           rec.Match,
		Period:          rec.Period,
		Line:            rec.Line,
		Odds:            rec.Odds,
		ClosingOdds:     rec.ClosingOdds,
		Fingerprint:     fingerprint,
	}
}

// NewWeekMarker builds an End of Week marker row. Markers carry a synthetic
// source message id so the unique constraint stays total across all rows.
func NewWeekMarker(sheet string, at time.Time) *Row {
	id := uuid.New().String()
	return &Row{
		ID:              id,
		Kind:            constants.RowKindWeekMarker,
		Sheet:           sheet,
		SourceMessageID: "marker:" + id,
		MessageAt:       at,
		AccountName:     "N/A",
		BetDetails:      constants.WeekMarkerDetails,
		Amount:          decimal.Zero,
		Currency:        constants.DefaultCurrency,
	}
}
