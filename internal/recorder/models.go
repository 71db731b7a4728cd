package recorder

import (
	"fmt"
	"strings"

	"tally/pkg/models"
)

// Outcome is the terminal state of one consumed message.
type Outcome string

const (
	OutcomeAppended    Outcome = "appended"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeMalformed   Outcome = "rejected_malformed"
	OutcomeScreenedOut Outcome = "screened_out"
)

const EventTypeBetRecorded = "bet_recorded"

// BuildSummary renders the confirmation block sent back to chat consumers.
// The layout predates this service; bots and bettors parse it by eye, so the
// header names stay as they always were.
func BuildSummary(rec models.BetRecord) string {
	matchParts := make([]string, 0, 3)
	if rec.Match != "" {
		matchParts = append(matchParts, strings.ToUpper(rec.Match))
	}
	if rec.Period != "" {
		matchParts = append(matchParts, rec.Period)
	}
	if rec.Line != "" {
		matchParts = append(matchParts, rec.Line)
	}

	match := "N/A"
	if len(matchParts) > 0 {
		match = strings.Join(matchParts, " ")
	}

	odds := "N/A"
	if rec.Odds.Valid {
		odds = rec.Odds.Decimal.String()
	}

	closingOdds := "N/A"
	if rec.ClosingOdds.Valid {
		closingOdds = rec.ClosingOdds.Decimal.String()
	}

	return fmt.Sprintf(
		"----Bet Summary----\n"+
			"Website: %s\n"+
			"Match: %s\n"+
			"Odds: %s\n"+
			"Correct Odds: %s\n"+
			"Amount: %s %s\n",
		strings.ToUpper(rec.AccountName),
		match,
		odds,
		closingOdds,
		rec.Amount.String(),
		rec.Currency,
	)
}
