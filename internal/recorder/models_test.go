package recorder

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tally/pkg/models"
)

func TestBuildSummaryFullRecord(t *testing.T) {
	rec := models.BetRecord{
		AccountName: "bet365",
		Amount:      decimal.NewFromInt(500),
		Currency:    "USD",
		Match:       "TeamA/TeamB",
		Period:      "1H",
		Line:        "U2.5",
		Odds:        decimal.NewNullDecimal(decimal.RequireFromString("1.85")),
		ClosingOdds: decimal.NewNullDecimal(decimal.RequireFromString("1.91")),
	}

	want := "----Bet Summary----\n" +
		"Website: BET365\n" +
		"Match: TEAMA/TEAMB 1H U2.5\n" +
		"Odds: 1.85\n" +
		"Correct Odds: 1.91\n" +
		"Amount: 500 USD\n"

	assert.Equal(t, want, BuildSummary(rec))
}

func TestBuildSummaryMinimalRecord(t *testing.T) {
	rec := models.BetRecord{
		AccountName: "AccountA",
		Amount:      decimal.NewFromInt(50),
		Currency:    "USD",
	}

	want := "----Bet Summary----\n" +
		"Website: ACCOUNTA\n" +
		"Match: N/A\n" +
		"Odds: N/A\n" +
		"Correct Odds: N/A\n" +
		"Amount: 50 USD\n"

	assert.Equal(t, want, BuildSummary(rec))
}

func TestBuildSummaryPartialMatch(t *testing.T) {
	tests := []struct {
		name string
		rec  models.BetRecord
		want string
	}{
		{
			name: "match only",
			rec: models.BetRecord{
				AccountName: "AccountA",
				Amount:      decimal.NewFromInt(100),
				Currency:    "USD",
				Match:       "TeamA/TeamB",
			},
			want: "Match: TEAMA/TEAMB\n",
		},
		{
			name: "match and period",
			rec: models.BetRecord{
				AccountName: "AccountA",
				Amount:      decimal.NewFromInt(100),
				Currency:    "USD",
				Match:       "TeamA/TeamB",
				Period:      "2H",
			},
			want: "Match: TEAMA/TEAMB 2H\n",
		},
		{
			name: "line without match",
			rec: models.BetRecord{
				AccountName: "AccountA",
				Amount:      decimal.NewFromInt(100),
				Currency:    "USD",
				Line:        "+7.5",
			},
			want: "Match: +7.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, BuildSummary(tt.rec), tt.want)
		})
	}
}

func TestBuildSummaryOddsWithoutClosing(t *testing.T) {
	rec := models.BetRecord{
		AccountName: "AccountA",
		Amount:      decimal.RequireFromString("2500"),
		Currency:    "PHP",
		Odds:        decimal.NewNullDecimal(decimal.RequireFromString("2.05")),
	}

	summary := BuildSummary(rec)
	assert.Contains(t, summary, "Odds: 2.05\n")
	assert.Contains(t, summary, "Correct Odds: N/A\n")
	assert.Contains(t, summary, "Amount: 2500 PHP\n")
}
