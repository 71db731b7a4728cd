package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/constants"
	"tally/pkg/models"
)

func TestSheetFor(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{
			name: "may",
			at:   time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC),
			want: "May",
		},
		{
			name: "january",
			at:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			want: "January",
		},
		{
			name: "december",
			at:   time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
			want: "December",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SheetFor(tt.at))
		})
	}
}

func TestNewRowFromRecord(t *testing.T) {
	at := time.Date(2026, time.June, 5, 9, 30, 0, 0, time.UTC)
	rec := models.BetRecord{
		SourceMessageID: "msg-1",
		Source:          "telegram",
		Timestamp:       at,
		AccountName:     "AccountA",
		BetDetails:      "bets on TeamX",
		Amount:          decimal.NewFromInt(50),
		Currency:        "USD",
		Match:           "TeamA/TeamB",
		Period:          "1H",
		Line:            "U2.5",
	}

	row := NewRowFromRecord(rec, "fp-1")

	assert.NotEmpty(t, row.ID)
	assert.Equal(t, constants.RowKindBet, row.Kind)
	assert.Equal(t, "June", row.Sheet, "sheet follows the message timestamp")
	assert.Equal(t, "msg-1", row.SourceMessageID)
	assert.Equal(t, "telegram", row.Source)
	assert.Equal(t, at, row.MessageAt)
	assert.Equal(t, "AccountA", row.AccountName)
	assert.Equal(t, "bets on TeamX", row.BetDetails)
	assert.True(t, row.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "USD", row.Currency)
	assert.Equal(t, "TeamA/TeamB", row.Match)
	assert.Equal(t, "1H", row.Period)
	assert.Equal(t, "U2.5", row.Line)
	assert.Equal(t, "fp-1", row.Fingerprint)
}

func TestNewRowFromRecordKeepsAssignedSheet(t *testing.T) {
	rec := models.BetRecord{
		SourceMessageID: "msg-2",
		Timestamp:       time.Date(2026, time.June, 5, 9, 30, 0, 0, time.UTC),
		AccountName:     "AccountA",
		Amount:          decimal.NewFromInt(50),
		Currency:        "USD",
		Sheet:           "May",
	}

	row := NewRowFromRecord(rec, "fp-2")
	assert.Equal(t, "May", row.Sheet, "an assigned sheet wins over the timestamp")
}

func TestNewWeekMarker(t *testing.T) {
	at := time.Date(2026, time.May, 17, 23, 0, 0, 0, time.UTC)

	marker := NewWeekMarker("May", at)

	require.NotEmpty(t, marker.ID)
	assert.Equal(t, constants.RowKindWeekMarker, marker.Kind)
	assert.Equal(t, "May", marker.Sheet)
	assert.Equal(t, "marker:"+marker.ID, marker.SourceMessageID)
	assert.Equal(t, at, marker.MessageAt)
	assert.Equal(t, "N/A", marker.AccountName)
	assert.Equal(t, constants.WeekMarkerDetails, marker.BetDetails)
	assert.True(t, marker.Amount.IsZero())
	assert.Equal(t, constants.DefaultCurrency, marker.Currency)
}

func TestNewWeekMarkerIDsAreDistinct(t *testing.T) {
	at := time.Now()

	first := NewWeekMarker("May", at)
	second := NewWeekMarker("May", at)

	assert.NotEqual(t, first.SourceMessageID, second.SourceMessageID,
		"each marker needs its own synthetic id so every close appends")
}
