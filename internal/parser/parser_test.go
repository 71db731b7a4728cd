package parser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/pkg/errors"
	"tally/pkg/models"
)

func chatMessage(id, text string) models.ChatMessage {
	return models.ChatMessage{
		ID:         id,
		Source:     "telegram",
		Sender:     "alice",
		Text:       text,
		ReceivedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseBasicMessage(t *testing.T) {
	p := New()

	rec, err := p.Parse(chatMessage("msg_1", "msg_1: AccountA bets 50 on TeamX"))
	require.NoError(t, err)

	assert.Equal(t, "msg_1", rec.SourceMessageID)
	assert.Equal(t, "AccountA", rec.AccountName)
	assert.Equal(t, "bets on TeamX", rec.BetDetails)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(50)), "amount = %s", rec.Amount)
	assert.Equal(t, "USD", rec.Currency)
	assert.Equal(t, "telegram", rec.Source)
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), rec.Timestamp)
}

func TestParseFullBetCommand(t *testing.T) {
	p := New()

	rec, err := p.Parse(chatMessage("msg_2", "/bet bet365 TeamA/TeamB 1h u2.5 @1.85 500 usd @1.91"))
	require.NoError(t, err)

	assert.Equal(t, "bet365", rec.AccountName)
	assert.Equal(t, "TeamA/TeamB", rec.Match)
	assert.Equal(t, "1H", rec.Period)
	assert.Equal(t, "U2.5", rec.Line)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(500)), "amount = %s", rec.Amount)
	assert.Equal(t, "USD", rec.Currency)
	require.True(t, rec.Odds.Valid)
	assert.True(t, rec.Odds.Decimal.Equal(decimal.RequireFromString("1.85")))
	require.True(t, rec.ClosingOdds.Valid)
	assert.True(t, rec.ClosingOdds.Decimal.Equal(decimal.RequireFromString("1.91")))
	assert.Equal(t, "TeamA/TeamB 1h u2.5 @1.85 @1.91", rec.BetDetails)
}

func TestParseAmountVariants(t *testing.T) {
	p := New()

	tests := []struct {
		name string
		text string
		want decimal.Decimal
	}{
		{
			name: "plain integer",
			text: "AccountA bets 50 on TeamX",
			want: decimal.NewFromInt(50),
		},
		{
			name: "decimal amount",
			text: "AccountA bets 12.5 on TeamX",
			want: decimal.RequireFromString("12.5"),
		},
		{
			name: "lowercase k suffix",
			text: "AccountA bets 1k on TeamX",
			want: decimal.NewFromInt(1000),
		},
		{
			name: "uppercase K suffix",
			text: "AccountA bets 5K on TeamX",
			want: decimal.NewFromInt(5000),
		},
		{
			name: "decimal with k suffix",
			text: "AccountA bets 2.5k on TeamX",
			want: decimal.NewFromInt(2500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(chatMessage("msg", tt.text))
			require.NoError(t, err)
			assert.True(t, rec.Amount.Equal(tt.want), "amount = %s, want %s", rec.Amount, tt.want)
		})
	}
}

func TestParseCurrency(t *testing.T) {
	p := New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "explicit lowercase currency",
			text: "AccountA 500 php TeamA/TeamB",
			want: "PHP",
		},
		{
			name: "explicit uppercase currency",
			text: "AccountA 500 EUR TeamA/TeamB",
			want: "EUR",
		},
		{
			name: "default when absent",
			text: "AccountA bets 500",
			want: "USD",
		},
		{
			name: "default when next token is not three letters",
			text: "AccountA bets 50 on TeamX",
			want: "USD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(chatMessage("msg", tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Currency)
		})
	}
}

func TestParseTotalKeyword(t *testing.T) {
	p := New()

	rec, err := p.Parse(chatMessage("msg_3", "total TeamA/TeamB @1.85 500"))
	require.NoError(t, err)
	assert.Equal(t, "N/A", rec.AccountName)

	rec, err = p.Parse(chatMessage("msg_4", "bet365 TeamA/TeamB total 500"))
	require.NoError(t, err)
	assert.Equal(t, "N/A", rec.AccountName, "standalone total anywhere marks the record")

	rec, err = p.Parse(chatMessage("msg_5", "Totality bets 500"))
	require.NoError(t, err)
	assert.Equal(t, "Totality", rec.AccountName, "substring must not trigger the keyword")
}

func TestParseLineVariants(t *testing.T) {
	p := New()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "under line",
			text: "bet365 TeamA/TeamB u220 500",
			want: "U220",
		},
		{
			name: "over line with decimal",
			text: "bet365 TeamA/TeamB o2.5 500",
			want: "O2.5",
		},
		{
			name: "plus handicap",
			text: "bet365 TeamA/TeamB +7.5 500",
			want: "+7.5",
		},
		{
			name: "minus handicap",
			text: "bet365 TeamA/TeamB -110 500",
			want: "-110",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(chatMessage("msg", tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Line)
			assert.True(t, rec.Amount.Equal(decimal.NewFromInt(500)), "line capture must not eat the amount")
		})
	}
}

func TestParsePeriodVariants(t *testing.T) {
	p := New()

	tests := []struct {
		token string
		want  string
	}{
		{token: "1h", want: "1H"},
		{token: "2h", want: "2H"},
		{token: "ot", want: "OT"},
		{token: "ht", want: "HT"},
		{token: "1H", want: "1H"},
		{token: "OT", want: "OT"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			rec, err := p.Parse(chatMessage("msg", "bet365 TeamA/TeamB "+tt.token+" 500"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Period)
		})
	}
}

func TestParseIDEchoStripped(t *testing.T) {
	p := New()

	tests := []struct {
		name        string
		text        string
		wantAccount string
	}{
		{
			name:        "id echo before account",
			text:        "msg_42: AccountB bets 75",
			wantAccount: "AccountB",
		},
		{
			name:        "command then id echo",
			text:        "/bet msg_42: AccountB bets 75",
			wantAccount: "AccountB",
		},
		{
			name:        "no echo",
			text:        "AccountB bets 75",
			wantAccount: "AccountB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(chatMessage("msg_42", tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccount, rec.AccountName)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	p := New()

	tests := []struct {
		name string
		text string
	}{
		{
			name: "empty text",
			text: "",
		},
		{
			name: "whitespace only",
			text: "   \t  ",
		},
		{
			name: "command only",
			text: "/bet",
		},
		{
			name: "no amount",
			text: "AccountA bets on TeamX",
		},
		{
			name: "amount eaten by line capture",
			text: "AccountA TeamA/TeamB u220",
		},
		{
			name: "odds but no stake",
			text: "AccountA TeamA/TeamB @1.85",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Parse(chatMessage("msg", tt.text))
			require.Error(t, err)
			assert.True(t, errors.IsMalformedInput(err), "want MALFORMED_INPUT, got %v", err)
			assert.Equal(t, models.BetRecord{}, rec, "no partial record on error")
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	p := New()
	msg := chatMessage("msg_9", "/bet bet365 TeamA/TeamB 2h o215.5 @1.95 2.5k php @2.05")

	first, err := p.Parse(msg)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := p.Parse(msg)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestParseValidYieldsAccountAndAmount(t *testing.T) {
	p := New()

	inputs := []string{
		"msg_1: AccountA bets 50 on TeamX",
		"/bet bet365 TeamA/TeamB 1h u2.5 @1.85 500 usd",
		"total TeamA/TeamB @1.85 500",
		"AccountC 1k",
	}

	for _, text := range inputs {
		rec, err := p.Parse(chatMessage("msg", text))
		require.NoError(t, err, "input: %s", text)
		assert.NotEmpty(t, rec.AccountName, "input: %s", text)
		assert.False(t, rec.Amount.IsNegative(), "input: %s", text)
		assert.True(t, rec.Amount.IsPositive(), "input: %s", text)
	}
}
