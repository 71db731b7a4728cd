package cel

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/pkg/models"
)

func TestNewEvaluator(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)
	assert.NotNil(t, eval)
}

func TestValidateExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		expr      string
		wantError bool
	}{
		{
			name:      "valid simple expression",
			expr:      `account == "AccountA"`,
			wantError: false,
		},
		{
			name:      "valid numeric comparison",
			expr:      `amount > 100.0`,
			wantError: false,
		},
		{
			name:      "invalid expression",
			expr:      `invalid syntax here!!!`,
			wantError: true,
		},
		{
			name:      "undefined variable",
			expr:      `undefinedVar == "test"`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eval.ValidateExpression(tt.expr)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateScreenExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		expr      string
		wantError bool
	}{
		{
			name:      "valid bool expression",
			expr:      `currency == "USD"`,
			wantError: false,
		},
		{
			name:      "non-bool expression",
			expr:      `amount`,
			wantError: true,
		},
		{
			name:      "valid contains",
			expr:      `details.contains("TeamX")`,
			wantError: false,
		},
		{
			name:      "valid in-list",
			expr:      `currency in ["USD", "PHP"]`,
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eval.ValidateScreenExpression(tt.expr)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluateScreen(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	ctx := context.Background()
	msg := models.ChatMessage{
		ID:         "msg_1",
		Source:     "telegram",
		Sender:     "alice",
		Text:       "AccountA bets 150 on TeamX",
		ReceivedAt: time.Now(),
		Metadata:   models.Metadata{},
	}
	record := models.BetRecord{
		SourceMessageID: "msg_1",
		AccountName:     "AccountA",
		BetDetails:      "bets on TeamX",
		Amount:          decimal.NewFromInt(150),
		Currency:        "USD",
	}

	tests := []struct {
		name      string
		expr      string
		want      bool
		wantError bool
	}{
		{
			name: "account equality true",
			expr: `account == "AccountA"`,
			want: true,
		},
		{
			name: "account equality false",
			expr: `account == "AccountB"`,
			want: false,
		},
		{
			name: "amount comparison true",
			expr: `amount > 100.0`,
			want: true,
		},
		{
			name: "amount comparison false",
			expr: `amount > 200.0`,
			want: false,
		},
		{
			name: "details contains true",
			expr: `details.contains("TeamX")`,
			want: true,
		},
		{
			name: "details contains false",
			expr: `details.contains("TeamY")`,
			want: false,
		},
		{
			name: "currency allowlist",
			expr: `currency in ["USD", "PHP"]`,
			want: true,
		},
		{
			name: "source check",
			expr: `source == "telegram"`,
			want: true,
		},
		{
			name: "sender check",
			expr: `sender != ""`,
			want: true,
		},
		{
			name: "raw text check",
			expr: `text.contains("bets")`,
			want: true,
		},
		{
			name: "combined conditions",
			expr: `amount > 0.0 && currency == "USD" && account != "N/A"`,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eval.EvaluateScreen(ctx, tt.expr, msg, record)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, result)
			}
		})
	}
}

func TestEvaluateScreenMetadata(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	ctx := context.Background()
	passedAt := time.Now()
	msg := models.ChatMessage{
		ID:         "msg_2",
		Source:     "telegram",
		Sender:     "bob",
		Text:       "AccountB bets 25 on TeamY",
		ReceivedAt: time.Now(),
		Metadata: models.Metadata{
			TraceID: "trace-123",
			Screening: &models.ScreeningInfo{
				PassedAt: passedAt,
				RuleIDs:  []string{"rule-1"},
			},
			Attributes: map[string]interface{}{
				"channel": "vip",
			},
		},
	}
	record := models.BetRecord{
		SourceMessageID: "msg_2",
		AccountName:     "AccountB",
		BetDetails:      "bets on TeamY",
		Amount:          decimal.NewFromInt(25),
		Currency:        "USD",
	}

	result, err := eval.EvaluateScreen(ctx, `metadata.trace_id == "trace-123"`, msg, record)
	require.NoError(t, err)
	assert.True(t, result)

	result, err = eval.EvaluateScreen(ctx, `metadata.attributes.channel == "vip"`, msg, record)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestScreenExpressionExamples(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	for name, expr := range ScreenExpressionExamples {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, eval.ValidateScreenExpression(expr), "example %s should validate", name)
		})
	}
}

func TestCompileExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	program, err := eval.CompileExpression(`amount >= 1.0 && amount <= 50000.0`)
	require.NoError(t, err)
	assert.NotNil(t, program)

	_, err = eval.CompileExpression(`this is not CEL`)
	assert.Error(t, err)
}
