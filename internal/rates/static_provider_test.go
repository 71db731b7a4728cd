package rates

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProviderRate(t *testing.T) {
	p := NewStaticProvider(60.0, "PHP")

	rate, err := p.Rate(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(60)), "rate = %s", rate)
}

func TestStaticProviderQuoteIsIdentity(t *testing.T) {
	p := NewStaticProvider(60.0, "PHP")

	rate, err := p.Rate(context.Background(), "PHP")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)), "quote to quote is always 1, got %s", rate)
}

func TestStaticProviderQuote(t *testing.T) {
	p := NewStaticProvider(0.92, "EUR")
	assert.Equal(t, "EUR", p.Quote())
}
