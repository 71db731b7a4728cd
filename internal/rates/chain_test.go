package rates

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/config"
	"tally/internal/logger"
)

func TestNewChainStaticOnly(t *testing.T) {
	p := NewChain(config.RatesConfig{}, config.CircuitBreakerConfig{}, nil, logger.NopLogger())

	assert.Equal(t, "PHP", p.Quote())

	rate, err := p.Rate(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(60)), "rate = %s", rate)

	rate, err = p.Rate(context.Background(), "PHP")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestNewChainConfiguredStatic(t *testing.T) {
	cfg := config.RatesConfig{QuoteCurrency: "EUR", StaticRate: 0.92}
	p := NewChain(cfg, config.CircuitBreakerConfig{}, nil, logger.NopLogger())

	assert.Equal(t, "EUR", p.Quote())

	rate, err := p.Rate(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.92)), "rate = %s", rate)
}

func TestNewChainWithAPI(t *testing.T) {
	cfg := config.RatesConfig{
		QuoteCurrency: "PHP",
		StaticRate:    60.0,
		APIURL:        "http://localhost:1/v1/rates",
		TimeoutMs:     100,
	}
	p := NewChain(cfg, config.CircuitBreakerConfig{}, nil, logger.NopLogger())

	assert.Equal(t, "PHP", p.Quote())

	// Nothing listens on the API URL, so the chain must degrade to the
	// static rate instead of surfacing the transport error.
	rate, err := p.Rate(context.Background(), "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(60)), "rate = %s", rate)
}
