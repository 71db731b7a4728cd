package rates

import (
	"context"

	"github.com/shopspring/decimal"
)

// StaticProvider answers every lookup with one configured rate. It backs
// deployments without a rate API and serves as the last fallback when the
// live chain is down.
type StaticProvider struct {
	rate  decimal.Decimal
	quote string
}

func NewStaticProvider(rate float64, quote string) *StaticProvider {
	return &StaticProvider{
		rate:  decimal.NewFromFloat(rate),
		quote: quote,
	}
}

func (p *StaticProvider) Rate(_ context.Context, base string) (decimal.Decimal, error) {
	if base == p.quote {
		return decimal.NewFromInt(1), nil
	}
	return p.rate, nil
}

func (p *StaticProvider) Quote() string {
	return p.quote
}
