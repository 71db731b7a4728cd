package rates

import (
	"context"

	"github.com/shopspring/decimal"

	"tally/internal/logger"
	"tally/pkg/metrics"
)

// FallbackProvider degrades to a static rate when the live chain errors out,
// so summaries keep rendering through a rate API outage.
type FallbackProvider struct {
	inner  Provider
	static *StaticProvider
	log    logger.Logger
}

func NewFallbackProvider(inner Provider, static *StaticProvider, log logger.Logger) *FallbackProvider {
	return &FallbackProvider{
		inner:  inner,
		static: static,
		log:    log,
	}
}

func (p *FallbackProvider) Rate(ctx context.Context, base string) (decimal.Decimal, error) {
	rate, err := p.inner.Rate(ctx, base)
	if err == nil {
		return rate, nil
	}

	metrics.FallbackUsageTotal.WithLabelValues("rates", "static_rate", "provider_error").Inc()
	p.log.Warnw("Rate lookup failed, using static rate",
		"base", base,
		"quote", p.static.Quote(),
		"error", err,
	)

	return p.static.Rate(ctx, base)
}

func (p *FallbackProvider) Quote() string {
	return p.inner.Quote()
}
