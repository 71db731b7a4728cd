package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"tally/internal/config"
	"tally/pkg/circuitbreaker"
)

type CircuitBreakerProvider struct {
	inner Provider
	cb    *circuitbreaker.Wrapper
	name  string
}

func NewCircuitBreakerProvider(inner Provider, name string, cfg circuitbreaker.Config) *CircuitBreakerProvider {
	return &CircuitBreakerProvider{
		inner: inner,
		cb:    circuitbreaker.NewWrapper(cfg),
		name:  name,
	}
}

func (p *CircuitBreakerProvider) Rate(ctx context.Context, base string) (decimal.Decimal, error) {
	result, err := p.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		return p.inner.Rate(ctx, base)
	})

	p.cb.RecordRequest(err == nil)

	if err != nil {
		if p.cb.IsOpen() {
			return decimal.Zero, fmt.Errorf("circuit breaker is open for %s: %w", p.name, err)
		}
		return decimal.Zero, err
	}

	rate, ok := result.(decimal.Decimal)
	if !ok {
		return decimal.Zero, fmt.Errorf("provider returned invalid result type")
	}

	return rate, nil
}

func (p *CircuitBreakerProvider) Quote() string {
	return p.inner.Quote()
}

func (p *CircuitBreakerProvider) State() string {
	return p.cb.State().String()
}

func (p *CircuitBreakerProvider) IsOpen() bool {
	return p.cb.IsOpen()
}

// WrapWithCircuitBreaker decorates the provider when the breaker is enabled.
func WrapWithCircuitBreaker(inner Provider, name string, cfg config.CircuitBreakerConfig) Provider {
	if !cfg.Enabled {
		return inner
	}

	cbConfig := circuitbreaker.DefaultConfig(name)
	if cfg.MaxRequests > 0 {
		cbConfig.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		cbConfig.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		cbConfig.Timeout = cfg.Timeout
	}
	if cfg.FailureRatio > 0 && cfg.MinRequests > 0 {
		cbConfig.ReadyToTrip = func(counts gobreaker.Counts) bool {
			if counts.Requests < uint32(cfg.MinRequests) {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		}
	}

	return NewCircuitBreakerProvider(inner, name, cbConfig)
}
