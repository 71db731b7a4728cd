package rates

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"tally/internal/constants"
	"tally/pkg/metrics"
)

// CacheProvider caches rates in Redis in front of another provider. Cached
// values expire on their own; a Redis outage degrades to the inner provider
// instead of failing the lookup.
type CacheProvider struct {
	inner   Provider
	client  *redis.Client
	ttl     time.Duration
	lookups uint64
	hits    uint64
}

func NewCacheProvider(inner Provider, client *redis.Client, ttlSeconds int) *CacheProvider {
	return &CacheProvider{
		inner:  inner,
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

func (p *CacheProvider) Rate(ctx context.Context, base string) (decimal.Decimal, error) {
	key := constants.CacheKeyPrefixRate + base + ":" + p.inner.Quote()

	atomic.AddUint64(&p.lookups, 1)

	val, err := p.client.Get(ctx, key).Result()
	if err == nil {
		rate, parseErr := decimal.NewFromString(val)
		if parseErr == nil {
			atomic.AddUint64(&p.hits, 1)
			p.publishHitRate()
			metrics.IncRateProviderRequest("cache", "hit")
			return rate, nil
		}
	} else if err != redis.Nil {
		metrics.IncRateProviderRequest("cache", "error")
	}

	p.publishHitRate()
	metrics.IncRateProviderRequest("cache", "miss")

	rate, err := p.inner.Rate(ctx, base)
	if err != nil {
		return decimal.Zero, err
	}

	if setErr := p.client.Set(ctx, key, rate.String(), p.ttl).Err(); setErr != nil {
		metrics.IncRateProviderRequest("cache", "store_error")
	}

	return rate, nil
}

func (p *CacheProvider) publishHitRate() {
	lookups := atomic.LoadUint64(&p.lookups)
	if lookups == 0 {
		return
	}
	hits := atomic.LoadUint64(&p.hits)
	metrics.SetRateCacheHitRate(float64(hits) / float64(lookups))
}

func (p *CacheProvider) Quote() string {
	return p.inner.Quote()
}
