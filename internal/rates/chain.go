package rates

import (
	"github.com/redis/go-redis/v9"

	"tally/internal/config"
	"tally/internal/constants"
	"tally/internal/logger"
)

// NewChain assembles the provider stack from configuration. Without an API
// URL the static rate serves alone; otherwise lookups go cache first, then
// the HTTP API behind a circuit breaker, with the static rate as the final
// fallback.
func NewChain(cfg config.RatesConfig, cbCfg config.CircuitBreakerConfig, redisClient *redis.Client, log logger.Logger) Provider {
	quote := cfg.QuoteCurrency
	if quote == "" {
		quote = constants.DefaultQuoteCurrency
	}

	staticRate := cfg.StaticRate
	if staticRate <= 0 {
		staticRate = constants.DefaultStaticRate
	}
	static := NewStaticProvider(staticRate, quote)

	if cfg.APIURL == "" {
		return static
	}

	var p Provider = NewAPIProvider(cfg.APIURL, quote, cfg.TimeoutMs)
	p = WrapWithCircuitBreaker(p, "rates-api", cbCfg)

	if redisClient != nil {
		ttl := cfg.CacheTTLSeconds
		if ttl <= 0 {
			ttl = constants.DefaultRateCacheTTLSeconds
		}
		p = NewCacheProvider(p, redisClient, ttl)
	}

	return NewFallbackProvider(p, static, log)
}
