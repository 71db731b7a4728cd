package dedup

import (
	"context"
	"fmt"
	"time"

	"tally/internal/config"
	"tally/internal/constants"
	"tally/internal/logger"
	"tally/pkg/metrics"
	"tally/pkg/models"
	"tally/pkg/tracing"
)

type redisErrorHandlingStatus int

const (
	redisErrorHandlingDeny redisErrorHandlingStatus = iota
	redisErrorHandlingAllow
)

// Service owns the dedup claim store. A claim is a SetNX on the message id;
// whoever wins the claim is the only handler allowed to append the row. The
// ledger's unique constraint backstops the claim across TTL expiry and Redis
// loss, so the claim window is an optimization, not the invariant.
type Service struct {
	repo             Repository
	cfg              config.DedupConfig
	logger           logger.Logger
	stopCacheMetrics chan struct{}
	cancelMetricsCtx context.CancelFunc
}

func NewService(repo Repository, cfg config.DedupConfig, log logger.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		repo:             repo,
		cfg:              cfg,
		logger:           log,
		stopCacheMetrics: make(chan struct{}),
		cancelMetricsCtx: cancel,
	}

	go s.updateCacheSizeMetrics(ctx)

	return s
}

// Claim attempts to take the append claim for the message id. It returns
// true when this message is the first sighting of the id, false when the id
// was claimed before. On Redis failure the configured fallback applies:
// allow proceeds and lets the ledger's unique constraint arbitrate, deny
// returns the error for the consumer's retry policy.
func (s *Service) Claim(ctx context.Context, msg models.ChatMessage) (bool, error) {
	ctx, span := tracing.GetTracer("dedup-service").Start(ctx, "dedup.claim")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	key := constants.CacheKeyPrefixDedup + msg.ID
	fingerprint := Fingerprint(msg.Source, msg.Text)

	start := time.Now()
	won, err := s.repo.SetNX(ctx, key, fingerprint, time.Duration(s.cfg.TTLSeconds)*time.Second)
	duration := time.Since(start)

	if err != nil {
		return s.handleRedisError(ctx, err, duration, msg.ID)
	}

	if !won {
		s.warnOnFingerprintMismatch(ctx, key, fingerprint, msg.ID)
	}

	s.recordMetrics(duration, won)
	return won, nil
}

// Release drops the claim for the message id so a retried delivery can take
// it again. Called when the append failed after a won claim.
func (s *Service) Release(ctx context.Context, msgID string) error {
	key := constants.CacheKeyPrefixDedup + msgID
	if err := s.repo.Del(ctx, key); err != nil {
		return fmt.Errorf("failed to release dedup claim for message %s: %w", msgID, err)
	}
	return nil
}

// CacheSize reports the number of live claims under the dedup prefix.
func (s *Service) CacheSize(ctx context.Context) (int, error) {
	return s.repo.GetCacheSize(ctx, constants.CacheKeyPrefixDedup)
}

func (s *Service) TTLSeconds() int {
	return s.cfg.TTLSeconds
}

func (s *Service) warnOnFingerprintMismatch(ctx context.Context, key, fingerprint, msgID string) {
	stored, err := s.repo.Get(ctx, key)
	if err != nil || stored == "" {
		return
	}
	if stored != fingerprint {
		s.logger.WarnwCtx(ctx, "Duplicate message id with different content",
			"message_id", msgID,
		)
	}
}

func (s *Service) handleRedisError(ctx context.Context, err error, duration time.Duration, msgID string) (bool, error) {
	s.recordMetricsWithStatus(duration, "error")
	status := s.getRedisErrorHandlingStatus(ctx, err)

	if status == redisErrorHandlingAllow {
		return true, nil
	}
	return false, fmt.Errorf("redis error during dedup claim for message %s: %w", msgID, err)
}

func (s *Service) getRedisErrorHandlingStatus(ctx context.Context, err error) redisErrorHandlingStatus {
	if s.cfg.OnRedisError == constants.FallbackAllow {
		metrics.FallbackUsageTotal.WithLabelValues("dedup", "allow_on_error", err.Error()).Inc()
		s.logger.WarnwCtx(ctx, "Redis error during dedup claim, proceeding to append (fallback: allow)",
			"error", err,
		)
		return redisErrorHandlingAllow
	}

	metrics.FallbackUsageTotal.WithLabelValues("dedup", "deny_on_error", err.Error()).Inc()
	return redisErrorHandlingDeny
}

func (s *Service) recordMetrics(duration time.Duration, won bool) {
	status := "duplicate"
	if won {
		status = "first_seen"
	}
	s.recordMetricsWithStatus(duration, status)
}

func (s *Service) recordMetricsWithStatus(duration time.Duration, status string) {
	metrics.IncDedupCheck(status)
	metrics.ObserveDedupCheckDuration(duration, status)
}

// updateCacheSizeMetrics periodically updates the DedupCacheSize metric
func (s *Service) updateCacheSizeMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			size, err := s.repo.GetCacheSize(ctx, constants.CacheKeyPrefixDedup)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Debugw("Failed to get cache size for metrics",
					"error", err,
				)
				continue
			}
			if ctx.Err() != nil {
				return
			}
			metrics.SetDedupCacheSize(size)
		case <-s.stopCacheMetrics:
			return
		case <-ctx.Done():
			return
		}
	}
}

// StopCacheMetricsUpdater stops the background cache metrics updater
func (s *Service) StopCacheMetricsUpdater() {
	if s.cancelMetricsCtx != nil {
		s.cancelMetricsCtx()
	}
	close(s.stopCacheMetrics)
}
