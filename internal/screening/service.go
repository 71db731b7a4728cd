package screening

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tally/internal/config"
	"tally/internal/constants"
	"tally/internal/logger"
	"tally/pkg/cel"
	"tally/pkg/metrics"
	"tally/pkg/models"
	"tally/pkg/tracing"
)

type errorHandlingStatus int

const (
	errorHandlingDeny errorHandlingStatus = iota
	errorHandlingSkip
)

// Service evaluates parsed bets against the active screening rules. Rules
// live in Postgres and are cached in memory; the cache refreshes on a timer
// and on rule-update events from the broker.
type Service struct {
	repo            Repository
	rules           []Rule
	rulesMu         sync.RWMutex
	screeningConfig config.ScreeningConfig
	evaluator       *cel.Evaluator
	logger          logger.Logger
}

func NewService(repo Repository, cfg config.ScreeningConfig, log logger.Logger) (*Service, error) {
	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL evaluator: %w", err)
	}

	return &Service{
		repo:            repo,
		screeningConfig: cfg,
		rules:           make([]Rule, 0),
		evaluator:       evaluator,
		logger:          log,
	}, nil
}

// Screen runs every active rule over the message and its parsed record. On a
// pass it returns the ids of the rules that were applied; on a screen-out it
// returns the id of the rule that stopped the bet.
func (s *Service) Screen(ctx context.Context, msg models.ChatMessage, record models.BetRecord) (bool, []string, error) {
	ctx, span := tracing.GetTracer("recorder-service").Start(ctx, "screening.screen")
	defer span.End()

	rules := s.getActiveRules()
	appliedRules := make([]string, 0, len(rules))

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return false, nil, err
		}

		result, err := s.evaluator.EvaluateScreen(ctx, rule.Expression, msg, record)
		if err != nil {
			metrics.IncScreeningRuleEvaluation(rule.ID, rule.Name, "error")
			status := s.handleEvaluationError(ctx, rule, err)
			if status == errorHandlingDeny {
				return false, []string{rule.ID}, nil
			}
			continue
		}

		if !result {
			metrics.IncScreeningRuleEvaluation(rule.ID, rule.Name, "screen_out")
			s.logger.DebugwCtx(ctx, "Rule screened out bet",
				"rule_id", rule.ID,
				"rule_name", rule.Name,
				"source_message_id", msg.ID,
			)
			return false, []string{rule.ID}, nil
		}

		metrics.IncScreeningRuleEvaluation(rule.ID, rule.Name, "pass")
		appliedRules = append(appliedRules, rule.ID)
	}

	return true, appliedRules, nil
}

func (s *Service) getActiveRules() []Rule {
	s.rulesMu.RLock()
	defer s.rulesMu.RUnlock()

	rules := make([]Rule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

func (s *Service) handleEvaluationError(ctx context.Context, rule Rule, err error) errorHandlingStatus {
	s.logger.ErrorwCtx(ctx, "Rule evaluation error",
		"rule_id", rule.ID,
		"rule_name", rule.Name,
		"error", err,
	)

	switch s.screeningConfig.Fallback.OnError {
	case constants.FallbackAllow:
		metrics.FallbackUsageTotal.WithLabelValues("screening", "allow_on_error", "evaluation_error").Inc()
		s.logger.WarnwCtx(ctx, "Evaluation error, allowing bet (fallback: allow)",
			"rule_id", rule.ID,
			"rule_name", rule.Name,
			"error", err,
		)
		return errorHandlingSkip
	case constants.FallbackDeny:
		metrics.FallbackUsageTotal.WithLabelValues("screening", "deny_on_error", "evaluation_error").Inc()
		s.logger.WarnwCtx(ctx, "Evaluation error, screening out bet (fallback: deny)",
			"rule_id", rule.ID,
			"rule_name", rule.Name,
			"error", err,
		)
		return errorHandlingDeny
	default:
		return errorHandlingSkip
	}
}

func (s *Service) ReloadRules(ctx context.Context, skipJitter ...bool) error {
	shouldSkipJitter := len(skipJitter) > 0 && skipJitter[0]

	if err := s.applyJitter(ctx, shouldSkipJitter); err != nil {
		return err
	}

	rules, err := s.loadRules(ctx)
	if err != nil {
		return err
	}

	s.updateRules(ctx, rules)
	return nil
}

// applyJitter spreads reloads across recorder replicas so a rule update does
// not hit the database from every consumer at once.
func (s *Service) applyJitter(ctx context.Context, skipJitter bool) error {
	if skipJitter || s.screeningConfig.Reload.JitterMaxMilliseconds == 0 {
		return nil
	}

	jitter := time.Duration(rand.Intn(s.screeningConfig.Reload.JitterMaxMilliseconds)) * time.Millisecond
	s.logger.DebugwCtx(ctx, "Reload scheduled with jitter",
		"jitter_ms", jitter.Milliseconds(),
	)

	select {
	case <-time.After(jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) loadRules(ctx context.Context) ([]Rule, error) {
	s.logger.DebugwCtx(ctx, "Loading rules from database")
	rules, err := s.repo.GetActiveRules(ctx)
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *Service) updateRules(ctx context.Context, rules []Rule) {
	s.rulesMu.Lock()
	s.rules = rules
	s.rulesMu.Unlock()

	metrics.SetScreeningActiveRules(len(rules))
	s.logger.InfowCtx(ctx, "Successfully reloaded rules",
		"rules_count", len(rules),
	)
}

func (s *Service) StartReloader(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.screeningConfig.Reload.IntervalSeconds) * time.Second)
	defer ticker.Stop()

	if err := s.ReloadRules(ctx); err != nil {
		s.logger.ErrorwCtx(ctx, "Failed to reload rules",
			"error", err,
		)
	}

	for {
		select {
		case <-ticker.C:
			if err := s.ReloadRules(ctx); err != nil {
				s.logger.ErrorwCtx(ctx, "Failed to reload rules",
					"error", err,
				)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
