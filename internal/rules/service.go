package rules

import (
	"context"
	"encoding/json"
	"strings"

	"tally/internal/constants"
	pkgerrors "tally/pkg/errors"
	"tally/pkg/logging"
	"tally/pkg/models"
)

type service struct {
	repo              Repository
	versioningRepo    VersioningRepository
	ruleEventProducer *RuleEventProducer
	auditEnabled      bool
}

type ServiceOption func(*service)

func WithVersioning(versioningRepo VersioningRepository) ServiceOption {
	return func(s *service) {
		s.versioningRepo = versioningRepo
		s.auditEnabled = true
	}
}

func WithRuleEvents(ruleEventProducer *RuleEventProducer) ServiceOption {
	return func(s *service) {
		s.ruleEventProducer = ruleEventProducer
	}
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:         repo,
		auditEnabled: false,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.versioningRepo != nil {
		s.auditEnabled = true
	}

	return s
}

func (s *service) CreateScreeningRule(ctx context.Context, req CreateScreeningRuleRequest) (*ScreeningRule, error) {
	if err := ValidateScreeningRule(req); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	rule := &ScreeningRule{
		Name:       req.Name,
		Expression: req.Expression,
		Priority:   req.Priority,
		Enabled:    getEnabledValue(req.Enabled),
	}

	if err := s.repo.CreateScreeningRule(ctx, rule); err != nil {
		if pkgerrors.IsConflict(err) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.createVersionAndAudit(ctx, rule, models.ActionCreate, nil)
	s.publishRuleEvent(ctx, models.ActionCreate, rule.ID)

	return s.copyScreeningRule(rule), nil
}

func (s *service) ListScreeningRules(ctx context.Context) ([]ScreeningRule, error) {
	rules, err := s.repo.ListScreeningRules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return rules, nil
}

func (s *service) GetScreeningRule(ctx context.Context, id string) (*ScreeningRule, error) {
	rule, err := s.repo.GetScreeningRule(ctx, id)
	if err != nil {
		return nil, s.handleNotFoundError(err, id)
	}
	if rule == nil {
		return nil, pkgerrors.ErrNotFound.WithDetail("id", id)
	}
	return s.copyScreeningRule(rule), nil
}

func (s *service) UpdateScreeningRule(ctx context.Context, id string, req UpdateScreeningRuleRequest) (*ScreeningRule, error) {
	if err := ValidateUpdateScreeningRule(req); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation)
	}

	rule, err := s.repo.GetScreeningRule(ctx, id)
	if err != nil {
		return nil, s.handleNotFoundError(err, id)
	}
	if rule == nil {
		return nil, pkgerrors.ErrNotFound.WithDetail("id", id)
	}

	oldValue, _ := s.ruleToMap(rule)
	s.updateScreeningRuleFields(rule, req)

	if err := s.repo.UpdateScreeningRule(ctx, rule); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	s.createVersionAndAudit(ctx, rule, models.ActionUpdate, oldValue)
	s.publishRuleEvent(ctx, models.ActionUpdate, rule.ID)

	return s.copyScreeningRule(rule), nil
}

func (s *service) DeleteScreeningRule(ctx context.Context, id string) error {
	rule, err := s.repo.GetScreeningRule(ctx, id)
	if err != nil {
		return s.handleNotFoundError(err, id)
	}
	if rule == nil {
		return pkgerrors.ErrNotFound.WithDetail("id", id)
	}

	oldValue, _ := s.ruleToMap(rule)

	if err := s.repo.DeleteScreeningRule(ctx, id); err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}

	if s.auditEnabled && s.versioningRepo != nil {
		auditLog := s.buildAuditLog(ctx, id, RuleTypeScreening, models.ActionDelete, oldValue, nil)
		_ = s.versioningRepo.CreateAuditLog(ctx, auditLog)
	}

	s.publishRuleEvent(ctx, models.ActionDelete, id)
	return nil
}

func (s *service) GetRuleVersions(ctx context.Context, ruleID string) ([]RuleVersion, error) {
	if s.versioningRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "versioning not enabled")
	}
	versions, err := s.versioningRepo.GetVersions(ctx, ruleID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return versions, nil
}

func (s *service) GetAuditLogs(ctx context.Context, ruleID *string, ruleType string, limit int) ([]AuditLog, error) {
	if s.versioningRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "audit logging not enabled")
	}
	if limit <= 0 || limit > constants.MaxLimit {
		limit = constants.DefaultLimit
	}
	logs, err := s.versioningRepo.GetAuditLogs(ctx, ruleID, ruleType, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	return logs, nil
}

func (s *service) handleNotFoundError(err error, id string) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "not found") {
		return pkgerrors.ErrNotFound.WithDetail("id", id)
	}
	return pkgerrors.Wrap(err, pkgerrors.ErrInternal)
}

// Versioning and audit are best effort. A failed snapshot never rolls back
// the rule change itself.
func (s *service) createVersionAndAudit(ctx context.Context, rule *ScreeningRule, action string, oldValue map[string]interface{}) {
	if !s.auditEnabled || s.versioningRepo == nil {
		return
	}

	ruleJSON, err := ruleToJSON(rule)
	if err != nil {
		return
	}

	version := s.buildVersion(ctx, rule, ruleJSON)
	if err := s.versioningRepo.CreateVersion(ctx, version); err != nil {
		return
	}

	newValue, err := s.ruleToMap(rule)
	if err != nil {
		return
	}

	auditLog := s.buildAuditLog(ctx, rule.ID, RuleTypeScreening, action, oldValue, newValue)
	_ = s.versioningRepo.CreateAuditLog(ctx, auditLog)
}

func (s *service) buildVersion(ctx context.Context, rule *ScreeningRule, ruleJSON string) *RuleVersion {
	version := 1
	if s.versioningRepo != nil {
		if nextVersion, err := s.versioningRepo.GetNextVersion(ctx, rule.ID); err == nil {
			version = nextVersion
		}
	}

	return &RuleVersion{
		RuleID:    rule.ID,
		RuleType:  RuleTypeScreening,
		RuleData:  ruleJSON,
		Version:   version,
		ChangedBy: getChangedBy(ctx),
	}
}

func (s *service) buildAuditLog(ctx context.Context, ruleID, ruleType, action string, oldValue, newValue map[string]interface{}) *AuditLog {
	return &AuditLog{
		RuleID:    &ruleID,
		RuleType:  ruleType,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: getChangedBy(ctx),
		IPAddress: logging.GetClientIP(ctx),
	}
}

func (s *service) ruleToMap(rule *ScreeningRule) (map[string]interface{}, error) {
	ruleData, err := json.Marshal(rule)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	if err := json.Unmarshal(ruleData, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) publishRuleEvent(ctx context.Context, action, ruleID string) {
	if s.ruleEventProducer != nil {
		_ = s.ruleEventProducer.PublishScreeningRuleEvent(ctx, action, ruleID, getChangedBy(ctx))
	}
}

func (s *service) updateScreeningRuleFields(rule *ScreeningRule, req UpdateScreeningRuleRequest) {
	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Expression != nil {
		rule.Expression = *req.Expression
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
}

func (s *service) copyScreeningRule(rule *ScreeningRule) *ScreeningRule {
	return &ScreeningRule{
		ID:         rule.ID,
		Name:       rule.Name,
		Expression: rule.Expression,
		Priority:   rule.Priority,
		Enabled:    rule.Enabled,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}

func getEnabledValue(reqEnabled *bool) bool {
	if reqEnabled == nil {
		return true
	}
	return *reqEnabled
}

func getChangedBy(ctx context.Context) string {
	if userID := ctx.Value("user_id"); userID != nil {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return "system"
}
