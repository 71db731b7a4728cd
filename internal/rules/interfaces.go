package rules

import (
	"context"
)

type Service interface {
	CreateScreeningRule(ctx context.Context, req CreateScreeningRuleRequest) (*ScreeningRule, error)
	ListScreeningRules(ctx context.Context) ([]ScreeningRule, error)
	GetScreeningRule(ctx context.Context, id string) (*ScreeningRule, error)
	UpdateScreeningRule(ctx context.Context, id string, req UpdateScreeningRuleRequest) (*ScreeningRule, error)
	DeleteScreeningRule(ctx context.Context, id string) error
	GetRuleVersions(ctx context.Context, ruleID string) ([]RuleVersion, error)
	GetAuditLogs(ctx context.Context, ruleID *string, ruleType string, limit int) ([]AuditLog, error)
}
