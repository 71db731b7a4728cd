package rules

import "time"

// RuleTypeScreening tags versions and audit entries. There is a single rule
// type today; the column exists so history stays filterable if more kinds of
// rules arrive.
const RuleTypeScreening = "screening"

type ScreeningRule struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Expression string    `json:"expression" db:"expression"`
	Priority   int       `json:"priority" db:"priority"`
	Enabled    bool      `json:"enabled" db:"enabled"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type CreateScreeningRuleRequest struct {
	Name       string `json:"name" binding:"required"`
	Expression string `json:"expression" binding:"required"`
	Priority   int    `json:"priority"`
	Enabled    *bool  `json:"enabled"`
}

type UpdateScreeningRuleRequest struct {
	Name       *string `json:"name"`
	Expression *string `json:"expression"`
	Priority   *int    `json:"priority"`
	Enabled    *bool   `json:"enabled"`
}
