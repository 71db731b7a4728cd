package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateScreeningRule(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateScreeningRuleRequest
		wantErr string
	}{
		{
			name: "valid rule",
			req: CreateScreeningRuleRequest{
				Name:       "max_stake",
				Expression: "amount <= 1000.0",
			},
		},
		{
			name: "valid rule on metadata",
			req: CreateScreeningRuleRequest{
				Name:       "known_source",
				Expression: `source == "telegram"`,
			},
		},
		{
			name: "missing name",
			req: CreateScreeningRuleRequest{
				Expression: "amount <= 1000.0",
			},
			wantErr: "name is required",
		},
		{
			name: "missing expression",
			req: CreateScreeningRuleRequest{
				Name: "max_stake",
			},
			wantErr: "expression is required",
		},
		{
			name: "invalid CEL syntax",
			req: CreateScreeningRuleRequest{
				Name:       "broken",
				Expression: "invalid syntax here!!!",
			},
			wantErr: "invalid CEL expression",
		},
		{
			name: "non-bool expression",
			req: CreateScreeningRuleRequest{
				Name:       "non_bool",
				Expression: "account",
			},
			wantErr: "invalid CEL expression",
		},
		{
			name: "undefined variable",
			req: CreateScreeningRuleRequest{
				Name:       "unknown_var",
				Expression: `payload.status == "active"`,
			},
			wantErr: "invalid CEL expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScreeningRule(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateUpdateScreeningRule(t *testing.T) {
	valid := "amount <= 500.0"
	invalid := "not valid CEL !!!"
	empty := ""

	tests := []struct {
		name    string
		req     UpdateScreeningRuleRequest
		wantErr bool
	}{
		{
			name: "no expression change",
			req:  UpdateScreeningRuleRequest{Name: stringPtr("renamed")},
		},
		{
			name: "valid expression",
			req:  UpdateScreeningRuleRequest{Expression: &valid},
		},
		{
			name:    "invalid expression",
			req:     UpdateScreeningRuleRequest{Expression: &invalid},
			wantErr: true,
		},
		{
			name: "empty expression skipped",
			req:  UpdateScreeningRuleRequest{Expression: &empty},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpdateScreeningRule(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func stringPtr(s string) *string {
	return &s
}
