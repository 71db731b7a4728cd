package rules

import (
	"fmt"

	"tally/pkg/cel"
)

func ValidateScreeningRule(req CreateScreeningRuleRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.Expression == "" {
		return fmt.Errorf("expression is required")
	}

	evaluator, err := cel.NewEvaluator()
	if err != nil {
		return fmt.Errorf("failed to create CEL evaluator: %w", err)
	}

	if err := evaluator.ValidateScreenExpression(req.Expression); err != nil {
		return fmt.Errorf("invalid CEL expression: %w", err)
	}

	return nil
}

func ValidateUpdateScreeningRule(req UpdateScreeningRuleRequest) error {
	if req.Expression != nil && *req.Expression != "" {
		evaluator, err := cel.NewEvaluator()
		if err != nil {
			return fmt.Errorf("failed to create CEL evaluator: %w", err)
		}

		if err := evaluator.ValidateScreenExpression(*req.Expression); err != nil {
			return fmt.Errorf("invalid CEL expression: %w", err)
		}
	}
	return nil
}
