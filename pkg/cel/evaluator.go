package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"tally/pkg/models"
)

type Evaluator struct {
	env *cel.Env
}

func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("source", cel.StringType),
		cel.Variable("sender", cel.StringType),
		cel.Variable("text", cel.StringType),
		cel.Variable("timestamp", cel.TimestampType),
		cel.Variable("account", cel.StringType),
		cel.Variable("details", cel.StringType),
		cel.Variable("amount", cel.DoubleType),
		cel.Variable("currency", cel.StringType),
		cel.Variable("metadata", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

func (e *Evaluator) ValidateExpression(expression string) error {
	_, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}
	return nil
}

func (e *Evaluator) ValidateScreenExpression(expression string) error {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("CEL expression validation failed: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("screening expression must return bool, got %v", ast.OutputType())
	}

	return nil
}

func (e *Evaluator) EvaluateScreen(ctx context.Context, expression string, msg models.ChatMessage, record models.BetRecord) (bool, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("failed to compile CEL expression: %w", issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return false, fmt.Errorf("screening expression must return bool, got %v", ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("failed to create CEL program: %w", err)
	}

	vars := map[string]interface{}{
		"id":        msg.ID,
		"source":    msg.Source,
		"sender":    msg.Sender,
		"text":      msg.Text,
		"timestamp": msg.ReceivedAt,
		"account":   record.AccountName,
		"details":   record.BetDetails,
		"amount":    record.Amount.InexactFloat64(),
		"currency":  record.Currency,
		"metadata":  e.metadataToMap(msg.Metadata),
	}

	result, _, err := program.ContextEval(ctx, vars)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolVal, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not return bool, got %T", result.Value())
	}

	return boolVal, nil
}

func (e *Evaluator) metadataToMap(metadata models.Metadata) map[string]interface{} {
	result := make(map[string]interface{})

	if metadata.TraceID != "" {
		result["trace_id"] = metadata.TraceID
	}

	if metadata.Screening != nil {
		result["screening"] = map[string]interface{}{
			"passed_at": metadata.Screening.PassedAt,
			"rule_ids":  metadata.Screening.RuleIDs,
		}
	}

	if metadata.Dedup != nil {
		result["dedup"] = map[string]interface{}{
			"is_first":   metadata.Dedup.IsFirst,
			"checked_at": metadata.Dedup.CheckedAt,
		}
	}

	if metadata.Attributes != nil {
		result["attributes"] = metadata.Attributes
	}

	return result
}

func (e *Evaluator) CompileExpression(expression string) (cel.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile CEL expression: %w", issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return program, nil
}
