// Package engine abstracts the transform evaluation capability behind an
// interface so the validation core can be exercised with a fake engine.
package engine

import (
	"context"
	"fmt"
)

// Error reports a failure inside the transform engine while evaluating a
// script against an input document.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("evaluation failed: %s", e.Message)
}

// Evaluator evaluates a transform script against a JSON input document and
// returns the output document. Documents are the usual encoding/json value
// shapes (map[string]any, []any, string, float64, bool, nil).
type Evaluator interface {
	Evaluate(ctx context.Context, script string, input any) (any, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, script string, input any) (any, error)

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(ctx context.Context, script string, input any) (any, error) {
	return f(ctx, script, input)
}
