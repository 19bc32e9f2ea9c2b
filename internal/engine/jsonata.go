package engine

import (
	"context"
	"encoding/json"
	"fmt"

	jsonata "github.com/blues/jsonata-go"
)

// JSONata is the production Evaluator backed by the JSONata engine.
type JSONata struct{}

// NewJSONata creates the JSONata-backed evaluator.
func NewJSONata() *JSONata {
	return &JSONata{}
}

// Evaluate compiles the script and applies it to the input document. Compile
// and evaluation failures are both surfaced as *Error since from the
// registry's point of view they are the same thing: the transform does not
// work on the declared input.
func (*JSONata) Evaluate(ctx context.Context, script string, input any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expr, err := jsonata.Compile(script)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("compile: %v", err)}
	}

	out, err := expr.Eval(input)
	if err != nil {
		return nil, &Error{Message: err.Error()}
	}

	// Round-trip through encoding/json so the output uses the same value
	// shapes as parsed fixtures (float64 numbers, map[string]any objects).
	normalized, err := normalize(out)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("output is not a JSON document: %v", err)}
	}

	return normalized, nil
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
