package golden

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canonizer/registry-tools/internal/engine"
	"github.com/canonizer/registry-tools/internal/registry"
)

// FixtureError reports a test fixture that could not be used at all: the
// file is missing or its content does not parse as JSON. This is a problem
// with the test itself, not with the transform.
type FixtureError struct {
	Path   string
	Reason string
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("fixture %s: %s", e.Path, e.Reason)
}

// TestResult is the outcome of one declared golden test. Err is nil on pass;
// otherwise it is a *FixtureError, *engine.Error or *Mismatch.
type TestResult struct {
	Pair registry.TestPair
	Err  error
}

// Runner executes a unit's golden tests through an injected evaluator.
type Runner struct {
	evaluator engine.Evaluator
}

// NewRunner creates a golden test runner backed by the given evaluator.
func NewRunner(evaluator engine.Evaluator) *Runner {
	return &Runner{evaluator: evaluator}
}

// Run executes every declared test in declared order against the verified
// script. dir is the unit's version directory; fixture paths are resolved
// relative to it. A failing test does not stop the remaining tests.
func (r *Runner) Run(ctx context.Context, dir string, script string, tests []registry.TestPair) []TestResult {
	results := make([]TestResult, 0, len(tests))
	for _, pair := range tests {
		results = append(results, TestResult{Pair: pair, Err: r.runOne(ctx, dir, script, pair)})
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, dir string, script string, pair registry.TestPair) error {
	input, err := loadFixture(dir, pair.Input)
	if err != nil {
		return err
	}

	expected, err := loadFixture(dir, pair.Expect)
	if err != nil {
		return err
	}

	actual, err := r.evaluator.Evaluate(ctx, script, input)
	if err != nil {
		return err
	}

	if m := Compare(expected, actual); m != nil {
		return m
	}

	return nil
}

func loadFixture(dir, rel string) (any, error) {
	path := filepath.Join(dir, rel)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FixtureError{Path: rel, Reason: "file not found"}
		}
		return nil, &FixtureError{Path: rel, Reason: err.Error()}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FixtureError{Path: rel, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	return doc, nil
}
