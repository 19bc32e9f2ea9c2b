package golden

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonizer/registry-tools/internal/engine"
	"github.com/canonizer/registry-tools/internal/registry"
)

// uppercaseField2 fakes a transform that uppercases source.field2.
func uppercaseField2(_ context.Context, _ string, input any) (any, error) {
	src := input.(map[string]any)["source"].(map[string]any)
	out := map[string]any{
		"field1": src["field1"],
		"field2": "VALUE2",
	}
	return out, nil
}

func writeFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestRunnerPass(t *testing.T) {
	t.Parallel()

	dir := writeFixtures(t, map[string]string{
		"tests/basic.input.json":  `{"source": {"field1": "value1", "field2": "value2"}}`,
		"tests/basic.expect.json": `{"field1": "value1", "field2": "VALUE2"}`,
	})

	r := NewRunner(engine.EvaluatorFunc(uppercaseField2))
	results := r.Run(context.Background(), dir, "script", []registry.TestPair{
		{Input: "tests/basic.input.json", Expect: "tests/basic.expect.json"},
	})

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestRunnerMismatchNamesPath(t *testing.T) {
	t.Parallel()

	dir := writeFixtures(t, map[string]string{
		"tests/basic.input.json":  `{"source": {"field1": "value1", "field2": "value2"}}`,
		"tests/basic.expect.json": `{"field1": "value1", "field2": "value2"}`,
	})

	r := NewRunner(engine.EvaluatorFunc(uppercaseField2))
	results := r.Run(context.Background(), dir, "script", []registry.TestPair{
		{Input: "tests/basic.input.json", Expect: "tests/basic.expect.json"},
	})

	require.Len(t, results, 1)
	var m *Mismatch
	require.ErrorAs(t, results[0].Err, &m)
	assert.Equal(t, "$.field2", m.Path)
}

func TestRunnerFixtureErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		files map[string]string
		pair  registry.TestPair
	}{
		{
			name: "missing_input",
			files: map[string]string{
				"tests/basic.expect.json": `{}`,
			},
			pair: registry.TestPair{Input: "tests/basic.input.json", Expect: "tests/basic.expect.json"},
		},
		{
			name: "unparseable_expected",
			files: map[string]string{
				"tests/basic.input.json":  `{}`,
				"tests/basic.expect.json": `{not json`,
			},
			pair: registry.TestPair{Input: "tests/basic.input.json", Expect: "tests/basic.expect.json"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeFixtures(t, tt.files)
			evaluatorCalled := false
			r := NewRunner(engine.EvaluatorFunc(func(context.Context, string, any) (any, error) {
				evaluatorCalled = true
				return nil, nil
			}))

			results := r.Run(context.Background(), dir, "script", []registry.TestPair{tt.pair})
			require.Len(t, results, 1)

			var fixtureErr *FixtureError
			require.ErrorAs(t, results[0].Err, &fixtureErr)
			assert.False(t, evaluatorCalled, "fixture errors must not reach the engine")
		})
	}
}

func TestRunnerEvaluationError(t *testing.T) {
	t.Parallel()

	dir := writeFixtures(t, map[string]string{
		"tests/basic.input.json":  `{}`,
		"tests/basic.expect.json": `{}`,
	})

	r := NewRunner(engine.EvaluatorFunc(func(context.Context, string, any) (any, error) {
		return nil, &engine.Error{Message: "no match for path"}
	}))

	results := r.Run(context.Background(), dir, "script", []registry.TestPair{
		{Input: "tests/basic.input.json", Expect: "tests/basic.expect.json"},
	})

	require.Len(t, results, 1)
	var evalErr *engine.Error
	require.ErrorAs(t, results[0].Err, &evalErr)
}

func TestRunnerContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	dir := writeFixtures(t, map[string]string{
		"tests/a.input.json":  `{"source": {"field1": "value1", "field2": "value2"}}`,
		"tests/a.expect.json": `{"wrong": true}`,
		"tests/b.input.json":  `{"source": {"field1": "value1", "field2": "value2"}}`,
		"tests/b.expect.json": `{"field1": "value1", "field2": "VALUE2"}`,
	})

	r := NewRunner(engine.EvaluatorFunc(uppercaseField2))
	results := r.Run(context.Background(), dir, "script", []registry.TestPair{
		{Input: "tests/a.input.json", Expect: "tests/a.expect.json"},
		{Input: "tests/b.input.json", Expect: "tests/b.expect.json"},
	})

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}
