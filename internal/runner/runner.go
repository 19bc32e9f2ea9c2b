// Package runner orchestrates a full validation pass over a registry tree:
// resolve units, load metadata, verify checksums, run golden tests, validate
// schemas, and aggregate everything into a Report.
//
// Failure handling is fail-soft at the unit level (one broken unit does not
// stop the others, so a contributor sees every problem at once) and
// fail-closed at the run level (the index is only rebuilt when zero units
// failed).
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/canonizer/registry-tools/internal/checksum"
	"github.com/canonizer/registry-tools/internal/engine"
	"github.com/canonizer/registry-tools/internal/golden"
	"github.com/canonizer/registry-tools/internal/metadata"
	"github.com/canonizer/registry-tools/internal/resolver"
	"github.com/canonizer/registry-tools/internal/schema"
)

// Scope restricts a run to part of the registry.
type Scope int

// Run scopes. ScopeAll validates everything.
const (
	ScopeAll Scope = iota
	ScopeTransforms
	ScopeSchemas
	ScopeStructure
)

// Runner validates a registry tree.
type Runner struct {
	evaluator       engine.Evaluator
	schemaValidator *schema.Validator
	workers         int
}

// Option configures a Runner.
type Option func(*Runner)

// WithEvaluator injects the transform engine. Defaults to the JSONata
// evaluator; tests inject fakes.
func WithEvaluator(evaluator engine.Evaluator) Option {
	return func(r *Runner) {
		r.evaluator = evaluator
	}
}

// WithSchemaValidator overrides the schema validator, e.g. to narrow the
// accepted draft set.
func WithSchemaValidator(v *schema.Validator) Option {
	return func(r *Runner) {
		r.schemaValidator = v
	}
}

// WithWorkers sets the number of units validated concurrently. Units share
// no mutable state, so this is purely a throughput knob; results are
// reported in deterministic order either way. Values below 1 mean serial.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		evaluator:       engine.NewJSONata(),
		schemaValidator: schema.NewValidator(),
		workers:         1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate runs a validation pass over the registry at root. Validation
// never mutates the tree. The returned error covers only failures to run at
// all (e.g. root missing); unit failures live in the report.
func (r *Runner) Validate(ctx context.Context, root string, scope Scope) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Root:      root,
		StartedAt: time.Now().UTC(),
	}

	scan, err := resolver.Resolve(root)
	if err != nil {
		return nil, err
	}
	report.Warnings = scan.Warnings

	for _, problem := range scan.Problems {
		report.Results = append(report.Results, UnitResult{
			Kind:   KindStructure,
			Name:   problem.Path,
			Errors: []error{problem},
		})
	}

	if scope == ScopeAll || scope == ScopeTransforms {
		report.Results = append(report.Results, r.validateTransforms(ctx, scan.Transforms)...)
	}
	if scope == ScopeAll || scope == ScopeSchemas {
		report.Results = append(report.Results, r.validateSchemas(scan.Schemas)...)
	}

	report.FinishedAt = time.Now().UTC()

	passed, failed := report.Counts()
	slog.Info("validation run finished",
		"run_id", report.RunID,
		"root", root,
		"passed", passed,
		"failed", failed,
		"duration", report.FinishedAt.Sub(report.StartedAt).String())

	return report, nil
}

// validateTransforms validates every resolved transform, optionally in
// parallel. Results are placed by index so the report order matches the
// resolver's deterministic order no matter how the work was scheduled.
func (r *Runner) validateTransforms(ctx context.Context, refs []resolver.TransformRef) []UnitResult {
	results := make([]UnitResult, len(refs))

	var g errgroup.Group
	g.SetLimit(r.workers)

	for i := range refs {
		i := i
		g.Go(func() error {
			results[i] = r.validateTransform(ctx, refs[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) validateTransform(ctx context.Context, ref resolver.TransformRef) UnitResult {
	result := UnitResult{
		Kind: KindTransform,
		Name: ref.ID + "@" + ref.Version,
	}

	unit, err := metadata.LoadFile(ref.MetaPath, metadata.Expectation{ID: ref.ID, Version: ref.Version})
	if err != nil {
		// Surface each malformed field as its own failed check.
		var fieldErrs metadata.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				result.Errors = append(result.Errors, fieldErr)
			}
		} else {
			result.Errors = append(result.Errors, err)
		}
		return result
	}

	// Checksum gate: logic that does not match its declared digest is
	// never evaluated.
	script, err := checksum.VerifyFile(ref.LogicPath, unit.Checksum.JSONataSHA256)
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result
	}

	runner := golden.NewRunner(r.evaluator)
	for _, testResult := range runner.Run(ctx, ref.Dir, string(script), unit.Tests) {
		if testResult.Err != nil {
			result.Errors = append(result.Errors, testResult.Err)
		}
	}

	if len(result.Errors) == 0 {
		unit.Dir = ref.RelDir
		result.Transform = unit
	}

	return result
}

func (r *Runner) validateSchemas(refs []resolver.SchemaRef) []UnitResult {
	results := make([]UnitResult, 0, len(refs))

	for _, ref := range refs {
		result := UnitResult{Kind: KindSchema, Name: ref.RelPath}

		unit, err := r.schemaValidator.ValidateFile(ref.Path, ref.RelPath, ref.Vendor, ref.Name, ref.VersionStem)
		if err != nil {
			result.Errors = append(result.Errors, err)
		} else {
			result.Schema = unit
		}

		results = append(results, result)
	}

	return results
}
