package runner

import (
	"fmt"
	"time"

	"github.com/canonizer/registry-tools/internal/registry"
)

// UnitKind distinguishes what kind of unit a result belongs to.
type UnitKind string

// Unit kinds appearing in a report.
const (
	KindTransform UnitKind = "transform"
	KindSchema    UnitKind = "schema"
	KindStructure UnitKind = "structure"
)

// UnitResult is the outcome of validating one unit. Errors is empty on pass.
type UnitResult struct {
	Kind UnitKind
	// Name identifies the unit: "category/name@version" for transforms,
	// the registry-relative file path for schemas, the offending path for
	// structural findings.
	Name   string
	Errors []error

	// Transform and Schema carry the parsed unit when validation passed,
	// for index building.
	Transform *registry.TransformUnit
	Schema    *registry.SchemaUnit
}

// Passed reports whether the unit validated cleanly.
func (r *UnitResult) Passed() bool {
	return len(r.Errors) == 0
}

// Report aggregates the results of one validation run. Units are listed in
// deterministic identity order regardless of how the run was scheduled.
type Report struct {
	RunID      string
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time

	Results  []UnitResult
	Warnings []string
}

// Passed reports whether every unit validated cleanly. Only a fully passing
// run may regenerate the index.
func (r *Report) Passed() bool {
	for i := range r.Results {
		if !r.Results[i].Passed() {
			return false
		}
	}
	return true
}

// Counts returns the number of passing and failing units.
func (r *Report) Counts() (passed, failed int) {
	for i := range r.Results {
		if r.Results[i].Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// FailureLines renders one line per failed check, in report order.
func (r *Report) FailureLines() []string {
	var lines []string
	for i := range r.Results {
		res := &r.Results[i]
		for _, err := range res.Errors {
			lines = append(lines, fmt.Sprintf("FAIL %s %s: %v", res.Kind, res.Name, err))
		}
	}
	return lines
}

// PassedTransforms returns the transform units that validated cleanly.
func (r *Report) PassedTransforms() []*registry.TransformUnit {
	var units []*registry.TransformUnit
	for i := range r.Results {
		res := &r.Results[i]
		if res.Kind == KindTransform && res.Passed() && res.Transform != nil {
			units = append(units, res.Transform)
		}
	}
	return units
}

// PassedSchemas returns the schema units that validated cleanly.
func (r *Report) PassedSchemas() []*registry.SchemaUnit {
	var units []*registry.SchemaUnit
	for i := range r.Results {
		res := &r.Results[i]
		if res.Kind == KindSchema && res.Passed() && res.Schema != nil {
			units = append(units, res.Schema)
		}
	}
	return units
}
