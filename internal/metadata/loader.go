// Package metadata parses and validates a transform's spec.meta.yaml.
//
// Parsing is a pure function of the file content plus the identity implied by
// the directory layout. Validation reports every missing or malformed field in
// one pass so a contributor sees the whole list at once instead of fixing
// fields one CI round-trip at a time.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/canonizer/registry-tools/internal/registry"
)

var (
	idPattern     = regexp.MustCompile(`^[a-z0-9_-]+/[a-z0-9_-]+$`)
	sha256Pattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// Error describes a single missing or malformed metadata field.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("metadata field %q: %s", e.Field, e.Reason)
}

// ValidationErrors aggregates every metadata error found in one document.
type ValidationErrors []*Error

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual field errors to errors.Is/As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// Expectation is the identity implied by the unit's directory path. The
// declared metadata must agree with it.
type Expectation struct {
	ID      string
	Version string
}

// LoadFile reads and parses a spec.meta.yaml file.
func LoadFile(path string, want Expectation) (*registry.TransformUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	return Parse(data, want)
}

// Parse decodes metadata bytes into a TransformUnit, validating every
// required field. On failure it returns ValidationErrors listing each
// problem; the returned unit is nil unless validation passed.
func Parse(data []byte, want Expectation) (*registry.TransformUnit, error) {
	var unit registry.TransformUnit

	if err := yaml.Unmarshal(data, &unit); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			errs := make(ValidationErrors, 0, len(typeErr.Errors))
			for _, msg := range typeErr.Errors {
				errs = append(errs, &Error{Field: "", Reason: msg})
			}
			return nil, errs
		}
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if errs := validate(&unit, want); len(errs) > 0 {
		return nil, errs
	}

	return &unit, nil
}

func validate(unit *registry.TransformUnit, want Expectation) ValidationErrors {
	var errs ValidationErrors
	fail := func(field, reason string) {
		errs = append(errs, &Error{Field: field, Reason: reason})
	}

	switch {
	case unit.ID == "":
		fail("id", "required field is missing or empty")
	case !idPattern.MatchString(unit.ID):
		fail("id", fmt.Sprintf("%q does not match <category>/<name>", unit.ID))
	case want.ID != "" && unit.ID != want.ID:
		fail("id", fmt.Sprintf("declared %q but directory implies %q", unit.ID, want.ID))
	}

	switch {
	case unit.Version == "":
		fail("version", "required field is missing or empty")
	default:
		if _, err := semver.StrictNewVersion(unit.Version); err != nil {
			fail("version", fmt.Sprintf("%q is not a valid SemVer MAJOR.MINOR.PATCH", unit.Version))
		} else if want.Version != "" && unit.Version != want.Version {
			fail("version", fmt.Sprintf("declared %q but directory implies %q", unit.Version, want.Version))
		}
	}

	switch {
	case unit.Engine == "":
		fail("engine", "required field is missing or empty")
	case unit.Engine != registry.EngineJSONata:
		fail("engine", fmt.Sprintf("%q is not supported, must be %q", unit.Engine, registry.EngineJSONata))
	}

	for _, ref := range []struct {
		field string
		urn   string
	}{
		{"from_schema", unit.FromSchema},
		{"to_schema", unit.ToSchema},
	} {
		field, urn := ref.field, ref.urn
		if urn == "" {
			fail(field, "required field is missing or empty")
			continue
		}
		if _, err := registry.ParseIgluURN(urn); err != nil {
			fail(field, err.Error())
		}
	}

	switch {
	case unit.Status == "":
		fail("status", "required field is missing or empty")
	case !unit.Status.Valid():
		fail("status", fmt.Sprintf("%q is not one of draft, stable, deprecated", unit.Status))
	}

	switch {
	case unit.Checksum.JSONataSHA256 == "":
		fail("checksum.jsonata_sha256", "required field is missing or empty")
	case !sha256Pattern.MatchString(unit.Checksum.JSONataSHA256):
		fail("checksum.jsonata_sha256", "must be 64 hexadecimal characters")
	}

	if unit.Provenance.Author == "" {
		fail("provenance.author", "required field is missing or empty")
	}

	switch {
	case unit.Provenance.CreatedUTC == "":
		fail("provenance.created_utc", "required field is missing or empty")
	default:
		ts, err := time.Parse(time.RFC3339, unit.Provenance.CreatedUTC)
		if err != nil {
			fail("provenance.created_utc", fmt.Sprintf("%q is not an ISO-8601 timestamp", unit.Provenance.CreatedUTC))
		} else if ts.Location() != time.UTC {
			fail("provenance.created_utc", "timestamp must be in UTC")
		}
	}

	if len(unit.Tests) == 0 {
		fail("tests", "at least one golden test is required")
	}
	for i, pair := range unit.Tests {
		if pair.Input == "" {
			fail(fmt.Sprintf("tests[%d].input", i), "required field is missing or empty")
		}
		if pair.Expect == "" {
			fail(fmt.Sprintf("tests[%d].expect", i), "required field is missing or empty")
		}
	}

	if unit.Compat != nil && unit.Compat.FromSchemaRange == "" {
		fail("compat.from_schema_range", "must be non-empty when compat is declared")
	}

	return errs
}
