// Package registry defines the unit types stored in the canonizer registry
// and the derived index document built from them.
//
// A TransformUnit is owned by its version directory under
// transforms/<category>/<name>/<version>/ and is immutable once released: a
// behavioral change requires a new version directory, never an in-place edit.
// SchemaUnits live under schemas/<vendor>/<name>/jsonschema/. The index is a
// derived view with no independent source of truth.
package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// EngineJSONata is the only transform engine the registry accepts.
const EngineJSONata = "jsonata"

// Status describes a transform version's lifecycle state.
type Status string

// Transform lifecycle states. A released version is never deleted, only
// superseded or marked deprecated.
const (
	StatusDraft      Status = "draft"
	StatusStable     Status = "stable"
	StatusDeprecated Status = "deprecated"
)

// Valid reports whether s is a recognized lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusStable, StatusDeprecated:
		return true
	default:
		return false
	}
}

// TestPair is one declared golden test: an input fixture and the expected
// output, both paths relative to the transform's version directory.
type TestPair struct {
	Input  string `yaml:"input" json:"input"`
	Expect string `yaml:"expect" json:"expect"`
}

// Provenance records who contributed a transform version and when.
type Provenance struct {
	Author     string `yaml:"author" json:"author"`
	CreatedUTC string `yaml:"created_utc" json:"created_utc"`
}

// Checksum holds the declared digest of the transform logic file.
type Checksum struct {
	JSONataSHA256 string `yaml:"jsonata_sha256" json:"jsonata_sha256"`
}

// Compat holds optional compatibility declarations.
type Compat struct {
	FromSchemaRange string `yaml:"from_schema_range,omitempty" json:"from_schema_range,omitempty"`
}

// TransformUnit is one released transform version, as declared by its
// spec.meta.yaml. Invariant: Tests has at least one entry.
type TransformUnit struct {
	ID         string     `yaml:"id" json:"id"`
	Version    string     `yaml:"version" json:"version"`
	Engine     string     `yaml:"engine" json:"engine"`
	FromSchema string     `yaml:"from_schema" json:"from_schema"`
	ToSchema   string     `yaml:"to_schema" json:"to_schema"`
	Status     Status     `yaml:"status" json:"status"`
	Checksum   Checksum   `yaml:"checksum" json:"checksum"`
	Provenance Provenance `yaml:"provenance" json:"provenance"`
	Tests      []TestPair `yaml:"tests" json:"tests"`
	Compat     *Compat    `yaml:"compat,omitempty" json:"compat,omitempty"`

	// Dir is the version directory the unit was loaded from, relative to
	// the registry root. Not part of the declared metadata.
	Dir string `yaml:"-" json:"-"`
}

// Category returns the <category> half of the unit's id.
func (t *TransformUnit) Category() string {
	category, _, _ := strings.Cut(t.ID, "/")
	return category
}

// Name returns the <name> half of the unit's id.
func (t *TransformUnit) Name() string {
	_, name, _ := strings.Cut(t.ID, "/")
	return name
}

// SemVer parses the unit's declared version. The metadata loader guarantees
// this succeeds for loaded units.
func (t *TransformUnit) SemVer() (*semver.Version, error) {
	v, err := semver.StrictNewVersion(t.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid SemVer %q: %w", t.Version, err)
	}
	return v, nil
}

// SchemaUnit is one JSON Schema contract file.
type SchemaUnit struct {
	Vendor  string
	Name    string
	Version SchemaVer

	// Document is the parsed schema document.
	Document map[string]any

	// Path is the schema file location relative to the registry root.
	Path string
}

// URI returns the schema's Iglu URN.
func (s *SchemaUnit) URI() string {
	return IgluURN{Vendor: s.Vendor, Name: s.Name, Version: s.Version}.String()
}
