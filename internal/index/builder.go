// Package index builds REGISTRY_INDEX.json, the derived machine-readable
// view of the registry. The index is regenerated wholesale after a fully
// passing validation run and is never hand-edited; it must always be
// reconstructible purely from the unit directories.
package index

import (
	"sort"
	"time"

	"github.com/canonizer/registry-tools/internal/registry"
	"github.com/canonizer/registry-tools/internal/versions"
)

// DocumentVersion is the index document format version.
const DocumentVersion = "1.0.0"

// DefaultFileName is where the index is written inside the registry root.
const DefaultFileName = "REGISTRY_INDEX.json"

// VersionEntry is one released transform version inside the index.
type VersionEntry struct {
	Version    string            `json:"version"`
	FromSchema string            `json:"from_schema"`
	ToSchema   string            `json:"to_schema"`
	Status     registry.Status   `json:"status"`
	Path       string            `json:"path"`
	Checksum   registry.Checksum `json:"checksum"`
	Author     string            `json:"author"`
	CreatedUTC string            `json:"created_utc"`
	Compat     *registry.Compat  `json:"compat,omitempty"`
}

// TransformEntry groups a transform's versions under its identity, newest
// version first.
type TransformEntry struct {
	ID       string         `json:"id"`
	Versions []VersionEntry `json:"versions"`
}

// SchemaEntry is one schema contract inside the index.
type SchemaEntry struct {
	URI     string `json:"uri"`
	Vendor  string `json:"vendor"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"`
}

// Document is the generated registry index.
type Document struct {
	Version     string           `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Transforms  []TransformEntry `json:"transforms"`
	Schemas     []SchemaEntry    `json:"schemas"`
}

// Builder assembles index documents with deterministic ordering.
type Builder struct {
	now func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the timestamp source, pinning generated_at for
// byte-identical output.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates an index builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the index document from validated units. Ordering is a
// strict total order independent of input order: transforms lexicographic by
// id with versions newest first, schemas lexicographic by Iglu URI.
func (b *Builder) Build(transforms []*registry.TransformUnit, schemas []*registry.SchemaUnit) *Document {
	return &Document{
		Version:     DocumentVersion,
		GeneratedAt: b.now().UTC().Format(time.RFC3339),
		Transforms:  buildTransforms(transforms),
		Schemas:     buildSchemas(schemas),
	}
}

func buildTransforms(units []*registry.TransformUnit) []TransformEntry {
	grouped := make(map[string][]VersionEntry)
	for _, unit := range units {
		path := unit.Dir
		if path != "" {
			path += "/"
		}
		grouped[unit.ID] = append(grouped[unit.ID], VersionEntry{
			Version:    unit.Version,
			FromSchema: unit.FromSchema,
			ToSchema:   unit.ToSchema,
			Status:     unit.Status,
			Path:       path,
			Checksum:   unit.Checksum,
			Author:     unit.Provenance.Author,
			CreatedUTC: unit.Provenance.CreatedUTC,
			Compat:     unit.Compat,
		})
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]TransformEntry, 0, len(ids))
	for _, id := range ids {
		group := grouped[id]
		sort.Slice(group, func(i, j int) bool {
			return versions.IsNewer(group[i].Version, group[j].Version)
		})
		entries = append(entries, TransformEntry{ID: id, Versions: group})
	}

	return entries
}

func buildSchemas(units []*registry.SchemaUnit) []SchemaEntry {
	entries := make([]SchemaEntry, 0, len(units))
	for _, unit := range units {
		entries = append(entries, SchemaEntry{
			URI:     unit.URI(),
			Vendor:  unit.Vendor,
			Name:    unit.Name,
			Version: unit.Version.String(),
			Path:    unit.Path,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].URI < entries[j].URI
	})

	return entries
}
