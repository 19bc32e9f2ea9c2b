// Package resolver enumerates the unit directories of a registry tree.
//
// Layout contract:
//
//	transforms/<category>/<name>/<version>/spec.jsonata
//	transforms/<category>/<name>/<version>/spec.meta.yaml
//	transforms/<category>/<name>/<version>/tests/
//	schemas/<vendor>/<name>/jsonschema/<version>.json
//
// The resolver only looks at structure. Content validation happens in the
// metadata, checksum, golden and schema packages.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Logic and metadata file names inside a transform version directory.
const (
	LogicFileName = "spec.jsonata"
	MetaFileName  = "spec.meta.yaml"
	TestsDirName  = "tests"
)

// StructureError reports a directory-layout violation: a missing required
// file or directory, or a duplicate unit.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// TransformRef locates one candidate transform version directory.
type TransformRef struct {
	// ID and Version are implied by the directory path.
	ID      string
	Version string

	// Dir is the absolute version directory; RelDir is the same path
	// relative to the registry root.
	Dir    string
	RelDir string

	LogicPath string
	MetaPath  string
	TestsDir  string
}

// SchemaRef locates one candidate schema file.
type SchemaRef struct {
	Vendor      string
	Name        string
	VersionStem string

	Path    string
	RelPath string
}

// Scan is the result of resolving a registry root.
type Scan struct {
	Transforms []TransformRef
	Schemas    []SchemaRef

	// Problems are structural errors found while walking. Units with
	// structural problems are excluded from Transforms/Schemas.
	Problems []*StructureError

	// Warnings are informational findings that do not fail validation.
	Warnings []string
}

// Resolve walks the registry tree under root. The returned scan lists units
// in lexicographic identity order, independent of filesystem enumeration
// order. Root must be passed explicitly; the resolver holds no ambient
// state.
func Resolve(root string) (*Scan, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("registry root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("registry root %s is not a directory", root)
	}

	scan := &Scan{}
	scan.resolveTransforms(root)
	scan.resolveSchemas(root)

	sort.Slice(scan.Transforms, func(i, j int) bool {
		a, b := scan.Transforms[i], scan.Transforms[j]
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Version < b.Version
	})
	sort.Slice(scan.Schemas, func(i, j int) bool {
		a, b := scan.Schemas[i], scan.Schemas[j]
		if a.Vendor != b.Vendor {
			return a.Vendor < b.Vendor
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.VersionStem < b.VersionStem
	})

	return scan, nil
}

func (s *Scan) fail(path, reason string) {
	s.Problems = append(s.Problems, &StructureError{Path: path, Reason: reason})
}

func (s *Scan) resolveTransforms(root string) {
	transformsDir := filepath.Join(root, "transforms")
	if _, err := os.Stat(transformsDir); err != nil {
		s.fail("transforms", "required directory is missing")
		return
	}

	seen := make(map[string]bool)

	for _, category := range listSubdirs(transformsDir) {
		categoryDir := filepath.Join(transformsDir, category)
		for _, name := range listSubdirs(categoryDir) {
			nameDir := filepath.Join(categoryDir, name)
			id := category + "/" + name

			for _, version := range listSubdirs(nameDir) {
				versionDir := filepath.Join(nameDir, version)
				relDir := filepath.ToSlash(filepath.Join("transforms", category, name, version))

				key := id + "@" + version
				if seen[key] {
					s.fail(relDir, fmt.Sprintf("duplicate transform %s", key))
					continue
				}
				seen[key] = true

				if !s.checkTransformFiles(versionDir, relDir) {
					continue
				}

				s.Transforms = append(s.Transforms, TransformRef{
					ID:        id,
					Version:   version,
					Dir:       versionDir,
					RelDir:    relDir,
					LogicPath: filepath.Join(versionDir, LogicFileName),
					MetaPath:  filepath.Join(versionDir, MetaFileName),
					TestsDir:  filepath.Join(versionDir, TestsDirName),
				})
			}
		}
	}
}

// checkTransformFiles verifies the version directory has the required
// entries. It records a problem per missing entry and reports overall
// validity.
func (s *Scan) checkTransformFiles(dir, relDir string) bool {
	ok := true

	if !fileExists(filepath.Join(dir, LogicFileName)) {
		s.fail(relDir, "missing "+LogicFileName)
		ok = false
	}
	if !fileExists(filepath.Join(dir, MetaFileName)) {
		s.fail(relDir, "missing "+MetaFileName)
		ok = false
	}
	if !dirExists(filepath.Join(dir, TestsDirName)) {
		s.fail(relDir, "missing "+TestsDirName+"/ directory")
		ok = false
	}

	return ok
}

func (s *Scan) resolveSchemas(root string) {
	schemasDir := filepath.Join(root, "schemas")
	if _, err := os.Stat(schemasDir); err != nil {
		s.Warnings = append(s.Warnings, "schemas directory not found, no schemas to validate")
		return
	}

	for _, vendor := range listSubdirs(schemasDir) {
		vendorDir := filepath.Join(schemasDir, vendor)
		for _, name := range listSubdirs(vendorDir) {
			jsonschemaDir := filepath.Join(vendorDir, name, "jsonschema")
			if !dirExists(jsonschemaDir) {
				continue
			}

			entries, err := os.ReadDir(jsonschemaDir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
					continue
				}
				if filepath.Ext(entry.Name()) != ".json" {
					continue
				}

				stem := strings.TrimSuffix(entry.Name(), ".json")
				s.Schemas = append(s.Schemas, SchemaRef{
					Vendor:      vendor,
					Name:        name,
					VersionStem: stem,
					Path:        filepath.Join(jsonschemaDir, entry.Name()),
					RelPath:     filepath.ToSlash(filepath.Join("schemas", vendor, name, "jsonschema", entry.Name())),
				})
			}
		}
	}
}

// listSubdirs returns the non-hidden subdirectory names of dir, sorted.
func listSubdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
