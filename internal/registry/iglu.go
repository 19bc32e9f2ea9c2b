package registry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// igluPattern matches the self-describing schema URN form
// iglu:<vendor>/<name>/jsonschema/<model>-<revision>-<addition>.
var igluPattern = regexp.MustCompile(
	`^iglu:([a-zA-Z0-9_.-]+)/([a-zA-Z0-9_-]+)/jsonschema/([0-9]+)-([0-9]+)-([0-9]+)$`)

// schemaVerPattern matches a bare SchemaVer string (MODEL-REVISION-ADDITION).
var schemaVerPattern = regexp.MustCompile(`^([0-9]+)-([0-9]+)-([0-9]+)$`)

// SchemaVer is Iglu's three-part versioning scheme. It is distinct from
// SemVer: MODEL changes break compatibility, REVISION changes may break
// instance validity, ADDITION changes are compatible.
type SchemaVer struct {
	Model    int
	Revision int
	Addition int
}

// ParseSchemaVer parses a MODEL-REVISION-ADDITION string.
func ParseSchemaVer(s string) (SchemaVer, error) {
	m := schemaVerPattern.FindStringSubmatch(s)
	if m == nil {
		return SchemaVer{}, fmt.Errorf("invalid SchemaVer %q: expected MODEL-REVISION-ADDITION", s)
	}

	// The pattern guarantees the components are non-negative integers.
	model, _ := strconv.Atoi(m[1])
	revision, _ := strconv.Atoi(m[2])
	addition, _ := strconv.Atoi(m[3])

	return SchemaVer{Model: model, Revision: revision, Addition: addition}, nil
}

// String returns the MODEL-REVISION-ADDITION form.
func (v SchemaVer) String() string {
	return fmt.Sprintf("%d-%d-%d", v.Model, v.Revision, v.Addition)
}

// Compare returns -1, 0 or 1 comparing v to other component-wise.
func (v SchemaVer) Compare(other SchemaVer) int {
	for _, pair := range [][2]int{
		{v.Model, other.Model},
		{v.Revision, other.Revision},
		{v.Addition, other.Addition},
	} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IgluURN identifies a schema contract in self-describing form.
type IgluURN struct {
	Vendor  string
	Name    string
	Version SchemaVer
}

// ParseIgluURN parses an iglu:<vendor>/<name>/jsonschema/<M>-<R>-<A> string.
func ParseIgluURN(s string) (IgluURN, error) {
	m := igluPattern.FindStringSubmatch(s)
	if m == nil {
		return IgluURN{}, fmt.Errorf(
			"invalid Iglu URN %q: expected iglu:<vendor>/<name>/jsonschema/<model>-<revision>-<addition>", s)
	}

	ver, err := ParseSchemaVer(strings.Join(m[3:6], "-"))
	if err != nil {
		return IgluURN{}, err
	}

	return IgluURN{Vendor: m[1], Name: m[2], Version: ver}, nil
}

// String returns the canonical iglu: URN form.
func (u IgluURN) String() string {
	return fmt.Sprintf("iglu:%s/%s/jsonschema/%s", u.Vendor, u.Name, u.Version)
}
