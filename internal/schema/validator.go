// Package schema validates the JSON Schema contract files stored under
// schemas/<vendor>/<name>/jsonschema/. It checks that each document is
// well-formed against its declared draft; it never validates instances.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/canonizer/registry-tools/internal/registry"
)

// DefaultAcceptedDrafts is the set of $schema draft identifiers the registry
// accepts.
var DefaultAcceptedDrafts = []string{
	"http://json-schema.org/draft-04/schema#",
	"http://json-schema.org/draft-06/schema#",
	"http://json-schema.org/draft-07/schema#",
	"https://json-schema.org/draft/2019-09/schema",
	"https://json-schema.org/draft/2020-12/schema",
}

// Error reports a malformed schema document.
type Error struct {
	Path   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("schema %s: %s", e.Path, e.Reason)
}

// Validator checks schema documents against the accepted draft set.
type Validator struct {
	accepted map[string]bool
}

// NewValidator creates a Validator. With no arguments the default accepted
// draft set is used.
func NewValidator(acceptedDrafts ...string) *Validator {
	if len(acceptedDrafts) == 0 {
		acceptedDrafts = DefaultAcceptedDrafts
	}
	accepted := make(map[string]bool, len(acceptedDrafts))
	for _, d := range acceptedDrafts {
		accepted[d] = true
	}
	return &Validator{accepted: accepted}
}

// ValidateFile validates the schema file at path. vendor and name come from
// the directory layout, versionStem from the file name (without .json) and
// relPath is the file's location relative to the registry root, used in the
// returned unit and in error messages.
func (v *Validator) ValidateFile(path, relPath, vendor, name, versionStem string) (*registry.SchemaUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: relPath, Reason: fmt.Sprintf("failed to read: %v", err)}
	}
	return v.Validate(data, relPath, vendor, name, versionStem)
}

// Validate validates raw schema bytes. See ValidateFile.
func (v *Validator) Validate(data []byte, relPath, vendor, name, versionStem string) (*registry.SchemaUnit, error) {
	ver, err := registry.ParseSchemaVer(versionStem)
	if err != nil {
		return nil, &Error{Path: relPath, Reason: fmt.Sprintf("file name is not a SchemaVer MODEL-REVISION-ADDITION version: %v", err)}
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Path: relPath, Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}

	draft, ok := doc["$schema"].(string)
	if !ok || draft == "" {
		return nil, &Error{Path: relPath, Reason: "missing $schema draft identifier"}
	}
	if !v.accepted[draft] {
		return nil, &Error{Path: relPath, Reason: fmt.Sprintf("unrecognized $schema draft %q", draft)}
	}

	if err := compile(data); err != nil {
		return nil, &Error{Path: relPath, Reason: fmt.Sprintf("not a valid JSON Schema: %v", err)}
	}

	return &registry.SchemaUnit{
		Vendor:   vendor,
		Name:     name,
		Version:  ver,
		Document: doc,
		Path:     relPath,
	}, nil
}

// compile proves the document is a well-formed schema by compiling it.
func compile(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return err
	}
	_, err = compiler.Compile("schema.json")
	return err
}
