package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (with parent directories) under a fresh temp root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestResolveCompleteTree(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"transforms/email/gmail_to_canonical/1.0.0/spec.jsonata":        "source",
		"transforms/email/gmail_to_canonical/1.0.0/spec.meta.yaml":      "id: email/gmail_to_canonical",
		"transforms/email/gmail_to_canonical/1.0.0/tests/a.input.json":  "{}",
		"transforms/email/gmail_to_canonical/1.0.0/tests/a.expect.json": "{}",
		"transforms/email/gmail_to_canonical/1.1.0/spec.jsonata":        "source",
		"transforms/email/gmail_to_canonical/1.1.0/spec.meta.yaml":      "id: email/gmail_to_canonical",
		"transforms/email/gmail_to_canonical/1.1.0/tests/a.input.json":  "{}",
		"transforms/crm/lead_normalize/2.0.0/spec.jsonata":              "source",
		"transforms/crm/lead_normalize/2.0.0/spec.meta.yaml":            "id: crm/lead_normalize",
		"transforms/crm/lead_normalize/2.0.0/tests/a.input.json":        "{}",
		"schemas/com.google/gmail_email/jsonschema/1-0-0.json":          "{}",
		"schemas/com.canonizer/email/jsonschema/1-0-0.json":             "{}",
		"schemas/com.canonizer/email/jsonschema/1-0-1.json":             "{}",
	})

	scan, err := Resolve(root)
	require.NoError(t, err)
	assert.Empty(t, scan.Problems)
	assert.Empty(t, scan.Warnings)

	require.Len(t, scan.Transforms, 3)
	assert.Equal(t, "crm/lead_normalize", scan.Transforms[0].ID)
	assert.Equal(t, "email/gmail_to_canonical", scan.Transforms[1].ID)
	assert.Equal(t, "1.0.0", scan.Transforms[1].Version)
	assert.Equal(t, "1.1.0", scan.Transforms[2].Version)
	assert.Equal(t, "transforms/email/gmail_to_canonical/1.0.0", scan.Transforms[1].RelDir)
	assert.FileExists(t, scan.Transforms[1].LogicPath)
	assert.FileExists(t, scan.Transforms[1].MetaPath)
	assert.DirExists(t, scan.Transforms[1].TestsDir)

	require.Len(t, scan.Schemas, 3)
	assert.Equal(t, "com.canonizer", scan.Schemas[0].Vendor)
	assert.Equal(t, "1-0-0", scan.Schemas[0].VersionStem)
	assert.Equal(t, "1-0-1", scan.Schemas[1].VersionStem)
	assert.Equal(t, "com.google", scan.Schemas[2].Vendor)
}

func TestResolveMissingRequiredFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		// Missing spec.meta.yaml and tests/.
		"transforms/email/gmail_to_canonical/1.0.0/spec.jsonata": "source",
		"schemas/com.google/gmail_email/jsonschema/1-0-0.json":   "{}",
	})

	scan, err := Resolve(root)
	require.NoError(t, err)

	assert.Empty(t, scan.Transforms, "structurally broken unit must not be resolved")
	require.Len(t, scan.Problems, 2)

	reasons := []string{scan.Problems[0].Reason, scan.Problems[1].Reason}
	assert.Contains(t, reasons, "missing spec.meta.yaml")
	assert.Contains(t, reasons, "missing tests/ directory")
}

func TestResolveMissingTransformsDir(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"schemas/com.google/gmail_email/jsonschema/1-0-0.json": "{}",
	})

	scan, err := Resolve(root)
	require.NoError(t, err)

	require.Len(t, scan.Problems, 1)
	assert.Equal(t, "transforms", scan.Problems[0].Path)
}

func TestResolveMissingSchemasDirIsWarning(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"transforms/email/x/1.0.0/spec.jsonata":       "source",
		"transforms/email/x/1.0.0/spec.meta.yaml":     "id: email/x",
		"transforms/email/x/1.0.0/tests/a.input.json": "{}",
	})

	scan, err := Resolve(root)
	require.NoError(t, err)

	assert.Empty(t, scan.Problems)
	require.Len(t, scan.Warnings, 1)
	assert.Contains(t, scan.Warnings[0], "schemas directory not found")
}

func TestResolveSkipsHiddenEntries(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"transforms/.git/objects/whatever":            "x",
		"transforms/email/.hidden/1.0.0/spec.jsonata": "x",
		"transforms/email/x/1.0.0/spec.jsonata":       "source",
		"transforms/email/x/1.0.0/spec.meta.yaml":     "id: email/x",
		"transforms/email/x/1.0.0/tests/a.input.json": "{}",
		"schemas/com.google/g/jsonschema/.1-0-0.json": "{}",
		"schemas/com.google/g/jsonschema/1-0-0.json":  "{}",
		"schemas/com.google/g/jsonschema/notes.md":    "readme",
		"schemas/com.google/other/noschemadir/x.json": "{}",
	})

	scan, err := Resolve(root)
	require.NoError(t, err)

	assert.Empty(t, scan.Problems)
	require.Len(t, scan.Transforms, 1)
	require.Len(t, scan.Schemas, 1)
	assert.Equal(t, "1-0-0", scan.Schemas[0].VersionStem)
}

func TestResolveRootErrors(t *testing.T) {
	t.Parallel()

	_, err := Resolve(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "plain-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = Resolve(file)
	require.Error(t, err)
}
