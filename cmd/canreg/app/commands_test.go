package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonizer/registry-tools/internal/checksum"
)

var rootOnce sync.Once

// testRootCmd returns the shared command tree. NewRootCmd registers flags on
// package-level commands, so it must only run once per process.
func testRootCmd() *cobra.Command {
	rootOnce.Do(func() {
		_ = NewRootCmd()
	})
	return rootCmd
}

const transformScript = `{ "field1": source.field1, "field2": $uppercase(source.field2) }`

func writeRegistry(t *testing.T, breakChecksum bool) string {
	t.Helper()
	root := t.TempDir()

	digest := checksum.SHA256Hex([]byte(transformScript))
	if breakChecksum {
		digest = checksum.SHA256Hex([]byte("something else"))
	}

	files := map[string]string{
		"transforms/email/gmail_to_canonical/1.0.0/spec.jsonata": transformScript,
		"transforms/email/gmail_to_canonical/1.0.0/spec.meta.yaml": fmt.Sprintf(`id: email/gmail_to_canonical
version: 1.0.0
engine: jsonata
from_schema: iglu:com.google/gmail_email/jsonschema/1-0-0
to_schema: iglu:com.canonizer/email/jsonschema/1-0-0
status: stable
checksum:
  jsonata_sha256: %s
provenance:
  author: Jane Contributor
  created_utc: "2025-06-01T12:00:00Z"
tests:
  - input: tests/basic.input.json
    expect: tests/basic.expect.json
`, digest),
		"transforms/email/gmail_to_canonical/1.0.0/tests/basic.input.json":  `{"source": {"field1": "value1", "field2": "value2"}}`,
		"transforms/email/gmail_to_canonical/1.0.0/tests/basic.expect.json": `{"field1": "value1", "field2": "VALUE2"}`,
		"schemas/com.google/gmail_email/jsonschema/1-0-0.json":              `{"$schema": "http://json-schema.org/draft-07/schema#", "type": "object"}`,
	}

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := testRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestValidateCommandPasses(t *testing.T) {
	root := writeRegistry(t, false)
	require.NoError(t, execute(t, "validate", root))
}

func TestValidateCommandFailsOnChecksumMismatch(t *testing.T) {
	root := writeRegistry(t, true)
	require.Error(t, execute(t, "validate", root))
}

func TestIndexCommandWritesIndex(t *testing.T) {
	root := writeRegistry(t, false)
	require.NoError(t, execute(t, "index", root))

	data, err := os.ReadFile(filepath.Join(root, "REGISTRY_INDEX.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"email/gmail_to_canonical"`)
	assert.Contains(t, string(data), `"iglu:com.google/gmail_email/jsonschema/1-0-0"`)
}

func TestIndexCommandRefusesOnFailure(t *testing.T) {
	root := writeRegistry(t, true)
	require.Error(t, execute(t, "index", root))

	_, err := os.Stat(filepath.Join(root, "REGISTRY_INDEX.json"))
	assert.True(t, os.IsNotExist(err), "a failing run must not produce an index")
}

func TestIndexCommandCustomOutput(t *testing.T) {
	root := writeRegistry(t, false)
	output := filepath.Join(t.TempDir(), "custom-index.json")
	require.NoError(t, execute(t, "index", root, "--output", output))
	assert.FileExists(t, output)
}

func TestVersionCommand(t *testing.T) {
	require.NoError(t, execute(t, "version"))
	require.NoError(t, execute(t, "version", "--format", "json"))
}
