package index

import (
	"encoding/json"
	"fmt"
	"os"
)

// Encode renders the document as the canonical on-disk form: two-space
// indented JSON with a trailing newline. Repeated calls for the same
// document are byte-identical.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	return append(data, '\n'), nil
}

// Write atomically replaces the index file at path: the document is written
// to a temporary file first and renamed into place, so readers never observe
// a half-written index.
func Write(doc *Document, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary index file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename index file into place: %w", err)
	}

	return nil
}
