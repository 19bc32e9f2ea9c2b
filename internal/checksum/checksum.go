// Package checksum implements the registry's checksum gate: transform logic
// whose declared digest does not match its actual content is never evaluated.
package checksum

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"
)

// Error reports an integrity mismatch between the declared digest and the
// digest recomputed from the logic file's bytes.
type Error struct {
	Expected string
	Actual   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("checksum mismatch: declared %s, computed %s", e.Expected, e.Actual)
}

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// Verify recomputes the digest of the logic file content and compares it
// case-insensitively to the declared hex digest.
func Verify(content []byte, declared string) error {
	actual := SHA256Hex(content)
	if !strings.EqualFold(declared, actual) {
		return &Error{Expected: strings.ToLower(declared), Actual: actual}
	}
	return nil
}

// VerifyFile reads path and verifies its content against the declared digest.
// It returns the file content so callers can reuse the verified bytes.
func VerifyFile(path string, declared string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logic file: %w", err)
	}
	if err := Verify(content, declared); err != nil {
		return nil, err
	}
	return content, nil
}
