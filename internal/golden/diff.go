// Package golden runs a transform's declared golden tests: each (input,
// expected) fixture pair is evaluated through the engine and the produced
// document is compared structurally against the expected one.
package golden

import (
	"encoding/json"
	"fmt"
	"sort"
)

// absent marks a key or element present on one side of a comparison only.
type absent struct{}

func (absent) String() string { return "<absent>" }

// Mismatch reports the first diverging path between the expected and the
// produced document, with both values at that path.
type Mismatch struct {
	Path     string
	Expected any
	Actual   any
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("golden mismatch at %s: expected %s, got %s",
		m.Path, renderValue(m.Expected), renderValue(m.Actual))
}

func renderValue(v any) string {
	if _, ok := v.(absent); ok {
		return "<absent>"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// Compare performs a deep structural comparison of two JSON documents:
// object keys are order-insensitive, arrays are order-sensitive, numbers are
// compared exactly (no epsilon), strings byte-for-byte. It returns nil when
// the documents are structurally equal, otherwise the first diverging path
// in deterministic order (object keys visited sorted).
func Compare(expected, actual any) *Mismatch {
	return compare(expected, actual, "$")
}

func compare(expected, actual any, path string) *Mismatch {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return &Mismatch{Path: path, Expected: expected, Actual: actual}
		}
		return compareObjects(exp, act, path)

	case []any:
		act, ok := actual.([]any)
		if !ok {
			return &Mismatch{Path: path, Expected: expected, Actual: actual}
		}
		return compareArrays(exp, act, path)

	case float64:
		act, ok := actual.(float64)
		if !ok || exp != act {
			return &Mismatch{Path: path, Expected: expected, Actual: actual}
		}

	case string:
		act, ok := actual.(string)
		if !ok || exp != act {
			return &Mismatch{Path: path, Expected: expected, Actual: actual}
		}

	case bool:
		act, ok := actual.(bool)
		if !ok || exp != act {
			return &Mismatch{Path: path, Expected: expected, Actual: actual}
		}

	case nil:
		if actual != nil {
			return &Mismatch{Path: path, Expected: expected, Actual: actual}
		}

	default:
		// Unexpected decoded type; fall back to formatted comparison.
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			return &Mismatch{Path: path, Expected: expected, Actual: actual}
		}
	}

	return nil
}

func compareObjects(expected, actual map[string]any, path string) *Mismatch {
	keys := make([]string, 0, len(expected)+len(actual))
	seen := make(map[string]bool, len(expected)+len(actual))
	for k := range expected {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range actual {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		childPath := path + "." + k
		expVal, inExp := expected[k]
		actVal, inAct := actual[k]

		switch {
		case !inExp:
			return &Mismatch{Path: childPath, Expected: absent{}, Actual: actVal}
		case !inAct:
			return &Mismatch{Path: childPath, Expected: expVal, Actual: absent{}}
		default:
			if m := compare(expVal, actVal, childPath); m != nil {
				return m
			}
		}
	}

	return nil
}

func compareArrays(expected, actual []any, path string) *Mismatch {
	n := len(expected)
	if len(actual) < n {
		n = len(actual)
	}

	for i := 0; i < n; i++ {
		if m := compare(expected[i], actual[i], fmt.Sprintf("%s[%d]", path, i)); m != nil {
			return m
		}
	}

	switch {
	case len(expected) > len(actual):
		return &Mismatch{Path: fmt.Sprintf("%s[%d]", path, n), Expected: expected[n], Actual: absent{}}
	case len(actual) > len(expected):
		return &Mismatch{Path: fmt.Sprintf("%s[%d]", path, n), Expected: absent{}, Actual: actual[n]}
	}

	return nil
}
