package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNewer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"patch_newer", "1.0.1", "1.0.0", true},
		{"minor_newer", "1.1.0", "1.0.9", true},
		{"major_newer", "2.0.0", "1.99.99", true},
		{"equal", "1.0.0", "1.0.0", false},
		{"older", "1.0.0", "1.0.1", false},
		{"numeric_not_lexicographic", "1.10.0", "1.9.0", true},
		{"fallback_string_compare", "abc", "abb", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsNewer(tt.a, tt.b))
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
