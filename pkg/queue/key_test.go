package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		ok        bool
		projectID string
		createdAt int64
		suffix    string
	}{
		{
			name:      "valid key",
			raw:       "proj1-1690000000-abc12",
			ok:        true,
			projectID: "proj1",
			createdAt: 1690000000,
			suffix:    "abc12",
		},
		{
			name:      "default project",
			raw:       "default-1690000000-ff001",
			ok:        true,
			projectID: "default",
			createdAt: 1690000000,
			suffix:    "ff001",
		},
		{
			name: "no separators",
			raw:  "proj1_bad_key",
			ok:   false,
		},
		{
			name: "missing suffix",
			raw:  "proj1-1690000000",
			ok:   false,
		},
		{
			name: "non-numeric timestamp",
			raw:  "proj1-notanumber-abc12",
			ok:   false,
		},
		{
			name: "empty",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ParseKey(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.projectID, key.ProjectID)
				assert.Equal(t, tt.createdAt, key.CreatedAt)
				assert.Equal(t, tt.suffix, key.Suffix)
			}
		})
	}
}

func TestNewKey_RoundTrips(t *testing.T) {
	key := NewKey("proj1", 1690000000)

	parsed, ok := ParseKey(key.String())
	assert.True(t, ok)
	assert.Equal(t, key, parsed)
}

func TestNewKey_UniqueSuffixes(t *testing.T) {
	a := NewKey("proj1", 1690000000)
	b := NewKey("proj1", 1690000000)
	assert.NotEqual(t, a.String(), b.String())
}

func TestValidProjectID(t *testing.T) {
	assert.True(t, ValidProjectID("proj1"))
	assert.True(t, ValidProjectID("default"))
	assert.True(t, ValidProjectID("a_b_3"))
	assert.False(t, ValidProjectID(""))
	assert.False(t, ValidProjectID("proj-1"))
	assert.False(t, ValidProjectID("proj 1"))
}
