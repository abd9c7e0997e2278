package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Science Fiction", "science-fiction"},
		{"Children's Literature", "children-s-literature"},
		{"Self-Help", "self-help"},
		{"  Poésie  ", "poesie"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Historical Fiction", DisplayName("  historical   fiction "))
	assert.Equal(t, "LitRPG", DisplayName("LitRPG"))
}

func TestDefaults_UniqueSlugs(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range Defaults {
		slug := Slugify(name)
		assert.NotEmpty(t, slug)
		assert.False(t, seen[slug], "duplicate slug %s", slug)
		seen[slug] = true
	}
}
