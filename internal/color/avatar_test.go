package color

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexColor = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestForLogin(t *testing.T) {
	c := ForLogin("alice")
	assert.Regexp(t, hexColor, c)
	assert.Equal(t, c, ForLogin("ALICE"), "case-insensitive")
	assert.NotEqual(t, c, ForLogin("bob"))
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Joyce James Augustine": "JJ",
		"admin":                 "A",
		"  o'brien  flann ":     "OF",
		"":                      "?",
		"ÉMILE zola":            "ÉZ",
	}
	for in, want := range tests {
		assert.Equal(t, want, Initials(in), in)
	}
}

func TestHSLToRGB(t *testing.T) {
	r, g, b := hslToRGB(0, 1, 0.5)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})

	r, g, b = hslToRGB(120, 1, 0.5)
	assert.Equal(t, [3]uint8{0, 255, 0}, [3]uint8{r, g, b})

	r, g, b = hslToRGB(0, 0, 1)
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r, g, b})
}
