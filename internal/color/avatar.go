// Package color derives the badge colors shown next to signed-in users.
package color

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Saturation and lightness keep white initials readable on every hue.
const (
	saturation = 0.45
	lightness  = 0.42
)

// ForLogin returns a stable "#RRGGBB" color for a login.
func ForLogin(login string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(login)))
	hue := float64(h.Sum32() % 360)

	r, g, b := hslToRGB(hue, saturation, lightness)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// Initials returns up to two uppercase letters for a display name.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// hslToRGB converts hue in degrees and s, l in [0, 1] to 8-bit RGB.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	a := s * math.Min(l, 1-l)
	channel := func(n float64) uint8 {
		k := math.Mod(n+h/30, 12)
		v := l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
		return uint8(math.Round(v * 255))
	}
	return channel(0), channel(8), channel(4)
}
