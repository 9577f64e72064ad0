package engine

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses #rgb, #rrggbb and #rrggbbaa. Anything else yields
// opaque black and false.
func ParseHexColor(s string) (color.NRGBA, bool) {
	black := color.NRGBA{A: 0xff}
	s = strings.TrimSpace(s)
	if s == "transparent" {
		return color.NRGBA{}, true
	}
	if !strings.HasPrefix(s, "#") {
		return black, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return black, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return black, false
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, true
}

// withOpacity scales the alpha channel by opacity in [0,1].
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	opacity = min(max(opacity, 0), 1)
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
