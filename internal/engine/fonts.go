package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Font families offered by the text tool map onto the bundled Go fonts.
// Families not listed fall back to Go Regular.
var familyTTF = map[string][]byte{
	"arial":           goregular.TTF,
	"helvetica":       goregular.TTF,
	"verdana":         goregular.TTF,
	"georgia":         goregular.TTF,
	"times new roman": goregular.TTF,
	"courier new":     gomono.TTF,
	"monospace":       gomono.TTF,
	"impact":          gobold.TTF,
	"comic sans ms":   goitalic.TTF,
}

// FontRegistry parses each bundled font once. Faces keep a glyph cache and
// are not safe for concurrent use, so every caller gets its own.
type FontRegistry struct {
	mu     sync.Mutex
	parsed map[string]*truetype.Font
}

func NewFontRegistry() *FontRegistry {
	return &FontRegistry{parsed: make(map[string]*truetype.Font)}
}

var defaultFonts = NewFontRegistry()

// Face returns a face for the CSS family name at size pixels.
func (r *FontRegistry) Face(family string, size float64) (font.Face, error) {
	name := normalizeFamily(family)

	r.mu.Lock()
	defer r.mu.Unlock()

	ttf, ok := r.parsed[name]
	if !ok {
		data, known := familyTTF[name]
		if !known {
			data = goregular.TTF
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %q: %w", name, err)
		}
		r.parsed[name] = parsed
		ttf = parsed
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// normalizeFamily takes the first entry of a CSS font stack, lowercased and
// unquoted.
func normalizeFamily(family string) string {
	first, _, _ := strings.Cut(family, ",")
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	return strings.ToLower(first)
}

// MeasureText returns the advance width of content in pixels.
func MeasureText(content, family string, size float64) float64 {
	if content == "" || size <= 0 {
		return 0
	}
	face, err := defaultFonts.Face(family, size)
	if err != nil {
		return 0
	}
	return float64(font.MeasureString(face, content)) / 64
}
