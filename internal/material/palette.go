package material

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Swatch is a named palette color.
type Swatch struct {
	Name  string
	Hex   string
	Color color.RGBA
}

// Title returns the swatch name for display, e.g. "Saddle Brown".
func (s Swatch) Title() string { return cases.Title(language.English).String(s.Name) }

// Palette is the fixed set of surface colors, in display order.
var Palette = mustPalette([][2]string{
	{"#8b0000", "dark red"},
	{"#683434", "brown"},
	{"#1a5e1a", "green"},
	{"#659994", "blue"},
	{"#896599", "mauve"},
	{"#ffa500", "orange"},
	{"#59555b", "grey"},
	{"#222222", "black"},
	{"#ececec", "white"},
	{"#800080", "purple"},
	{"#ffd700", "gold"},
	{"#c0c0c0", "silver"},
	{"#40826d", "teal"},
	{"#ff1493", "pink"},
	{"#4b0082", "indigo"},
	{"#8b4513", "saddle brown"},
	{"#daa520", "goldenrod"},
	{"#48d1cc", "turquoise"},
	{"#ff4500", "coral"},
	{"#9400d3", "violet"},
})

func mustPalette(defs [][2]string) []Swatch {
	out := make([]Swatch, len(defs))
	for i, d := range defs {
		c, err := ParseHex(d[0])
		if err != nil {
			panic(err)
		}
		out[i] = Swatch{Name: d[1], Hex: d[0], Color: c}
	}
	return out
}

// Lookup finds a swatch by name (case-insensitive, underscores and dashes
// read as spaces) or by hex value.
func Lookup(key string) (Swatch, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if strings.HasPrefix(key, "#") {
		for _, s := range Palette {
			if s.Hex == key {
				return s, true
			}
		}
		return Swatch{}, false
	}
	key = strings.NewReplacer("_", " ", "-", " ").Replace(key)
	for _, s := range Palette {
		if s.Name == key {
			return s, true
		}
	}
	return Swatch{}, false
}

// Index returns the palette position of the swatch with the given hex, or -1.
func Index(hex string) int {
	for i, s := range Palette {
		if strings.EqualFold(s.Hex, hex) {
			return i
		}
	}
	return -1
}

// ParseHex parses #RGB or #RRGGBB into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("material: invalid color %q", s)
	}
	hex := s[1:]
	var r, g, b uint8
	switch len(hex) {
	case 3:
		r, g, b = nibble(hex[0])*17, nibble(hex[1])*17, nibble(hex[2])*17
	case 6:
		r = nibble(hex[0])<<4 | nibble(hex[1])
		g = nibble(hex[2])<<4 | nibble(hex[3])
		b = nibble(hex[4])<<4 | nibble(hex[5])
	default:
		return color.RGBA{}, fmt.Errorf("material: invalid color %q", s)
	}
	for i := 0; i < len(hex); i++ {
		if !isHex(hex[i]) {
			return color.RGBA{}, fmt.Errorf("material: invalid color %q", s)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex formats an opaque color as #rrggbb.
func Hex(c color.RGBA) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func nibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
