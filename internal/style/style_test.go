package style

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheet = `
/* panel chrome */
.panel { background: #1e1e1ecc; padding: 15px; width: 200px; }
.title { color: #ececec; font-size: 18px; }
#selected { border: #000; }
.swatch, .slider-thumb { border: #444444; }
div.nested { color: #fff; }
.panel { padding: 12px; }
`

func TestParse(t *testing.T) {
	s, err := ParseString(sheet)
	require.NoError(t, err)

	var selectors []string
	for _, r := range s.Rules {
		selectors = append(selectors, r.Selector)
	}
	assert.Equal(t, []string{".panel", ".title", "#selected", ".swatch", ".slider-thumb", ".panel"}, selectors)
	assert.Equal(t, "15px", s.Rules[0].Props["padding"])
}

func TestResolveLaterRulesWin(t *testing.T) {
	s, err := ParseString(sheet)
	require.NoError(t, err)

	panel := s.Resolve("panel", "")
	assert.Equal(t, int32(12), panel.Padding)
	assert.Equal(t, int32(200), panel.Width)
	assert.Equal(t, color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xcc}, panel.Background)
	assert.False(t, panel.HasBorder)
}

func TestResolveIDOverridesClass(t *testing.T) {
	s, err := ParseString(sheet)
	require.NoError(t, err)

	sw := s.Resolve("swatch", "selected")
	assert.True(t, sw.HasBorder)
	assert.Equal(t, color.RGBA{A: 255}, sw.Border)

	plain := s.Resolve("swatch", "")
	assert.Equal(t, color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 255}, plain.Border)
}

func TestResolveDefaults(t *testing.T) {
	var s *Stylesheet
	c := s.Resolve("anything", "")
	assert.Equal(t, Default(), c)

	title := ResolveProps(map[string]string{"font-size": "18px", "color": "nope", "width": "wide"})
	assert.Equal(t, int32(18), title.FontSize)
	assert.Equal(t, Default().Color, title.Color)
	assert.Equal(t, int32(0), title.Width)
}

func TestParsePx(t *testing.T) {
	n, ok := ParsePx(" 30px ")
	assert.True(t, ok)
	assert.Equal(t, int32(30), n)
	n, ok = ParsePx("8")
	assert.True(t, ok)
	assert.Equal(t, int32(8), n)
	_, ok = ParsePx("1em")
	assert.False(t, ok)
}
