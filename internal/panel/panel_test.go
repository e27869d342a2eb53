package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-viewer/internal/material"
)

func newPanel(t *testing.T) *Panel {
	t.Helper()
	p := New("Teapot Color", material.Palette)
	p.Layout(800, 600)
	return p
}

func press(x, y float32) Pointer   { return Pointer{X: x, Y: y, Down: true, Pressed: true} }
func drag(x, y float32) Pointer    { return Pointer{X: x, Y: y, Down: true} }
func release(x, y float32) Pointer { return Pointer{X: x, Y: y, Released: true} }

func TestLayoutAnchorsBottomLeft(t *testing.T) {
	p := newPanel(t)
	assert.Equal(t, 5, p.PerRow())
	assert.Equal(t, Rect{X: 20, Y: 283, W: 230, H: 297}, p.Bounds)

	assert.Equal(t, Rect{X: 35, Y: 328, W: 30, H: 30}, p.Cell(0))
	assert.Equal(t, Rect{X: 187, Y: 328, W: 30, H: 30}, p.Cell(4))
	assert.Equal(t, Rect{X: 35, Y: 366, W: 30, H: 30}, p.Cell(5))

	p.Layout(800, 300)
	assert.Equal(t, float32(300-20-297), p.Bounds.Y)
}

func TestClickSwatchSelectsColor(t *testing.T) {
	p := newPanel(t)
	var got material.Swatch
	p.OnColor = func(s material.Swatch) { got = s }

	cx, cy := p.Cell(10).Center()
	assert.True(t, p.Handle(press(cx, cy)))
	assert.Equal(t, "#ffd700", got.Hex)
	assert.Equal(t, 10, p.Selected())
	assert.True(t, p.Handle(release(cx, cy)))
}

func TestSwatchHitIsCircular(t *testing.T) {
	p := newPanel(t)
	c := p.Cell(0)
	p.Handle(Pointer{X: c.X + 1, Y: c.Y + 1})
	assert.Equal(t, -1, p.Hover())

	cx, cy := c.Center()
	p.Handle(Pointer{X: cx, Y: cy})
	assert.Equal(t, 0, p.Hover())
	title, ok := p.Tooltip()
	assert.True(t, ok)
	assert.Equal(t, p.Swatches[0].Title(), title)
}

func TestSliderDragQuantizes(t *testing.T) {
	p := newPanel(t)
	var values []float32
	p.OnRoughness = func(v float32) { values = append(values, v) }

	tr := p.Roughness.Track
	y := tr.Y + tr.H/2
	assert.True(t, p.Handle(press(tr.X+101, y)))
	assert.True(t, p.Handle(drag(tr.X+111, y)))
	assert.True(t, p.Handle(drag(tr.X+112, y))) // same step, no callback
	assert.True(t, p.Handle(drag(tr.X+500, y)))
	assert.True(t, p.Handle(release(tr.X+500, y)))

	assert.Equal(t, []float32{0.5, 0.6, 1}, values)
	assert.Equal(t, float32(1), p.Roughness.Value)
	assert.Equal(t, float32(0.4), p.Metalness.Value)
	assert.Equal(t, "Roughness: 1.0", p.Roughness.Text())
}

func TestDragThatLeavesPanelStaysOwned(t *testing.T) {
	p := newPanel(t)
	tr := p.Metalness.Track
	require.True(t, p.Handle(press(tr.X+10, tr.Y+2)))
	assert.True(t, p.Handle(drag(700, 50)))
	assert.Equal(t, float32(1), p.Metalness.Value)
	assert.True(t, p.Handle(release(700, 50)))
	assert.False(t, p.Handle(drag(700, 50)))
}

func TestPressOutsideIsNotConsumed(t *testing.T) {
	p := newPanel(t)
	called := false
	p.OnColor = func(material.Swatch) { called = true }
	assert.False(t, p.Handle(press(600, 100)))
	// dragging across the panel after pressing outside still belongs to the view
	cx, cy := p.Cell(0).Center()
	assert.False(t, p.Handle(drag(cx, cy)))
	assert.False(t, called)
}

func TestPressOnPanelBackgroundIsConsumed(t *testing.T) {
	p := newPanel(t)
	assert.True(t, p.Handle(press(p.Bounds.X+2, p.Bounds.Y+2)))
}

func TestSyncSkipsActiveSlider(t *testing.T) {
	p := newPanel(t)
	tr := p.Metalness.Track
	p.Handle(press(tr.X, tr.Y+2))
	p.Sync(material.Params{Roughness: 0.1, Metalness: 0.9}, 3)
	assert.Equal(t, float32(0), p.Metalness.Value)
	assert.Equal(t, float32(0.1), p.Roughness.Value)
	assert.Equal(t, 3, p.Selected())
}

func TestSnap(t *testing.T) {
	s := NewSlider("x", 0)
	assert.Equal(t, float32(0.3), s.Snap(0.29))
	assert.Equal(t, float32(0), s.Snap(-2))
	assert.Equal(t, float32(1), s.Snap(1.04))
	s.Value = 0.5
	assert.InDelta(t, 0.5, s.Fraction(), 1e-6)
}
