// Package panel is the input and layout model of the material panel: a grid
// of color swatches and two sliders anchored to the bottom-left corner.
// Drawing lives elsewhere; this package decides where things are and what a
// pointer event means.
package panel

import (
	"fmt"
	"math"

	"model-viewer/internal/material"
)

// Rect is an axis-aligned screen rectangle in pixels.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() (float32, float32) { return r.X + r.W/2, r.Y + r.H/2 }

// Metrics are the panel dimensions in pixels.
type Metrics struct {
	Left, Bottom float32
	Padding      float32
	TitleHeight  float32 // title line plus its margin
	SwatchSize   float32
	SwatchGap    float32
	MaxWidth     float32
	SectionGap   float32
	LabelHeight  float32
	TrackHeight  float32
	SliderGap    float32
}

// DefaultMetrics matches the stock layout: 30px swatches, 8px apart,
// wrapping at 200px, inside 15px of padding 20px from the corner.
func DefaultMetrics() Metrics {
	return Metrics{
		Left:        20,
		Bottom:      20,
		Padding:     15,
		TitleHeight: 30,
		SwatchSize:  30,
		SwatchGap:   8,
		MaxWidth:    200,
		SectionGap:  15,
		LabelHeight: 18,
		TrackHeight: 16,
		SliderGap:   10,
	}
}

// Pointer is the mouse state for one frame.
type Pointer struct {
	X, Y     float32
	Down     bool // primary button held
	Pressed  bool // went down this frame
	Released bool // went up this frame
}

// Panel is the color and material panel.
type Panel struct {
	Title     string
	Metrics   Metrics
	Swatches  []material.Swatch
	Metalness *Slider
	Roughness *Slider

	// Called from Handle on user changes.
	OnColor     func(material.Swatch)
	OnMetalness func(float32)
	OnRoughness func(float32)

	Bounds    Rect
	TitlePos  Rect
	cells     []Rect
	selected  int
	hover     int
	active    *Slider
	capturing bool
}

// New returns a panel over the palette with sliders at their initial values.
func New(title string, swatches []material.Swatch) *Panel {
	p := &Panel{
		Title:     title,
		Metrics:   DefaultMetrics(),
		Swatches:  swatches,
		Metalness: NewSlider("Metalness", 0.4),
		Roughness: NewSlider("Roughness", 0.2),
		selected:  -1,
		hover:     -1,
	}
	p.Layout(0, 0)
	return p
}

// PerRow returns how many swatches fit on one row.
func (p *Panel) PerRow() int {
	m := p.Metrics
	n := int((m.MaxWidth + m.SwatchGap) / (m.SwatchSize + m.SwatchGap))
	return max(n, 1)
}

// Layout positions everything for a screen of the given size.
func (p *Panel) Layout(screenW, screenH int) {
	m := p.Metrics
	perRow := p.PerRow()
	rows := (len(p.Swatches) + perRow - 1) / perRow
	gridH := float32(0)
	if rows > 0 {
		gridH = float32(rows)*m.SwatchSize + float32(rows-1)*m.SwatchGap
	}
	sliderH := m.LabelHeight + m.TrackHeight
	contentH := m.TitleHeight + gridH + m.SectionGap + 2*sliderH + m.SliderGap

	w := m.MaxWidth + 2*m.Padding
	h := contentH + 2*m.Padding
	p.Bounds = Rect{X: m.Left, Y: float32(screenH) - m.Bottom - h, W: w, H: h}

	x0 := p.Bounds.X + m.Padding
	y := p.Bounds.Y + m.Padding
	p.TitlePos = Rect{X: x0, Y: y, W: m.MaxWidth, H: m.TitleHeight}
	y += m.TitleHeight

	p.cells = p.cells[:0]
	for i := range p.Swatches {
		col, row := i%perRow, i/perRow
		p.cells = append(p.cells, Rect{
			X: x0 + float32(col)*(m.SwatchSize+m.SwatchGap),
			Y: y + float32(row)*(m.SwatchSize+m.SwatchGap),
			W: m.SwatchSize,
			H: m.SwatchSize,
		})
	}
	y += gridH + m.SectionGap

	for _, s := range []*Slider{p.Metalness, p.Roughness} {
		s.LabelPos = Rect{X: x0, Y: y, W: m.MaxWidth, H: m.LabelHeight}
		s.Track = Rect{X: x0, Y: y + m.LabelHeight, W: m.MaxWidth, H: m.TrackHeight}
		y += sliderH + m.SliderGap
	}
}

// Cell returns the rectangle of swatch i.
func (p *Panel) Cell(i int) Rect { return p.cells[i] }

// Selected returns the highlighted swatch index, or -1.
func (p *Panel) Selected() int { return p.selected }

// Hover returns the swatch under the pointer, or -1.
func (p *Panel) Hover() int { return p.hover }

// Tooltip returns the title of the hovered swatch, if any.
func (p *Panel) Tooltip() (string, bool) {
	if p.hover < 0 {
		return "", false
	}
	return p.Swatches[p.hover].Title(), true
}

// Sync updates the sliders and selection from the material, leaving a
// slider alone while it is being dragged.
func (p *Panel) Sync(params material.Params, swatch int) {
	if p.active != p.Metalness {
		p.Metalness.Value = params.Metalness
	}
	if p.active != p.Roughness {
		p.Roughness.Value = params.Roughness
	}
	if swatch >= 0 && swatch < len(p.Swatches) {
		p.selected = swatch
	}
}

// Handle processes one frame of pointer input and reports whether the
// panel owns it. A press outside the panel is never captured, and the panel
// keeps ownership of a press that started inside it until release.
func (p *Panel) Handle(ptr Pointer) bool {
	p.hover = p.swatchAt(ptr.X, ptr.Y)

	if ptr.Pressed {
		p.capturing = p.Bounds.Contains(ptr.X, ptr.Y)
		if !p.capturing {
			return false
		}
		if p.hover >= 0 {
			p.selected = p.hover
			if p.OnColor != nil {
				p.OnColor(p.Swatches[p.hover])
			}
			return true
		}
		for _, s := range []*Slider{p.Metalness, p.Roughness} {
			if s.hitArea().Contains(ptr.X, ptr.Y) {
				p.active = s
				p.drag(ptr.X)
				break
			}
		}
		return true
	}

	owned := p.capturing
	if ptr.Down && p.active != nil {
		p.drag(ptr.X)
	}
	if ptr.Released || !ptr.Down {
		p.active = nil
		p.capturing = false
	}
	return owned
}

func (p *Panel) drag(x float32) {
	if !p.active.SetFromX(x) {
		return
	}
	switch {
	case p.active == p.Metalness && p.OnMetalness != nil:
		p.OnMetalness(p.active.Value)
	case p.active == p.Roughness && p.OnRoughness != nil:
		p.OnRoughness(p.active.Value)
	}
}

func (p *Panel) swatchAt(x, y float32) int {
	for i, c := range p.cells {
		cx, cy := c.Center()
		dx, dy := x-cx, y-cy
		r := c.W / 2
		if dx*dx+dy*dy <= r*r {
			return i
		}
	}
	return -1
}

// Slider is a horizontal range input over [Min, Max] snapped to Step.
type Slider struct {
	Label    string
	Min, Max float32
	Step     float32
	Value    float32
	LabelPos Rect
	Track    Rect
}

// NewSlider returns a [0,1] slider with a 0.1 step.
func NewSlider(label string, value float32) *Slider {
	return &Slider{Label: label, Min: 0, Max: 1, Step: 0.1, Value: value}
}

// Text returns the label with the value, e.g. "Roughness: 0.2".
func (s *Slider) Text() string { return fmt.Sprintf("%s: %.1f", s.Label, s.Value) }

// Fraction returns the thumb position along the track in [0,1].
func (s *Slider) Fraction() float32 {
	if s.Max <= s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// Snap clamps v to the range and rounds it to the nearest step.
func (s *Slider) Snap(v float32) float32 {
	v = min(max(v, s.Min), s.Max)
	if s.Step <= 0 {
		return v
	}
	n := math.Round(float64(v-s.Min) / float64(s.Step))
	return float32(float64(s.Min) + n*float64(s.Step))
}

// SetFromX moves the thumb under screen x and reports whether the value changed.
func (s *Slider) SetFromX(x float32) bool {
	if s.Track.W <= 0 {
		return false
	}
	frac := (x - s.Track.X) / s.Track.W
	v := s.Snap(s.Min + frac*(s.Max-s.Min))
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

// hitArea is the track grown vertically so the thin bar is easy to grab.
func (s *Slider) hitArea() Rect {
	const grow = 4
	return Rect{X: s.Track.X - grow, Y: s.Track.Y - grow, W: s.Track.W + 2*grow, H: s.Track.H + 2*grow}
}
