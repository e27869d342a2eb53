// Package material holds the surface parameters of the viewed model and the
// rules for changing them.
package material

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Values a color selection resets the surface to.
const (
	DefaultRoughness = 0.1
	DefaultMetalness = 0.4
)

// Params is a flat, untextured surface material.
type Params struct {
	Color     color.RGBA
	Roughness float32
	Metalness float32
}

// New returns params for c with the default roughness and metalness.
func New(c color.RGBA) Params {
	return Params{Color: c, Roughness: DefaultRoughness, Metalness: DefaultMetalness}
}

// Linear returns the base color as linear RGBA in [0,1].
func (p Params) Linear() [4]float32 {
	return [4]float32{
		srgbToLinear(p.Color.R),
		srgbToLinear(p.Color.G),
		srgbToLinear(p.Color.B),
		float32(p.Color.A) / 255,
	}
}

func srgbToLinear(v uint8) float32 {
	c := float32(v) / 255
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}

// Update is a partial change. Nil fields are left alone.
type Update struct {
	Color     *color.RGBA
	Roughness *float32
	Metalness *float32
}

// Updater owns the material of the designated mesh. Until Bind is called
// there is no mesh and every change is a no-op.
type Updater struct {
	// PreserveOnColor keeps slider-tuned roughness and metalness when the
	// color changes. When false a color change rebuilds the material with
	// the defaults.
	PreserveOnColor bool

	current *Params
	swatch  int
}

// NewUpdater returns an updater with no mesh bound.
func NewUpdater() *Updater { return &Updater{swatch: -1} }

// Bind attaches the updater to a mesh and applies the initial color.
func (u *Updater) Bind(initial Swatch) {
	p := New(initial.Color)
	u.current = &p
	u.swatch = Index(initial.Hex)
}

// Bound reports whether a mesh is attached.
func (u *Updater) Bound() bool { return u.current != nil }

// Current returns the active params and whether a mesh is attached.
func (u *Updater) Current() (Params, bool) {
	if u.current == nil {
		return Params{}, false
	}
	return *u.current, true
}

// Swatch returns the palette index of the last selected swatch, or -1.
func (u *Updater) Swatch() int { return u.swatch }

// Select applies a palette color.
func (u *Updater) Select(s Swatch) bool {
	c := s.Color
	return u.Apply(Update{Color: &c})
}

// SetRoughness changes roughness in place.
func (u *Updater) SetRoughness(v float32) bool { return u.Apply(Update{Roughness: &v}) }

// SetMetalness changes metalness in place.
func (u *Updater) SetMetalness(v float32) bool { return u.Apply(Update{Metalness: &v}) }

// Apply merges up into the current material and reports whether anything was
// applied. A color change replaces the whole material unless PreserveOnColor
// is set; roughness and metalness given in the same update win either way.
// Values are clamped to [0,1]; NaN and infinities are ignored.
func (u *Updater) Apply(up Update) bool {
	if u.current == nil {
		return false
	}
	next := *u.current
	if up.Color != nil {
		if u.PreserveOnColor {
			next.Color = *up.Color
		} else {
			next = New(*up.Color)
		}
		u.swatch = Index(Hex(*up.Color))
	}
	if up.Roughness != nil && Finite(*up.Roughness) {
		next.Roughness = mgl32.Clamp(*up.Roughness, 0, 1)
	}
	if up.Metalness != nil && Finite(*up.Metalness) {
		next.Metalness = mgl32.Clamp(*up.Metalness, 0, 1)
	}
	*u.current = next
	return true
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float32) bool { return !math32.IsNaN(v) && !math32.IsInf(v, 0) }
