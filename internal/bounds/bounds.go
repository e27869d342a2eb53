package bounds

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Box is an axis-aligned bounding box. The zero value is not empty: use Empty
// to start accumulating points.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Empty returns a box that contains nothing. Extending it with a point yields
// a zero-size box at that point.
func Empty() Box {
	inf := math32.Inf(1)
	return Box{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// FromMinMax builds a box from two corners, ordering each axis.
func FromMinMax(a, b mgl32.Vec3) Box {
	box := Empty()
	box.ExtendPoint(a)
	box.ExtendPoint(b)
	return box
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExtendPoint grows the box to include p.
func (b *Box) ExtendPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Union grows the box to include o. Empty boxes are ignored.
func (b *Box) Union(o Box) {
	if o.IsEmpty() {
		return
	}
	b.ExtendPoint(o.Min)
	b.ExtendPoint(o.Max)
}

// Center returns the midpoint. Zero for empty boxes.
func (b Box) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis. Zero for empty boxes.
func (b Box) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// MaxDim returns the largest extent among the three axes.
func (b Box) MaxDim() float32 {
	s := b.Size()
	return max(s[0], s[1], s[2])
}

// Translate returns the box moved by d.
func (b Box) Translate(d mgl32.Vec3) Box {
	if b.IsEmpty() {
		return b
	}
	return Box{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Transform returns the box enclosing the eight corners of b under m.
func (b Box) Transform(m mgl32.Mat4) Box {
	if b.IsEmpty() {
		return b
	}
	out := Empty()
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out.ExtendPoint(m.Mul4x1(c.Vec4(1)).Vec3())
	}
	return out
}
