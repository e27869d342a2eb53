package bounds

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestEmpty(t *testing.T) {
	b := Empty()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, mgl32.Vec3{}, b.Size())
	assert.Equal(t, mgl32.Vec3{}, b.Center())
	assert.Equal(t, float32(0), b.MaxDim())
}

func TestExtendPoint(t *testing.T) {
	b := Empty()
	b.ExtendPoint(mgl32.Vec3{1, 2, 3})
	assert.False(t, b.IsEmpty())
	assert.Equal(t, mgl32.Vec3{}, b.Size())

	b.ExtendPoint(mgl32.Vec3{-1, 4, 0})
	assert.Equal(t, mgl32.Vec3{-1, 2, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 4, 3}, b.Max)
	assert.Equal(t, mgl32.Vec3{0, 3, 1.5}, b.Center())
	assert.Equal(t, float32(3), b.MaxDim())
}

func TestUnionIgnoresEmpty(t *testing.T) {
	b := FromMinMax(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	b.Union(Empty())
	assert.Equal(t, FromMinMax(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}), b)

	b.Union(FromMinMax(mgl32.Vec3{2, -1, 0}, mgl32.Vec3{3, 0, 0}))
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{3, 1, 1}, b.Max)
}

func TestFromMinMaxOrdersAxes(t *testing.T) {
	b := FromMinMax(mgl32.Vec3{1, -2, 3}, mgl32.Vec3{-1, 2, -3})
	assert.Equal(t, mgl32.Vec3{-1, -2, -3}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, b.Max)
}

func TestTransform(t *testing.T) {
	b := FromMinMax(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	moved := b.Transform(mgl32.Translate3D(5, 0, 0).Mul4(mgl32.Scale3D(2, 1, 1)))
	assert.InDelta(t, 3, moved.Min[0], 1e-5)
	assert.InDelta(t, 7, moved.Max[0], 1e-5)
	assert.InDelta(t, 2, moved.Size()[1], 1e-5)

	rotated := FromMinMax(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 1, 1}).
		Transform(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	size := rotated.Size()
	assert.InDelta(t, 1, size[0], 1e-5)
	assert.InDelta(t, 1, size[1], 1e-5)
	assert.InDelta(t, 2, size[2], 1e-5)

	assert.True(t, Empty().Transform(mgl32.Ident4()).IsEmpty())
}

func TestTranslate(t *testing.T) {
	b := FromMinMax(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2}).Translate(mgl32.Vec3{-1, -1, -1})
	assert.Equal(t, mgl32.Vec3{}, b.Center())
}
