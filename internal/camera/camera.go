package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Defaults match a narrow product-shot lens.
const (
	DefaultFovy = 25
	DefaultNear = 0.01
	DefaultFar  = 1000
)

// Camera is a perspective camera. Fovy is the vertical field of view in degrees.
type Camera struct {
	Fovy     float32
	Aspect   float32
	Near     float32
	Far      float32
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

// New returns a camera with the default lens looking down -Z from the origin.
func New(aspect float32) *Camera {
	return &Camera{
		Fovy:   DefaultFovy,
		Aspect: aspect,
		Near:   DefaultNear,
		Far:    DefaultFar,
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
	}
}

// SetPosition moves the camera without changing where it looks.
func (c *Camera) SetPosition(p mgl32.Vec3) { c.Position = p }

// LookAt points the camera at target.
func (c *Camera) LookAt(target mgl32.Vec3) { c.Target = target }

// SetViewport recomputes the aspect ratio from a surface size in pixels.
// A zero height leaves the aspect unchanged.
func (c *Camera) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.Aspect = float32(width) / float32(height)
	return true
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float32 { return c.Position.Sub(c.Target).Len() }

// FovyRadians returns the vertical field of view in radians.
func (c *Camera) FovyRadians() float32 { return mgl32.DegToRad(c.Fovy) }

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 { return mgl32.LookAtV(c.Position, c.Target, c.Up) }

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.FovyRadians(), c.Aspect, c.Near, c.Far)
}
