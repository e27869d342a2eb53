// Package orbit rotates and zooms a camera around a fixed target point.
//
// Input handlers only accumulate deltas; Update applies them to the camera.
// With damping enabled, each Update applies a fraction of the pending deltas
// and decays the rest, so the camera keeps gliding for a few frames after the
// pointer is released. Update must therefore run every frame.
package orbit

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"model-viewer/internal/camera"
)

const (
	DefaultDampingFactor = 0.05
	DefaultMinDistance   = 0.1
	DefaultMaxDistance   = 5

	// polar angle stays off the poles so the up vector never aligns with the view
	polarEpsilon = 1e-6
	// deltas below this are treated as settled
	settleEpsilon = 1e-6
)

// Controls orbits a camera around Target.
type Controls struct {
	Target        mgl32.Vec3
	EnableDamping bool
	DampingFactor float32
	MinDistance   float32
	MaxDistance   float32
	RotateSpeed   float32
	ZoomSpeed     float32

	thetaDelta float32
	phiDelta   float32
	scale      float32
}

// New returns controls with damping on and the default distance limits.
func New() *Controls {
	return &Controls{
		EnableDamping: true,
		DampingFactor: DefaultDampingFactor,
		MinDistance:   DefaultMinDistance,
		MaxDistance:   DefaultMaxDistance,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		scale:         1,
	}
}

// SetTarget moves the pivot point.
func (c *Controls) SetTarget(t mgl32.Vec3) { c.Target = t }

// Rotate queues a rotation for a pointer drag of (dx, dy) pixels on a
// viewport viewportHeight pixels tall. A drag across the full height turns a
// full circle.
func (c *Controls) Rotate(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float32(viewportHeight)
	c.thetaDelta -= 2 * math32.Pi * dx / h * c.RotateSpeed
	c.phiDelta -= 2 * math32.Pi * dy / h * c.RotateSpeed
}

// Zoom queues a dolly for a wheel movement. Positive wheel values move closer.
func (c *Controls) Zoom(wheel float32) {
	if wheel == 0 {
		return
	}
	step := math32.Pow(0.95, c.ZoomSpeed*math32.Abs(wheel))
	if wheel > 0 {
		c.scale *= step
	} else {
		c.scale /= step
	}
}

// Settled reports whether no rotation is pending.
func (c *Controls) Settled() bool {
	return math32.Abs(c.thetaDelta) < settleEpsilon && math32.Abs(c.phiDelta) < settleEpsilon && c.scale == 1
}

// Update applies pending input to cam, clamps the distance to
// [MinDistance, MaxDistance], and points cam at Target. It reports whether
// the camera moved.
func (c *Controls) Update(cam *camera.Camera) bool {
	before := cam.Position
	offset := cam.Position.Sub(c.Target)

	radius := offset.Len()
	theta := math32.Atan2(offset[0], offset[2])
	phi := float32(0)
	if radius > 0 {
		phi = math32.Acos(mgl32.Clamp(offset[1]/radius, -1, 1))
	}

	if c.EnableDamping {
		theta += c.thetaDelta * c.DampingFactor
		phi += c.phiDelta * c.DampingFactor
	} else {
		theta += c.thetaDelta
		phi += c.phiDelta
	}
	phi = mgl32.Clamp(phi, polarEpsilon, math32.Pi-polarEpsilon)

	if c.scale == 0 {
		c.scale = 1
	}
	radius *= c.scale
	radius = mgl32.Clamp(radius, c.MinDistance, c.MaxDistance)

	sinPhi := math32.Sin(phi)
	offset = mgl32.Vec3{
		radius * sinPhi * math32.Sin(theta),
		radius * math32.Cos(phi),
		radius * sinPhi * math32.Cos(theta),
	}
	cam.SetPosition(c.Target.Add(offset))
	cam.LookAt(c.Target)

	c.scale = 1
	if c.EnableDamping {
		c.thetaDelta *= 1 - c.DampingFactor
		c.phiDelta *= 1 - c.DampingFactor
		if c.Settled() {
			c.thetaDelta, c.phiDelta = 0, 0
		}
	} else {
		c.thetaDelta, c.phiDelta = 0, 0
	}

	return cam.Position.Sub(before).Len() > settleEpsilon
}
