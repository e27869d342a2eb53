// Package framing positions a camera so a loaded object fills the view.
package framing

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"model-viewer/internal/bounds"
	"model-viewer/internal/camera"
	"model-viewer/internal/orbit"
)

const (
	// Margin keeps the object off the viewport edges.
	Margin = 1.5
	// MinDistance is the smallest camera distance Fit will produce. Point-like
	// or flat-to-a-point geometry would otherwise put the camera inside it.
	MinDistance = 0.1
	// maxDistanceSlack is how far past the framed distance the controls may zoom out.
	maxDistanceSlack = 2
)

var (
	ErrEmptyBounds = errors.New("framing: object has no geometry")
	ErrInvalidFOV  = errors.New("framing: field of view must be in (0, 180) degrees")
)

// Object is anything with world-space bounds that can be moved.
type Object interface {
	Bounds() bounds.Box
	Translate(d mgl32.Vec3)
}

// Result describes a completed framing.
type Result struct {
	Center   mgl32.Vec3
	Size     mgl32.Vec3
	MaxDim   float32
	Distance float32
	Clamped  bool
}

func (r Result) String() string {
	return fmt.Sprintf("center=%v size=%v maxDim=%.4g distance=%.4g clamped=%t",
		r.Center, r.Size, r.MaxDim, r.Distance, r.Clamped)
}

// Distance returns the camera distance that fits an extent of maxDim in a
// vertical field of view of fovy degrees, including Margin. The result is
// never below MinDistance; clamped reports whether the floor applied.
func Distance(maxDim, fovy float32) (d float32, clamped bool) {
	half := mgl32.DegToRad(fovy) / 2
	d = maxDim / math32.Tan(half) * Margin
	if !(d >= MinDistance) {
		return MinDistance, true
	}
	return d, false
}

// Fit re-centers obj on the world origin, places cam on the +Z axis at the
// fitting distance looking at the origin, and retargets ctl on the origin.
// ctl may be nil. On error nothing is mutated.
func Fit(obj Object, cam *camera.Camera, ctl *orbit.Controls) (Result, error) {
	if cam.Fovy <= 0 || cam.Fovy >= 180 {
		return Result{}, ErrInvalidFOV
	}
	box := obj.Bounds()
	if box.IsEmpty() {
		return Result{}, ErrEmptyBounds
	}

	res := Result{Center: box.Center(), Size: box.Size()}
	obj.Translate(res.Center.Mul(-1))

	res.MaxDim = box.MaxDim()
	res.Distance, res.Clamped = Distance(res.MaxDim, cam.Fovy)

	origin := mgl32.Vec3{}
	cam.SetPosition(mgl32.Vec3{0, 0, res.Distance})
	cam.LookAt(origin)

	if ctl != nil {
		ctl.SetTarget(origin)
		if res.Distance > ctl.MaxDistance {
			ctl.MaxDistance = res.Distance * maxDistanceSlack
		}
		if res.Distance < ctl.MinDistance {
			ctl.MinDistance = res.Distance
		}
		ctl.Update(cam)
	}
	return res, nil
}
