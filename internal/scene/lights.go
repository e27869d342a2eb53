package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"model-viewer/internal/config"
	"model-viewer/internal/material"
)

// rig is the lighting in shader layout: up to maxLights directional lights
// as packed vec3 arrays plus one summed ambient color. Colors are linear
// intensities (color * intensity).
type rig struct {
	count   int32
	dir     [maxLights * 3]float32
	color   [maxLights * 3]float32
	ambient [3]float32
}

func newRig(lights []config.Light, log *zap.Logger) rig {
	var r rig
	for _, l := range lights {
		c, err := material.ParseHex(l.Color)
		if err != nil {
			log.Warn("light color ignored", zap.String("color", l.Color), zap.Error(err))
			c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		rgb := mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}.Mul(l.Intensity / 255)
		switch l.Kind {
		case "ambient":
			r.ambient[0] += rgb[0]
			r.ambient[1] += rgb[1]
			r.ambient[2] += rgb[2]
		case "directional":
			if r.count == maxLights {
				log.Warn("too many directional lights", zap.Int("max", maxLights))
				continue
			}
			// lights point at the origin, so the direction to the light is
			// its position
			dir := mgl32.Vec3(l.Position)
			if dir.Len() == 0 {
				dir = mgl32.Vec3{0, 1, 0}
			}
			dir = dir.Normalize()
			i := r.count * 3
			copy(r.dir[i:i+3], dir[:])
			copy(r.color[i:i+3], rgb[:])
			r.count++
		}
	}
	return r
}
