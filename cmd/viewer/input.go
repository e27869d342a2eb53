package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"model-viewer/internal/panel"
	"model-viewer/internal/viewer"
)

// input routes mouse events: the panel sees them first, and a left drag that
// started outside the panel orbits the camera.
type input struct {
	orbiting bool
}

func (in *input) update(v *viewer.Viewer, p *panel.Panel) {
	m := rl.GetMousePosition()
	ptr := panel.Pointer{
		X:        m.X,
		Y:        m.Y,
		Down:     rl.IsMouseButtonDown(rl.MouseButtonLeft),
		Pressed:  rl.IsMouseButtonPressed(rl.MouseButtonLeft),
		Released: rl.IsMouseButtonReleased(rl.MouseButtonLeft),
	}
	consumed := p.Handle(ptr)

	if ptr.Pressed {
		in.orbiting = !consumed
	}
	if !ptr.Down {
		in.orbiting = false
	}
	if in.orbiting {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			v.Rotate(d.X, d.Y)
		}
	}
	if !p.Bounds.Contains(m.X, m.Y) {
		if w := rl.GetMouseWheelMove(); w != 0 {
			v.Zoom(w)
		}
	}
}
