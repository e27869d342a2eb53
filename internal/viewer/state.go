package viewer

import (
	"encoding/json"
	"fmt"

	"model-viewer/internal/material"
)

// State is a snapshot of the session, sent to remote clients.
type State struct {
	Model       string     `json:"model,omitempty"`
	Loaded      bool       `json:"loaded"`
	Loading     bool       `json:"loading"`
	Environment string     `json:"environment,omitempty"`
	Exposure    float32    `json:"exposure"`
	Color       string     `json:"color,omitempty"`
	ColorName   string     `json:"color_name,omitempty"`
	Roughness   float32    `json:"roughness"`
	Metalness   float32    `json:"metalness"`
	Camera      [3]float32 `json:"camera"`
	Distance    float32    `json:"distance"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
}

// State returns the current snapshot.
func (v *Viewer) State() State {
	s := State{
		Loading:  v.Loading(),
		Exposure: v.exposure,
		Camera:   v.Camera.Position,
		Distance: v.Camera.Distance(),
		Width:    v.width,
		Height:   v.height,
	}
	if v.obj != nil {
		s.Model = v.obj.Path
		s.Loaded = true
	}
	if v.env != nil {
		s.Environment = v.env.Path
	}
	if p, ok := v.Material.Current(); ok {
		s.Color = material.Hex(p.Color)
		s.Roughness = p.Roughness
		s.Metalness = p.Metalness
		if i := v.Material.Swatch(); i >= 0 {
			s.ColorName = material.Palette[i].Name
		}
	}
	return s
}

// JSON encodes the snapshot.
func (s State) JSON() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("viewer: encode state: %w", err)
	}
	return data, nil
}
