package viewer

import (
	"fmt"
	"strconv"
	"strings"

	"model-viewer/internal/commands"
	"model-viewer/internal/material"
)

func (v *Viewer) registerCommands() *commands.Registry {
	r := commands.NewRegistry()
	r.Register("color", "<name|#hex>", nil, v.cmdColor)
	r.Register("roughness", "<0..1>", nil, func(args []string) (string, error) {
		return v.cmdScalar("roughness", args, v.SetRoughness)
	})
	r.Register("metalness", "<0..1>", nil, func(args []string) (string, error) {
		return v.cmdScalar("metalness", args, v.SetMetalness)
	})
	r.Register("frame", "", nil, func([]string) (string, error) {
		if err := v.Frame(); err != nil {
			return "", err
		}
		return v.framed.String(), nil
	})
	r.Register("state", "", nil, func([]string) (string, error) {
		data, err := v.State().JSON()
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	r.Register("help", "", nil, func([]string) (string, error) {
		return r.Help(), nil
	})
	return r
}

func (v *Viewer) cmdColor(args []string) (string, error) {
	key := strings.Join(args, " ")
	if key == "" {
		return "", fmt.Errorf("color: missing name")
	}
	s, ok := material.Lookup(key)
	if !ok {
		return "", fmt.Errorf("color: %q is not in the palette", key)
	}
	if !v.SelectColor(s) {
		return "", ErrNoModel
	}
	return s.Title(), nil
}

func (v *Viewer) cmdScalar(name string, args []string, set func(float32) bool) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s: want one value", name)
	}
	x, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if !material.Finite(float32(x)) {
		return "", fmt.Errorf("%s: %q is not a finite number", name, args[0])
	}
	if !set(float32(x)) {
		return "", ErrNoModel
	}
	p, _ := v.Material.Current()
	if name == "roughness" {
		return strconv.FormatFloat(float64(p.Roughness), 'f', 2, 32), nil
	}
	return strconv.FormatFloat(float64(p.Metalness), 'f', 2, 32), nil
}
