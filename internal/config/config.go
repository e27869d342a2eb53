// Package config holds viewer settings.
//
// Precedence: Default, then the YAML file, then VIEWER_* environment
// variables (a .env file is loaded into the environment first), then
// command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Path is the default config file, relative to the working directory.
const Path = "config/viewer.yaml"

// EnvPrefix prefixes environment overrides, e.g. VIEWER_ASSETS_MODEL.
const EnvPrefix = "VIEWER"

type Config struct {
	Window   WindowConfig   `yaml:"window" env:"WINDOW"`
	Camera   CameraConfig   `yaml:"camera" env:"CAMERA"`
	Controls ControlsConfig `yaml:"controls" env:"CONTROLS"`
	Assets   AssetsConfig   `yaml:"assets" env:"ASSETS"`
	Render   RenderConfig   `yaml:"render" env:"RENDER"`
	Panel    PanelConfig    `yaml:"panel" env:"PANEL"`
	Remote   RemoteConfig   `yaml:"remote" env:"REMOTE"`
	Debug    DebugConfig    `yaml:"debug" env:"DEBUG"`
	Log      LogConfig      `yaml:"log" env:"LOG"`
}

type WindowConfig struct {
	Title     string `yaml:"title" env:"TITLE"`
	Width     int    `yaml:"width" env:"WIDTH"`
	Height    int    `yaml:"height" env:"HEIGHT"`
	MSAA      bool   `yaml:"msaa" env:"MSAA"`
	TargetFPS int    `yaml:"target_fps" env:"TARGET_FPS"`
}

type CameraConfig struct {
	Fovy float32 `yaml:"fovy" env:"FOVY"`
	Near float32 `yaml:"near" env:"NEAR"`
	Far  float32 `yaml:"far" env:"FAR"`
}

type ControlsConfig struct {
	Damping       bool    `yaml:"damping" env:"DAMPING"`
	DampingFactor float32 `yaml:"damping_factor" env:"DAMPING_FACTOR"`
	MinDistance   float32 `yaml:"min_distance" env:"MIN_DISTANCE"`
	MaxDistance   float32 `yaml:"max_distance" env:"MAX_DISTANCE"`
	RotateSpeed   float32 `yaml:"rotate_speed" env:"ROTATE_SPEED"`
	ZoomSpeed     float32 `yaml:"zoom_speed" env:"ZOOM_SPEED"`
}

// AssetsConfig names the model and environment panorama. Either may be a
// local path or an http(s) URL; an empty environment disables it.
type AssetsConfig struct {
	Model       string        `yaml:"model" env:"MODEL"`
	Environment string        `yaml:"environment" env:"ENVIRONMENT"`
	CacheDir    string        `yaml:"cache_dir" env:"CACHE_DIR"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

type RenderConfig struct {
	Background      string  `yaml:"background" env:"BACKGROUND"`
	Exposure        float32 `yaml:"exposure" env:"EXPOSURE"`
	EnvExposure     float32 `yaml:"env_exposure" env:"ENV_EXPOSURE"`
	// ShowEnvironment draws the panorama behind the model instead of the
	// flat background.
	ShowEnvironment bool    `yaml:"show_environment" env:"SHOW_ENVIRONMENT"`
	Lights          []Light `yaml:"lights" env:"-"`
}

// Light is one entry of the lighting rig. Kind is "directional" or "ambient";
// Position is ignored for ambient lights.
type Light struct {
	Kind      string     `yaml:"kind"`
	Color     string     `yaml:"color"`
	Intensity float32    `yaml:"intensity"`
	Position  [3]float32 `yaml:"position,flow"`
}

type PanelConfig struct {
	Title           string `yaml:"title" env:"TITLE"`
	PreserveOnColor bool   `yaml:"preserve_on_color" env:"PRESERVE_ON_COLOR"`
	Stylesheet      string `yaml:"stylesheet,omitempty" env:"STYLESHEET"`
	// Font is a font file or a family name found under assets/fonts; empty
	// uses raylib's built-in font.
	Font            string `yaml:"font,omitempty" env:"FONT"`
}

// RemoteConfig enables the websocket control surface when Addr is set.
type RemoteConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

type DebugConfig struct {
	ShowFPS      bool `yaml:"show_fps" env:"SHOW_FPS"`
	ShowMemAlloc bool `yaml:"show_memalloc" env:"SHOW_MEMALLOC"`
	ShowLog      bool `yaml:"show_log" env:"SHOW_LOG"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	Path  string `yaml:"path" env:"PATH"`
}

// Default returns the stock viewer: the teapot under the metro panorama
// with a three-light rig.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "Model Viewer",
			Width:     1280,
			Height:    720,
			MSAA:      true,
			TargetFPS: 60,
		},
		Camera: CameraConfig{Fovy: 25, Near: 0.01, Far: 1000},
		Controls: ControlsConfig{
			Damping:       true,
			DampingFactor: 0.05,
			MinDistance:   0.1,
			MaxDistance:   5,
			RotateSpeed:   1,
			ZoomSpeed:     1,
		},
		Assets: AssetsConfig{
			Model:       "./teapot.glb",
			Environment: "https://dl.polyhaven.org/file/ph-assets/HDRIs/hdr/1k/metro_noord_1k.hdr",
			CacheDir:    "cache",
			Timeout:     60 * time.Second,
		},
		Render: RenderConfig{
			Background:  "#1e1e1e",
			Exposure:    1.0,
			EnvExposure: 0.8,
			Lights: []Light{
				{Kind: "directional", Color: "#ffffff", Intensity: 1.5, Position: [3]float32{5, 5, 2}},
				{Kind: "directional", Color: "#e6e6ff", Intensity: 0.7, Position: [3]float32{-5, 3, 2}},
				{Kind: "directional", Color: "#ffffff", Intensity: 1.2, Position: [3]float32{0, 5, -5}},
				{Kind: "ambient", Color: "#ffffff", Intensity: 1.0},
			},
		},
		Panel: PanelConfig{Title: "Teapot Color"},
		Log:   LogConfig{Level: "info", Path: "logs/viewer.log"},
	}
}

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := ApplyEnv(cfg, EnvPrefix); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Camera.Fovy <= 0 || c.Camera.Fovy >= 180:
		return fmt.Errorf("config: camera.fovy %v out of (0, 180)", c.Camera.Fovy)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("config: camera near/far %v/%v", c.Camera.Near, c.Camera.Far)
	case c.Controls.MinDistance <= 0 || c.Controls.MaxDistance < c.Controls.MinDistance:
		return fmt.Errorf("config: controls distance range %v..%v", c.Controls.MinDistance, c.Controls.MaxDistance)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window %dx%d", c.Window.Width, c.Window.Height)
	case c.Assets.Model == "":
		return errors.New("config: assets.model is empty")
	}
	for i, l := range c.Render.Lights {
		if l.Kind != "directional" && l.Kind != "ambient" {
			return fmt.Errorf("config: render.lights[%d]: unknown kind %q", i, l.Kind)
		}
	}
	return nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
