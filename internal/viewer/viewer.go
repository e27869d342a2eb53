// Package viewer holds the state of one viewing session: camera, orbit
// controls, the loaded model, its material and the environment map. All
// mutation goes through a *Viewer on the render goroutine; background loads
// hand their results back through futures that Poll collects.
package viewer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"model-viewer/internal/archive"
	"model-viewer/internal/camera"
	"model-viewer/internal/commands"
	"model-viewer/internal/config"
	"model-viewer/internal/envmap"
	"model-viewer/internal/framing"
	"model-viewer/internal/loader"
	"model-viewer/internal/material"
	"model-viewer/internal/model"
	"model-viewer/internal/orbit"
)

// ErrNoModel is returned by operations that need a loaded model.
var ErrNoModel = errors.New("viewer: no model loaded")

// Surface is the render target resized along with the camera.
type Surface interface {
	SetSize(width, height int)
}

// Resolver turns a model or environment reference into a local file path.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Viewer is the session context.
type Viewer struct {
	Camera   *camera.Camera
	Controls *orbit.Controls
	Material *material.Updater

	// Replaceable before Start, e.g. in tests.
	LoadModel func(path string) (*model.Object, error)
	LoadEnv   func(path string) (*envmap.Panorama, error)

	// Called from Poll once a load succeeds, so GPU resources can be created
	// on the render goroutine.
	OnModel func(*model.Object)
	OnEnv   func(*envmap.Panorama)

	cfg      *config.Config
	log      *zap.Logger
	resolver Resolver
	surface  Surface
	cmds     *commands.Registry

	width, height int
	exposure      float32

	obj    *model.Object
	env    *envmap.Panorama
	framed framing.Result

	modelF *loader.Future[*model.Object]
	envF   *loader.Future[*envmap.Panorama]
	cancel context.CancelFunc
}

// New builds a viewer from cfg. surface may be nil.
func New(cfg *config.Config, log *zap.Logger, resolver Resolver, surface Surface) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	w, h := cfg.Window.Width, cfg.Window.Height

	cam := camera.New(1)
	cam.SetViewport(w, h)
	cam.Fovy = cfg.Camera.Fovy
	cam.Near = cfg.Camera.Near
	cam.Far = cfg.Camera.Far
	cam.SetPosition(mgl32.Vec3{0, 0, cfg.Controls.MaxDistance})
	cam.LookAt(mgl32.Vec3{})

	ctl := orbit.New()
	ctl.EnableDamping = cfg.Controls.Damping
	ctl.DampingFactor = cfg.Controls.DampingFactor
	ctl.MinDistance = cfg.Controls.MinDistance
	ctl.MaxDistance = cfg.Controls.MaxDistance
	ctl.RotateSpeed = cfg.Controls.RotateSpeed
	ctl.ZoomSpeed = cfg.Controls.ZoomSpeed

	mat := material.NewUpdater()
	mat.PreserveOnColor = cfg.Panel.PreserveOnColor

	v := &Viewer{
		Camera:    cam,
		Controls:  ctl,
		Material:  mat,
		LoadModel: model.Load,
		LoadEnv:   envmap.Load,
		cfg:       cfg,
		log:       log,
		resolver:  resolver,
		surface:   surface,
		width:     w,
		height:    h,
		exposure:  cfg.Render.Exposure,
	}
	v.cmds = v.registerCommands()
	return v
}

// Start launches the model and environment loads. Each has the configured
// timeout; the parent ctx cancels both.
func (v *Viewer) Start(ctx context.Context) {
	ctx, v.cancel = context.WithCancel(ctx)
	timeout := v.cfg.Assets.Timeout

	ref := v.cfg.Assets.Model
	v.log.Info("loading model", zap.String("ref", ref), zap.Duration("timeout", timeout))
	v.modelF = loader.Go(ctx, "model", timeout, func(ctx context.Context) (*model.Object, error) {
		path, err := v.resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		if archive.IsZip(path) {
			if path, err = v.unpack(path); err != nil {
				return nil, err
			}
		}
		return v.LoadModel(path)
	})

	if ref := v.cfg.Assets.Environment; ref != "" {
		v.log.Info("loading environment", zap.String("ref", ref))
		v.envF = loader.Go(ctx, "environment", timeout, func(ctx context.Context) (*envmap.Panorama, error) {
			path, err := v.resolve(ctx, ref)
			if err != nil {
				return nil, err
			}
			return v.LoadEnv(path)
		})
	}
}

func (v *Viewer) resolve(ctx context.Context, ref string) (string, error) {
	if v.resolver == nil {
		return ref, nil
	}
	return v.resolver.Resolve(ctx, ref)
}

// unpack extracts a zipped model bundle beside the cache and returns the
// model file inside it.
func (v *Viewer) unpack(zipPath string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
	files, err := archive.Unzip(zipPath, filepath.Join(v.cfg.Assets.CacheDir, name))
	if err != nil {
		return "", err
	}
	path, err := archive.FindModel(files)
	if err != nil {
		return "", err
	}
	v.log.Debug("model unpacked", zap.String("archive", zipPath), zap.String("model", path))
	return path, nil
}

// Stop cancels outstanding loads.
func (v *Viewer) Stop() {
	if v.cancel != nil {
		v.cancel()
	}
}

// Loading reports whether any load is still outstanding.
func (v *Viewer) Loading() bool { return v.modelF != nil || v.envF != nil }

// Poll collects finished loads without blocking. Call once per frame.
func (v *Viewer) Poll() {
	if v.modelF != nil {
		if obj, err, ok := v.modelF.Poll(); ok {
			v.modelF = nil
			if err != nil {
				v.log.Warn("model load failed", zap.Error(err))
			} else {
				v.adoptModel(obj)
			}
		}
	}
	if v.envF != nil {
		if pano, err, ok := v.envF.Poll(); ok {
			v.envF = nil
			if err != nil {
				v.log.Warn("environment load failed", zap.Error(err))
			} else {
				v.adoptEnv(pano)
			}
		}
	}
}

func (v *Viewer) adoptModel(obj *model.Object) {
	v.obj = obj
	if err := v.Frame(); err != nil {
		v.log.Warn("model not framed", zap.String("path", obj.Path), zap.Error(err))
	}
	if obj.HasMesh() {
		v.Material.Bind(material.Palette[0])
	}
	v.log.Info("model loaded", zap.String("path", obj.Path), zap.Int("meshes", len(obj.Meshes())))
	if v.OnModel != nil {
		v.OnModel(obj)
	}
}

func (v *Viewer) adoptEnv(p *envmap.Panorama) {
	v.env = p
	v.exposure = v.cfg.Render.EnvExposure
	v.log.Info("environment loaded",
		zap.String("path", p.Path), zap.Int("width", p.Width), zap.Int("height", p.Height),
		zap.Float32("exposure", v.exposure))
	if v.OnEnv != nil {
		v.OnEnv(p)
	}
}

// Model returns the loaded model, or nil.
func (v *Viewer) Model() *model.Object { return v.obj }

// Environment returns the loaded panorama, or nil.
func (v *Viewer) Environment() *envmap.Panorama { return v.env }

// Exposure is the tone-mapping exposure.
func (v *Viewer) Exposure() float32 { return v.exposure }

// Size returns the current surface size.
func (v *Viewer) Size() (int, int) { return v.width, v.height }

// Framed returns the last framing result.
func (v *Viewer) Framed() framing.Result { return v.framed }

// Frame centers the model and fits the camera to it.
func (v *Viewer) Frame() error {
	if v.obj == nil {
		return ErrNoModel
	}
	res, err := framing.Fit(v.obj, v.Camera, v.Controls)
	if err != nil {
		return err
	}
	v.framed = res
	v.log.Info("framed", zap.Stringer("result", res))
	return nil
}

// Resize updates the camera aspect and the surface size. The camera
// position is unchanged. Non-positive sizes are ignored.
func (v *Viewer) Resize(width, height int) bool {
	if !v.Camera.SetViewport(width, height) {
		return false
	}
	v.width, v.height = width, height
	if v.surface != nil {
		v.surface.SetSize(width, height)
	}
	return true
}

// SelectColor applies a palette swatch.
func (v *Viewer) SelectColor(s material.Swatch) bool { return v.Material.Select(s) }

// SetRoughness changes the roughness; a no-op before the model loads.
func (v *Viewer) SetRoughness(x float32) bool { return v.Material.SetRoughness(x) }

// SetMetalness changes the metalness; a no-op before the model loads.
func (v *Viewer) SetMetalness(x float32) bool { return v.Material.SetMetalness(x) }

// Rotate queues an orbit for a pointer drag in pixels.
func (v *Viewer) Rotate(dx, dy float32) { v.Controls.Rotate(dx, dy, v.height) }

// Zoom queues a dolly for a wheel movement.
func (v *Viewer) Zoom(wheel float32) { v.Controls.Zoom(wheel) }

// Tick advances the orbit controls by one frame.
func (v *Viewer) Tick() bool { return v.Controls.Update(v.Camera) }

// Exec runs one text command, as typed into the remote console.
func (v *Viewer) Exec(line string) (string, error) { return v.cmds.ExecuteLine(line) }
