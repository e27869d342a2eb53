package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"model-viewer/internal/camera"
	"model-viewer/internal/config"
	"model-viewer/internal/envmap"
	"model-viewer/internal/material"
)

const (
	maxLights   = 4
	skyboxScale = 1000
)

// View is what one frame draws.
type View struct {
	Camera   *camera.Camera
	Position mgl32.Vec3 // model origin
	Material material.Params
	Exposure float32
}

// Scene draws the model and the optional panorama background. GPU uploads
// are deferred to Draw so they run on the render thread after the window
// exists, whenever SetModel or SetEnvironment was called.
type Scene struct {
	log *zap.Logger

	showEnv bool
	rig     rig

	model        rl.Model
	modelLoaded  bool
	modelPending string

	surface rl.Material
	locs    surfaceLocs

	envTex     rl.Texture2D
	envBlur    rl.Texture2D
	envLoaded  bool
	envPending *envmap.Panorama

	skyboxMesh      rl.Mesh
	skyboxMtl       rl.Material
	skyboxLoaded    bool
	skyboxCamPosLoc int32
	skyboxTexLoc    int32
	skyboxExpLoc    int32
}

type surfaceLocs struct {
	baseColor, roughness, metalness int32
	viewPos, exposure, hasEnv       int32
	lightCount, lightDir, lightCol  int32
	ambient                         int32
}

// New returns a scene lit by the configured rig.
func New(cfg config.RenderConfig, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{log: log, showEnv: cfg.ShowEnvironment, rig: newRig(cfg.Lights, log)}
}

// SetModel queues the model file for upload on the next Draw.
func (s *Scene) SetModel(path string) { s.modelPending = path }

// SetEnvironment queues the panorama for upload on the next Draw.
func (s *Scene) SetEnvironment(p *envmap.Panorama) { s.envPending = p }

// ensureSurface builds the shared surface material on first use.
func (s *Scene) ensureSurface() bool {
	if rl.IsShaderValid(s.surface.Shader) {
		return true
	}
	shader := rl.LoadShaderFromMemory(surfaceVS, surfaceFS)
	if !rl.IsShaderValid(shader) {
		return false
	}
	s.surface = rl.LoadMaterialDefault()
	s.surface.Shader = shader
	s.locs = surfaceLocs{
		baseColor:  rl.GetShaderLocation(shader, "baseColor"),
		roughness:  rl.GetShaderLocation(shader, "roughness"),
		metalness:  rl.GetShaderLocation(shader, "metalness"),
		viewPos:    rl.GetShaderLocation(shader, "viewPos"),
		exposure:   rl.GetShaderLocation(shader, "exposure"),
		hasEnv:     rl.GetShaderLocation(shader, "hasEnv"),
		lightCount: rl.GetShaderLocation(shader, "lightCount"),
		lightDir:   rl.GetShaderLocation(shader, "lightDir"),
		lightCol:   rl.GetShaderLocation(shader, "lightColor"),
		ambient:    rl.GetShaderLocation(shader, "ambient"),
	}
	return true
}

func (s *Scene) ensureModelLoaded() {
	if s.modelPending == "" {
		return
	}
	path := s.modelPending
	s.modelPending = ""
	if s.modelLoaded {
		rl.UnloadModel(s.model)
		s.modelLoaded = false
	}
	m := rl.LoadModel(path)
	if !rl.IsModelValid(m) {
		s.log.Warn("model upload failed", zap.String("path", path))
		return
	}
	s.model = m
	s.modelLoaded = true
}

// ensureEnvLoaded uploads the sharp and blurred panorama textures. Radiance
// files are decoded by raylib as float images; the blurred copy is built
// from an 8-bit conversion.
func (s *Scene) ensureEnvLoaded() {
	p := s.envPending
	if p == nil {
		return
	}
	s.envPending = nil
	if s.envLoaded {
		rl.UnloadTexture(s.envTex)
		rl.UnloadTexture(s.envBlur)
		s.envLoaded = false
	}

	var sharp, blurred *rl.Image
	if p.HDR {
		sharp = rl.LoadImage(p.Path)
		if sharp == nil || sharp.Width <= 0 {
			s.log.Warn("environment decode failed", zap.String("path", p.Path))
			return
		}
		ldr := rl.ImageCopy(sharp)
		rl.ImageFormat(ldr, rl.UncompressedR8g8b8a8)
		blurred = rl.NewImageFromImage(envmap.Prefilter(ldr.ToImage(), envmap.DefaultBlurWidth, envmap.DefaultBlurRadius))
		rl.UnloadImage(ldr)
	} else {
		sharp = rl.NewImageFromImage(p.Image)
		blurred = rl.NewImageFromImage(p.Blurred)
	}
	s.envTex = rl.LoadTextureFromImage(sharp)
	s.envBlur = rl.LoadTextureFromImage(blurred)
	if p.HDR {
		rl.UnloadImage(sharp)
	}
	if !rl.IsTextureValid(s.envTex) || !rl.IsTextureValid(s.envBlur) {
		s.log.Warn("environment upload failed", zap.String("path", p.Path))
		return
	}
	rl.SetTextureFilter(s.envTex, rl.FilterBilinear)
	rl.SetTextureFilter(s.envBlur, rl.FilterBilinear)
	rl.SetTextureWrap(s.envTex, rl.WrapRepeat)
	rl.SetTextureWrap(s.envBlur, rl.WrapRepeat)
	s.envLoaded = true
	if s.showEnv {
		s.ensureSkybox()
	}
}

func (s *Scene) ensureSkybox() {
	if s.skyboxLoaded {
		return
	}
	shader := rl.LoadShaderFromMemory(skyboxVS, skyboxFS)
	if !rl.IsShaderValid(shader) {
		return
	}
	s.skyboxMesh = rl.GenMeshCube(1, 1, 1)
	s.skyboxMtl = rl.LoadMaterialDefault()
	s.skyboxMtl.Shader = shader
	s.skyboxCamPosLoc = rl.GetShaderLocation(shader, "cameraPosition")
	s.skyboxTexLoc = rl.GetShaderLocation(shader, "skybox")
	s.skyboxExpLoc = rl.GetShaderLocation(shader, "exposure")
	s.skyboxLoaded = true
}

func toRL(v mgl32.Vec3) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

// Draw renders one frame of the 3D view. Call between BeginDrawing and the
// 2D overlays.
func (s *Scene) Draw(v View) {
	s.ensureModelLoaded()
	s.ensureEnvLoaded()

	cam := rl.Camera3D{
		Position:   toRL(v.Camera.Position),
		Target:     toRL(v.Camera.Target),
		Up:         toRL(v.Camera.Up),
		Fovy:       v.Camera.Fovy,
		Projection: rl.CameraPerspective,
	}
	rl.BeginMode3D(cam)
	if s.skyboxLoaded && s.envLoaded {
		s.drawSkybox(cam.Position, v.Exposure)
	}
	if s.modelLoaded && s.ensureSurface() {
		s.setUniforms(v)
		transform := rl.MatrixMultiply(s.model.Transform, rl.MatrixTranslate(v.Position[0], v.Position[1], v.Position[2]))
		for _, mesh := range s.model.GetMeshes() {
			rl.DrawMesh(mesh, s.surface, transform)
		}
	}
	rl.EndMode3D()
}

// setUniforms pushes the material, lights and environment for this frame
// (cgo-safe: local arrays).
func (s *Scene) setUniforms(v View) {
	sh := s.surface.Shader
	lin := v.Material.Linear()
	base := [3]float32{lin[0], lin[1], lin[2]}
	viewPos := [3]float32{v.Camera.Position[0], v.Camera.Position[1], v.Camera.Position[2]}
	rl.SetShaderValue(sh, s.locs.baseColor, base[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(sh, s.locs.roughness, []float32{v.Material.Roughness}, rl.ShaderUniformFloat)
	rl.SetShaderValue(sh, s.locs.metalness, []float32{v.Material.Metalness}, rl.ShaderUniformFloat)
	rl.SetShaderValue(sh, s.locs.viewPos, viewPos[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(sh, s.locs.exposure, []float32{v.Exposure}, rl.ShaderUniformFloat)
	rl.SetShaderValue(sh, s.locs.ambient, s.rig.ambient[:], rl.ShaderUniformVec3)
	rl.SetShaderValue(sh, s.locs.lightCount, []float32{float32(s.rig.count)}, rl.ShaderUniformFloat)
	if s.rig.count > 0 {
		rl.SetShaderValueV(sh, s.locs.lightDir, s.rig.dir[:s.rig.count*3], rl.ShaderUniformVec3, s.rig.count)
		rl.SetShaderValueV(sh, s.locs.lightCol, s.rig.color[:s.rig.count*3], rl.ShaderUniformVec3, s.rig.count)
	}
	hasEnv := float32(0)
	if s.envLoaded {
		hasEnv = 1
		rl.SetMaterialTexture(&s.surface, rl.MapMetalness, s.envTex)
		rl.SetMaterialTexture(&s.surface, rl.MapNormal, s.envBlur)
	}
	rl.SetShaderValue(sh, s.locs.hasEnv, []float32{hasEnv}, rl.ShaderUniformFloat)
}

// drawSkybox draws the panorama on a large cube centered on the camera.
func (s *Scene) drawSkybox(pos rl.Vector3, exposure float32) {
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	scale := rl.MatrixScale(skyboxScale, skyboxScale, skyboxScale)
	trans := rl.MatrixTranslate(pos.X, pos.Y, pos.Z)
	camPos := []float32{pos.X, pos.Y, pos.Z}
	rl.SetShaderValueV(s.skyboxMtl.Shader, s.skyboxCamPosLoc, camPos, rl.ShaderUniformVec3, 1)
	rl.SetShaderValue(s.skyboxMtl.Shader, s.skyboxExpLoc, []float32{exposure}, rl.ShaderUniformFloat)
	rl.SetShaderValueTexture(s.skyboxMtl.Shader, s.skyboxTexLoc, s.envTex)
	rl.DrawMesh(s.skyboxMesh, s.skyboxMtl, rl.MatrixMultiply(scale, trans))
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
}

// Unload frees GPU resources. Call before the window closes.
func (s *Scene) Unload() {
	if s.modelLoaded {
		rl.UnloadModel(s.model)
		s.modelLoaded = false
	}
	if s.envLoaded {
		rl.UnloadTexture(s.envTex)
		rl.UnloadTexture(s.envBlur)
		s.envLoaded = false
	}
	if rl.IsShaderValid(s.surface.Shader) {
		rl.UnloadShader(s.surface.Shader)
	}
	if s.skyboxLoaded {
		rl.UnloadShader(s.skyboxMtl.Shader)
		rl.UnloadMesh(&s.skyboxMesh)
	}
}
