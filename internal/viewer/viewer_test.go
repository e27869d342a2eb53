package viewer

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"model-viewer/internal/config"
	"model-viewer/internal/envmap"
	"model-viewer/internal/loader"
	"model-viewer/internal/model"
)

// boxObject is a single mesh spanning (2,-0.5,-2)..(4,0.5,2): size (2,1,4)
// centered on (3,0,0).
func boxObject(t *testing.T) *model.Object {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{2, -0.5, -2}, {4, -0.5, -2}, {4, 0.5, -2}, {2, 0.5, -2},
		{2, -0.5, 2}, {4, -0.5, 2}, {4, 0.5, 2}, {2, 0.5, 2},
	})
	doc.Meshes = []*gltf.Mesh{{
		Name:       "Teapot",
		Primitives: []*gltf.Primitive{{Attributes: map[string]uint32{gltf.POSITION: uint32(pos)}}},
	}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []uint32{0}
	obj, err := model.FromDocument(doc)
	require.NoError(t, err)
	obj.Path = "teapot.glb"
	return obj
}

type fakeSurface struct{ w, h, calls int }

func (s *fakeSurface) SetSize(w, h int) { s.w, s.h, s.calls = w, h, s.calls+1 }

type failingResolver struct{ err error }

func (r failingResolver) Resolve(context.Context, string) (string, error) { return "", r.err }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 800, 600
	cfg.Assets.Environment = ""
	cfg.Assets.Timeout = time.Second
	return cfg
}

func newViewer(t *testing.T, cfg *config.Config) (*Viewer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	return New(cfg, zap.New(core), nil, nil), logs
}

func settle(t *testing.T, v *Viewer) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for v.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("loads did not finish")
		}
		v.Poll()
		time.Sleep(time.Millisecond)
	}
}

func TestLoadFramesModelAndBindsMaterial(t *testing.T) {
	v, _ := newViewer(t, testConfig())
	obj := boxObject(t)
	v.LoadModel = func(path string) (*model.Object, error) {
		assert.Equal(t, "./teapot.glb", path)
		return obj, nil
	}
	var notified *model.Object
	v.OnModel = func(o *model.Object) { notified = o }

	v.Start(context.Background())
	settle(t, v)

	require.Same(t, obj, v.Model())
	assert.Same(t, obj, notified)
	assert.InDelta(t, -3, obj.Position[0], 1e-5)
	assert.InDelta(t, 0, obj.Bounds().Center().Len(), 1e-5)

	assert.InDelta(t, 27.06, v.Camera.Position[2], 0.01)
	assert.InDelta(t, 0, v.Camera.Position[0], 1e-3)
	assert.Equal(t, mgl32.Vec3{}, v.Controls.Target)
	assert.GreaterOrEqual(t, v.Controls.MaxDistance, v.Camera.Distance())

	p, ok := v.Material.Current()
	require.True(t, ok)
	assert.Equal(t, "#8b0000", v.State().Color)
	assert.Equal(t, float32(0.1), p.Roughness)
	assert.Equal(t, float32(0.4), p.Metalness)
}

func TestZippedModelIsUnpacked(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("scene/teapot.gltf")
	require.NoError(t, err)
	_, err = w.Write([]byte("{}"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	cfg := testConfig()
	cfg.Assets.Model = zipPath
	cfg.Assets.CacheDir = filepath.Join(dir, "cache")
	v, _ := newViewer(t, cfg)
	obj := boxObject(t)
	var loaded atomic.Value
	v.LoadModel = func(path string) (*model.Object, error) {
		loaded.Store(path)
		return obj, nil
	}
	v.Start(context.Background())
	settle(t, v)

	require.Same(t, obj, v.Model())
	assert.Equal(t, filepath.Join(cfg.Assets.CacheDir, "bundle", "scene", "teapot.gltf"), loaded.Load())
}

func TestModelLoadFailureLeavesModelAbsent(t *testing.T) {
	v, logs := newViewer(t, testConfig())
	v.LoadModel = func(string) (*model.Object, error) { return nil, errors.New("404 Not Found") }
	v.Start(context.Background())
	settle(t, v)

	assert.Nil(t, v.Model())
	assert.False(t, v.Material.Bound())
	require.Equal(t, 1, logs.FilterMessage("model load failed").Len())
	assert.Equal(t, zapcore.WarnLevel, logs.FilterMessage("model load failed").All()[0].Level)
}

func TestResolverErrorIsReported(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	v := New(testConfig(), zap.New(core), failingResolver{errors.New("dns")}, nil)
	var called atomic.Bool
	v.LoadModel = func(string) (*model.Object, error) {
		called.Store(true)
		return nil, nil
	}
	v.Start(context.Background())
	settle(t, v)
	assert.False(t, called.Load(), "loader must not run after a failed download")
	assert.Nil(t, v.Model())
	assert.Equal(t, 1, logs.FilterMessage("model load failed").Len())
}

func TestModelLoadTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Assets.Timeout = 20 * time.Millisecond
	v, logs := newViewer(t, cfg)
	release := make(chan struct{})
	defer close(release)
	v.LoadModel = func(string) (*model.Object, error) {
		<-release
		return nil, nil
	}
	v.Start(context.Background())
	settle(t, v)

	entries := logs.FilterMessage("model load failed").All()
	require.Len(t, entries, 1)
	err, ok := entries[0].ContextMap()["error"].(string)
	require.True(t, ok)
	assert.Contains(t, err, loader.ErrTimeout.Error())
}

func TestEnvironmentLoadLowersExposure(t *testing.T) {
	cfg := testConfig()
	cfg.Assets.Environment = "studio.hdr"
	v, _ := newViewer(t, cfg)
	obj := boxObject(t)
	v.LoadModel = func(string) (*model.Object, error) { return obj, nil }
	v.LoadEnv = func(path string) (*envmap.Panorama, error) {
		return &envmap.Panorama{Path: path, HDR: true, Width: 1024, Height: 512}, nil
	}
	assert.Equal(t, float32(1), v.Exposure())

	v.Start(context.Background())
	settle(t, v)
	require.NotNil(t, v.Environment())
	assert.Equal(t, float32(0.8), v.Exposure())
	assert.Equal(t, "studio.hdr", v.State().Environment)
}

func TestEnvironmentFailureKeepsExposure(t *testing.T) {
	cfg := testConfig()
	cfg.Assets.Environment = "square.png"
	v, logs := newViewer(t, cfg)
	obj := boxObject(t)
	v.LoadModel = func(string) (*model.Object, error) { return obj, nil }
	v.LoadEnv = func(string) (*envmap.Panorama, error) { return nil, envmap.ErrAspect }

	v.Start(context.Background())
	settle(t, v)
	assert.Nil(t, v.Environment())
	assert.Equal(t, float32(1), v.Exposure())
	assert.NotNil(t, v.Model())
	assert.Equal(t, 1, logs.FilterMessage("environment load failed").Len())
}

func TestResizeKeepsCameraPosition(t *testing.T) {
	surface := &fakeSurface{}
	v := New(testConfig(), nil, nil, surface)
	assert.InDelta(t, 800.0/600.0, v.Camera.Aspect, 1e-6)
	before := v.Camera.Position

	require.True(t, v.Resize(400, 300))
	assert.InDelta(t, 400.0/300.0, v.Camera.Aspect, 1e-6)
	assert.Equal(t, before, v.Camera.Position)
	assert.Equal(t, 400, surface.w)
	assert.Equal(t, 300, surface.h)

	assert.False(t, v.Resize(400, 0))
	assert.Equal(t, 1, surface.calls)
	w, h := v.Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
}

func TestSlidersBeforeLoadAreNoops(t *testing.T) {
	v := New(testConfig(), nil, nil, nil)
	assert.False(t, v.SetRoughness(0.7))
	assert.False(t, v.SetMetalness(0.7))
	assert.ErrorIs(t, v.Frame(), ErrNoModel)
	s := v.State()
	assert.False(t, s.Loaded)
	assert.Empty(t, s.Color)
}

func TestExec(t *testing.T) {
	v, _ := newViewer(t, testConfig())
	obj := boxObject(t)
	v.LoadModel = func(string) (*model.Object, error) { return obj, nil }

	_, err := v.Exec("roughness 0.5")
	assert.ErrorIs(t, err, ErrNoModel)

	v.Start(context.Background())
	settle(t, v)

	reply, err := v.Exec("roughness 0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.50", reply)

	reply, err = v.Exec("color gold")
	require.NoError(t, err)
	assert.Equal(t, "Gold", reply)
	s := v.State()
	assert.Equal(t, "#ffd700", s.Color)
	assert.Equal(t, "gold", s.ColorName)
	assert.Equal(t, float32(0.1), s.Roughness, "color change resets roughness")

	_, err = v.Exec("metalness lots")
	assert.Error(t, err)
	_, err = v.Exec("color plaid")
	assert.Error(t, err)

	for _, line := range []string{"roughness NaN", "metalness Inf", "metalness -inf"} {
		_, err = v.Exec(line)
		assert.Error(t, err, line)
	}
	s = v.State()
	assert.Equal(t, float32(0.1), s.Roughness)
	assert.Equal(t, float32(0.4), s.Metalness)
	data, err := s.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"roughness":0.1`)

	reply, err = v.Exec("frame")
	require.NoError(t, err)
	assert.Contains(t, reply, "distance=27.06")

	reply, err = v.Exec("state")
	require.NoError(t, err)
	assert.Contains(t, reply, `"loaded":true`)

	reply, err = v.Exec("help")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reply, "color "))
}

func TestDragAndZoomMoveCamera(t *testing.T) {
	v, _ := newViewer(t, testConfig())
	obj := boxObject(t)
	v.LoadModel = func(string) (*model.Object, error) { return obj, nil }
	v.Start(context.Background())
	settle(t, v)

	start := v.Camera.Position
	v.Rotate(100, 0)
	assert.True(t, v.Tick())
	assert.NotEqual(t, start, v.Camera.Position)

	d := v.Camera.Distance()
	v.Zoom(1)
	v.Tick()
	assert.Less(t, v.Camera.Distance(), d)
}
