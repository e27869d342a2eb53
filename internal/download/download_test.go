package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://dl.polyhaven.org/file/metro_noord_1k.hdr"))
	assert.True(t, IsRemote("HTTP://example.com/a.glb"))
	assert.False(t, IsRemote("./teapot.glb"))
	assert.False(t, IsRemote("/abs/teapot.glb"))
}

func TestResolveLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teapot.glb")
	require.NoError(t, os.WriteFile(path, []byte("glTF"), 0644))

	c := New(t.TempDir(), time.Second)
	got, err := c.Resolve(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = c.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)
}

func TestResolveDownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("#?RADIANCE\n"))
	}))
	defer srv.Close()

	c := New(t.TempDir(), time.Second)
	url := srv.URL + "/files/metro_noord_1k.hdr?v=2"

	first, err := c.Resolve(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(first, ".hdr"), first)
	assert.Contains(t, filepath.Base(first), "metro_noord_1k")

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "#?RADIANCE\n", string(data))

	second, err := c.Resolve(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDownloadExtensionFromContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "model/gltf-binary")
		w.Header().Set("Content-Disposition", `attachment; filename="tea pot.glb"`)
		_, _ = w.Write([]byte("glTF"))
	}))
	defer srv.Close()

	c := New(t.TempDir(), time.Second)
	p, err := c.Download(context.Background(), srv.URL+"/asset")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p, "-tea_pot.glb"), p)
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := New(dir, time.Second)
	_, err := c.Download(context.Background(), srv.URL+"/missing.glb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := New(t.TempDir(), 0).Download(ctx, srv.URL+"/slow.hdr")
	assert.Error(t, err)
}

func TestFilenameHelpers(t *testing.T) {
	assert.Equal(t, "a.glb", filenameFromContentDisposition(`attachment; filename="a.glb"`))
	assert.Equal(t, "b.hdr", filenameFromContentDisposition(`attachment; filename*=UTF-8''b.hdr`))
	assert.Equal(t, "", filenameFromContentDisposition("inline"))

	assert.Equal(t, ".glb", extensionFromURL("https://x/y/teapot.GLB?raw=1"))
	assert.Equal(t, "", extensionFromURL("https://x/y/teapot.exe"))
	assert.Equal(t, ".webp", extensionFromContentType("image/webp; charset=binary"))

	assert.Equal(t, "download", sanitizeFilename(""))
	assert.Equal(t, "a_b", sanitizeFilename("a b"))
}
