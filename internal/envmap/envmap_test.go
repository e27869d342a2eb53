package envmap

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: 80, B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "pano.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestValidateAspect(t *testing.T) {
	assert.NoError(t, ValidateAspect(1024, 512))
	assert.NoError(t, ValidateAspect(2000, 1050))
	assert.ErrorIs(t, ValidateAspect(512, 512), ErrAspect)
	assert.ErrorIs(t, ValidateAspect(0, 0), ErrAspect)
}

func TestLoadPNG(t *testing.T) {
	p, err := Load(writePNG(t, 64, 32))
	require.NoError(t, err)
	assert.False(t, p.HDR)
	assert.Equal(t, 64, p.Width)
	assert.Equal(t, 32, p.Height)
	require.NotNil(t, p.Image)
	require.NotNil(t, p.Blurred)
	assert.Equal(t, image.Rect(0, 0, DefaultBlurWidth, DefaultBlurWidth/2), p.Blurred.Bounds())
}

func TestLoadRejectsSquare(t *testing.T) {
	_, err := Load(writePNG(t, 32, 32))
	assert.ErrorIs(t, err, ErrAspect)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.png"))
	assert.Error(t, err)
}

func TestPrefilter(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out := Prefilter(src, 20, 2)
	assert.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())

	sharp := Prefilter(src, 0, 0)
	assert.Equal(t, DefaultBlurWidth, sharp.Bounds().Dx())
}

func TestReadHDRSize(t *testing.T) {
	hdr := "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\nEXPOSURE=1.0\n\n-Y 512 +X 1024\n\x02\x02"
	w, h, err := ReadHDRSize(strings.NewReader(hdr))
	require.NoError(t, err)
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, h)
}

func TestReadHDRSizeErrors(t *testing.T) {
	for name, in := range map[string]string{
		"magic":       "P6\n\n-Y 1 +X 2\n",
		"truncated":   "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n",
		"resolution":  "#?RADIANCE\n\nbogus\n",
		"orientation": "#?RGBE\n\n+Y 512 +X 1024\n",
	} {
		_, _, err := ReadHDRSize(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrHDRHeader, name)
	}
}

func TestLoadHDR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metro_noord_1k.hdr")
	require.NoError(t, os.WriteFile(path, []byte("#?RADIANCE\n\n-Y 512 +X 1024\n"), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.True(t, p.HDR)
	assert.Nil(t, p.Image)
	assert.Equal(t, 1024, p.Width)
	assert.True(t, IsHDR("A.HDR"))
}
