// Package envmap prepares equirectangular panoramas for image-based lighting.
//
// Radiance .hdr files are decoded by the GPU layer; this package only reads
// their header to validate the size off the render thread. Other formats
// (png, jpeg, webp) are decoded here. Either way Prefilter builds the small
// blurred copy that rough surfaces sample instead of the sharp panorama.
package envmap

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/webp"
)

// Equirectangular panoramas are 2:1; a little slack allows odd crops.
const (
	AspectMin = 1.8
	AspectMax = 2.2

	DefaultBlurWidth  = 256
	DefaultBlurRadius = 6
)

var (
	ErrAspect    = errors.New("envmap: panorama is not equirectangular")
	ErrHDRHeader = errors.New("envmap: malformed radiance header")
)

// Panorama is a validated environment image.
type Panorama struct {
	Path   string
	HDR    bool
	Width  int
	Height int
	// Image is the decoded panorama for non-HDR sources; nil for HDR.
	Image image.Image
	// Blurred is the prefiltered copy; nil for HDR until built by the GPU layer.
	Blurred *image.RGBA
}

// IsHDR reports whether path names a Radiance file.
func IsHDR(path string) bool { return strings.EqualFold(filepath.Ext(path), ".hdr") }

// ValidateAspect checks that w by h looks like an equirectangular panorama.
func ValidateAspect(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrAspect, w, h)
	}
	a := float64(w) / float64(h)
	if a < AspectMin || a > AspectMax {
		return fmt.Errorf("%w: %dx%d", ErrAspect, w, h)
	}
	return nil
}

// Load opens and validates the panorama at path. Non-HDR images are decoded
// and prefiltered.
func Load(path string) (*Panorama, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("envmap: %w", err)
	}
	defer f.Close()

	if IsHDR(path) {
		w, h, err := ReadHDRSize(f)
		if err != nil {
			return nil, err
		}
		if err := ValidateAspect(w, h); err != nil {
			return nil, err
		}
		return &Panorama{Path: path, HDR: true, Width: w, Height: h}, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("envmap: decode %s: %w", path, err)
	}
	b := img.Bounds()
	if err := ValidateAspect(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	return &Panorama{
		Path:    path,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Image:   img,
		Blurred: Prefilter(img, DefaultBlurWidth, DefaultBlurRadius),
	}, nil
}

// Prefilter downsamples img to width by width/2 and blurs it.
func Prefilter(img image.Image, width int, radius float64) *image.RGBA {
	if width <= 0 {
		width = DefaultBlurWidth
	}
	height := max(width/2, 1)
	small := transform.Resize(img, width, height, transform.Linear)
	if radius <= 0 {
		return small
	}
	return blur.Gaussian(small, radius)
}

// ReadHDRSize reads a Radiance header and returns the image size. Only the
// standard -Y H +X W orientation is accepted.
func ReadHDRSize(r io.Reader) (w, h int, err error) {
	br := bufio.NewReader(r)
	magic, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrHDRHeader, err)
	}
	magic = strings.TrimSpace(magic)
	if magic != "#?RADIANCE" && magic != "#?RGBE" {
		return 0, 0, fmt.Errorf("%w: magic %q", ErrHDRHeader, magic)
	}
	// variables until a blank line, then the resolution line
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrHDRHeader, err)
		}
		if strings.TrimSpace(line) == "" {
			break
		}
	}
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return 0, 0, fmt.Errorf("%w: %v", ErrHDRHeader, err)
	}
	var ya, xa string
	if _, err := fmt.Sscanf(line, "%s %d %s %d", &ya, &h, &xa, &w); err != nil {
		return 0, 0, fmt.Errorf("%w: resolution %q", ErrHDRHeader, strings.TrimSpace(line))
	}
	if ya != "-Y" || xa != "+X" {
		return 0, 0, fmt.Errorf("%w: orientation %s %s", ErrHDRHeader, ya, xa)
	}
	return w, h, nil
}
