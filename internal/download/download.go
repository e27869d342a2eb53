package download

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const defaultUserAgent = "model-viewer/1.0"

// Client fetches remote assets into a cache directory.
type Client struct {
	HTTP     *http.Client
	CacheDir string
}

// New returns a client caching under cacheDir. A zero timeout means none.
func New(cacheDir string, timeout time.Duration) *Client {
	return &Client{HTTP: &http.Client{Timeout: timeout}, CacheDir: cacheDir}
}

// IsRemote reports whether ref is an http or https URL.
func IsRemote(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Resolve returns a local path for ref. Local paths must exist and are
// returned unchanged; URLs are downloaded unless already cached.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsRemote(ref) {
		if _, err := os.Stat(ref); err != nil {
			return "", fmt.Errorf("download: %w", err)
		}
		return ref, nil
	}
	if p, ok := c.cached(ref); ok {
		return p, nil
	}
	return c.Download(ctx, ref)
}

// cached looks for a previous download of url. Files are stored under a
// prefix derived from the URL so the extension may vary.
func (c *Client) cached(url string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(c.CacheDir, cacheKey(url)+"-*"))
	if err != nil {
		return "", false
	}
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m, true
		}
	}
	return "", false
}

// Download fetches url and saves it under the cache directory. The filename
// is derived from Content-Disposition or the URL path; the extension from the
// URL or Content-Type. The directory is created if needed.
func (c *Client) Download(ctx context.Context, url string) (savedPath string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: %s: HTTP %d", url, resp.StatusCode)
	}
	ext := extensionFromURL(url)
	if ext == "" {
		ext = extensionFromContentType(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		ext = ".bin"
	}
	name := filenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(url)
	}
	name = sanitizeFilename(strings.TrimSuffix(name, filepath.Ext(name)))
	name = cacheKey(url) + "-" + name + ext

	if err := os.MkdirAll(c.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	savedPath = filepath.Join(c.CacheDir, name)
	// write to a temp name first so a partial file never looks cached
	tmp := savedPath + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download: %w", err)
	}
	if err := os.Rename(tmp, savedPath); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return savedPath, nil
}

func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:12]
}

func filenameFromContentDisposition(cd string) string {
	cd = strings.TrimSpace(cd)
	// filename="..."; or filename*=UTF-8''...
	if i := strings.Index(cd, "filename*=UTF-8''"); i >= 0 {
		s := cd[i+len("filename*=UTF-8''"):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\"")
	}
	if i := strings.Index(cd, "filename="); i >= 0 {
		s := cd[i+len("filename="):]
		s = strings.Trim(s, "\" ")
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\" ")
	}
	return ""
}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	switch {
	case ct == "model/gltf-binary":
		return ".glb"
	case ct == "model/gltf+json":
		return ".gltf"
	case strings.Contains(ct, "radiance"), strings.Contains(ct, "vnd.radiance"):
		return ".hdr"
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "webp"):
		return ".webp"
	}
	return ""
}

var knownExts = map[string]bool{
	".glb": true, ".gltf": true, ".bin": true,
	".hdr": true, ".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
}

func extensionFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	ext := strings.ToLower(filepath.Ext(path))
	if knownExts[ext] {
		return ext
	}
	return ""
}

func filenameFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	return filepath.Base(path)
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func sanitizeFilename(name string) string {
	name = safeNameRe.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == "_" {
		return "download"
	}
	if len(name) > 96 {
		name = name[:96]
	}
	return name
}
