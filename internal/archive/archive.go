// Package archive unpacks zipped model bundles, e.g. a .gltf with its
// buffers and textures.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoModel means the archive holds no .glb or .gltf file.
var ErrNoModel = errors.New("archive: no model in archive")

// IsZip reports whether path names a zip archive.
func IsZip(path string) bool { return strings.EqualFold(filepath.Ext(path), ".zip") }

// Unzip extracts zipPath into destDir, keeping the directory structure.
// Entries that would land outside destDir are skipped. It returns the
// extracted file paths.
func Unzip(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if errors.Is(err, zip.ErrInsecurePath) {
		err = nil // such entries are skipped below
	}
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer r.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	var out []string
	for _, f := range r.File {
		dest := filepath.Join(root, f.Name)
		if !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return nil, fmt.Errorf("archive: %w", err)
			}
			continue
		}
		if err := extract(f, dest); err != nil {
			return nil, fmt.Errorf("archive: %s: %w", f.Name, err)
		}
		out = append(out, dest)
	}
	return out, nil
}

func extract(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	w, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, rc); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// FindModel picks the model among extracted files: the shallowest .glb or
// .gltf, ties broken by name.
func FindModel(files []string) (string, error) {
	var models []string
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".glb", ".gltf":
			models = append(models, f)
		}
	}
	if len(models) == 0 {
		return "", ErrNoModel
	}
	sort.Slice(models, func(i, j int) bool {
		di, dj := strings.Count(models[i], string(os.PathSeparator)), strings.Count(models[j], string(os.PathSeparator))
		if di != dj {
			return di < dj
		}
		return models[i] < models[j]
	})
	return models[0], nil
}
