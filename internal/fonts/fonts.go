// Package fonts locates TTF/OTF files by path or family name.
package fonts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

// Dirs are searched for family names, relative to the working directory.
var Dirs = []string{"assets/fonts", "../../assets/fonts"}

// Find returns a font file for ref. An existing file is returned as is;
// otherwise ref is matched as a family name ("Inter", "Open Sans") against
// fonts under dirs (Dirs when none are given), preferring a Regular weight.
func Find(ref string, dirs ...string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", os.ErrNotExist
	}
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, nil
	}
	if len(dirs) == 0 {
		dirs = Dirs
	}
	want := normalize(strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref)))
	if want == "" {
		return "", os.ErrNotExist
	}
	var matches []string
	for _, dir := range dirs {
		files, err := Scan(dir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if strings.Contains(normalize(f), want) {
				matches = append(matches, filepath.Join(dir, filepath.FromSlash(f)))
			}
		}
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return isRegular(matches[i]) && !isRegular(matches[j])
	})
	return matches[0], nil
}

// Scan lists font files under dir as slash-separated relative paths. A
// missing dir yields no files.
func Scan(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// isRegular looks at the file name only; directories may be named anything.
func isRegular(path string) bool {
	return strings.Contains(strings.ToLower(filepath.Base(path)), "regular")
}

// normalize drops case and the separators people write family names with.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}
