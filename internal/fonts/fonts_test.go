package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestFindByFamilyPrefersRegular(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Open_Sans", "OpenSans-Bold.ttf"))
	touch(t, filepath.Join(dir, "Open_Sans", "OpenSans-Regular.ttf"))
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.otf"))
	touch(t, filepath.Join(dir, "Inter", "LICENSE.txt"))

	got, err := Find("Open Sans", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Open_Sans", "OpenSans-Regular.ttf"), got)

	got, err = Find("inter", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Inter", "Inter-Regular.otf"), got)
}

func TestFindIgnoresRegularInDirectoryName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "regular-fonts")
	touch(t, filepath.Join(dir, "Inter", "Inter-Bold.ttf"))
	touch(t, filepath.Join(dir, "Inter", "Inter-Regular.ttf"))

	got, err := Find("Inter", dir)
	require.NoError(t, err)
	assert.Equal(t, "Inter-Regular.ttf", filepath.Base(got))
}

func TestFindExistingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.ttf")
	touch(t, path)
	got, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindMissing(t *testing.T) {
	_, err := Find("Nope", t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = Find("  ")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanMissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
