package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWritesFileAndMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viewer.log")
	l, err := New("info", path)
	require.NoError(t, err)

	l.Info("model framed", zap.Float32("distance", 27.06))
	l.Debug("hidden")
	require.NoError(t, l.Close())

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "model framed")
	assert.Contains(t, lines[0], "27.06")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model framed")
	assert.NotContains(t, string(data), "hidden")
}

func TestRingKeepsNewest(t *testing.T) {
	l, err := New("debug", "")
	require.NoError(t, err)
	for i := 0; i < KeepLines+10; i++ {
		l.Debug(fmt.Sprintf("line %d", i))
	}
	lines := l.Lines()
	require.Len(t, lines, KeepLines)
	assert.Contains(t, lines[0], "line 10")
	assert.Contains(t, lines[len(lines)-1], fmt.Sprintf("line %d", KeepLines+9))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("ignored")
	assert.Empty(t, l.Lines())
	assert.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "warn", parseLevel("WARN").String())
	assert.Equal(t, "info", parseLevel("verbose").String())
}
