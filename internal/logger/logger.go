// Package logger builds the viewer's zap logger. Entries go to a log file and
// the most recent ones are kept in memory for the on-screen overlay.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is the log file, relative to the working directory.
const DefaultPath = "logs/viewer.log"

// KeepLines is how many recent lines Lines returns.
const KeepLines = 64

// Logger is a zap logger that also remembers its last lines.
type Logger struct {
	*zap.Logger
	recent *ring
	file   *os.File
}

// New opens (appending) the log file at path and returns a logger at the
// given level ("debug", "info", "warn", "error"; anything else is info).
// An empty path logs to memory only.
func New(level, path string) (*Logger, error) {
	lvl := parseLevel(level)
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")

	recent := newRing(KeepLines)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(recent), lvl),
	}
	var file *os.File
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		file = f
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), lvl))
	}
	z := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{Logger: z, recent: recent, file: file}, nil
}

// Nop returns a logger that writes nothing and remembers nothing.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), recent: newRing(0)}
}

// Lines returns a copy of the most recent lines, oldest first.
func (l *Logger) Lines() []string { return l.recent.lines() }

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ring is a zapcore.WriteSyncer keeping the last n lines written to it.
type ring struct {
	mu  sync.Mutex
	n   int
	buf []string
}

func newRing(n int) *ring { return &ring{n: n} }

func (r *ring) Write(p []byte) (int, error) {
	if r.n <= 0 {
		return len(p), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		r.buf = append(r.buf, line)
	}
	if over := len(r.buf) - r.n; over > 0 {
		r.buf = append(r.buf[:0], r.buf[over:]...)
	}
	return len(p), nil
}

func (r *ring) Sync() error { return nil }

func (r *ring) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.buf))
	copy(out, r.buf)
	return out
}
