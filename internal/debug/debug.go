package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	logSize    = 14
	logLine    = logSize + 3
	// Refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
)

// Debug draws runtime overlays: FPS and heap in the top-right corner, and the
// most recent log lines in the top-left. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowLog      bool
	// Lines supplies log lines, oldest first. Nil disables the log overlay.
	Lines func() []string
	// MaxLines caps how many log lines are drawn.
	MaxLines int

	font       rl.Font
	frameCount uint32
	fpsText    string
	memText    string
	memStats   runtime.MemStats
	logLines   []string
}

func New() *Debug {
	return &Debug{MaxLines: 12}
}

// SetFont sets the overlay font. Zero texture ID uses raylib's default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Draw renders the enabled overlays. Call last in the draw loop.
func (d *Debug) Draw() {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	if (d.ShowFPS && d.fpsText == "") || (d.ShowMemAlloc && d.memText == "") {
		update = true
	}

	screenW := float32(rl.GetScreenWidth())
	y := float32(padding)
	if d.ShowFPS {
		if update {
			d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		d.drawRight(d.fpsText, screenW, y)
		y += lineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.memStats)
			d.memText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		}
		d.drawRight(d.memText, screenW, y)
	}

	if d.ShowLog && d.Lines != nil {
		if update || d.logLines == nil {
			d.logLines = tail(d.Lines(), d.MaxLines)
		}
		for i, line := range d.logLines {
			d.draw(line, padding, float32(padding+i*logLine), logSize, rl.LightGray)
		}
	}
}

func (d *Debug) drawRight(text string, screenW, y float32) {
	if text == "" {
		return
	}
	d.draw(text, screenW-d.measure(text, fontSize)-padding, y, fontSize, rl.Green)
}

func (d *Debug) draw(text string, x, y float32, size int32, col rl.Color) {
	if d.font.Texture.ID != 0 {
		rl.DrawTextEx(d.font, text, rl.NewVector2(x, y), float32(size), 1, col)
		return
	}
	rl.DrawText(text, int32(x), int32(y), size, col)
}

func (d *Debug) measure(text string, size int32) float32 {
	if d.font.Texture.ID != 0 {
		return rl.MeasureTextEx(d.font, text, float32(size), 1).X
	}
	return float32(rl.MeasureText(text, size))
}

func tail(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
