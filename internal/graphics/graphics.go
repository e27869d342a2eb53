package graphics

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Options configure the window.
type Options struct {
	Title      string
	Width      int
	Height     int
	MSAA       bool
	TargetFPS  int
	Background color.RGBA
	// Cleanup runs after the loop ends, while the GL context still exists.
	Cleanup func()
}

// Run opens a resizable window and runs the main loop. Each frame it calls
// update (input, loads), then clears to the background and calls draw.
// The loop ends when the window is closed.
func Run(opts Options, update, draw func()) {
	flags := uint32(rl.FlagWindowResizable | rl.FlagVsyncHint)
	if opts.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()
	// ESC belongs to the console; the window closes from its close button.
	rl.SetExitKey(rl.KeyNull)

	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(int32(opts.TargetFPS))
	}
	bg := rl.NewColor(opts.Background.R, opts.Background.G, opts.Background.B, 255)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(bg)
		draw()
		rl.EndDrawing()
	}
	if opts.Cleanup != nil {
		opts.Cleanup()
	}
}

// Resized returns the new window size on frames where the window was resized.
func Resized() (width, height int, ok bool) {
	if !rl.IsWindowResized() {
		return 0, 0, false
	}
	return rl.GetScreenWidth(), rl.GetScreenHeight(), true
}

// Window is the render surface of the open window.
type Window struct{}

// SetSize resizes the window unless it already has that size, as it does
// after the user drags its border.
func (Window) SetSize(width, height int) {
	if rl.GetScreenWidth() == width && rl.GetScreenHeight() == height {
		return
	}
	rl.SetWindowSize(width, height)
}
