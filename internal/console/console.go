// Package console is the in-window command line: a bar at the bottom of the
// screen that runs viewer commands and shows recent log lines above it.
package console

import (
	"strings"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

const (
	BarHeight = 40
	prompt    = "> "
	fontSize  = 20
	padding   = 8
	// Log lines drawn above the bar while open.
	maxLines   = 14
	lineHeight = fontSize + 4
	maxLineLen = 200
)

var (
	barColor     = rl.NewColor(40, 40, 40, 255)
	barLineColor = rl.NewColor(80, 80, 80, 255)
	historyColor = rl.NewColor(24, 24, 24, 240)
)

// Exec runs one command line and returns its reply.
type Exec func(line string) (string, error)

// Console toggles with the grave key and closes on ESC. While open it takes keyboard input;
// Enter runs the line through Exec and logs the line and its reply.
type Console struct {
	log   *zap.Logger
	exec  Exec
	lines func() []string

	input string
	open  bool
	font  rl.Font
}

// New returns a closed console. lines supplies the history shown while open
// and may be nil.
func New(log *zap.Logger, exec Exec, lines func() []string) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{log: log, exec: exec, lines: lines}
}

func (c *Console) IsOpen() bool { return c.open }

func (c *Console) SetFont(font rl.Font) { c.font = font }

// Toggle opens or closes the console.
func (c *Console) Toggle() { c.open = !c.open }

// Input returns the line being typed.
func (c *Console) Input() string { return c.input }

// Type appends text to the line, dropping control characters.
func (c *Console) Type(s string) {
	for _, r := range s {
		if r >= ' ' && r != 0x7f {
			c.input += string(r)
		}
	}
}

// Backspace removes the last rune.
func (c *Console) Backspace() {
	if c.input == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(c.input)
	c.input = c.input[:len(c.input)-size]
}

// Submit runs the current line and clears it. It returns the reply, or the
// error text when the command failed.
func (c *Console) Submit() string {
	line := strings.TrimSpace(c.input)
	c.input = ""
	if line == "" {
		return ""
	}
	c.log.Info("> " + line)
	reply, err := c.exec(line)
	if err != nil {
		c.log.Warn("command failed", zap.String("line", line), zap.Error(err))
		return err.Error()
	}
	if reply != "" {
		c.log.Info(reply)
	}
	return reply
}

// Update reads the keyboard. Call once per frame.
func (c *Console) Update() {
	if c.open && rl.IsKeyPressed(rl.KeyEscape) {
		c.open = false
		return
	}
	if rl.IsKeyPressed(rl.KeyGrave) {
		c.Toggle()
		rl.GetCharPressed() // drop the backquote itself
		return
	}
	if !c.open {
		return
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if ctrl && rl.IsKeyPressed(rl.KeyV) {
		c.Type(rl.GetClipboardText())
	} else {
		for r := rl.GetCharPressed(); r != 0; r = rl.GetCharPressed() {
			c.Type(string(rune(r)))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		c.Backspace()
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		c.Submit()
	}
}

// Draw renders the bar and history when open.
func (c *Console) Draw() {
	if !c.open {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	barY := int32(rl.GetScreenHeight()) - BarHeight

	if c.lines != nil {
		lines := c.lines()
		if len(lines) > maxLines {
			lines = lines[len(lines)-maxLines:]
		}
		h := int32(maxLines * lineHeight)
		top := max(barY-h, 0)
		rl.DrawRectangle(0, top, screenW, barY-top, historyColor)
		for i, line := range lines {
			c.text(truncate(line, maxLineLen), padding, top+int32(i*lineHeight)+padding, rl.LightGray)
		}
	}

	rl.DrawRectangle(0, barY, screenW, BarHeight, barColor)
	rl.DrawRectangle(0, barY, screenW, 1, barLineColor)
	c.text(prompt+c.input+"|", padding, barY+padding, rl.White)
}

func (c *Console) text(s string, x, y int32, col rl.Color) {
	if c.font.Texture.ID != 0 {
		rl.DrawTextEx(c.font, s, rl.NewVector2(float32(x), float32(y)), fontSize, 1, col)
		return
	}
	rl.DrawText(s, x, y, fontSize, col)
}

// truncate shortens s to at most n bytes, ending in "..." and never
// splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
