package ui

import (
	_ "embed"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"model-viewer/internal/panel"
	"model-viewer/internal/style"
)

//go:embed default.css
var defaultCSS string

// swatchBorder is the ring width drawn around a swatch.
const swatchBorder = 2

// Engine draws the material panel with raylib, styled by a stylesheet.
// Resolved styles are cached per class/id and recomputed only when the
// stylesheet changes. If a font is loaded (LoadFont) text uses it, otherwise
// raylib's default font.
type Engine struct {
	sheet  *style.Stylesheet
	styles map[string]style.Computed
	font   rl.Font
}

// New returns an engine with the built-in stylesheet.
func New() *Engine {
	e := &Engine{}
	sheet, err := style.ParseString(defaultCSS)
	if err == nil {
		e.SetStylesheet(sheet)
	}
	return e
}

// LoadCSS replaces the stylesheet with the file at path.
func (e *Engine) LoadCSS(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sheet, err := style.Parse(f)
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

// SetStylesheet sets the stylesheet directly.
func (e *Engine) SetStylesheet(sheet *style.Stylesheet) {
	e.sheet = sheet
	e.styles = make(map[string]style.Computed)
}

// LoadFont loads a TTF font for text. Call after the window exists.
func (e *Engine) LoadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	if e.font.Texture.ID != 0 {
		rl.UnloadFont(e.font)
	}
	e.font = f
	return nil
}

// Font returns the loaded font; its texture ID is zero when none is loaded.
func (e *Engine) Font() rl.Font { return e.font }

func (e *Engine) style(class, id string) style.Computed {
	key := class + "#" + id
	if s, ok := e.styles[key]; ok {
		return s
	}
	s := e.sheet.Resolve(class, id)
	if e.styles == nil {
		e.styles = make(map[string]style.Computed)
	}
	e.styles[key] = s
	return s
}

func (e *Engine) text(s string, x, y float32, st style.Computed) {
	if e.font.Texture.ID != 0 {
		rl.DrawTextEx(e.font, s, rl.NewVector2(x, y), float32(st.FontSize), 1, st.Color)
		return
	}
	rl.DrawText(s, int32(x), int32(y), st.FontSize, st.Color)
}

func (e *Engine) measure(s string, st style.Computed) float32 {
	if e.font.Texture.ID != 0 {
		return rl.MeasureTextEx(e.font, s, float32(st.FontSize), 1).X
	}
	return float32(rl.MeasureText(s, st.FontSize))
}

// Draw renders p. Layout must be current for the screen size.
func (e *Engine) Draw(p *panel.Panel) {
	box := e.style("panel", "")
	if box.Background.A > 0 {
		b := p.Bounds
		rl.DrawRectangleRounded(rl.NewRectangle(b.X, b.Y, b.W, b.H), 0.05, 8, box.Background)
	}

	title := e.style("title", "")
	e.text(p.Title, p.TitlePos.X, p.TitlePos.Y, title)

	sel := p.Selected()
	for i, sw := range p.Swatches {
		c := p.Cell(i)
		cx, cy := c.Center()
		r := c.W / 2
		st := e.style("swatch", "")
		if i == sel {
			st = e.style("swatch", "selected")
		}
		if st.HasBorder && st.Border.A > 0 {
			rl.DrawCircle(int32(cx), int32(cy), r, st.Border)
			r -= swatchBorder
		}
		rl.DrawCircle(int32(cx), int32(cy), r, sw.Color)
	}

	label := e.style("label", "")
	track := e.style("slider-track", "")
	thumb := e.style("slider-thumb", "")
	for _, s := range []*panel.Slider{p.Metalness, p.Roughness} {
		e.text(s.Text(), s.LabelPos.X, s.LabelPos.Y, label)

		t := s.Track
		h := float32(max(track.Height, 1))
		rl.DrawRectangleRounded(rl.NewRectangle(t.X, t.Y+(t.H-h)/2, t.W, h), 1, 4, track.Background)

		tw, th := float32(max(thumb.Width, 4)), float32(max(thumb.Height, 4))
		x := t.X + s.Fraction()*t.W - tw/2
		rl.DrawRectangleRounded(rl.NewRectangle(x, t.Y+(t.H-th)/2, tw, th), 0.5, 4, thumb.Background)
	}

	if name, ok := p.Tooltip(); ok {
		tip := e.style("tooltip", "")
		m := rl.GetMousePosition()
		pad := float32(tip.Padding)
		w := e.measure(name, tip) + 2*pad
		h := float32(tip.FontSize) + 2*pad
		x, y := m.X+12, m.Y-h-4
		rl.DrawRectangle(int32(x), int32(y), int32(w), int32(h), tip.Background)
		e.text(name, x+pad, y+pad, tip)
	}
}
