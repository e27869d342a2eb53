// Package style parses the panel stylesheet: plain .class and #id selectors
// with single-value declarations.
package style

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"model-viewer/internal/material"
)

// Rule is a single CSS rule: one selector and its raw property values.
type Rule struct {
	Selector string            // e.g. ".panel" or "#title"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules. Later rules override earlier ones.
type Stylesheet struct {
	Rules []Rule
}

// Parse reads a stylesheet. Rules whose selectors are not a plain class or id
// are skipped; comma-separated selector lists become one rule each.
func Parse(r io.Reader) (*Stylesheet, error) {
	p := css.NewParser(parse.NewInput(r), false)
	sheet := &Stylesheet{}
	var open []int // indices of rules in the current ruleset
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.Err() == io.EOF {
				return sheet, nil
			}
			return nil, fmt.Errorf("style: %w", p.Err())
		case css.BeginRulesetGrammar:
			open = open[:0]
			var sel strings.Builder
			for _, v := range p.Values() {
				sel.Write(v.Data)
			}
			for _, s := range strings.Split(sel.String(), ",") {
				s = strings.TrimSpace(s)
				if !simpleSelector(s) {
					continue
				}
				sheet.Rules = append(sheet.Rules, Rule{Selector: s, Props: map[string]string{}})
				open = append(open, len(sheet.Rules)-1)
			}
		case css.DeclarationGrammar:
			var val strings.Builder
			for _, v := range p.Values() {
				val.Write(v.Data)
			}
			key := strings.ToLower(strings.TrimSpace(string(data)))
			for _, i := range open {
				sheet.Rules[i].Props[key] = strings.TrimSpace(val.String())
			}
		case css.EndRulesetGrammar:
			open = open[:0]
		}
	}
}

// ParseString parses a stylesheet held in memory.
func ParseString(s string) (*Stylesheet, error) { return Parse(strings.NewReader(s)) }

func simpleSelector(s string) bool {
	if len(s) < 2 || (s[0] != '.' && s[0] != '#') {
		return false
	}
	return !strings.ContainsAny(s[1:], " .#>:+~[")
}

// Props returns the merged properties for the given class and id. Class
// rules apply first, then id rules; within each, later rules win.
func (s *Stylesheet) Props(class, id string) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	apply := func(sel string) {
		for _, r := range s.Rules {
			if r.Selector == sel {
				for k, v := range r.Props {
					merged[k] = v
				}
			}
		}
	}
	if class != "" {
		apply("." + class)
	}
	if id != "" {
		apply("#" + id)
	}
	return merged
}

// Computed holds resolved values used for drawing.
type Computed struct {
	Background color.RGBA
	Color      color.RGBA
	Border     color.RGBA
	HasBorder  bool
	Width      int32
	Height     int32
	Padding    int32
	FontSize   int32
}

// Default returns a transparent, borderless style with white text.
func Default() Computed {
	return Computed{
		Color:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Border:   color.RGBA{A: 255},
		Padding:  4,
		FontSize: 20,
	}
}

// Resolve builds the computed style for a class and id.
func (s *Stylesheet) Resolve(class, id string) Computed {
	return ResolveProps(s.Props(class, id))
}

// ResolveProps builds a Computed from a merged property map. Unparseable
// values keep the default.
func ResolveProps(props map[string]string) Computed {
	out := Default()
	for k, v := range props {
		switch k {
		case "background":
			if c, ok := parseColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := parseColor(v); ok {
				out.Color = c
			}
		case "border":
			if c, ok := parseColor(v); ok {
				out.Border = c
				out.HasBorder = true
			}
		case "width":
			if n, ok := ParsePx(v); ok {
				out.Width = n
			}
		case "height":
			if n, ok := ParsePx(v); ok {
				out.Height = n
			}
		case "padding":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		}
	}
	return out
}

// parseColor accepts #rgb, #rrggbb and #rrggbbaa.
func parseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 9 && s[0] == '#' {
		c, err := material.ParseHex(s[:7])
		if err != nil {
			return color.RGBA{}, false
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, false
		}
		c.A = uint8(a)
		return c, true
	}
	c, err := material.ParseHex(s)
	return c, err == nil
}

// ParsePx parses a number with an optional "px" suffix.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}
