package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Rule is a single CSS rule: one selector and a set of property values (raw strings).
type Rule struct {
	Selector string            // ".panel", "#status" or "label"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// ComputedStyle holds resolved values used for drawing.
// LeftPct/TopPct: 0–100 for percentage positioning; -1 means use Left/Top as pixels.
// Right/Bottom, when >= 0, anchor the node to that window edge instead.
type ComputedStyle struct {
	Background rl.Color
	Color      rl.Color
	Border     rl.Color
	HasBorder  bool
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	Right      int32 // -1 = not set
	Bottom     int32 // -1 = not set
	LeftPct    int32 // -1 = not set
	TopPct     int32 // -1 = not set
	WidthPct   int32 // -1 = not set
	Padding    int32
	FontSize   int32
}

// DefaultComputedStyle returns a minimal style (transparent background, white text, no border, zero size).
func DefaultComputedStyle() ComputedStyle {
	return ComputedStyle{
		Background: rl.NewColor(0, 0, 0, 0),
		Color:      rl.White,
		Border:     rl.Black,
		Right:      -1,
		Bottom:     -1,
		LeftPct:    -1,
		TopPct:     -1,
		WidthPct:   -1,
		Padding:    4,
		FontSize:   defaultFontSize,
	}
}

var namedColors = map[string]rl.Color{
	"transparent": rl.NewColor(0, 0, 0, 0),
	"black":       rl.Black,
	"white":       rl.White,
	"gray":        rl.Gray,
	"red":         rl.Red,
	"green":       rl.Green,
	"blue":        rl.Blue,
	"yellow":      rl.Yellow,
	"orange":      rl.Orange,
}

// ParseColor parses #RGB, #RRGGBB, #RRGGBBAA, rgb(r,g,b), rgba(r,g,b,a) with a in [0,1], or a basic color name.
func ParseColor(s string) (rl.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return ParseHexColor(s)
	}
	var args string
	var alpha bool
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		args, alpha = s[5:len(s)-1], true
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		args = s[4 : len(s)-1]
	default:
		return rl.Black, false
	}
	parts := strings.Split(args, ",")
	if alpha && len(parts) != 4 || !alpha && len(parts) != 3 {
		return rl.Black, false
	}
	var ch [4]uint8
	ch[3] = 255
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == 3 {
			a, err := strconv.ParseFloat(part, 32)
			if err != nil || a < 0 || a > 1 {
				return rl.Black, false
			}
			ch[3] = uint8(a*255 + 0.5)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return rl.Black, false
		}
		ch[i] = uint8(n)
	}
	return rl.NewColor(ch[0], ch[1], ch[2], ch[3]), true
}

// ParseHexColor parses #RGB, #RRGGBB or #RRGGBBAA into rl.Color. Returns rl.Black and false on parse error.
func ParseHexColor(s string) (rl.Color, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || s[0] != '#' {
		return rl.Black, false
	}
	hex := s[1:]
	for i := 0; i < len(hex); i++ {
		if _, ok := hexByte(hex[i]); !ok {
			return rl.Black, false
		}
	}
	nib := func(i int) uint8 { v, _ := hexByte(hex[i]); return v }
	switch len(hex) {
	case 3:
		return rl.NewColor(nib(0)*17, nib(1)*17, nib(2)*17, 255), true
	case 6:
		return rl.NewColor(nib(0)<<4+nib(1), nib(2)<<4+nib(3), nib(4)<<4+nib(5), 255), true
	case 8:
		return rl.NewColor(nib(0)<<4+nib(1), nib(2)<<4+nib(3), nib(4)<<4+nib(5), nib(6)<<4+nib(7)), true
	}
	return rl.Black, false
}

func hexByte(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ParsePx parses a number, with optional "px" suffix, to int32. Unitless is treated as pixels.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" to int32 (0–100).
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// ResolveProps builds a ComputedStyle from a merged property map (e.g. from matching rules).
func ResolveProps(props map[string]string) ComputedStyle {
	out := DefaultComputedStyle()
	for k, v := range props {
		v = strings.TrimSpace(v)
		switch k {
		case "background", "background-color":
			if c, ok := ParseColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := ParseColor(v); ok {
				out.Color = c
			}
		case "border", "border-color":
			// "1px solid #333" and "#333" both work; the last color-looking word wins.
			fields := strings.Fields(v)
			for i := len(fields) - 1; i >= 0; i-- {
				if c, ok := ParseColor(fields[i]); ok {
					out.Border = c
					out.HasBorder = true
					break
				}
			}
		case "width":
			if pct, ok := ParsePct(v); ok {
				out.WidthPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Width = n
			}
		case "height":
			if n, ok := ParsePx(v); ok {
				out.Height = n
			}
		case "left", "x":
			if pct, ok := ParsePct(v); ok {
				out.LeftPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Left = n
			}
		case "top", "y":
			if pct, ok := ParsePct(v); ok {
				out.TopPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Top = n
			}
		case "right":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Right = n
			}
		case "bottom":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Bottom = n
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
