package ui

import (
	_ "embed"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/logger"
)

const defaultFontSize = 20

//go:embed default.css
var defaultCSS string

// DefaultStylesheet returns the built-in editor stylesheet.
func DefaultStylesheet() *Stylesheet {
	sheet, err := ParseCSS(defaultCSS)
	if err != nil {
		logger.L().Warn("default stylesheet", "err", err)
	}
	return sheet
}

// Engine holds the current stylesheet and nodes, and draws them with raylib.
// Draw order is node order (first node drawn first, then on top the next).
// Resolved styles are cached and only recomputed when sheet or nodes change to avoid per-frame allocations.
type Engine struct {
	sheet        *Stylesheet
	nodes        []*Node
	keys         []string // selector-relevant state of each node when the cache was built
	cachedStyles []ComputedStyle
	cacheValid   bool
	font         rl.Font
}

// New creates an engine using the built-in stylesheet and no nodes.
func New() *Engine {
	return &Engine{sheet: DefaultStylesheet()}
}

// LoadCSS loads and parses a CSS file from path, replacing the current stylesheet. Rules that parsed
// are kept even when the file has errors; the error is still returned.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	sheet, err := ParseCSS(string(data))
	if len(sheet.Rules) > 0 {
		e.SetStylesheet(sheet)
	}
	return err
}

// SetStylesheet sets the stylesheet directly.
func (e *Engine) SetStylesheet(sheet *Stylesheet) {
	e.sheet = sheet
	e.cacheValid = false
}

// LoadFont loads a TTF font from path for text rendering. If loading fails, the engine keeps using the default font.
// Call after the window exists.
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

// Font returns the loaded font; its texture ID is zero when the default font is in use.
func (e *Engine) Font() rl.Font {
	return e.font
}

// SetNodes replaces all nodes. Passing the same nodes again keeps the style cache unless a node's
// type, class or id changed.
func (e *Engine) SetNodes(nodes []*Node) {
	if len(nodes) != len(e.nodes) {
		e.cacheValid = false
	} else {
		for i, n := range nodes {
			if n != e.nodes[i] {
				e.cacheValid = false
				break
			}
		}
	}
	e.nodes = append(e.nodes[:0], nodes...)
}

func styleKey(n *Node) string {
	return n.Type + "|" + n.Class + "|" + n.ID
}

// resolveProps returns merged properties for a node (type, class and id matched; last wins).
func (e *Engine) resolveProps(n *Node) map[string]string {
	merged := make(map[string]string)
	if e.sheet == nil {
		return merged
	}
	for _, rule := range e.sheet.Rules {
		if !n.Matches(rule.Selector) {
			continue
		}
		for k, v := range rule.Props {
			merged[k] = v
		}
	}
	return merged
}

// StyleOf resolves the style of n against the current stylesheet.
func (e *Engine) StyleOf(n *Node) ComputedStyle {
	return ResolveProps(e.resolveProps(n))
}

// Layout resolves styles (cached) and sets every node's Bounds for a window of the given size.
func (e *Engine) Layout(screenW, screenH int32) {
	if e.cacheValid {
		for i, n := range e.nodes {
			if e.keys[i] != styleKey(n) {
				e.cacheValid = false
				break
			}
		}
	}
	if !e.cacheValid {
		e.cachedStyles = make([]ComputedStyle, len(e.nodes))
		e.keys = make([]string, len(e.nodes))
		for i, n := range e.nodes {
			e.cachedStyles[i] = e.StyleOf(n)
			e.keys[i] = styleKey(n)
		}
		e.cacheValid = true
	}
	for i, n := range e.nodes {
		n.Bounds = place(e.cachedStyles[i], screenW, screenH, n.Offset)
	}
}

// place computes the on-screen rectangle of a node with style s.
// A zero height with bottom set stretches the node from top down to bottom.
func place(s ComputedStyle, screenW, screenH int32, off rl.Vector2) rl.Rectangle {
	w, h := s.Width, s.Height
	if s.WidthPct >= 0 {
		w = screenW * s.WidthPct / 100
	}
	if h == 0 && s.Bottom >= 0 {
		h = max(screenH-s.Top-s.Bottom, 0)
		return rl.NewRectangle(float32(s.Left)+off.X, float32(s.Top)+off.Y, float32(w), float32(h))
	}
	x, y := s.Left, s.Top
	switch {
	case s.Right >= 0:
		x = screenW - w - s.Right
	case s.LeftPct >= 0:
		x = (screenW - w) * s.LeftPct / 100
	}
	switch {
	case s.Bottom >= 0:
		y = screenH - h - s.Bottom
	case s.TopPct >= 0:
		y = (screenH - h) * s.TopPct / 100
	}
	return rl.NewRectangle(float32(x)+off.X, float32(y)+off.Y, float32(w), float32(h))
}

// NodeAt returns the last (topmost) node whose bounds contain p, or nil. Bounds are from the last Layout.
func (e *Engine) NodeAt(p rl.Vector2) *Node {
	for i := len(e.nodes) - 1; i >= 0; i-- {
		b := e.nodes[i].Bounds
		if p.X >= b.X && p.X < b.X+b.Width && p.Y >= b.Y && p.Y < b.Y+b.Height {
			return e.nodes[i]
		}
	}
	return nil
}

// Draw lays out and draws all nodes: background, border, then text.
func (e *Engine) Draw() {
	e.Layout(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	for i, n := range e.nodes {
		style := e.cachedStyles[i]
		b := n.Bounds
		x, y, w, h := int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height)

		if style.Background.A > 0 && w > 0 && h > 0 {
			rl.DrawRectangle(x, y, w, h, style.Background)
		}
		if style.HasBorder && w > 0 && h > 0 {
			rl.DrawRectangleLines(x, y, w, h, style.Border)
		}
		if n.Text == "" {
			continue
		}
		tx, ty := x+style.Padding, y+style.Padding
		if e.font.Texture.ID != 0 {
			rl.DrawTextEx(e.font, n.Text, rl.NewVector2(float32(tx), float32(ty)), float32(style.FontSize), 1, style.Color)
		} else {
			rl.DrawText(n.Text, tx, ty, style.FontSize, style.Color)
		}
	}
}

// HasStylesheet returns whether a stylesheet with rules is set.
func (e *Engine) HasStylesheet() bool {
	return e.sheet != nil && len(e.sheet.Rules) > 0
}

// Stylesheet returns the current stylesheet (may be nil).
func (e *Engine) Stylesheet() *Stylesheet {
	return e.sheet
}
