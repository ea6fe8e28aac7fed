// Package mapping is the full-window 2D editor for a screen's crop rect: the region of the source
// texture the screen shows. The crop is drawn over a preview of the source and edited with corner,
// edge and move handles.
package mapping

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/screen"
)

const (
	// HitRadius is the pixel reach of corner and edge handles.
	HitRadius = 10
	// SnapGrid is the snap increment in normalized texture units (5%).
	SnapGrid = 0.05
	// MinSize is the smallest crop width or height.
	MinSize = 0.01

	previewMargin = 50
	footerSpace   = 50
)

// Handle is the part of the crop rect a drag is acting on.
type Handle int

const (
	HandleNone Handle = iota
	HandleMove
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleLeft
	HandleRight
	HandleTop
	HandleBottom
)

var handleNames = [...]string{"none", "move", "top-left", "top-right", "bottom-left", "bottom-right", "left", "right", "top", "bottom"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "unknown"
	}
	return handleNames[h]
}

// PreviewArea returns the on-screen rectangle the source preview fills for a window of the given size,
// leaving room for the status bar and the help lines under it.
func PreviewArea(width, height, statusBar float32) rl.Rectangle {
	return rl.NewRectangle(
		previewMargin,
		previewMargin,
		width-2*previewMargin,
		height-previewMargin-(statusBar+footerSpace),
	)
}

// CropPixels returns crop mapped into area.
func CropPixels(area rl.Rectangle, crop screen.Rect) rl.Rectangle {
	return rl.NewRectangle(
		area.X+crop.X*area.Width,
		area.Y+crop.Y*area.Height,
		crop.W*area.Width,
		crop.H*area.Height,
	)
}

// HitTest returns the handle of crop under p. Corners win over edges, edges over the interior.
func HitTest(area rl.Rectangle, crop screen.Rect, p rl.Vector2) Handle {
	c := CropPixels(area, crop)
	l, t, r, b := c.X, c.Y, c.X+c.Width, c.Y+c.Height
	near := func(x, y float32) bool { return rl.Vector2Distance(p, rl.NewVector2(x, y)) < HitRadius }
	insideY := p.Y > t && p.Y < b
	insideX := p.X > l && p.X < r

	switch {
	case near(l, t):
		return HandleTopLeft
	case near(r, t):
		return HandleTopRight
	case near(l, b):
		return HandleBottomLeft
	case near(r, b):
		return HandleBottomRight
	case math32.Abs(p.X-l) < HitRadius && insideY:
		return HandleLeft
	case math32.Abs(p.X-r) < HitRadius && insideY:
		return HandleRight
	case math32.Abs(p.Y-t) < HitRadius && insideX:
		return HandleTop
	case math32.Abs(p.Y-b) < HitRadius && insideX:
		return HandleBottom
	case insideX && insideY:
		return HandleMove
	}
	return HandleNone
}

// Editor holds the snap setting and the state of one drag.
type Editor struct {
	Snap bool

	handle    Handle
	anchor    rl.Vector2
	startCrop screen.Rect
}

// NewEditor returns an editor with snapping on.
func NewEditor() *Editor {
	return &Editor{Snap: true}
}

// ToggleSnap flips snapping and returns the new setting.
func (e *Editor) ToggleSnap() bool {
	e.Snap = !e.Snap
	return e.Snap
}

// Begin starts a drag at p on the handle under it. It returns HandleNone when p misses the crop.
func (e *Editor) Begin(area rl.Rectangle, crop screen.Rect, p rl.Vector2) Handle {
	e.handle = HitTest(area, crop, p)
	e.anchor = p
	e.startCrop = crop
	return e.handle
}

// Dragging reports whether a handle is held.
func (e *Editor) Dragging() bool { return e.handle != HandleNone }

// Handle returns the held handle.
func (e *Editor) Handle() Handle { return e.handle }

// Drag returns the crop for the pointer at p. Edges are computed from the crop at Begin, snapped when
// snapping is on, and kept at least MinSize apart. The second result is false when no handle is held.
func (e *Editor) Drag(area rl.Rectangle, p rl.Vector2) (screen.Rect, bool) {
	if e.handle == HandleNone || area.Width <= 0 || area.Height <= 0 {
		return screen.Rect{}, false
	}
	dx := (p.X - e.anchor.X) / area.Width
	dy := (p.Y - e.anchor.Y) / area.Height

	c := e.startCrop
	l, t, r, b := c.X, c.Y, c.Right(), c.Bottom()
	nl, nt, nr, nb := l, t, r, b

	switch e.handle {
	case HandleMove:
		nl = e.snap(l + dx)
		nr = nl + (r - l)
		nt = e.snap(t + dy)
		nb = nt + (b - t)
	case HandleTopLeft:
		nl, nt = e.snap(l+dx), e.snap(t+dy)
	case HandleTopRight:
		nr, nt = e.snap(r+dx), e.snap(t+dy)
	case HandleBottomLeft:
		nl, nb = e.snap(l+dx), e.snap(b+dy)
	case HandleBottomRight:
		nr, nb = e.snap(r+dx), e.snap(b+dy)
	case HandleLeft:
		nl = e.snap(l + dx)
	case HandleRight:
		nr = e.snap(r + dx)
	case HandleTop:
		nt = e.snap(t + dy)
	case HandleBottom:
		nb = e.snap(b + dy)
	}

	if nr-nl < MinSize {
		nr = nl + MinSize
	}
	if nb-nt < MinSize {
		nb = nt + MinSize
	}
	return screen.Rect{X: nl, Y: nt, W: nr - nl, H: nb - nt}, true
}

// End releases the handle.
func (e *Editor) End() {
	e.handle = HandleNone
}

func (e *Editor) snap(v float32) float32 {
	if !e.Snap {
		return v
	}
	return math32.Round(v/SnapGrid) * SnapGrid
}

// Reset returns the full-texture crop.
func Reset() screen.Rect {
	return screen.FullRect()
}
