package mapping

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stage-designer/internal/screen"
)

const eps = 1e-4

var unitArea = rl.NewRectangle(0, 0, 1000, 1000)

func assertRect(t *testing.T, want, got screen.Rect) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.W, got.W, eps, "w")
	assert.InDelta(t, want.H, got.H, eps, "h")
}

func TestPreviewArea(t *testing.T) {
	a := PreviewArea(1280, 720, 30)
	assert.Equal(t, rl.NewRectangle(50, 50, 1180, 590), a)
}

func TestHitTestOrder(t *testing.T) {
	area := PreviewArea(1280, 720, 30)
	full := screen.FullRect()

	tests := []struct {
		name string
		p    rl.Vector2
		want Handle
	}{
		{"top-left corner", rl.NewVector2(55, 52), HandleTopLeft},
		{"top-right corner", rl.NewVector2(1226, 54), HandleTopRight},
		{"bottom-left corner", rl.NewVector2(50, 636), HandleBottomLeft},
		{"bottom-right corner", rl.NewVector2(1230, 640), HandleBottomRight},
		{"left edge", rl.NewVector2(52, 300), HandleLeft},
		{"right edge", rl.NewVector2(1228, 300), HandleRight},
		{"top edge", rl.NewVector2(600, 55), HandleTop},
		{"bottom edge", rl.NewVector2(600, 636), HandleBottom},
		{"inside", rl.NewVector2(600, 300), HandleMove},
		{"outside", rl.NewVector2(20, 20), HandleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitTest(area, full, tt.p))
		})
	}
}

func TestMoveSnaps(t *testing.T) {
	crop := screen.Rect{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}
	e := NewEditor()
	require.True(t, e.Snap)
	require.Equal(t, HandleMove, e.Begin(unitArea, crop, rl.NewVector2(500, 500)))
	require.True(t, e.Dragging())

	got, ok := e.Drag(unitArea, rl.NewVector2(530, 470))
	require.True(t, ok)
	assertRect(t, screen.Rect{X: 0.3, Y: 0.2, W: 0.5, H: 0.5}, got)

	assert.False(t, e.ToggleSnap())
	got, _ = e.Drag(unitArea, rl.NewVector2(530, 470))
	assertRect(t, screen.Rect{X: 0.28, Y: 0.22, W: 0.5, H: 0.5}, got)
}

func TestResizeFromStartCrop(t *testing.T) {
	crop := screen.Rect{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}
	e := NewEditor()
	e.Snap = false
	require.Equal(t, HandleBottomRight, e.Begin(unitArea, crop, rl.NewVector2(750, 750)))

	got, _ := e.Drag(unitArea, rl.NewVector2(800, 810))
	assertRect(t, screen.Rect{X: 0.25, Y: 0.25, W: 0.55, H: 0.56}, got)

	// A second move is still measured from the crop at Begin.
	got, _ = e.Drag(unitArea, rl.NewVector2(760, 750))
	assertRect(t, screen.Rect{X: 0.25, Y: 0.25, W: 0.51, H: 0.5}, got)
}

func TestMinimumSize(t *testing.T) {
	crop := screen.Rect{X: 0.25, Y: 0.25, W: 0.5, H: 0.5}
	e := NewEditor()
	require.Equal(t, HandleRight, e.Begin(unitArea, crop, rl.NewVector2(750, 500)))

	got, _ := e.Drag(unitArea, rl.NewVector2(100, 500))
	assert.InDelta(t, 0.25, got.X, eps)
	assert.InDelta(t, MinSize, got.W, eps)
	assert.InDelta(t, 0.5, got.H, eps)

	require.Equal(t, HandleTop, e.Begin(unitArea, crop, rl.NewVector2(500, 250)))
	got, _ = e.Drag(unitArea, rl.NewVector2(500, 990))
	assert.InDelta(t, MinSize, got.H, eps)
}

func TestDragWithoutHandle(t *testing.T) {
	e := NewEditor()
	_, ok := e.Drag(unitArea, rl.NewVector2(10, 10))
	assert.False(t, ok)

	assert.Equal(t, HandleNone, e.Begin(unitArea, screen.Rect{X: 0.4, Y: 0.4, W: 0.2, H: 0.2}, rl.NewVector2(10, 10)))
	_, ok = e.Drag(unitArea, rl.NewVector2(500, 500))
	assert.False(t, ok)

	e.Begin(unitArea, screen.FullRect(), rl.NewVector2(500, 500))
	e.End()
	assert.False(t, e.Dragging())
	assert.Equal(t, HandleNone, e.Handle())
}

func TestResetAndHelp(t *testing.T) {
	assert.True(t, Reset().IsFull())
	e := NewEditor()
	assert.Contains(t, e.Help(), "S:Snap(ON)")
	e.ToggleSnap()
	assert.Contains(t, e.Help(), "S:Snap(OFF)")
	assert.Equal(t, "bottom-right", HandleBottomRight.String())
}
