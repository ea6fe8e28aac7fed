package gizmo

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stage-designer/internal/camera"
	"stage-designer/internal/screen"
)

// With the eye at (0,150,800) looking at (0,150,0) on a 1000px viewport, a screen at (0,150,0) sits at
// pixel (500,500), its handles are 96 units long, the X handle ends near x=645 and the Y handle near y=355.
func frontCamera() *camera.Orbit {
	cam := camera.New(1000, 1000)
	cam.LookFrom(rl.NewVector3(0, 150, 800), rl.NewVector3(0, 150, 0))
	return cam
}

func screenAt(x, y, z float32) *screen.Screen {
	s := screen.New("")
	s.Position = rl.NewVector3(x, y, z)
	return s
}

func TestModeString(t *testing.T) {
	g := New()
	assert.Equal(t, Translate, g.Mode())
	assert.Equal(t, "Move [W]", g.ModeString())
	g.SetMode(Rotate)
	assert.Equal(t, "Rotate [E]", g.ModeString())
	g.SetMode(Scale)
	assert.Equal(t, "Scale [R]", g.ModeString())
}

func TestSize(t *testing.T) {
	assert.InDelta(t, 96, Size(rl.NewVector3(0, 150, 0), rl.NewVector3(0, 150, 800)), 1e-3)
	assert.InDelta(t, 12, Size(rl.NewVector3(0, 0, 0), rl.NewVector3(0, 0, 100)), 1e-3)
}

func TestHitTest(t *testing.T) {
	cam := frontCamera()
	s := screenAt(0, 150, 0)
	g := New()

	tests := []struct {
		name string
		p    rl.Vector2
		want Axis
	}{
		{"x handle", rl.NewVector2(570, 505), X},
		{"y handle", rl.NewVector2(497, 430), Y},
		{"beyond x tip", rl.NewVector2(700, 500), None},
		{"empty space", rl.NewVector2(100, 900), None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := g.HitTest(cam, tt.p, s)
			assert.Equal(t, tt.want != None, hit)
			assert.Equal(t, tt.want, g.Active())
		})
	}

	assert.False(t, g.HitTest(cam, rl.NewVector2(500, 500), nil))
}

func TestHitTestSkipsAxisPointingAtEye(t *testing.T) {
	cam := frontCamera()
	s := screenAt(0, 150, 0)
	g := New()
	// The Z handle projects onto the center pixel; only X or Y can win there.
	require.True(t, g.HitTest(cam, rl.NewVector2(500, 500), s))
	assert.NotEqual(t, Z, g.Active())
}

func TestGroupTranslate(t *testing.T) {
	cam := frontCamera()
	a := screenAt(0, 150, 0)
	b := screenAt(-200, 150, 0)
	c := screenAt(200, 80, -100)
	other := screenAt(400, 0, 0)
	targets := []*screen.Screen{a, b, c}

	g := New()
	require.True(t, g.HitTest(cam, rl.NewVector2(570, 500), a))
	require.Equal(t, X, g.Active())

	g.BeginDrag(rl.NewVector2(570, 500), a, targets)
	require.True(t, g.Dragging())
	g.UpdateDrag(rl.NewVector2(620, 500), cam)

	// 50px along a horizontal axis at 1.2 world units per pixel.
	want := float32(50) * Size(a.Position, cam.Position()) / 80
	before := map[*screen.Screen]rl.Vector3{
		a: rl.NewVector3(0, 150, 0),
		b: rl.NewVector3(-200, 150, 0),
		c: rl.NewVector3(200, 80, -100),
	}
	for s, p := range before {
		assert.InDelta(t, p.X+want, s.Position.X, 1e-2)
		assert.InDelta(t, p.Y, s.Position.Y, 1e-4)
		assert.InDelta(t, p.Z, s.Position.Z, 1e-4)
	}
	assert.Equal(t, rl.NewVector3(400, 0, 0), other.Position)

	// Updates are relative to the baseline, not cumulative.
	g.UpdateDrag(rl.NewVector2(620, 500), cam)
	assert.InDelta(t, want, a.Position.X, 1e-2)

	// Vertical mouse motion does not move along X.
	g.UpdateDrag(rl.NewVector2(570, 300), cam)
	assert.InDelta(t, 0, a.Position.X, 1e-2)

	g.EndDrag()
	assert.False(t, g.Dragging())
	assert.Equal(t, None, g.Active())
}

func TestTranslateYFollowsScreenUp(t *testing.T) {
	cam := frontCamera()
	a := screenAt(0, 150, 0)
	g := New()
	require.True(t, g.HitTest(cam, rl.NewVector2(500, 430), a))
	require.Equal(t, Y, g.Active())

	g.BeginDrag(rl.NewVector2(500, 430), a, []*screen.Screen{a})
	g.UpdateDrag(rl.NewVector2(500, 330), cam)
	assert.Greater(t, a.Position.Y, float32(150), "dragging up raises the screen")
}

func TestRotatePerTarget(t *testing.T) {
	cam := frontCamera()
	a := screenAt(0, 150, 0)
	b := screenAt(300, 150, 0)
	b.Rotation = rl.NewVector3(0, 30, 0)

	g := New()
	g.SetMode(Rotate)
	require.True(t, g.HitTest(cam, rl.NewVector2(500, 430), a))
	g.BeginDrag(rl.NewVector2(500, 430), a, []*screen.Screen{a, b})
	g.UpdateDrag(rl.NewVector2(540, 430), cam)

	assert.InDelta(t, 20, a.Rotation.Y, 1e-4)
	assert.InDelta(t, 50, b.Rotation.Y, 1e-4)
	assert.Equal(t, float32(0), a.Rotation.X)
	assert.Equal(t, rl.NewVector3(0, 150, 0), a.Position)
}

func TestScaleFloors(t *testing.T) {
	cam := frontCamera()
	a := screenAt(0, 150, 0)
	g := New()
	g.SetMode(Scale)
	require.True(t, g.HitTest(cam, rl.NewVector2(570, 500), a))
	g.BeginDrag(rl.NewVector2(570, 500), a, []*screen.Screen{a})

	g.UpdateDrag(rl.NewVector2(670, 500), cam)
	assert.InDelta(t, 1.5, a.Scale.X, 1e-4)
	assert.Equal(t, float32(1), a.Scale.Y)

	g.UpdateDrag(rl.NewVector2(-1000, 500), cam)
	assert.Equal(t, float32(screen.MinScale), a.Scale.X)
}

func TestUpdateWithoutDragDoesNothing(t *testing.T) {
	cam := frontCamera()
	a := screenAt(0, 150, 0)
	g := New()
	g.UpdateDrag(rl.NewVector2(900, 900), cam)
	assert.Equal(t, rl.NewVector3(0, 150, 0), a.Position)

	// A drag with no active axis is inert too.
	g.BeginDrag(rl.NewVector2(100, 100), a, []*screen.Screen{a})
	g.UpdateDrag(rl.NewVector2(900, 900), cam)
	assert.Equal(t, rl.NewVector3(0, 150, 0), a.Position)

	g.BeginDrag(rl.NewVector2(0, 0), nil, nil)
}

func TestCancelStopsWrites(t *testing.T) {
	cam := frontCamera()
	a := screenAt(0, 150, 0)
	g := New()
	require.True(t, g.HitTest(cam, rl.NewVector2(570, 500), a))
	g.BeginDrag(rl.NewVector2(570, 500), a, []*screen.Screen{a})
	g.Cancel()
	g.UpdateDrag(rl.NewVector2(900, 500), cam)
	assert.Equal(t, rl.NewVector3(0, 150, 0), a.Position)
	assert.False(t, g.Dragging())
}

func TestRevertRestoresBaseline(t *testing.T) {
	cam := frontCamera()
	a := screenAt(0, 150, 0)
	b := screenAt(400, 150, 0)
	g := New()
	require.True(t, g.HitTest(cam, rl.NewVector2(570, 500), a))
	g.BeginDrag(rl.NewVector2(570, 500), a, []*screen.Screen{a, b})
	g.UpdateDrag(rl.NewVector2(700, 500), cam)
	require.NotEqual(t, rl.NewVector3(0, 150, 0), a.Position)

	g.Revert()
	assert.Equal(t, rl.NewVector3(0, 150, 0), a.Position)
	assert.Equal(t, rl.NewVector3(400, 150, 0), b.Position)
	assert.False(t, g.Dragging())
	assert.Equal(t, None, g.Active())
}

func TestSegmentDistance(t *testing.T) {
	d, ok := segmentDistance(rl.NewVector2(5, 3), rl.NewVector2(0, 0), rl.NewVector2(10, 0))
	require.True(t, ok)
	assert.InDelta(t, 3, d, 1e-5)

	d, ok = segmentDistance(rl.NewVector2(13, 4), rl.NewVector2(0, 0), rl.NewVector2(10, 0))
	require.True(t, ok)
	assert.InDelta(t, 5, d, 1e-5)

	_, ok = segmentDistance(rl.NewVector2(0, 0), rl.NewVector2(1, 1), rl.NewVector2(1.5, 1.5))
	assert.False(t, ok)
}

func TestAxisColor(t *testing.T) {
	assert.Equal(t, uint8(255), AxisColor(X, true).R)
	assert.Equal(t, uint8(180), AxisColor(X, false).R)
	assert.Equal(t, uint8(255), AxisColor(Z, true).B)
	assert.Equal(t, "y", Y.String())
}
