// Package gizmo implements the three-axis manipulation handle used to move, rotate and scale the
// selected screens with the mouse.
//
// The gizmo is Idle until BeginDrag and Dragging until EndDrag or Cancel. Drags are always computed
// from the baseline captured at BeginDrag, never frame to frame, so they do not drift.
package gizmo

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/screen"
)

const (
	sizeFactor     = 0.12  // handle length per unit of camera distance
	hitThreshold   = 20    // pixels
	minHandleLen2  = 1     // squared pixels; shorter projected handles are not hittable
	axisProbe      = 100   // world units used to find an axis's on-screen direction
	pixelsPerSize  = 80    // pixels of drag that move one handle length
	degreesPerPx   = 0.5   // rotate sensitivity
	scalePerPx     = 0.005 // scale sensitivity
	degenerateAxis = 1e-6
)

// Mode is the kind of transform the gizmo applies.
type Mode int

const (
	Translate Mode = iota
	Rotate
	Scale
)

// Axis is a world axis, or None.
type Axis int

const (
	None Axis = iota
	X
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return "none"
}

// Direction returns the unit world vector of a, or zero for None.
func (a Axis) Direction() rl.Vector3 {
	switch a {
	case X:
		return rl.NewVector3(1, 0, 0)
	case Y:
		return rl.NewVector3(0, 1, 0)
	case Z:
		return rl.NewVector3(0, 0, 1)
	}
	return rl.Vector3{}
}

// Camera is what the gizmo needs from the view: projection to pixels and the eye position.
type Camera interface {
	WorldToScreen(p rl.Vector3) (rl.Vector2, bool)
	Position() rl.Vector3
}

type baseline struct {
	target   *screen.Screen
	position rl.Vector3
	rotation rl.Vector3
	scale    rl.Vector3
}

// Gizmo holds the mode, the active axis and the drag session.
type Gizmo struct {
	mode     Mode
	active   Axis
	dragging bool
	anchor   rl.Vector2
	primary  baseline
	targets  []baseline
}

// New returns an idle gizmo in Translate mode.
func New() *Gizmo {
	return &Gizmo{}
}

// Mode returns the current mode.
func (g *Gizmo) Mode() Mode { return g.mode }

// SetMode switches the mode. Hosts end any drag first.
func (g *Gizmo) SetMode(m Mode) { g.mode = m }

// ModeString returns the status-bar label of the current mode with its shortcut key.
func (g *Gizmo) ModeString() string {
	switch g.mode {
	case Rotate:
		return "Rotate [E]"
	case Scale:
		return "Scale [R]"
	}
	return "Move [W]"
}

// Active returns the axis picked by the last HitTest.
func (g *Gizmo) Active() Axis { return g.active }

// Dragging reports whether a drag session is open.
func (g *Gizmo) Dragging() bool { return g.dragging }

// Size returns the world length of the handles for an object at pos, proportional to its distance
// from the eye so the gizmo keeps the same apparent size while zooming.
func Size(pos, eye rl.Vector3) float32 {
	return rl.Vector3Distance(pos, eye) * sizeFactor
}

// HitTest picks the axis handle of ref nearest to p within hitThreshold pixels and makes it active.
// Handles that project to less than a pixel, or lie behind the eye, are skipped.
func (g *Gizmo) HitTest(cam Camera, p rl.Vector2, ref *screen.Screen) bool {
	g.active = None
	if ref == nil {
		return false
	}
	pos := ref.Position
	size := Size(pos, cam.Position())
	start, ok := cam.WorldToScreen(pos)
	if !ok {
		return false
	}
	best := float32(hitThreshold)
	for _, axis := range []Axis{X, Y, Z} {
		end, ok := cam.WorldToScreen(rl.Vector3Add(pos, rl.Vector3Scale(axis.Direction(), size)))
		if !ok {
			continue
		}
		d, ok := segmentDistance(p, start, end)
		if ok && d < best {
			best = d
			g.active = axis
		}
	}
	return g.active != None
}

// segmentDistance returns the distance from p to the segment a-b, or false when the segment is shorter than a pixel.
func segmentDistance(p, a, b rl.Vector2) (float32, bool) {
	ab := rl.Vector2Subtract(b, a)
	len2 := rl.Vector2DotProduct(ab, ab)
	if len2 < minHandleLen2 {
		return 0, false
	}
	t := rl.Vector2DotProduct(rl.Vector2Subtract(p, a), ab) / len2
	t = min(max(t, 0), 1)
	closest := rl.Vector2Add(a, rl.Vector2Scale(ab, t))
	return rl.Vector2Distance(p, closest), true
}

// BeginDrag opens a drag session anchored at p. The baseline transform of primary and of every target
// is captured now; primary is normally also one of targets. Hosts snapshot the scene for undo before calling it.
func (g *Gizmo) BeginDrag(p rl.Vector2, primary *screen.Screen, targets []*screen.Screen) {
	if primary == nil {
		return
	}
	g.dragging = true
	g.anchor = p
	g.primary = capture(primary)
	g.targets = g.targets[:0]
	for _, t := range targets {
		g.targets = append(g.targets, capture(t))
	}
}

func capture(s *screen.Screen) baseline {
	return baseline{target: s, position: s.Position, rotation: s.Rotation, scale: s.Scale}
}

// UpdateDrag applies the drag from the anchor to p to every target. It does nothing unless a drag is open
// on an active axis.
//
// Translate moves every target by the same world delta along the active axis. Rotate and Scale add the same
// amount to each target's own baseline component.
func (g *Gizmo) UpdateDrag(p rl.Vector2, cam Camera) {
	if !g.dragging || g.active == None {
		return
	}
	delta := rl.Vector2Subtract(p, g.anchor)
	switch g.mode {
	case Translate:
		offset, ok := g.translation(delta, cam)
		if !ok {
			return
		}
		for _, b := range g.targets {
			b.target.Position = rl.Vector3Add(b.position, offset)
		}
	case Rotate:
		deg := delta.X * degreesPerPx
		for _, b := range g.targets {
			b.target.Rotation = addComponent(b.rotation, g.active, deg)
		}
	case Scale:
		d := delta.X * scalePerPx
		for _, b := range g.targets {
			s := addComponent(b.scale, g.active, d)
			b.target.Scale = floorComponent(s, g.active, screen.MinScale)
		}
	}
}

// translation converts a pixel delta into a world offset along the active axis, measured at the primary's
// baseline position.
func (g *Gizmo) translation(delta rl.Vector2, cam Camera) (rl.Vector3, bool) {
	pos := g.primary.position
	dir := g.active.Direction()
	from, ok1 := cam.WorldToScreen(pos)
	to, ok2 := cam.WorldToScreen(rl.Vector3Add(pos, rl.Vector3Scale(dir, axisProbe)))
	if !ok1 || !ok2 {
		return rl.Vector3{}, false
	}
	onScreen := rl.Vector2Subtract(to, from)
	length := rl.Vector2Length(onScreen)
	if length < degenerateAxis {
		// Axis points straight at the eye.
		return rl.Vector3{}, false
	}
	onScreen = rl.Vector2Scale(onScreen, 1/length)
	projected := rl.Vector2DotProduct(delta, onScreen)
	worldScale := Size(pos, cam.Position()) / pixelsPerSize
	return rl.Vector3Scale(dir, projected*worldScale), true
}

func addComponent(v rl.Vector3, a Axis, d float32) rl.Vector3 {
	switch a {
	case X:
		v.X += d
	case Y:
		v.Y += d
	case Z:
		v.Z += d
	}
	return v
}

func floorComponent(v rl.Vector3, a Axis, lo float32) rl.Vector3 {
	switch a {
	case X:
		v.X = math32.Max(v.X, lo)
	case Y:
		v.Y = math32.Max(v.Y, lo)
	case Z:
		v.Z = math32.Max(v.Z, lo)
	}
	return v
}

// EndDrag closes the drag session and clears the active axis. It does not record undo history.
func (g *Gizmo) EndDrag() {
	g.dragging = false
	g.active = None
	g.primary = baseline{}
	g.targets = g.targets[:0]
}

// Revert puts every target back to its transform at BeginDrag and closes the session.
func (g *Gizmo) Revert() {
	if g.dragging {
		for _, b := range g.targets {
			b.target.Position, b.target.Rotation, b.target.Scale = b.position, b.rotation, b.scale
		}
	}
	g.EndDrag()
}

// Cancel drops an open drag without touching the targets. Hosts call it whenever the screen collection
// changes, so a session never writes to screens that are no longer in the scene.
func (g *Gizmo) Cancel() {
	g.EndDrag()
}
