// Package camera is the editor's orbit camera. Projection and unprojection are computed from the view and
// projection matrices directly, so picking and box-select work without a window.
package camera

import (
	"encoding/json"
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	DefaultDistance = 800
	DefaultFovy     = 45
	DefaultNear     = 1
	DefaultFar      = 20000
	// maxPitch keeps the view direction off the up vector.
	maxPitch    = 89.99
	minDistance = 10
	// Mouse sensitivities for Orbit (degrees per pixel), Pan (fraction of distance per pixel) and Zoom (per wheel step).
	orbitSpeed = 0.3
	panSpeed   = 0.0015
	zoomStep   = 0.1
)

var up = rl.NewVector3(0, 1, 0)

// Orbit is a camera circling Target at Distance. Yaw is measured around +Y from +Z, Pitch upward from the XZ plane.
// Width and Height are the viewport in pixels.
type Orbit struct {
	Target   rl.Vector3
	Distance float32
	Yaw      float32
	Pitch    float32
	Fovy     float32
	Near     float32
	Far      float32
	Width    float32
	Height   float32
}

// New returns a camera in the default framing: 800 units in front of (0,100,0).
func New(width, height float32) *Orbit {
	o := &Orbit{
		Fovy:   DefaultFovy,
		Near:   DefaultNear,
		Far:    DefaultFar,
		Width:  width,
		Height: height,
	}
	o.Reset()
	return o
}

// Reset restores the default framing.
func (o *Orbit) Reset() {
	o.Target = rl.NewVector3(0, 100, 0)
	o.Distance = DefaultDistance
	o.Yaw, o.Pitch = 0, 0
}

// SetViewport updates the viewport size, e.g. after a window resize.
func (o *Orbit) SetViewport(width, height float32) {
	o.Width, o.Height = width, height
}

// Position returns the eye position.
func (o *Orbit) Position() rl.Vector3 {
	return rl.Vector3Add(o.Target, rl.Vector3Scale(o.direction(), o.Distance))
}

// direction is the unit vector from Target to the eye.
func (o *Orbit) direction() rl.Vector3 {
	yaw := o.Yaw * rl.Deg2rad
	pitch := o.Pitch * rl.Deg2rad
	cp := math32.Cos(pitch)
	return rl.NewVector3(cp*math32.Sin(yaw), math32.Sin(pitch), cp*math32.Cos(yaw))
}

// LookFrom places the eye at pos looking at target. Distance, yaw and pitch are derived from the offset.
func (o *Orbit) LookFrom(pos, target rl.Vector3) {
	o.Target = target
	d := rl.Vector3Subtract(pos, target)
	dist := rl.Vector3Length(d)
	if dist < minDistance {
		dist = minDistance
		if rl.Vector3Length(d) == 0 {
			d = rl.NewVector3(0, 0, 1)
		}
	}
	o.Distance = dist
	n := rl.Vector3Normalize(d)
	o.Pitch = clamp(math32.Asin(clamp(n.Y, -1, 1))*rl.Rad2deg, -maxPitch, maxPitch)
	o.Yaw = math32.Atan2(n.X, n.Z) * rl.Rad2deg
}

// SetTarget moves the orbit center, keeping distance and angles.
func (o *Orbit) SetTarget(target rl.Vector3) {
	o.Target = target
}

// SetDistance sets the orbit distance, clamped to [minDistance, Far/2].
func (o *Orbit) SetDistance(d float32) {
	o.Distance = clamp(d, minDistance, o.Far/2)
}

// Orbit rotates the eye around Target by a mouse delta in pixels.
func (o *Orbit) Orbit(dx, dy float32) {
	o.Yaw -= dx * orbitSpeed
	o.Pitch = clamp(o.Pitch+dy*orbitSpeed, -maxPitch, maxPitch)
}

// Pan slides Target (and the eye with it) in the view plane by a mouse delta in pixels.
func (o *Orbit) Pan(dx, dy float32) {
	forward := rl.Vector3Negate(o.direction())
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(forward, up))
	camUp := rl.Vector3CrossProduct(right, forward)
	scale := o.Distance * panSpeed
	offset := rl.Vector3Add(rl.Vector3Scale(right, -dx*scale), rl.Vector3Scale(camUp, dy*scale))
	o.Target = rl.Vector3Add(o.Target, offset)
}

// Zoom moves the eye toward Target for positive wheel steps and away for negative ones.
func (o *Orbit) Zoom(steps float32) {
	o.SetDistance(o.Distance * (1 - steps*zoomStep))
}

// View returns the view matrix.
func (o *Orbit) View() rl.Matrix {
	return rl.MatrixLookAt(o.Position(), o.Target, up)
}

// Projection returns the perspective projection matrix for the viewport aspect ratio.
func (o *Orbit) Projection() rl.Matrix {
	aspect := float32(1)
	if o.Height > 0 {
		aspect = o.Width / o.Height
	}
	top := o.Near * math32.Tan(o.Fovy*rl.Deg2rad/2)
	right := top * aspect
	return rl.MatrixFrustum(-right, right, -top, top, o.Near, o.Far)
}

// WorldToScreen projects p to viewport pixels (origin top-left). ok is false when p is behind the eye.
func (o *Orbit) WorldToScreen(p rl.Vector3) (rl.Vector2, bool) {
	q := rl.QuaternionTransform(rl.Quaternion{X: p.X, Y: p.Y, Z: p.Z, W: 1}, o.View())
	q = rl.QuaternionTransform(q, o.Projection())
	if q.W <= 0 {
		return rl.Vector2{}, false
	}
	ndcX, ndcY := q.X/q.W, q.Y/q.W
	return rl.NewVector2((ndcX+1)/2*o.Width, (1-ndcY)/2*o.Height), true
}

// ScreenRay returns the world-space ray through viewport pixel p, starting on the near plane.
func (o *Orbit) ScreenRay(p rl.Vector2) rl.Ray {
	x := 2*p.X/o.Width - 1
	y := 1 - 2*p.Y/o.Height
	inv := rl.MatrixInvert(rl.MatrixMultiply(o.View(), o.Projection()))
	near := unproject(x, y, -1, inv)
	far := unproject(x, y, 1, inv)
	return rl.Ray{Position: near, Direction: rl.Vector3Normalize(rl.Vector3Subtract(far, near))}
}

func unproject(x, y, z float32, inv rl.Matrix) rl.Vector3 {
	q := rl.QuaternionTransform(rl.Quaternion{X: x, Y: y, Z: z, W: 1}, inv)
	return rl.NewVector3(q.X/q.W, q.Y/q.W, q.Z/q.W)
}

// Camera3D returns the raylib camera for rendering this view.
func (o *Orbit) Camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   o.Position(),
		Target:     o.Target,
		Up:         up,
		Fovy:       o.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// State is the camera block of a project file.
type State struct {
	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
	Distance float32    `json:"distance"`
}

// State returns the persisted form of the camera.
func (o *Orbit) State() State {
	p := o.Position()
	return State{
		Position: [3]float32{p.X, p.Y, p.Z},
		Target:   [3]float32{o.Target.X, o.Target.Y, o.Target.Z},
		Distance: o.Distance,
	}
}

// Apply restores a persisted camera: the eye at Position looking at Target, then Distance if set.
func (o *Orbit) Apply(s State) {
	o.LookFrom(rl.NewVector3(s.Position[0], s.Position[1], s.Position[2]), rl.NewVector3(s.Target[0], s.Target[1], s.Target[2]))
	if s.Distance > 0 {
		o.SetDistance(s.Distance)
	}
}

// MarshalState returns the camera block as raw JSON for embedding in a project document.
func (o *Orbit) MarshalState() (json.RawMessage, error) {
	return json.Marshal(o.State())
}

// ApplyJSON restores the camera from a project camera block. An empty block leaves the camera unchanged.
func (o *Orbit) ApplyJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	o.Apply(s)
	return nil
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
