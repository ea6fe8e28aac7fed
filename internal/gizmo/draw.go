package gizmo

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/screen"
)

const (
	ringSegments = 48
	ringRadius   = 0.8  // of handle length
	coneLength   = 0.1  // of handle length
	coneRadius   = 0.03 // of handle length
	cubeSize     = 0.06 // of handle length
)

// AxisColor returns the handle color of a; the active axis is drawn brighter.
func AxisColor(a Axis, active bool) rl.Color {
	var b uint8 = 180
	if active {
		b = 255
	}
	switch a {
	case X:
		return rl.NewColor(b, 50, 50, 255)
	case Y:
		return rl.NewColor(50, b, 50, 255)
	case Z:
		return rl.NewColor(50, 50, b, 255)
	}
	return rl.NewColor(150, 150, 150, 255)
}

// Draw renders the handles for ref. Call between BeginMode3D and EndMode3D.
func (g *Gizmo) Draw(cam Camera, ref *screen.Screen) {
	if ref == nil {
		return
	}
	pos := ref.Position
	size := Size(pos, cam.Position())
	rl.DisableDepthTest()
	defer rl.EnableDepthTest()

	for _, axis := range []Axis{X, Y, Z} {
		c := AxisColor(axis, g.active == axis)
		dir := axis.Direction()
		end := rl.Vector3Add(pos, rl.Vector3Scale(dir, size))
		switch g.mode {
		case Translate:
			rl.DrawLine3D(pos, end, c)
			tip := rl.Vector3Add(end, rl.Vector3Scale(dir, size*coneLength))
			rl.DrawCylinderEx(end, tip, size*coneRadius, 0, 12, c)
		case Rotate:
			drawRing(pos, axis, size*ringRadius, c)
		case Scale:
			rl.DrawLine3D(pos, end, c)
			s := size * cubeSize
			rl.DrawCube(end, s, s, s, c)
		}
	}
}

// drawRing draws the rotation circle around axis, in the plane perpendicular to it.
func drawRing(center rl.Vector3, axis Axis, r float32, c rl.Color) {
	prev := ringPoint(center, axis, r, 0)
	for i := 1; i <= ringSegments; i++ {
		next := ringPoint(center, axis, r, 2*math32.Pi*float32(i)/ringSegments)
		rl.DrawLine3D(prev, next, c)
		prev = next
	}
}

func ringPoint(center rl.Vector3, axis Axis, r, angle float32) rl.Vector3 {
	cos, sin := math32.Cos(angle)*r, math32.Sin(angle)*r
	var off rl.Vector3
	switch axis {
	case X:
		off = rl.NewVector3(0, cos, sin)
	case Y:
		off = rl.NewVector3(cos, 0, sin)
	default:
		off = rl.NewVector3(cos, sin, 0)
	}
	return rl.Vector3Add(center, off)
}
