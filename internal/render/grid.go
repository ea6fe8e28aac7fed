package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/units"
)

const (
	gridLines      = 20 // each side of the origin
	gridMajorEvery = 5
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 200
	// minGridStep keeps centimeter grids from turning into a solid plane.
	minGridStep = 10
)

// Grid is the floor grid on the XZ plane: Lines lines each side of the origin, Step scene units apart,
// every MajorEvery-th line brighter.
type Grid struct {
	Step       float32
	Lines      int
	MajorEvery int
}

// DefaultGrid is a one-meter grid.
func DefaultGrid() Grid {
	return GridFor(units.Meters)
}

// GridFor returns a grid whose lines are one u apart, or ten u apart when one u is finer than minGridStep.
func GridFor(u units.Unit) Grid {
	step := u.Scale()
	for step < minGridStep {
		step *= 10
	}
	return Grid{Step: step, Lines: gridLines, MajorEvery: gridMajorEvery}
}

// Extent is the distance from the origin to the outermost line.
func (g Grid) Extent() float32 {
	return g.Step * float32(g.Lines)
}

// IsMajor reports whether line i (counted from the origin) is a major line.
func (g Grid) IsMajor(i int) bool {
	return g.MajorEvery > 0 && i%g.MajorEvery == 0
}

// Draw draws the grid with major/minor lines and the three axis lines. Call inside BeginMode3D.
// Reuses start/end vectors to avoid per-frame allocations in the hot loop.
func (g Grid) Draw() {
	minor := rl.NewColor(128, 128, 128, gridMinorAlpha)
	major := rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX := rl.NewColor(180, 50, 50, axisLineAlpha)
	axisY := rl.NewColor(50, 180, 50, axisLineAlpha)
	axisZ := rl.NewColor(50, 50, 180, axisLineAlpha)
	ext := g.Extent()

	var start, end rl.Vector3
	for i := -g.Lines; i <= g.Lines; i++ {
		c := minor
		if g.IsMajor(i) {
			c = major
		}
		p := float32(i) * g.Step
		start.X, start.Y, start.Z = p, 0, -ext
		end.X, end.Y, end.Z = p, 0, ext
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -ext, 0, p
		end.X, end.Y, end.Z = ext, 0, p
		rl.DrawLine3D(start, end, c)
	}

	// Axis lines through origin (X=red, Y=green, Z=blue); Y only upward, the floor is at 0.
	start.X, start.Y, start.Z = -ext, 0, 0
	end.X, end.Y, end.Z = ext, 0, 0
	rl.DrawLine3D(start, end, axisX)
	start.X, start.Y, start.Z = 0, 0, 0
	end.X, end.Y, end.Z = 0, ext, 0
	rl.DrawLine3D(start, end, axisY)
	start.X, start.Y, start.Z = 0, 0, -ext
	end.X, end.Y, end.Z = 0, 0, ext
	rl.DrawLine3D(start, end, axisZ)
}
