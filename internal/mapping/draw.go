package mapping

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/screen"
)

const (
	checkerStep = 40
	handleDraw  = 5
	fontSize    = 10
)

var (
	cropColor   = rl.NewColor(255, 200, 0, 255)
	dimColor    = rl.NewColor(0, 0, 0, 140)
	minorLine   = rl.NewColor(255, 255, 255, 25)
	majorLine   = rl.NewColor(255, 255, 255, 50)
	crosshair   = rl.NewColor(255, 200, 0, 80)
	checkerDark = rl.NewColor(30, 30, 30, 255)
	checkerLite = rl.NewColor(40, 40, 40, 255)
)

// Draw renders the editor for sc over area. tex, if valid, is the live source shown under the crop;
// without one a checkerboard stands in.
func (e *Editor) Draw(area rl.Rectangle, sc *screen.Screen, tex *rl.Texture2D) {
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), rl.NewColor(15, 15, 15, 255))
	rl.DrawRectangleRec(area, checkerDark)
	if tex != nil && tex.ID != 0 {
		src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
		rl.DrawTexturePro(*tex, src, area, rl.Vector2{}, 0, rl.White)
	} else {
		drawChecker(area)
	}

	for g := float32(SnapGrid); g < 1; g += SnapGrid {
		drawGridLine(area, g, minorLine)
	}
	for _, g := range []float32{0.25, 0.5, 0.75} {
		drawGridLine(area, g, majorLine)
	}

	c := CropPixels(area, sc.CropRect())
	// Dim everything outside the crop.
	rl.DrawRectangleRec(rl.NewRectangle(area.X, area.Y, area.Width, c.Y-area.Y), dimColor)
	rl.DrawRectangleRec(rl.NewRectangle(area.X, c.Y+c.Height, area.Width, area.Y+area.Height-c.Y-c.Height), dimColor)
	rl.DrawRectangleRec(rl.NewRectangle(area.X, c.Y, c.X-area.X, c.Height), dimColor)
	rl.DrawRectangleRec(rl.NewRectangle(c.X+c.Width, c.Y, area.X+area.Width-c.X-c.Width, c.Height), dimColor)

	rl.DrawRectangleLinesEx(c, 2, cropColor)
	for _, p := range handlePoints(c) {
		rl.DrawRectangleRec(rl.NewRectangle(p.X-handleDraw, p.Y-handleDraw, 2*handleDraw, 2*handleDraw), cropColor)
	}
	rl.DrawLineV(rl.NewVector2(c.X+c.Width/2, c.Y), rl.NewVector2(c.X+c.Width/2, c.Y+c.Height), crosshair)
	rl.DrawLineV(rl.NewVector2(c.X, c.Y+c.Height/2), rl.NewVector2(c.X+c.Width, c.Y+c.Height/2), crosshair)
	rl.DrawRectangleLinesEx(area, 1, rl.NewColor(80, 80, 80, 255))

	title := sc.Name + " - Input Mapping  [No source]"
	if sc.HasSource() {
		title = fmt.Sprintf("%s - Input Mapping  [%s]", sc.Name, sc.SourceName)
	}
	rl.DrawText(title, int32(area.X), int32(area.Y)-15, fontSize, rl.White)

	crop := sc.CropRect()
	info := fmt.Sprintf("X:%.3f  Y:%.3f  W:%.3f  H:%.3f", crop.X, crop.Y, crop.W, crop.H)
	rl.DrawText(info, int32(area.X), int32(area.Y+area.Height)+20, fontSize, rl.LightGray)
	rl.DrawText(e.Help(), int32(area.X), int32(area.Y+area.Height)+40, fontSize, rl.Gray)
}

// Help returns the key legend shown under the preview.
func (e *Editor) Help() string {
	snap := "OFF"
	if e.Snap {
		snap = "ON"
	}
	return "Drag:Move  Corners/Edges:Resize  S:Snap(" + snap + ")  R:Reset  M/Esc:Close"
}

func handlePoints(c rl.Rectangle) []rl.Vector2 {
	l, t, r, b := c.X, c.Y, c.X+c.Width, c.Y+c.Height
	mx, my := c.X+c.Width/2, c.Y+c.Height/2
	return []rl.Vector2{
		{X: l, Y: t}, {X: r, Y: t}, {X: l, Y: b}, {X: r, Y: b},
		{X: mx, Y: t}, {X: mx, Y: b}, {X: l, Y: my}, {X: r, Y: my},
	}
}

func drawGridLine(area rl.Rectangle, g float32, c rl.Color) {
	x := area.X + g*area.Width
	y := area.Y + g*area.Height
	rl.DrawLineV(rl.NewVector2(x, area.Y), rl.NewVector2(x, area.Y+area.Height), c)
	rl.DrawLineV(rl.NewVector2(area.X, y), rl.NewVector2(area.X+area.Width, y), c)
}

func drawChecker(area rl.Rectangle) {
	for gx := area.X; gx < area.X+area.Width; gx += checkerStep {
		for gy := area.Y; gy < area.Y+area.Height; gy += checkerStep {
			ix := int((gx - area.X) / checkerStep)
			iy := int((gy - area.Y) / checkerStep)
			if (ix+iy)%2 != 0 {
				continue
			}
			w := min(float32(checkerStep), area.X+area.Width-gx)
			h := min(float32(checkerStep), area.Y+area.Height-gy)
			rl.DrawRectangleRec(rl.NewRectangle(gx, gy, w, h), checkerLite)
		}
	}
}
