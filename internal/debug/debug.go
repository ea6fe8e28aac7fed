package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 18
	padding    = 10
	lineHeight = fontSize + 4
	// updateInterval: only refresh the overlay text every N frames to reduce allocations.
	updateInterval = 30
)

var overlayColor = rl.NewColor(100, 200, 100, 255)

// Debug holds runtime debugging overlays drawn in the bottom-right corner above the status bar.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	font         rl.Font // optional; when set, Draw uses DrawTextEx instead of default font
	frameCount   uint32
	lines        []string
	memStats     runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the frame time counter is drawn.
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
	d.lines = nil
}

// SetShowMemAlloc sets whether the heap allocation counter is drawn.
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
	d.lines = nil
}

// SetFont sets the font used to draw the overlay. Zero texture ID = use raylib default.
func (d *Debug) SetFont(font rl.Font) {
	d.font = font
}

// Tick advances the frame counter and refreshes the overlay lines every updateInterval frames, or
// immediately after an overlay was switched. fps and frameTime (seconds) are this frame's values.
func (d *Debug) Tick(fps int32, frameTime float32) []string {
	d.frameCount++
	if d.lines != nil && d.frameCount%updateInterval != 0 {
		return d.lines
	}
	d.lines = d.lines[:0]
	if d.ShowFPS {
		d.lines = append(d.lines, fmt.Sprintf("FPS: %d (%.1f ms)", fps, frameTime*1000))
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.memStats)
		d.lines = append(d.lines, fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024)))
	}
	if d.lines == nil {
		d.lines = []string{}
	}
	return d.lines
}

// Draw renders the enabled overlays right-aligned with their last line just above bottom.
func (d *Debug) Draw(bottom int32) {
	lines := d.Tick(rl.GetFPS(), rl.GetFrameTime())
	screenW := int32(rl.GetScreenWidth())
	y := bottom - padding - int32(len(lines))*lineHeight
	for _, text := range lines {
		if d.font.Texture.ID != 0 {
			sz := float32(fontSize)
			pos := rl.NewVector2(float32(screenW)-rl.MeasureTextEx(d.font, text, sz, 1).X-float32(padding), float32(y))
			rl.DrawTextEx(d.font, text, pos, sz, 1, overlayColor)
		} else {
			w := rl.MeasureText(text, fontSize)
			rl.DrawText(text, screenW-w-padding, y, fontSize, overlayColor)
		}
		y += lineHeight
	}
}
