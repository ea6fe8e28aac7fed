package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the editor window.
type Window struct {
	Title      string
	Width      int32
	Height     int32
	TargetFPS  int32
	Fullscreen bool
}

// DefaultWindow is a resizable 1600×900 window at 60 FPS.
func DefaultWindow() Window {
	return Window{Title: "Stage Designer", Width: 1600, Height: 900, TargetFPS: 60}
}

// Run opens the window and runs the main loop until the window is closed. Each frame it calls update
// (input and state), then clears the screen and calls draw. init runs once after the window exists,
// for loading GPU resources; shutdown runs before the window closes.
// ESC never quits; the editor uses it to cancel drags and close the terminal.
func Run(w Window, init, update, draw, shutdown func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()
	if w.Fullscreen {
		m := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(m), rl.GetMonitorHeight(m))
		rl.ToggleFullscreen()
	}

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(w.TargetFPS)

	if init != nil {
		init()
	}
	if shutdown != nil {
		defer shutdown()
	}
	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(30, 30, 34, 255))
		draw()
		rl.EndDrawing()
	}
}
