package app

import (
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/camera"
	"stage-designer/internal/gizmo"
)

// Update polls raylib input and runs the per-frame housekeeping. Call once per frame before Draw.
func (a *App) Update() {
	a.cam.SetViewport(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	a.handleDrops()

	keyboard := true
	if rl.IsKeyPressed(rl.KeyEscape) && !a.term.IsOpen() && a.Escape() {
		keyboard = false
	} else if a.term.Update() {
		keyboard = false
	}
	if keyboard {
		a.handleKeys()
	}
	a.handleMouse()
	a.Tick()
}

func pressed(key int32) bool { return rl.IsKeyPressed(key) }

func down(keys ...int32) bool {
	for _, k := range keys {
		if rl.IsKeyDown(k) {
			return true
		}
	}
	return false
}

func (a *App) handleKeys() {
	ctrl := down(rl.KeyLeftControl, rl.KeyRightControl, rl.KeyLeftSuper, rl.KeyRightSuper)
	shift := down(rl.KeyLeftShift, rl.KeyRightShift)

	if a.mapping {
		switch {
		case pressed(rl.KeyM):
			a.ExitMapping()
		case pressed(rl.KeyS):
			a.ToggleSnap()
		case pressed(rl.KeyR):
			a.ResetCrop()
		}
		return
	}

	if ctrl {
		switch {
		case pressed(rl.KeyZ) && shift, pressed(rl.KeyY):
			a.Redo()
		case pressed(rl.KeyZ):
			a.Undo()
		case pressed(rl.KeyS):
			if err := a.Save(""); err != nil {
				a.log.Logf("save: %v", err)
			}
		case pressed(rl.KeyO):
			if err := a.Revert(); err != nil {
				a.log.Logf("reopen: %v", err)
			}
		case pressed(rl.KeyD):
			a.DuplicatePrimary()
		}
		return
	}

	switch {
	case pressed(rl.KeyTab):
		a.ToggleMode()
		return
	case pressed(rl.KeyF1):
		a.ApplyPreset(camera.PresetFront)
		return
	case pressed(rl.KeyF2):
		a.ApplyPreset(camera.PresetTop)
		return
	case pressed(rl.KeyF3):
		a.ApplyPreset(camera.PresetThreeQuarter)
		return
	case pressed(rl.KeyF):
		rl.ToggleFullscreen()
		return
	case pressed(rl.KeyH):
		a.ToggleUI()
		return
	}

	if a.mode == View {
		switch {
		case pressed(rl.KeyOne):
			a.ApplyPreset(camera.PresetFront)
		case pressed(rl.KeyTwo):
			a.ApplyPreset(camera.PresetTop)
		case pressed(rl.KeyThree):
			a.ApplyPreset(camera.PresetThreeQuarter)
		case pressed(rl.KeyZero):
			a.ApplyPreset(camera.PresetLevel)
		}
		return
	}

	switch {
	case pressed(rl.KeyW):
		a.SetGizmoMode(gizmo.Translate)
	case pressed(rl.KeyE):
		a.SetGizmoMode(gizmo.Rotate)
	case pressed(rl.KeyR):
		a.SetGizmoMode(gizmo.Scale)
	case pressed(rl.KeyA):
		a.AddScreen()
	case pressed(rl.KeyDelete), pressed(rl.KeyBackspace):
		a.DeleteSelected()
	case pressed(rl.KeyD):
		a.DisconnectSelected()
	case pressed(rl.KeyM):
		a.EnterMapping()
	case pressed(rl.KeyG):
		a.SetGridVisible(!a.prefs.GridVisible)
	default:
		for k := int32(rl.KeyOne); k <= rl.KeyNine; k++ {
			if pressed(k) {
				a.AssignSource(int(k - rl.KeyOne))
				break
			}
		}
	}
}

func (a *App) handleMouse() {
	p := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		a.PointerDown(p, down(rl.KeyLeftShift, rl.KeyRightShift))
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		a.PointerMove(p)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		a.PointerUp(p)
	}
	if a.mapping {
		return
	}
	overUI := a.showUI && a.ui.NodeAt(p) != nil
	d := rl.GetMouseDelta()
	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonRight):
		a.cam.Orbit(d.X, d.Y)
	case rl.IsMouseButtonDown(rl.MouseButtonMiddle):
		a.cam.Pan(d.X, d.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overUI {
		a.cam.Zoom(wheel)
	}
}

// handleDrops opens a project file dropped on the window and unpacks dropped zip bundles into the
// source folder. Other files are ignored.
func (a *App) handleDrops() {
	if !rl.IsFileDropped() {
		return
	}
	files := rl.LoadDroppedFiles()
	rl.UnloadDroppedFiles()
	opened := false
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".json":
			if opened {
				continue
			}
			opened = true
			if err := a.Load(f); err != nil {
				a.log.Logf("open %s: %v", f, err)
			}
		case ".zip":
			if err := a.UnpackBundle(f); err != nil {
				a.log.Logf("unpack %s: %v", f, err)
			}
		}
	}
}
