package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/fonts"
	"stage-designer/internal/render"
	"stage-designer/internal/ui"
)

var (
	boxFill    = rl.NewColor(0, 200, 255, 30)
	boxOutline = rl.NewColor(0, 200, 255, 180)
)

// Init creates the GPU-side state. Call once after the window is open.
func (a *App) Init() {
	a.renderer = render.New()
	a.renderer.Grid = render.GridFor(a.prefs.Unit)
	a.renderer.GridVisible = a.prefs.GridVisible
	if a.prefs.Font != "" {
		path, err := fonts.Find(a.prefs.Font)
		if err == nil {
			err = a.ui.LoadFont(path)
		}
		if err != nil {
			a.log.Logf("font %s: %v", a.prefs.Font, err)
		}
	}
	a.term.SetFont(a.ui.Font())
	a.dbg.SetFont(a.ui.Font())
}

// Draw renders one frame: the 3D view or the crop editor, then the panels, the terminal and the overlays.
func (a *App) Draw() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	screens := a.scene.Screens()
	a.renderer.Prune(screens)

	if a.mapping {
		if sc := a.scene.PrimaryScreen(); sc != nil {
			tex, _ := a.renderer.SourceTexture(sc)
			a.mapper.Draw(a.mapArea(), sc, tex)
		}
	} else {
		a.renderer.Draw(a.cam, screens, a.scene.IsSelected, a.mode == View)
		if a.mode == Designer {
			rl.BeginMode3D(a.cam.Camera3D())
			a.gizmo.Draw(a.cam, a.scene.PrimaryScreen())
			rl.EndMode3D()
			if a.box.active {
				r := a.box.rect()
				rl.DrawRectangleRec(r, boxFill)
				rl.DrawRectangleLinesEx(r, 1, boxOutline)
			}
		}
	}

	a.refreshUI(w, h, rl.GetFPS())
	a.ui.Draw()
	bottom := h
	if a.showUI {
		bottom -= ui.StatusBarHeight
	}
	a.term.Draw(int(bottom))
	a.dbg.Draw(bottom)
}
