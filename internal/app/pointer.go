package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/mapping"
	"stage-designer/internal/ui"
)

// mapArea is the on-screen rectangle of the crop editor preview.
func (a *App) mapArea() rl.Rectangle {
	return mapping.PreviewArea(a.cam.Width, a.cam.Height, ui.StatusBarHeight)
}

// PointerDown handles a left press at p. In the crop editor it grabs a crop handle. In Designer mode the
// UI panels come first, then the gizmo of the primary screen, then picking: a hit selects the screen
// (shift toggles it), a miss clears the selection (unless shift is held) and starts a box selection.
func (a *App) PointerDown(p rl.Vector2, shift bool) {
	if a.mapping {
		sc := a.scene.PrimaryScreen()
		if sc == nil {
			a.ExitMapping()
			return
		}
		if a.mapper.Begin(a.mapArea(), sc.CropRect(), p) != mapping.HandleNone {
			a.armEdit(p)
		}
		return
	}
	if a.mode == View {
		return
	}
	if a.showUI {
		if n := a.ui.NodeAt(p); n != nil {
			a.clickUI(n, shift)
			return
		}
	}
	if sc := a.scene.PrimaryScreen(); sc != nil && a.gizmo.HitTest(a.cam, p, sc) {
		a.armEdit(p)
		a.gizmo.BeginDrag(p, sc, a.scene.SelectedScreens())
		return
	}
	hit := a.scene.Pick(a.cam, p)
	switch {
	case hit >= 0 && shift:
		a.scene.ToggleSelected(hit)
	case hit >= 0:
		a.scene.SelectOnly(hit)
	default:
		if !shift {
			a.scene.ClearSelection()
		}
		a.box = boxSelect{active: true, start: p, end: p}
	}
}

// clickUI handles a press on a UI node: screen rows select, source rows assign the source to the selection.
func (a *App) clickUI(n *ui.Node, shift bool) {
	row := a.sidebar.RowOf(n)
	switch row.Kind {
	case ui.RowScreen:
		if shift {
			a.scene.ToggleSelected(row.Index)
		} else {
			a.scene.SelectOnly(row.Index)
		}
	case ui.RowSource:
		if a.scene.SelectionCount() == 0 {
			return
		}
		a.Checkpoint()
		for _, i := range a.scene.Selected() {
			a.scene.AssignSource(i, row.Index)
		}
	}
}

// PointerMove follows a held left button to p.
func (a *App) PointerMove(p rl.Vector2) {
	switch {
	case a.mapping && a.mapper.Dragging():
		sc := a.scene.PrimaryScreen()
		if sc == nil {
			a.mapper.End()
			return
		}
		if crop, ok := a.mapper.Drag(a.mapArea(), p); ok && crop != sc.CropRect() {
			a.commitEdit()
			sc.SetCropRect(crop)
		}
	case a.gizmo.Dragging():
		if p == a.edit.start && !a.edit.committed {
			return
		}
		a.commitEdit()
		a.gizmo.UpdateDrag(p, a.cam)
	case a.box.active:
		a.box.end = p
	}
}

// PointerUp ends whatever PointerDown started. A box dragged further than a few pixels replaces the
// selection with the screens whose position falls inside it.
func (a *App) PointerUp(p rl.Vector2) {
	a.mapper.End()
	a.edit = pendingEdit{}
	if a.gizmo.Dragging() {
		a.gizmo.EndDrag()
	}
	if !a.box.active {
		return
	}
	a.box.end = p
	a.box.active = false
	r := a.box.rect()
	if r.Width < boxMinPixels && r.Height < boxMinPixels {
		return
	}
	a.scene.SelectInRect(a.cam, r)
}

// refreshUI rebuilds the panels from the editor state and lays them out for a window of width×height.
func (a *App) refreshUI(width, height int32, fps int32) {
	if !a.showUI {
		a.ui.SetNodes(nil)
		return
	}
	var nodes []*ui.Node
	if a.mode == Designer && !a.mapping {
		a.sidebar.Update(a.scene.Screens(), a.scene.IsSelected, a.scene.AvailableSources())
		a.props.Update(a.scene.PrimaryScreen(), a.scene.SelectionCount(), a.prefs.Unit)
		nodes = append(nodes, a.sidebar.Nodes()...)
		nodes = append(nodes, a.props.Nodes()...)
	}
	a.status.Update(ui.Status{
		ViewMode: a.mode == View,
		Project:  a.projectPath,
		Dirty:    a.dirty,
		FPS:      fps,
		Screens:  a.scene.Count(),
		Sources:  len(a.scene.AvailableSources()),
		Hint:     a.hint(),
	})
	nodes = append(nodes, a.status.Nodes()...)
	a.ui.SetNodes(nodes)
	a.ui.Layout(width, height)
}

// hint is the key legend for the current state.
func (a *App) hint() string {
	switch {
	case a.mapping:
		return a.mapper.Help()
	case a.mode == View:
		return "Tab:Designer  F1-F3/1-3:Camera  0:Level  H:Hide UI"
	}
	return a.gizmo.ModeString() + "  A:Add  Del:Remove  Ctrl+D:Dup  M:Map  1-9:Source  Tab:View  `:Terminal"
}
