// Package app is the editor controller. It owns the scene and its history, routes input to the gizmo,
// the crop editor and the selection, and draws the 3D view with the UI on top.
//
// Every mutation of the scene goes through Checkpoint first, so a single Undo reverts it.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/archive"
	"stage-designer/internal/camera"
	"stage-designer/internal/commands"
	"stage-designer/internal/debug"
	"stage-designer/internal/download"
	"stage-designer/internal/gizmo"
	"stage-designer/internal/logger"
	"stage-designer/internal/mapping"
	"stage-designer/internal/prefs"
	"stage-designer/internal/render"
	"stage-designer/internal/scene"
	"stage-designer/internal/source"
	"stage-designer/internal/terminal"
	"stage-designer/internal/ui"
	"stage-designer/internal/undo"
	"stage-designer/internal/units"
)

// DefaultProjectPath is where a project that never had a file is saved.
const DefaultProjectPath = "projects/untitled.json"

// boxMinPixels is the drag distance below which a release on empty space is a click, not a box.
const boxMinPixels = 4

var (
	// ErrNoProject is returned by Revert when no project file is open.
	ErrNoProject = errors.New("app: no project file")
	// ErrNoSourceFolder is returned by fetch when no source folder is open.
	ErrNoSourceFolder = errors.New("app: no source folder")
)

// Mode is the top-level editor mode.
type Mode int

const (
	Designer Mode = iota
	View
)

func (m Mode) String() string {
	if m == View {
		return "view"
	}
	return "designer"
}

// Config is what the editor starts with.
type Config struct {
	Prefs       prefs.Prefs
	PrefsPath   string // empty keeps preference changes in memory
	ProjectPath string // opened at start when set
	SourceDir   string // folder of still images served as sources
	Log         *logger.Logger
	Width       float32
	Height      float32
}

type boxSelect struct {
	active     bool
	start, end rl.Vector2
}

func (b boxSelect) rect() rl.Rectangle {
	x0, x1 := min(b.start.X, b.end.X), max(b.start.X, b.end.X)
	y0, y1 := min(b.start.Y, b.end.Y), max(b.start.Y, b.end.Y)
	return rl.NewRectangle(x0, y0, x1-x0, y1-y0)
}

// pendingEdit is a drag that has not changed the scene yet. Its checkpoint is taken on the first real
// change, so a press that never moves leaves no undo step.
type pendingEdit struct {
	armed     bool
	start     rl.Vector2
	committed bool
	wasDirty  bool
}

// App is the running editor.
type App struct {
	log       *logger.Logger
	prefs     prefs.Prefs
	prefsPath string

	scene   *scene.Scene
	history *undo.Manager
	cam     *camera.Orbit
	gizmo   *gizmo.Gizmo
	mapper  *mapping.Editor
	folder  *source.Folder
	fetcher *download.Client

	reg     *commands.Registry
	term    *terminal.Terminal
	dbg     *debug.Debug
	ui      *ui.Engine
	props   *ui.Properties
	status  *ui.StatusBar
	sidebar *ui.Sidebar

	renderer *render.Renderer // nil until Init, when the window exists

	mode        Mode
	showUI      bool
	mapping     bool
	box         boxSelect
	edit        pendingEdit
	projectPath string
	dirty       bool
	lastSave    time.Time
	now         func() time.Time
	ctx         context.Context
	cancel      context.CancelFunc
}

// New builds the editor from cfg. It opens cfg.SourceDir and cfg.ProjectPath when set and starts a new
// project otherwise. No window is needed until Init.
func New(cfg Config) (*App, error) {
	log := cfg.Log
	if log == nil {
		log = logger.NewAt("")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1600, 900
	}
	a := &App{
		log:       log,
		prefs:     cfg.Prefs,
		prefsPath: cfg.PrefsPath,
		scene:     scene.New(),
		cam:       camera.New(cfg.Width, cfg.Height),
		gizmo:     gizmo.New(),
		mapper:    mapping.NewEditor(),
		fetcher:   download.New(),
		reg:       commands.NewRegistry(),
		dbg:       debug.New(),
		ui:        ui.New(),
		props:     ui.NewProperties(),
		status:    ui.NewStatusBar(),
		sidebar:   ui.NewSidebar(),
		showUI:    true,
		now:       time.Now,
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.history = undo.New(a.scene, undo.DefaultLimit)
	a.mapper.Snap = a.prefs.SnapEnabled
	a.dbg.SetShowFPS(a.prefs.ShowFPS)
	a.dbg.SetShowMemAlloc(a.prefs.ShowMemAlloc)
	commands.RegisterEditor(a.reg, a)
	a.registerFetch()
	a.term = terminal.New(log, a.reg)
	a.scene.OnSourcesChanged = a.sourcesChanged

	if a.prefs.Stylesheet != "" {
		if err := a.ui.LoadCSS(a.prefs.Stylesheet); err != nil {
			log.Logf("stylesheet %s: %v", a.prefs.Stylesheet, err)
		}
	}
	if cfg.SourceDir != "" {
		if err := a.OpenSourceFolder(cfg.SourceDir); err != nil {
			return nil, err
		}
	}
	if cfg.ProjectPath != "" {
		if err := a.Load(cfg.ProjectPath); err != nil {
			return nil, err
		}
	} else {
		a.NewProject()
	}
	a.lastSave = a.now()
	return a, nil
}

// Registry returns the terminal command registry.
func (a *App) Registry() *commands.Registry { return a.reg }

// Camera returns the editor camera.
func (a *App) Camera() *camera.Orbit { return a.cam }

// Mode returns the current editor mode.
func (a *App) Mode() Mode { return a.mode }

// Dirty reports whether the scene changed since the last save or load.
func (a *App) Dirty() bool { return a.dirty }

// ProjectPath returns the open project file, or "" for an unsaved project.
func (a *App) ProjectPath() string { return a.projectPath }

// Prefs returns the current preferences.
func (a *App) Prefs() prefs.Prefs { return a.prefs }

// OpenSourceFolder serves the images in dir as sources and watches it for changes.
func (a *App) OpenSourceFolder(dir string) error {
	f, err := source.NewFolder(dir)
	if err != nil {
		return fmt.Errorf("app: source folder: %w", err)
	}
	if err := f.Watch(); err != nil {
		f.Close()
		return fmt.Errorf("app: watch %s: %w", dir, err)
	}
	if a.folder != nil {
		a.folder.Close()
	}
	a.folder = f
	a.scene.SetDirectory(f)
	a.prefs.SourceFolder = dir
	a.log.Logf("sources: %s (%d images)", dir, len(f.Sources()))
	return nil
}

// registerFetch adds "fetch URL", which downloads a still image into the source folder in the background.
// The folder watcher lists it once it lands.
func (a *App) registerFetch() {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	a.reg.Register("fetch", "URL", fs, func() error {
		if fs.NArg() != 1 {
			return commands.ErrUsage
		}
		if a.folder == nil {
			return ErrNoSourceFolder
		}
		url, dir := fs.Arg(0), a.folder.Dir()
		go func() {
			path, err := a.fetcher.Image(a.ctx, url, dir)
			if err != nil {
				a.log.Logf("fetch %s: %v", url, err)
				return
			}
			a.log.Logf("fetched %s", path)
		}()
		a.reg.Printf("fetching %s", url)
		return nil
	})
}

// UnpackBundle extracts the stills in a zip bundle into the source folder. The folder watcher lists them.
func (a *App) UnpackBundle(zipPath string) error {
	if a.folder == nil {
		return ErrNoSourceFolder
	}
	paths, err := archive.ExtractImages(zipPath, a.folder.Dir(), source.ImageExts)
	if err != nil {
		return err
	}
	a.log.Logf("unpacked %d images from %s", len(paths), filepath.Base(zipPath))
	return nil
}

func (a *App) sourcesChanged(list []source.Source) {
	if a.renderer != nil {
		a.renderer.ReloadTextures()
	}
	a.log.Logf("sources changed: %d available", len(list))
}

// Scene returns the edited scene.
func (a *App) Scene() *scene.Scene { return a.scene }

// Checkpoint records the current scene for undo and marks the project dirty.
func (a *App) Checkpoint() {
	a.history.Push()
	a.dirty = true
}

// Undo reverts the last checkpointed change.
func (a *App) Undo() bool {
	a.cancelDrags()
	if !a.history.Undo() {
		return false
	}
	a.dirty = true
	return true
}

// Redo re-applies the last undone change.
func (a *App) Redo() bool {
	a.cancelDrags()
	if !a.history.Redo() {
		return false
	}
	a.dirty = true
	return true
}

// Save writes the project with the current camera to path. An empty path saves to the open project file,
// or to DefaultProjectPath for a project that was never saved. A missing .json extension is added.
func (a *App) Save(path string) error {
	if path == "" {
		path = a.projectPath
	}
	if path == "" {
		path = DefaultProjectPath
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		path += ".json"
	}
	cam, err := a.cam.MarshalState()
	if err != nil {
		return fmt.Errorf("app: camera: %w", err)
	}
	if err := a.scene.SaveFile(path, cam); err != nil {
		return err
	}
	a.projectPath = path
	a.dirty = false
	a.lastSave = a.now()
	a.prefs.LastProject = path
	a.savePrefs()
	a.log.Logf("saved %s", path)
	return nil
}

// Load replaces the scene with the project at path. On error the scene is untouched.
// The camera block, when present, restores the view. History starts empty.
func (a *App) Load(path string) error {
	a.cancelDrags()
	cam, err := a.scene.LoadFile(path)
	if err != nil {
		return err
	}
	if len(cam) > 0 {
		if err := a.cam.ApplyJSON(cam); err != nil {
			a.log.Logf("load %s: camera ignored: %v", path, err)
		}
	}
	a.history.Clear()
	a.mapping = false
	a.projectPath = path
	a.dirty = false
	a.lastSave = a.now()
	a.prefs.LastProject = path
	a.savePrefs()
	a.log.Logf("loaded %s (%d screens)", path, a.scene.Count())
	return nil
}

// Revert reloads the open project file, dropping unsaved changes.
func (a *App) Revert() error {
	if a.projectPath == "" {
		return ErrNoProject
	}
	return a.Load(a.projectPath)
}

// NewProject starts an unsaved project with one screen and the default camera.
func (a *App) NewProject() {
	a.cancelDrags()
	a.scene.Reset()
	a.history.Clear()
	a.cam.Reset()
	a.mapping = false
	a.projectPath = ""
	a.dirty = false
}

// Unit returns the display unit.
func (a *App) Unit() units.Unit { return a.prefs.Unit }

// SetUnit changes the display unit and the grid spacing with it.
func (a *App) SetUnit(u units.Unit) {
	a.prefs.Unit = u
	if a.renderer != nil {
		a.renderer.Grid = render.GridFor(u)
	}
	a.savePrefs()
}

// ApplyPreset moves the camera to a preset framing.
func (a *App) ApplyPreset(p camera.Preset) {
	a.cam.ApplyPreset(p)
}

// SetGridVisible shows or hides the floor grid.
func (a *App) SetGridVisible(show bool) {
	a.prefs.GridVisible = show
	if a.renderer != nil {
		a.renderer.GridVisible = show
	}
	a.savePrefs()
}

// SetShowFPS shows or hides the frame time overlay.
func (a *App) SetShowFPS(show bool) {
	a.prefs.ShowFPS = show
	a.dbg.SetShowFPS(show)
	a.savePrefs()
}

func (a *App) savePrefs() {
	if a.prefsPath == "" {
		return
	}
	if err := prefs.SaveTo(a.prefsPath, a.prefs); err != nil {
		a.log.Logf("save preferences: %v", err)
	}
}

// cancelDrags drops every open drag session. Called before anything replaces or reorders screens.
func (a *App) cancelDrags() {
	a.gizmo.Cancel()
	a.mapper.End()
	a.box.active = false
	a.edit = pendingEdit{}
}

// armEdit starts a drag at p whose checkpoint waits for commitEdit.
func (a *App) armEdit(p rl.Vector2) {
	a.edit = pendingEdit{armed: true, start: p}
}

// commitEdit takes the checkpoint of the armed drag, once, right before its first change.
func (a *App) commitEdit() {
	if !a.edit.armed || a.edit.committed {
		return
	}
	a.edit.wasDirty = a.dirty
	a.edit.committed = true
	a.Checkpoint()
}

// abandonEdit forgets the armed drag. A committed one also loses its undo step and dirty mark.
func (a *App) abandonEdit() {
	if a.edit.committed {
		a.history.Drop()
		a.dirty = a.edit.wasDirty
	}
	a.edit = pendingEdit{}
}

// AddScreen adds a screen and selects it.
func (a *App) AddScreen() int {
	a.cancelDrags()
	a.Checkpoint()
	i := a.scene.AddScreen("")
	a.scene.SelectOnly(i)
	return i
}

// DeleteSelected removes every selected screen. Returns false when nothing is selected.
func (a *App) DeleteSelected() bool {
	sel := a.scene.Selected()
	if len(sel) == 0 {
		return false
	}
	a.cancelDrags()
	a.Checkpoint()
	for i := len(sel) - 1; i >= 0; i-- {
		a.scene.RemoveScreen(sel[i])
	}
	a.mapping = false
	return true
}

// DuplicatePrimary copies the primary screen and selects the copy. Returns the new index or -1.
func (a *App) DuplicatePrimary() int {
	p := a.scene.Primary()
	if p < 0 {
		return -1
	}
	a.cancelDrags()
	a.Checkpoint()
	j := a.scene.DuplicateScreen(p)
	a.scene.SelectOnly(j)
	return j
}

// DisconnectSelected unbinds the sources of the selected screens.
func (a *App) DisconnectSelected() bool {
	sel := a.scene.Selected()
	if len(sel) == 0 {
		return false
	}
	a.Checkpoint()
	for _, i := range sel {
		a.scene.DisconnectSource(i)
	}
	return true
}

// AssignSource binds the selected screens to the n-th available source (0-based, in list order).
func (a *App) AssignSource(n int) bool {
	list := a.scene.AvailableSources()
	if n < 0 || n >= len(list) || a.scene.SelectionCount() == 0 {
		return false
	}
	a.Checkpoint()
	for _, i := range a.scene.Selected() {
		a.scene.AssignSource(i, list[n].Index)
	}
	return true
}

// SetGizmoMode switches between move, rotate and scale, ending any drag.
func (a *App) SetGizmoMode(m gizmo.Mode) {
	if a.gizmo.Dragging() {
		a.gizmo.EndDrag()
	}
	a.gizmo.SetMode(m)
}

// ToggleMode switches between Designer and View. View mode has no editing.
func (a *App) ToggleMode() {
	a.cancelDrags()
	a.mapping = false
	if a.mode == Designer {
		a.mode = View
	} else {
		a.mode = Designer
	}
}

// ToggleUI shows or hides the panels.
func (a *App) ToggleUI() {
	a.showUI = !a.showUI
}

// EnterMapping opens the crop editor for the primary screen. It needs a primary and Designer mode.
func (a *App) EnterMapping() bool {
	if a.mode != Designer || a.scene.PrimaryScreen() == nil {
		return false
	}
	a.cancelDrags()
	a.mapping = true
	return true
}

// ExitMapping closes the crop editor.
func (a *App) ExitMapping() {
	a.mapper.End()
	a.edit = pendingEdit{}
	a.mapping = false
}

// Mapping reports whether the crop editor is open.
func (a *App) Mapping() bool { return a.mapping }

// ResetCrop restores the full crop of the primary screen.
func (a *App) ResetCrop() bool {
	sc := a.scene.PrimaryScreen()
	if sc == nil {
		return false
	}
	a.Checkpoint()
	sc.SetCropRect(mapping.Reset())
	return true
}

// ToggleSnap flips crop snapping and remembers it.
func (a *App) ToggleSnap() {
	a.prefs.SnapEnabled = a.mapper.ToggleSnap()
	a.savePrefs()
}

// Escape cancels the innermost interaction: a gizmo drag is reverted, a box selection dropped, or the crop
// editor closed. Returns false when there was nothing to cancel.
func (a *App) Escape() bool {
	switch {
	case a.gizmo.Dragging():
		a.gizmo.Revert()
		a.abandonEdit()
		return true
	case a.box.active:
		a.box.active = false
		return true
	case a.mapping:
		a.ExitMapping()
		return true
	}
	return false
}

// Tick runs the per-frame housekeeping: source changes and autosave.
func (a *App) Tick() {
	a.scene.PollSources()
	a.autosave()
}

// autosave saves an open, dirty project once the autosave interval has passed since the last save.
// Nothing is written mid-drag.
func (a *App) autosave() {
	if a.prefs.Autosave <= 0 || !a.dirty || a.projectPath == "" {
		return
	}
	if a.gizmo.Dragging() || a.mapper.Dragging() {
		return
	}
	if a.now().Sub(a.lastSave) < a.prefs.Autosave {
		return
	}
	if err := a.Save(""); err != nil {
		a.log.Logf("autosave: %v", err)
		a.lastSave = a.now()
	}
}

// Close stops background downloads, releases sources and GPU resources and saves the preferences.
func (a *App) Close() {
	a.cancel()
	if a.folder != nil {
		a.folder.Close()
		a.folder = nil
	}
	a.scene.SetDirectory(nil)
	if a.renderer != nil {
		a.renderer.Unload()
	}
	a.savePrefs()
}
