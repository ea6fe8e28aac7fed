// Package scene owns the ordered collection of screens, the multi-selection, picking,
// source bookkeeping and the project document.
//
// Screens are addressed by their index in the collection. Indices shift on removal, so every
// removal goes through RemoveScreen, which rebases the selection in one place.
package scene

import (
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/logger"
	"stage-designer/internal/screen"
	"stage-designer/internal/source"
)

// spawnStride is the X spacing between newly added screens, so they don't spawn stacked.
const spawnStride = 350

// spawnHeight is the Y position of newly added screens.
const spawnHeight = 150

// Camera projects between world space and viewport pixels. The editor's orbit camera implements it.
type Camera interface {
	WorldToScreen(p rl.Vector3) (rl.Vector2, bool)
	ScreenRay(p rl.Vector2) rl.Ray
	Position() rl.Vector3
}

// Scene holds the screens of one project and the current selection.
// OnSourcesChanged, if set, is called on the main thread after the source directory changed.
type Scene struct {
	screens  []*screen.Screen
	selected map[int]struct{}
	primary  int
	nextID   int
	dir      source.Directory

	OnSourcesChanged func([]source.Source)
}

// New returns an empty scene with no source directory.
func New() *Scene {
	return &Scene{
		selected: make(map[int]struct{}),
		primary:  -1,
		nextID:   1,
	}
}

// Count returns the number of screens.
func (s *Scene) Count() int {
	return len(s.screens)
}

// Screen returns the screen at index i, or nil if i is out of range.
func (s *Scene) Screen(i int) *screen.Screen {
	if !s.valid(i) {
		return nil
	}
	return s.screens[i]
}

// Screens returns the screens in order. The slice is shared; do not modify it.
func (s *Scene) Screens() []*screen.Screen {
	return s.screens
}

func (s *Scene) valid(i int) bool {
	return i >= 0 && i < len(s.screens)
}

// AddScreen appends a new screen and returns its index. An empty name becomes "Screen N", where N comes
// from a counter that never goes back down, so deleting and adding never repeats a name.
// Each new screen is placed spawnStride further along X than the previous count.
func (s *Scene) AddScreen(name string) int {
	if name == "" {
		name = "Screen " + strconv.Itoa(s.nextID)
	}
	s.nextID++
	sc := screen.New(name)
	sc.Position = rl.NewVector3(float32(len(s.screens))*spawnStride, spawnHeight, 0)
	s.screens = append(s.screens, sc)
	logger.L().Info("screen added", "name", name, "index", len(s.screens)-1)
	return len(s.screens) - 1
}

// DuplicateScreen appends a copy of screen i, shifted spawnStride along X and named "<name> copy".
// The copy is reconnected to the same source when it is still available. Returns the new index or -1.
func (s *Scene) DuplicateScreen(i int) int {
	src := s.Screen(i)
	if src == nil {
		return -1
	}
	d := src.Duplicate()
	d.Name = src.Name + " copy"
	d.Position.X += spawnStride
	s.screens = append(s.screens, d)
	s.nextID++
	s.reconnect(d)
	return len(s.screens) - 1
}

// RemoveScreen deletes screen i, releasing its source binding, and rebases the selection. Out-of-range is a no-op.
func (s *Scene) RemoveScreen(i int) {
	if !s.valid(i) {
		return
	}
	s.screens[i].Release()
	name := s.screens[i].Name
	s.screens = append(s.screens[:i], s.screens[i+1:]...)
	s.rebaseSelection(i)
	logger.L().Info("screen removed", "name", name, "index", i)
}

// Reset empties the scene for a new project and adds "Screen 1".
func (s *Scene) Reset() {
	s.replace(nil)
	s.AddScreen("")
}

// replace swaps in a new collection, releasing every old binding, clearing the selection and
// restarting the name counter after the new screens.
func (s *Scene) replace(screens []*screen.Screen) {
	for _, sc := range s.screens {
		sc.Release()
	}
	s.screens = screens
	s.ClearSelection()
	s.nextID = len(screens) + 1
}

// String summarizes the scene for logs and the terminal.
func (s *Scene) String() string {
	return fmt.Sprintf("%d screens, %d selected", len(s.screens), len(s.selected))
}
