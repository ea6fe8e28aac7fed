package scene

import (
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/screen"
)

// The selection is a set of screen indices plus a primary index. The primary is the most recently
// touched member; it anchors the gizmo and single-target tools. Primary is -1 exactly when the set is empty.

// SelectOnly makes i the only selected screen. An out-of-range i clears the selection.
func (s *Scene) SelectOnly(i int) {
	clear(s.selected)
	if !s.valid(i) {
		s.primary = -1
		return
	}
	s.selected[i] = struct{}{}
	s.primary = i
}

// ToggleSelected adds i to the selection, making it primary, or removes it.
// Removing the primary hands the role to the lowest remaining index, or -1.
func (s *Scene) ToggleSelected(i int) {
	if !s.valid(i) {
		return
	}
	if _, ok := s.selected[i]; ok {
		delete(s.selected, i)
		if s.primary == i {
			s.primary = s.lowestSelected()
		}
		return
	}
	s.selected[i] = struct{}{}
	s.primary = i
}

// ClearSelection deselects everything.
func (s *Scene) ClearSelection() {
	clear(s.selected)
	s.primary = -1
}

// SelectRange selects the inclusive span between from and to (in either order), clamped to the collection,
// replacing the selection. The primary is to, clamped into the span.
func (s *Scene) SelectRange(from, to int) {
	clear(s.selected)
	s.primary = -1
	if len(s.screens) == 0 {
		return
	}
	lo, hi := min(from, to), max(from, to)
	lo = max(lo, 0)
	hi = min(hi, len(s.screens)-1)
	if lo > hi {
		return
	}
	for i := lo; i <= hi; i++ {
		s.selected[i] = struct{}{}
	}
	s.primary = min(max(to, lo), hi)
}

// SelectInRect replaces the selection with every screen whose position projects inside rect.
// The primary is the first match in index order, so the result depends on collection order, not on
// where the screens appear in the view.
func (s *Scene) SelectInRect(cam Camera, rect rl.Rectangle) {
	s.ClearSelection()
	for i, sc := range s.screens {
		p, ok := cam.WorldToScreen(sc.Position)
		if !ok || !rl.CheckCollisionPointRec(p, rect) {
			continue
		}
		s.selected[i] = struct{}{}
		if s.primary < 0 {
			s.primary = i
		}
	}
}

// SetSelection replaces the selection. Out-of-range indices are dropped; a primary that is not in the set
// falls back to the lowest selected index.
func (s *Scene) SetSelection(indices []int, primary int) {
	clear(s.selected)
	for _, i := range indices {
		if s.valid(i) {
			s.selected[i] = struct{}{}
		}
	}
	if _, ok := s.selected[primary]; ok {
		s.primary = primary
		return
	}
	s.primary = s.lowestSelected()
}

// IsSelected reports whether screen i is selected.
func (s *Scene) IsSelected(i int) bool {
	_, ok := s.selected[i]
	return ok
}

// SelectionCount returns the number of selected screens.
func (s *Scene) SelectionCount() int {
	return len(s.selected)
}

// Selected returns the selected indices in ascending order.
func (s *Scene) Selected() []int {
	out := make([]int, 0, len(s.selected))
	for i := range s.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Primary returns the primary selected index, or -1.
func (s *Scene) Primary() int {
	return s.primary
}

// PrimaryScreen returns the primary selected screen, or nil.
func (s *Scene) PrimaryScreen() *screen.Screen {
	return s.Screen(s.primary)
}

// SelectedScreens returns the selected screens in index order.
func (s *Scene) SelectedScreens() []*screen.Screen {
	idx := s.Selected()
	out := make([]*screen.Screen, len(idx))
	for k, i := range idx {
		out[k] = s.screens[i]
	}
	return out
}

// rebaseSelection rewrites the selection after the screen at removed was erased: lower indices stay,
// higher ones shift down by one, and removed itself is dropped. RemoveScreen is its only caller.
func (s *Scene) rebaseSelection(removed int) {
	next := make(map[int]struct{}, len(s.selected))
	for i := range s.selected {
		switch {
		case i < removed:
			next[i] = struct{}{}
		case i > removed:
			next[i-1] = struct{}{}
		}
	}
	s.selected = next

	switch {
	case s.primary == removed:
		s.primary = s.lowestSelected()
	case s.primary > removed:
		s.primary--
	}
}

func (s *Scene) lowestSelected() int {
	low := -1
	for i := range s.selected {
		if low < 0 || i < low {
			low = i
		}
	}
	return low
}
