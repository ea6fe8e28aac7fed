package ui

import (
	"fmt"
	"path/filepath"
)

// StatusBarHeight is the height reserved at the bottom of the window.
const StatusBarHeight = 30

// Status is what the status bar shows for one frame.
type Status struct {
	ViewMode bool
	Project  string // path of the open project; empty when unsaved
	Dirty    bool
	FPS      int32
	Screens  int
	Sources  int
	Hint     string
}

// StatusBar is the strip along the bottom edge of the window.
type StatusBar struct {
	bg, mode, project, info, hint *Node
	nodes                         []*Node
}

// NewStatusBar creates the status bar nodes.
func NewStatusBar() *StatusBar {
	b := &StatusBar{
		bg:      NewNode("panel", "", "statusbar", ""),
		mode:    NewNode("label", "status", "status-mode", ""),
		project: NewNode("label", "status", "status-project", ""),
		info:    NewNode("label", "status", "status-info", ""),
		hint:    NewNode("label", "status", "status-hint", ""),
	}
	b.nodes = []*Node{b.bg, b.mode, b.project, b.info, b.hint}
	return b
}

// Update sets the node texts from st.
func (b *StatusBar) Update(st Status) {
	b.mode.Text, b.mode.Class = "DESIGNER", "status"
	if st.ViewMode {
		b.mode.Text, b.mode.Class = "VIEW", "status view"
	}
	b.project.Text = ProjectLabel(st.Project, st.Dirty)
	b.info.Text = fmt.Sprintf("FPS: %d  Screens: %d  Sources: %d", st.FPS, st.Screens, st.Sources)
	b.hint.Text = st.Hint
}

// Nodes returns the status bar nodes.
func (b *StatusBar) Nodes() []*Node {
	return b.nodes
}

// ProjectLabel is the file name of path, "Untitled" when empty, with a trailing * when dirty.
func ProjectLabel(path string, dirty bool) string {
	name := "Untitled"
	if path != "" {
		name = filepath.Base(path)
	}
	if dirty {
		name += "*"
	}
	return name
}
