package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/screen"
	"stage-designer/internal/source"
)

const (
	// SidebarWidth is the width of the screen list along the left edge.
	SidebarWidth    = 240
	sidebarHeaderH  = 28
	sidebarRowH     = 22
	sidebarMaxChars = 28
)

// RowKind says what a sidebar row stands for.
type RowKind int

const (
	RowNone RowKind = iota
	RowScreen
	RowSource
)

// Row identifies a clickable sidebar row.
type Row struct {
	Kind  RowKind
	Index int // screen index or source index
}

// Sidebar lists the screens, then the sources a selected screen can be assigned to.
type Sidebar struct {
	panel *Node
	pool  []*Node
	rows  map[*Node]Row
	nodes []*Node
}

// NewSidebar creates an empty sidebar.
func NewSidebar() *Sidebar {
	return &Sidebar{
		panel: NewNode("panel", "sidebar", "sidebar", ""),
		rows:  make(map[*Node]Row),
	}
}

// Update rebuilds the rows. isSelected reports whether screen i is selected.
func (s *Sidebar) Update(screens []*screen.Screen, isSelected func(int) bool, sources []source.Source) {
	clear(s.rows)
	s.nodes = append(s.nodes[:0], s.panel)
	y := 0
	s.add("sidebar-header", "SCREENS  [A]dd", &y, sidebarHeaderH, Row{})
	if len(screens) == 0 {
		s.add("sidebar-row sidebar-empty", "No screens", &y, sidebarRowH, Row{})
	}
	for i, sc := range screens {
		class := "sidebar-row"
		if isSelected(i) {
			class += " selected"
		}
		s.add(class, ScreenLabel(sc), &y, sidebarRowH, Row{Kind: RowScreen, Index: i})
	}
	y += sidebarRowH / 2
	s.add("sidebar-header", "SOURCES (click to assign)", &y, sidebarHeaderH, Row{})
	if len(sources) == 0 {
		s.add("sidebar-row sidebar-empty", "No sources", &y, sidebarRowH, Row{})
	}
	for _, src := range sources {
		s.add("sidebar-row", truncate(src.Name, sidebarMaxChars), &y, sidebarRowH, Row{Kind: RowSource, Index: src.Index})
	}
}

func (s *Sidebar) add(class, text string, y *int, h int, row Row) {
	i := len(s.nodes) - 1
	if i == len(s.pool) {
		s.pool = append(s.pool, NewNode("label", "", "", ""))
	}
	n := s.pool[i]
	n.Class, n.Text = class, text
	n.Offset = rl.NewVector2(0, float32(*y))
	*y += h
	if row.Kind != RowNone {
		s.rows[n] = row
	}
	s.nodes = append(s.nodes, n)
}

// Nodes returns the sidebar nodes.
func (s *Sidebar) Nodes() []*Node {
	return s.nodes
}

// RowOf returns the row a node stands for; RowNone for headers, placeholders and foreign nodes.
func (s *Sidebar) RowOf(n *Node) Row {
	if n == nil {
		return Row{}
	}
	return s.rows[n]
}

// ScreenLabel is the row text for sc: its name plus the bound source in brackets.
func ScreenLabel(sc *screen.Screen) string {
	label := sc.Name
	if sc.SourceName != "" {
		label += " [" + sc.SourceName + "]"
	}
	return truncate(label, sidebarMaxChars)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
