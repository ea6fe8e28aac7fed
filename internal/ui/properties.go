package ui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/screen"
	"stage-designer/internal/units"
)

const propertiesRowHeight = 24

// Properties is the read-only panel describing the primary selected screen.
// Rows reuse their nodes between frames; only Text changes.
type Properties struct {
	panel *Node
	title *Node
	rows  []*Node
	nodes []*Node
}

// NewProperties creates an empty, hidden panel.
func NewProperties() *Properties {
	return &Properties{
		panel: NewNode("panel", "properties", "properties", ""),
		title: NewNode("label", "properties-title", "", ""),
	}
}

// Update fills the panel for the primary screen, with count the number of selected screens and u the
// unit lengths are shown in. A nil primary hides the panel.
func (p *Properties) Update(primary *screen.Screen, count int, u units.Unit) {
	p.nodes = p.nodes[:0]
	if primary == nil {
		return
	}
	p.title.Text = primary.Name
	if count > 1 {
		p.title.Text = fmt.Sprintf("%s (+%d more)", primary.Name, count-1)
	}
	lines := PropertyLines(primary, u)
	for len(p.rows) < len(lines) {
		n := NewNode("label", "properties-row", "", "")
		n.Offset = rl.NewVector2(0, float32(len(p.rows)*propertiesRowHeight))
		p.rows = append(p.rows, n)
	}
	p.nodes = append(p.nodes, p.panel, p.title)
	for i, line := range lines {
		p.rows[i].Text = line
		p.nodes = append(p.nodes, p.rows[i])
	}
}

// Nodes returns the nodes to draw; empty while hidden.
func (p *Properties) Nodes() []*Node {
	return p.nodes
}

// PropertyLines describes sc one field per line, lengths in u.
func PropertyLines(sc *screen.Screen, u units.Unit) []string {
	pos, rot, scale := sc.Position, sc.Rotation, sc.Scale
	crop := sc.CropRect()
	lines := []string{
		"Source: " + sourceLabel(sc),
		fmt.Sprintf("Pos  %s  %s  %s", u.Format(pos.X), u.Format(pos.Y), u.Format(pos.Z)),
		fmt.Sprintf("Rot  P %.1f  Y %.1f  R %.1f", rot.X, rot.Y, rot.Z),
		fmt.Sprintf("Scale  %.2f x %.2f", scale.X, scale.Y),
		fmt.Sprintf("Size  %s x %s", u.Format(sc.Width()*scale.X), u.Format(sc.Height()*scale.Y)),
		fmt.Sprintf("Curvature  %.1f deg", sc.Curvature()),
		fmt.Sprintf("Crop  %.2f %.2f %.2f %.2f", crop.X, crop.Y, crop.W, crop.H),
		"Mesh  " + meshLabel(sc),
	}
	return lines
}

func sourceLabel(sc *screen.Screen) string {
	switch {
	case sc.HasSource():
		return sc.Binding().Source().Name
	case sc.SourceName != "":
		return sc.SourceName + " (offline)"
	}
	return "none"
}

func meshLabel(sc *screen.Screen) string {
	var b strings.Builder
	b.WriteString(sc.MeshMode().String())
	if sc.HasMask() {
		fmt.Fprintf(&b, ", mask %d pts", len(sc.Mask()))
	}
	return b.String()
}
