package ui

import (
	"os"
	"path/filepath"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineWith(t *testing.T, css string) *Engine {
	t.Helper()
	sheet, err := ParseCSS(css)
	require.NoError(t, err)
	e := New()
	e.SetStylesheet(sheet)
	return e
}

func TestLayoutAnchors(t *testing.T) {
	e := engineWith(t, `
.tl { left: 10px; top: 20px; width: 100px; height: 50px; }
.br { right: 10px; bottom: 0; width: 100px; height: 30px; }
.full { left: 0; bottom: 0; width: 100%; height: 30px; }
.center { left: 50%; top: 50%; width: 200px; height: 100px; }
.stretch { left: 0; top: 0; width: 240px; bottom: 30px; }
`)
	tl := NewNode("panel", "tl", "", "")
	br := NewNode("panel", "br", "", "")
	full := NewNode("panel", "full", "", "")
	center := NewNode("panel", "center", "", "")
	stretch := NewNode("panel", "stretch", "", "")
	e.SetNodes([]*Node{tl, br, full, center, stretch})
	e.Layout(1280, 720)

	assert.Equal(t, rl.NewRectangle(10, 20, 100, 50), tl.Bounds)
	assert.Equal(t, rl.NewRectangle(1170, 690, 100, 30), br.Bounds)
	assert.Equal(t, rl.NewRectangle(0, 690, 1280, 30), full.Bounds)
	assert.Equal(t, rl.NewRectangle(540, 310, 200, 100), center.Bounds)
	assert.Equal(t, rl.NewRectangle(0, 0, 240, 690), stretch.Bounds)
}

func TestLayoutOffsetAndNodeAt(t *testing.T) {
	e := engineWith(t, `.row { left: 0; top: 28px; width: 240px; height: 22px; }`)
	rows := make([]*Node, 3)
	for i := range rows {
		rows[i] = NewNode("label", "row", "", "")
		rows[i].Offset = rl.NewVector2(0, float32(i*22))
	}
	e.SetNodes(rows)
	e.Layout(800, 600)

	assert.Equal(t, float32(72), rows[2].Bounds.Y)
	assert.Same(t, rows[0], e.NodeAt(rl.NewVector2(5, 28)))
	assert.Same(t, rows[1], e.NodeAt(rl.NewVector2(5, 50)))
	assert.Same(t, rows[2], e.NodeAt(rl.NewVector2(239, 93)))
	assert.Nil(t, e.NodeAt(rl.NewVector2(240, 30)))
	assert.Nil(t, e.NodeAt(rl.NewVector2(5, 94)))
}

func TestNodeAtPrefersTopmost(t *testing.T) {
	e := engineWith(t, `.a { width: 100px; height: 100px; } .b { width: 10px; height: 10px; }`)
	a, b := NewNode("panel", "a", "", ""), NewNode("label", "b", "", "")
	e.SetNodes([]*Node{a, b})
	e.Layout(100, 100)
	assert.Same(t, b, e.NodeAt(rl.NewVector2(5, 5)))
	assert.Same(t, a, e.NodeAt(rl.NewVector2(50, 50)))
}

func TestClassChangeRestyles(t *testing.T) {
	e := engineWith(t, `.row { color: white; height: 10px; } .selected { color: red; }`)
	n := NewNode("label", "row", "", "x")
	e.SetNodes([]*Node{n})
	e.Layout(100, 100)
	assert.Equal(t, rl.White, e.cachedStyles[0].Color)

	n.Class = "row selected"
	e.SetNodes([]*Node{n})
	e.Layout(100, 100)
	assert.Equal(t, rl.Red, e.cachedStyles[0].Color)
}

func TestMatchesAndLastRuleWins(t *testing.T) {
	n := NewNode("label", "row  selected", "first", "")
	assert.True(t, n.Matches(".row"))
	assert.True(t, n.Matches(".selected"))
	assert.True(t, n.Matches("#first"))
	assert.True(t, n.Matches("label"))
	assert.False(t, n.Matches(".sel"))
	assert.False(t, n.Matches("#"))
	assert.False(t, n.Matches(""))

	e := engineWith(t, `label { color: white; } .row { color: blue; } #first { color: red; }`)
	assert.Equal(t, rl.Red, e.StyleOf(n).Color)
}

func TestLoadCSS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.css")
	require.NoError(t, os.WriteFile(path, []byte(`.x { color red; } .y { color: blue; }`), 0644))

	e := New()
	assert.Error(t, e.LoadCSS(path))
	require.True(t, e.HasStylesheet())
	assert.Equal(t, ".y", e.Stylesheet().Rules[1].Selector)

	assert.Error(t, e.LoadCSS(filepath.Join(dir, "missing.css")))
	assert.Equal(t, ".y", e.Stylesheet().Rules[1].Selector)
}
