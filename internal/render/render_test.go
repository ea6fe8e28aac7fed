package render

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stage-designer/internal/screen"
	"stage-designer/internal/units"
)

func TestArraysForFlat(t *testing.T) {
	sc := screen.New("flat")
	d := arraysFor(sc)
	assert.Equal(t, screen.ModeFlat, d.mode)
	assert.Len(t, d.vertices, 4*3)
	assert.Len(t, d.normals, 4*3)
	assert.Len(t, d.texcoords, 4*2)
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3}, d.indices)
	// Bottom-left vertex samples the bottom-left of the image: u=0, v=1.
	assert.Equal(t, []float32{-160, -90, 0}, d.vertices[:3])
	assert.Equal(t, []float32{0, 1}, d.texcoords[:2])
}

func TestArraysForCurvedFlipsV(t *testing.T) {
	sc := screen.New("curved")
	sc.SetCropRect(screen.Rect{X: 0.25, Y: 0.1, W: 0.5, H: 0.6})
	sc.SetCurvature(90)
	m := sc.CurvedMesh()
	d := arraysFor(sc)
	require.Equal(t, screen.ModeCurved, d.mode)
	require.Len(t, d.texcoords, 2*len(m.TexCoords))

	// The first vertex is on the bottom row; it must sample the bottom of the crop window.
	assert.InDelta(t, 0.25, d.texcoords[0], 1e-6)
	assert.InDelta(t, 0.7, d.texcoords[1], 1e-6)
	last := len(d.texcoords) - 2
	assert.InDelta(t, 0.75, d.texcoords[last], 1e-6)
	assert.InDelta(t, 0.1, d.texcoords[last+1], 1e-6)
}

func TestArraysForPolygon(t *testing.T) {
	sc := screen.New("masked")
	sc.SetMask([]rl.Vector2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1}})
	d := arraysFor(sc)
	assert.Equal(t, screen.ModePolygon, d.mode)
	assert.Len(t, d.indices, 3)
	// Mask point (0,0) is the top-left corner: texture (0,0), unflipped.
	assert.Equal(t, []float32{0, 0}, d.texcoords[:2])
}

func TestGridFor(t *testing.T) {
	tests := []struct {
		unit units.Unit
		step float32
	}{
		{units.Meters, 100},
		{units.Centimeters, 10},
		{units.Feet, 30.48},
		{units.Inches, 25.4},
	}
	for _, tt := range tests {
		t.Run(tt.unit.String(), func(t *testing.T) {
			g := GridFor(tt.unit)
			assert.InDelta(t, tt.step, g.Step, 1e-4)
			assert.InDelta(t, tt.step*gridLines, g.Extent(), 1e-2)
		})
	}
	g := DefaultGrid()
	assert.True(t, g.IsMajor(0))
	assert.True(t, g.IsMajor(-5))
	assert.False(t, g.IsMajor(3))
}
