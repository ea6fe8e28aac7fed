package preview

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stage-designer/internal/screen"
)

func stage() []*screen.Screen {
	a := screen.New("Left")
	a.Position = rl.NewVector3(-350, 150, 0)
	b := screen.New("Right")
	b.Position = rl.NewVector3(350, 150, 0)
	b.SetCurvature(60)
	return []*screen.Screen{a, b}
}

func isBackground(img image.Image, x, y int) bool {
	near := func(a, b uint32) bool { return a>>8 <= b>>8+1 && b>>8 <= a>>8+1 }
	r, g, b, _ := img.At(x, y).RGBA()
	br, bg, bb, _ := background.RGBA()
	return near(r, br) && near(g, bg) && near(b, bb)
}

func TestParseView(t *testing.T) {
	v, err := ParseView("TOP")
	require.NoError(t, err)
	assert.Equal(t, Top, v)
	v, err = ParseView("")
	require.NoError(t, err)
	assert.Equal(t, Front, v)
	_, err = ParseView("side")
	assert.Error(t, err)
	assert.Equal(t, "top", Top.String())
}

func TestFitCentersLayout(t *testing.T) {
	opt := Options{Width: 200, Height: 100, Margin: 0}
	f := fit([][][2]float64{{{-100, -50}, {100, 50}}}, opt)
	assert.InDelta(t, 0.5, f.scale, 1e-9)
	x, y := f.apply(0, 0)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	x, y = f.apply(100, 50)
	assert.InDelta(t, 150, x, 1e-9)
	assert.InDelta(t, 75, y, 1e-9)
}

func TestFitDegenerateDepth(t *testing.T) {
	// A flat screen seen from above has no depth; the scale comes from its width alone.
	opt := Options{Width: 400, Height: 400, Margin: 0}
	f := fit([][][2]float64{{{-200, 0}, {200, 0}}}, opt)
	assert.InDelta(t, 1, f.scale, 1e-9)
}

func TestRenderFront(t *testing.T) {
	opt := DefaultOptions()
	img, err := Render(stage(), opt)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, opt.Width, opt.Height), img.Bounds())

	var outlines [][][2]float64
	for _, sc := range stage() {
		var o [][2]float64
		for _, p := range sc.Outline() {
			x, y := project(Front, p)
			o = append(o, [2]float64{x, y})
		}
		outlines = append(outlines, o)
	}
	x, y := fit(outlines, opt).apply(-350, -150)
	assert.False(t, isBackground(img, int(x), int(y)))
	assert.True(t, isBackground(img, 5, 5))
}

func TestRenderEmptyAndInvalid(t *testing.T) {
	img, err := Render(nil, Options{Width: 64, Height: 32})
	require.NoError(t, err)
	assert.True(t, isBackground(img, 5, 5))

	_, err = Render(nil, Options{Width: 0, Height: 32})
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor("out/plan.PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	f, err = FormatFor("plan.webp")
	require.NoError(t, err)
	assert.Equal(t, WebP, f)
	_, err = FormatFor("plan.jpg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSavePNGAndWebP(t *testing.T) {
	dir := t.TempDir()
	opt := Options{View: Top, Width: 320, Height: 180, Margin: 10}

	pngPath := filepath.Join(dir, "plans", "top.png")
	require.NoError(t, Save(pngPath, stage(), opt))
	data, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())

	webpPath := filepath.Join(dir, "top.webp")
	require.NoError(t, Save(webpPath, stage(), opt))
	data, err = os.ReadFile(webpPath)
	require.NoError(t, err)
	img, err = nativewebp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 180, img.Bounds().Dy())

	assert.ErrorIs(t, Save(filepath.Join(dir, "top.gif"), stage(), opt), ErrUnsupportedFormat)
}
