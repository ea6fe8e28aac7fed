// Package preview renders a flat orthographic plan of a stage layout: every screen's outline seen
// from above or from the front, for sharing a layout without opening the editor.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gogpu/gg"

	"stage-designer/internal/screen"
)

// ErrUnsupportedFormat is returned for an output path that is neither .png nor .webp.
var ErrUnsupportedFormat = errors.New("preview: unsupported format")

// View is the direction the layout is seen from.
type View int

const (
	Front View = iota // looking down -Z: x right, y up
	Top               // looking down -Y: x right, z towards the bottom of the image
)

func (v View) String() string {
	if v == Top {
		return "top"
	}
	return "front"
}

// ParseView accepts "front" or "top".
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front", "":
		return Front, nil
	case "top":
		return Top, nil
	}
	return Front, fmt.Errorf("preview: unknown view %q", s)
}

// Options controls the output image.
type Options struct {
	View   View
	Width  int
	Height int
	Margin float64 // pixels kept clear around the layout
}

// DefaultOptions is a 1280×720 front view.
func DefaultOptions() Options {
	return Options{View: Front, Width: 1280, Height: 720, Margin: 40}
}

var (
	background = gg.Hex("#1b1b1f")
	axisColor  = gg.RGBA2(1, 1, 1, 0.25)
)

// modeColor is the outline color per mesh mode; the fill uses the same color at lower alpha.
func modeColor(m screen.MeshMode) gg.RGBA {
	switch m {
	case screen.ModeCurved:
		return gg.RGB(0.95, 0.6, 0.2)
	case screen.ModePolygon:
		return gg.RGB(0.45, 0.85, 0.45)
	default:
		return gg.RGB(0.3, 0.65, 0.95)
	}
}

// project maps a world point onto the view plane, with image y growing downwards.
func project(v View, p rl.Vector3) (float64, float64) {
	if v == Top {
		return float64(p.X), float64(p.Z)
	}
	return float64(p.X), float64(-p.Y)
}

// frame fits world-plane coordinates into the image.
type frame struct {
	scale, offX, offY float64
}

func (f frame) apply(x, y float64) (float64, float64) {
	return x*f.scale + f.offX, y*f.scale + f.offY
}

// fit computes the frame that centers the bounds of outlines and the origin in the image.
func fit(outlines [][][2]float64, opt Options) frame {
	minX, minY, maxX, maxY := 0.0, 0.0, 0.0, 0.0
	for _, o := range outlines {
		for _, p := range o {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}
	w := math.Max(float64(opt.Width)-2*opt.Margin, 1)
	h := math.Max(float64(opt.Height)-2*opt.Margin, 1)
	dx, dy := math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)
	scale := math.Min(w/dx, h/dy)
	return frame{
		scale: scale,
		offX:  float64(opt.Width)/2 - (minX+maxX)/2*scale,
		offY:  float64(opt.Height)/2 - (minY+maxY)/2*scale,
	}
}

// Render draws the outlines of screens into a new image.
func Render(screens []*screen.Screen, opt Options) (image.Image, error) {
	if opt.Width <= 0 || opt.Height <= 0 {
		return nil, fmt.Errorf("preview: invalid size %dx%d", opt.Width, opt.Height)
	}
	outlines := make([][][2]float64, len(screens))
	for i, sc := range screens {
		for _, p := range sc.Outline() {
			x, y := project(opt.View, p)
			outlines[i] = append(outlines[i], [2]float64{x, y})
		}
	}
	f := fit(outlines, opt)

	dc := gg.NewContext(opt.Width, opt.Height)
	defer dc.Close()
	dc.ClearWithColor(background)

	ox, oy := f.apply(0, 0)
	dc.SetColor(axisColor)
	dc.SetLineWidth(1)
	dc.DrawLine(0, oy, float64(opt.Width), oy)
	dc.DrawLine(ox, 0, ox, float64(opt.Height))
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	for i, sc := range screens {
		if len(outlines[i]) < 2 {
			continue
		}
		for j, p := range outlines[i] {
			x, y := f.apply(p[0], p[1])
			if j == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		c := modeColor(sc.MeshMode())
		dc.SetRGBA(c.R, c.G, c.B, 0.35)
		if err := dc.FillPreserve(); err != nil {
			return nil, fmt.Errorf("preview: %s: %w", sc.Name, err)
		}
		dc.SetColor(c)
		dc.SetLineWidth(2)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("preview: %s: %w", sc.Name, err)
		}
	}
	return dc.Image(), nil
}

// Format is an output image encoding.
type Format int

const (
	PNG Format = iota
	WebP
)

// FormatFor picks the format from the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".webp":
		return WebP, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	if f == WebP {
		return nativewebp.Encode(w, img, nil)
	}
	return png.Encode(w, img)
}

// Save renders screens and writes the image to path, in the format named by its extension.
func Save(path string, screens []*screen.Screen, opt Options) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	img, err := Render(screens, opt)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return f.Close()
}
