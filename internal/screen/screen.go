// Package screen implements a single placed screen: a transformable, texturable plane that can be
// curved, cropped and masked, together with the meshes derived from those parameters.
package screen

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jinzhu/copier"

	"stage-designer/internal/logger"
	"stage-designer/internal/source"
)

const (
	// DefaultWidth and DefaultHeight are the size of a new screen in world units (centimeters).
	DefaultWidth  = 320
	DefaultHeight = 180
	// MaxCurvature bounds the curvature angle in degrees, in both directions.
	MaxCurvature = 180
	// curvatureEpsilon is the smallest curvature change that triggers a mesh rebuild.
	curvatureEpsilon = 0.001
	// MinMaskPoints is the smallest mask contour accepted by SetMask.
	MinMaskPoints = 3
	// MinScale is the smallest scale component a screen takes from the gizmo or a project file.
	// A zero component would make the world matrix singular.
	MinScale = 0.1
)

// MeshMode says which geometry represents a screen. It is derived on every call, never cached,
// so drawing, outlining and picking always agree.
type MeshMode int

const (
	ModeFlat MeshMode = iota
	ModeCurved
	ModePolygon
)

func (m MeshMode) String() string {
	switch m {
	case ModeCurved:
		return "curved"
	case ModePolygon:
		return "polygon"
	default:
		return "flat"
	}
}

// Transform is position, Euler rotation in degrees, and scale. Scale Z is normally left at 1.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3
	Scale    rl.Vector3
}

// Screen is one placed display surface. Name and Transform are edited directly; size, curvature,
// crop and mask go through setters so the derived meshes stay in sync.
// SourceIndex is -1 when unbound; SourceName survives a lost connection so the binding can be re-established by name.
type Screen struct {
	Name string
	Transform
	SourceIndex int
	SourceName  string

	width     float32
	height    float32
	curvature float32
	crop      Rect
	mask      []rl.Vector2

	curved   Mesh
	polygon  Mesh
	revision uint64
	binding  source.Binding
}

// New returns a flat, unbound DefaultWidth×DefaultHeight screen at the origin.
func New(name string) *Screen {
	s := &Screen{
		Name:        name,
		Transform:   Transform{Scale: rl.NewVector3(1, 1, 1)},
		SourceIndex: -1,
		width:       DefaultWidth,
		height:      DefaultHeight,
		crop:        FullRect(),
	}
	s.rebuild()
	return s
}

// Width returns the unscaled width in world units.
func (s *Screen) Width() float32 { return s.width }

// Height returns the unscaled height in world units.
func (s *Screen) Height() float32 { return s.height }

// SetSize sets the unscaled plane size and rebuilds the meshes. Non-positive sizes are ignored.
func (s *Screen) SetSize(w, h float32) {
	if w <= 0 || h <= 0 {
		return
	}
	s.width, s.height = w, h
	s.rebuild()
}

// Curvature returns the curvature in degrees.
func (s *Screen) Curvature() float32 { return s.curvature }

// SetCurvature clamps deg to [-MaxCurvature, MaxCurvature] and rebuilds the curved mesh,
// unless the value moved by less than curvatureEpsilon.
func (s *Screen) SetCurvature(deg float32) {
	deg = clamp(deg, -MaxCurvature, MaxCurvature)
	if math32.Abs(s.curvature-deg) < curvatureEpsilon {
		return
	}
	s.curvature = deg
	s.curved = buildCurvedMesh(s.width, s.height, s.curvature, s.crop)
	s.revision++
}

// CropRect returns the crop rect.
func (s *Screen) CropRect() Rect { return s.crop }

// SetCropRect sets the crop rect and rebuilds the curved and polygon meshes.
// Flat screens take their texture coordinates from FlatMesh at draw time.
func (s *Screen) SetCropRect(r Rect) {
	s.crop = r
	s.rebuild()
}

// Mask returns a copy of the mask contour (normalized, top-left origin).
func (s *Screen) Mask() []rl.Vector2 {
	out := make([]rl.Vector2, len(s.mask))
	copy(out, s.mask)
	return out
}

// HasMask reports whether a mask is set.
func (s *Screen) HasMask() bool { return len(s.mask) > 0 }

// SetMask sets the mask contour and retessellates. Contours with fewer than MinMaskPoints points are ignored
// and the previous mask stays in place.
func (s *Screen) SetMask(points []rl.Vector2) {
	if len(points) < MinMaskPoints {
		return
	}
	s.mask = make([]rl.Vector2, len(points))
	copy(s.mask, points)
	s.polygon = buildPolygonMesh(s.width, s.height, s.mask, s.crop)
	s.revision++
}

// ClearMask removes the mask.
func (s *Screen) ClearMask() {
	if s.mask == nil {
		return
	}
	s.mask = nil
	s.polygon = Mesh{}
	s.revision++
}

// MeshMode returns the geometry that represents s: a mask wins over curvature, curvature over the flat rectangle.
func (s *Screen) MeshMode() MeshMode {
	if len(s.mask) >= MinMaskPoints {
		return ModePolygon
	}
	if math32.Abs(s.curvature) > flatThreshold {
		return ModeCurved
	}
	return ModeFlat
}

// CurvedMesh returns the curved grid built for the current curvature and crop.
func (s *Screen) CurvedMesh() Mesh { return s.curved }

// PolygonMesh returns the mask tessellation; empty when there is no mask.
func (s *Screen) PolygonMesh() Mesh { return s.polygon }

// FlatMesh builds the flat rectangle with texture coordinates for the current crop.
func (s *Screen) FlatMesh() Mesh {
	return buildFlatMesh(s.width, s.height, s.crop)
}

// ActiveMesh returns the mesh for MeshMode.
func (s *Screen) ActiveMesh() Mesh {
	switch s.MeshMode() {
	case ModePolygon:
		return s.polygon
	case ModeCurved:
		return s.curved
	default:
		return s.FlatMesh()
	}
}

// Revision increases whenever a derived mesh changes. Renderers compare it to decide when to re-upload.
func (s *Screen) Revision() uint64 { return s.revision }

func (s *Screen) rebuild() {
	s.curved = buildCurvedMesh(s.width, s.height, s.curvature, s.crop)
	s.polygon = buildPolygonMesh(s.width, s.height, s.mask, s.crop)
	s.revision++
}

// WorldMatrix returns the local-to-world transform: scale, then rotation (XYZ Euler), then translation.
func (s *Screen) WorldMatrix() rl.Matrix {
	scale := rl.MatrixScale(s.Scale.X, s.Scale.Y, s.Scale.Z)
	rot := rl.MatrixRotateXYZ(rl.Vector3Scale(s.Rotation, rl.Deg2rad))
	trans := rl.MatrixTranslate(s.Position.X, s.Position.Y, s.Position.Z)
	return rl.MatrixMultiply(rl.MatrixMultiply(scale, rot), trans)
}

// Normal returns the world-space plane normal (local +Z through the world transform).
func (s *Screen) Normal() rl.Vector3 {
	q := rl.QuaternionTransform(rl.Quaternion{X: 0, Y: 0, Z: 1, W: 0}, s.WorldMatrix())
	return rl.Vector3Normalize(rl.NewVector3(q.X, q.Y, q.Z))
}

// Center returns the world-space position of the local origin.
func (s *Screen) Center() rl.Vector3 {
	return rl.Vector3Transform(rl.Vector3{}, s.WorldMatrix())
}

// Corners returns the world-space corners of the unmasked, uncurved rectangle:
// bottom-left, bottom-right, top-right, top-left.
func (s *Screen) Corners() [4]rl.Vector3 {
	m := s.WorldMatrix()
	hw, hh := s.width/2, s.height/2
	return [4]rl.Vector3{
		rl.Vector3Transform(rl.NewVector3(-hw, -hh, 0), m),
		rl.Vector3Transform(rl.NewVector3(hw, -hh, 0), m),
		rl.Vector3Transform(rl.NewVector3(hw, hh, 0), m),
		rl.Vector3Transform(rl.NewVector3(-hw, hh, 0), m),
	}
}

// Outline returns the world-space closed contour of the active geometry (mask contour, curved rim, or rectangle).
func (s *Screen) Outline() []rl.Vector3 {
	m := s.WorldMatrix()
	switch s.MeshMode() {
	case ModePolygon:
		out := make([]rl.Vector3, len(s.polygon.Vertices))
		for i, v := range s.polygon.Vertices {
			out[i] = rl.Vector3Transform(v, m)
		}
		return out
	case ModeCurved:
		verts := s.curved.Vertices
		out := make([]rl.Vector3, 0, 2*(curveCols+1))
		for i := 0; i <= curveCols; i++ {
			out = append(out, rl.Vector3Transform(verts[i], m))
		}
		top := curveRows * (curveCols + 1)
		for i := curveCols; i >= 0; i-- {
			out = append(out, rl.Vector3Transform(verts[top+i], m))
		}
		return out
	default:
		c := s.Corners()
		return c[:]
	}
}

// Binding returns the live source binding, or nil.
func (s *Screen) Binding() source.Binding { return s.binding }

// HasSource reports whether s has a live binding.
func (s *Screen) HasSource() bool { return s.binding != nil }

// Connect replaces the live binding with b and records its index and name.
func (s *Screen) Connect(b source.Binding) {
	s.closeBinding()
	s.binding = b
	src := b.Source()
	s.SourceIndex = src.Index
	s.SourceName = src.Name
}

// Disconnect drops the live binding and forgets the source name.
func (s *Screen) Disconnect() {
	s.closeBinding()
	s.SourceIndex = -1
	s.SourceName = ""
}

// Release drops the live binding but keeps SourceName, so a later reconnect can restore it.
func (s *Screen) Release() {
	s.closeBinding()
	s.SourceIndex = -1
}

func (s *Screen) closeBinding() {
	if s.binding != nil {
		_ = s.binding.Close()
		s.binding = nil
	}
}

// Duplicate returns an unbound copy of s with its own meshes. The source name is kept so the copy
// can be reconnected to the same source.
func (s *Screen) Duplicate() *Screen {
	d := New("")
	if err := deepCopy(d, s); err != nil {
		logger.L().Warn("screen deep copy failed", "screen", s.Name, "err", err)
		d.Name, d.Transform, d.SourceName = s.Name, s.Transform, s.SourceName
	}
	d.SourceIndex = -1
	d.width, d.height = s.width, s.height
	d.curvature = s.curvature
	d.crop = s.crop
	d.mask = s.Mask()
	if len(d.mask) == 0 {
		d.mask = nil
	}
	d.rebuild()
	return d
}

// deepCopy copies the exported fields of src into dst.
var deepCopy = func(dst, src *Screen) error {
	return copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true})
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
