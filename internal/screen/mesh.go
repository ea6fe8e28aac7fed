package screen

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	// Curved grid resolution. Curvature only bends horizontally, so two rows are enough.
	curveCols = 32
	curveRows = 2
	// flatThreshold is the |curvature| in degrees at or below which a screen is treated as flat.
	flatThreshold = 0.1
)

// Mesh is CPU-side triangle geometry in the screen's local space (centered at the origin, facing +Z).
// The renderer uploads it; the editor core only builds and inspects it.
type Mesh struct {
	Vertices  []rl.Vector3
	Normals   []rl.Vector3
	TexCoords []rl.Vector2
	Indices   []uint16
}

// TriangleCount returns the number of indexed triangles.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Empty reports whether the mesh has no triangles.
func (m Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// buildCurvedMesh bends a w×h sheet into a cylindrical arc subtending |curvature| degrees.
// The chord between the outer columns stays w and the middle column stays at z=0.
// Texture coordinates go through crop so cropped and uncropped screens share this path.
func buildCurvedMesh(w, h, curvature float32, crop Rect) Mesh {
	absCurv := math32.Abs(curvature)
	sign := float32(1)
	if curvature < 0 {
		sign = -1
	}
	total := absCurv * rl.Deg2rad
	curved := absCurv > flatThreshold
	var radius, edge float32
	if curved {
		radius = (w / 2) / math32.Sin(total/2)
		edge = math32.Cos(total / 2)
	}

	n := (curveCols + 1) * (curveRows + 1)
	m := Mesh{
		Vertices:  make([]rl.Vector3, 0, n),
		Normals:   make([]rl.Vector3, 0, n),
		TexCoords: make([]rl.Vector2, 0, n),
		Indices:   make([]uint16, 0, curveCols*curveRows*6),
	}
	for j := 0; j <= curveRows; j++ {
		s := float32(j) / curveRows
		y := (s - 0.5) * h
		for i := 0; i <= curveCols; i++ {
			t := float32(i) / curveCols
			if curved {
				theta := (t - 0.5) * total
				sin, cos := math32.Sin(theta), math32.Cos(theta)
				m.Vertices = append(m.Vertices, rl.NewVector3(radius*sin, y, sign*radius*(cos-edge)))
				m.Normals = append(m.Normals, rl.NewVector3(sin, 0, sign*cos))
			} else {
				m.Vertices = append(m.Vertices, rl.NewVector3((t-0.5)*w, y, 0))
				m.Normals = append(m.Normals, rl.NewVector3(0, 0, 1))
			}
			m.TexCoords = append(m.TexCoords, crop.Map(t, s))
		}
	}
	for j := 0; j < curveRows; j++ {
		for i := 0; i < curveCols; i++ {
			tl := uint16(j*(curveCols+1) + i)
			tr := tl + 1
			bl := uint16((j+1)*(curveCols+1) + i)
			br := bl + 1
			m.Indices = append(m.Indices, tl, bl, tr, tr, bl, br)
		}
	}
	return m
}

// buildFlatMesh is the two-triangle rectangle used when a screen has no mask and no curvature.
// Texture coordinates follow the same convention as the polygon mesh (v grows downward).
func buildFlatMesh(w, h float32, crop Rect) Mesh {
	hw, hh := w/2, h/2
	n := rl.NewVector3(0, 0, 1)
	return Mesh{
		Vertices: []rl.Vector3{
			rl.NewVector3(-hw, -hh, 0),
			rl.NewVector3(hw, -hh, 0),
			rl.NewVector3(hw, hh, 0),
			rl.NewVector3(-hw, hh, 0),
		},
		Normals:   []rl.Vector3{n, n, n, n},
		TexCoords: []rl.Vector2{crop.Map(0, 1), crop.Map(1, 1), crop.Map(1, 0), crop.Map(0, 0)},
		Indices:   []uint16{0, 1, 2, 0, 2, 3},
	}
}

// buildPolygonMesh triangulates a normalized mask contour inside a w×h rectangle.
// Mask points are (0,0) top-left to (1,1) bottom-right; local Y is flipped so +Y is up.
func buildPolygonMesh(w, h float32, mask []rl.Vector2, crop Rect) Mesh {
	if len(mask) < 3 {
		return Mesh{}
	}
	local := make([]rl.Vector2, len(mask))
	for i, p := range mask {
		local[i] = rl.NewVector2((p.X-0.5)*w, (0.5-p.Y)*h)
	}
	m := Mesh{
		Vertices:  make([]rl.Vector3, len(local)),
		Normals:   make([]rl.Vector3, len(local)),
		TexCoords: make([]rl.Vector2, len(local)),
		Indices:   triangulate(local),
	}
	for i, v := range local {
		m.Vertices[i] = rl.NewVector3(v.X, v.Y, 0)
		m.Normals[i] = rl.NewVector3(0, 0, 1)
		u := v.X/w + 0.5
		s := 0.5 - v.Y/h
		m.TexCoords[i] = crop.Map(u, s)
	}
	return m
}

// triangulate ear-clips a simple polygon and returns counter-clockwise triangle indices into pts.
// Polygons that stop yielding ears (self-intersecting or degenerate input) finish as a fan.
func triangulate(pts []rl.Vector2) []uint16 {
	n := len(pts)
	if n < 3 {
		return nil
	}
	ring := make([]int, n)
	if signedArea(pts) >= 0 {
		for i := range ring {
			ring[i] = i
		}
	} else {
		for i := range ring {
			ring[i] = n - 1 - i
		}
	}

	out := make([]uint16, 0, (n-2)*3)
	for len(ring) > 3 {
		clipped := false
		for i := range ring {
			a := ring[(i+len(ring)-1)%len(ring)]
			b := ring[i]
			c := ring[(i+1)%len(ring)]
			if !isEar(pts, ring, a, b, c) {
				continue
			}
			out = append(out, uint16(a), uint16(b), uint16(c))
			ring = append(ring[:i], ring[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}
	for i := 1; i+1 < len(ring); i++ {
		out = append(out, uint16(ring[0]), uint16(ring[i]), uint16(ring[i+1]))
	}
	return out
}

func isEar(pts []rl.Vector2, ring []int, a, b, c int) bool {
	pa, pb, pc := pts[a], pts[b], pts[c]
	if cross(pa, pb, pc) <= 0 {
		return false
	}
	for _, k := range ring {
		if k == a || k == b || k == c {
			continue
		}
		if pointInTriangle(pts[k], pa, pb, pc) {
			return false
		}
	}
	return true
}

// cross returns the z component of (b-a)×(c-b); positive for a counter-clockwise turn.
func cross(a, b, c rl.Vector2) float32 {
	return (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
}

func pointInTriangle(p, a, b, c rl.Vector2) bool {
	d1 := cross(a, b, p)
	d2 := cross(b, c, p)
	d3 := cross(c, a, p)
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

// signedArea is positive for counter-clockwise polygons.
func signedArea(pts []rl.Vector2) float32 {
	var sum float32
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}
