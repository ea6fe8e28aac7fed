package scene

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/screen"
)

// parallelEpsilon is the smallest |normal·direction| for which a ray is not treated as parallel to a screen.
const parallelEpsilon = 1e-6

// Pick returns the index of the nearest screen under viewport point p, or -1.
// Every screen is tested against its flat bounding rectangle, whatever its mesh mode, so curved and
// masked screens are picked through their planar approximation.
func (s *Scene) Pick(cam Camera, p rl.Vector2) int {
	ray := cam.ScreenRay(p)
	best := -1
	var bestT float32
	for i, sc := range s.screens {
		t, ok := intersect(ray, sc)
		if !ok {
			continue
		}
		if best < 0 || t < bestT {
			best, bestT = i, t
		}
	}
	return best
}

// intersect returns the ray parameter where ray crosses the plane of sc inside its rectangle.
func intersect(ray rl.Ray, sc *screen.Screen) (float32, bool) {
	normal := sc.Normal()
	denom := rl.Vector3DotProduct(normal, ray.Direction)
	if math32.Abs(denom) < parallelEpsilon {
		return 0, false
	}
	t := rl.Vector3DotProduct(rl.Vector3Subtract(sc.Center(), ray.Position), normal) / denom
	if t < 0 {
		return 0, false
	}
	hit := rl.Vector3Add(ray.Position, rl.Vector3Scale(ray.Direction, t))
	local := rl.Vector3Transform(hit, rl.MatrixInvert(sc.WorldMatrix()))
	// A singular world matrix inverts to NaN, which no range check below would reject.
	if math32.IsNaN(local.X) || math32.IsNaN(local.Y) {
		return 0, false
	}
	if math32.Abs(local.X) > sc.Width()/2 || math32.Abs(local.Y) > sc.Height()/2 {
		return 0, false
	}
	return t, true
}
