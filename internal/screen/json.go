package screen

import (
	"encoding/json"
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// document is the project-file form of a screen. Vectors are stored as plain arrays.
type document struct {
	Name       string       `json:"name"`
	Width      float32      `json:"width"`
	Height     float32      `json:"height"`
	Position   [3]float32   `json:"position"`
	Rotation   [3]float32   `json:"rotation"`
	Scale      [3]float32   `json:"scale"`
	Curvature  float32      `json:"curvature"`
	Crop       Rect         `json:"crop"`
	SourceName string       `json:"sourceName,omitempty"`
	Mask       [][2]float32 `json:"mask,omitempty"`
}

// MarshalJSON writes the persisted state of s. The live binding is never written; only SourceName is.
func (s *Screen) MarshalJSON() ([]byte, error) {
	doc := document{
		Name:       s.Name,
		Width:      s.width,
		Height:     s.height,
		Position:   toArray(s.Position),
		Rotation:   toArray(s.Rotation),
		Scale:      toArray(s.Scale),
		Curvature:  s.curvature,
		Crop:       s.crop,
		SourceName: s.SourceName,
	}
	if len(s.mask) >= MinMaskPoints {
		doc.Mask = make([][2]float32, len(s.mask))
		for i, p := range s.mask {
			doc.Mask[i] = [2]float32{p.X, p.Y}
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON applies a persisted screen to s in a fixed order: size, transform, curvature, crop,
// source name, mask. Missing fields fall back to the defaults of New; scale components below MinScale,
// including those a short scale array leaves at zero, are raised to MinScale. The source name is only recorded;
// binding it to a live source is left to the owning scene.
func (s *Screen) UnmarshalJSON(data []byte) error {
	doc := document{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Scale:  [3]float32{1, 1, 1},
		Crop:   FullRect(),
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	s.Name = doc.Name
	s.SetSize(doc.Width, doc.Height)
	s.Position = fromArray(doc.Position)
	s.Rotation = fromArray(doc.Rotation)
	s.Scale = floorScale(fromArray(doc.Scale))
	s.SetCurvature(doc.Curvature)
	s.SetCropRect(doc.Crop)
	s.SourceName = doc.SourceName
	if len(doc.Mask) >= MinMaskPoints {
		pts := make([]rl.Vector2, len(doc.Mask))
		for i, p := range doc.Mask {
			pts[i] = rl.NewVector2(p[0], p[1])
		}
		s.SetMask(pts)
	}
	return nil
}

// Decode returns a new screen built from its project-file JSON.
func Decode(data []byte) (*Screen, error) {
	s := New("")
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func floorScale(v rl.Vector3) rl.Vector3 {
	return rl.NewVector3(math32.Max(v.X, MinScale), math32.Max(v.Y, MinScale), math32.Max(v.Z, MinScale))
}

func toArray(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func fromArray(a [3]float32) rl.Vector3 {
	return rl.NewVector3(a[0], a[1], a[2])
}
