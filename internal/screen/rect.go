package screen

import rl "github.com/gen2brain/raylib-go/raylib"

// Rect is a normalized [0,1] region of a source texture: X/Y is the top-left corner, W/H the size.
type Rect struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// FullRect returns the rect covering the whole texture.
func FullRect() Rect {
	return Rect{X: 0, Y: 0, W: 1, H: 1}
}

// IsFull reports whether r covers the whole texture.
func (r Rect) IsFull() bool {
	return r == FullRect()
}

// Map maps object-space texture coordinates (u, v in [0,1]) into the rect.
func (r Rect) Map(u, v float32) rl.Vector2 {
	return rl.NewVector2(r.X+u*r.W, r.Y+v*r.H)
}

// Right returns X+W.
func (r Rect) Right() float32 { return r.X + r.W }

// Bottom returns Y+H.
func (r Rect) Bottom() float32 { return r.Y + r.H }
