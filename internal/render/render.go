// Package render draws screens with raylib: it uploads each screen's active mesh, binds the source image as
// its texture, and draws outlines and the floor grid. All functions must run on the window thread.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"stage-designer/internal/camera"
	"stage-designer/internal/logger"
	"stage-designer/internal/screen"
	"stage-designer/internal/source"
)

var (
	// Surface color of a screen without a texture (designer mode) and the black base under a view-mode surface.
	emptyColor    = rl.NewColor(80, 80, 80, 255)
	viewBaseColor = rl.Black
	outlineColor  = rl.NewColor(60, 60, 60, 255)
	selectedColor = rl.NewColor(0, 200, 255, 255)
)

// gpuMesh is a screen mesh uploaded to the GPU. The float slices back the rl.Mesh pointers and must outlive it.
type gpuMesh struct {
	mesh     rl.Mesh
	revision uint64
	arrays   meshData
}

// Renderer owns the GPU copies of screen meshes and source textures.
type Renderer struct {
	GridVisible bool
	Grid        Grid

	meshes   map[*screen.Screen]*gpuMesh
	textures map[string]rl.Texture2D
	material rl.Material
	blank    rl.Texture2D // the material's default white texture
}

// New creates a renderer. Call after the window exists.
func New() *Renderer {
	mat := rl.LoadMaterialDefault()
	return &Renderer{
		GridVisible: true,
		Grid:        DefaultGrid(),
		meshes:      make(map[*screen.Screen]*gpuMesh),
		textures:    make(map[string]rl.Texture2D),
		material:    mat,
		blank:       mat.GetMap(rl.MapDiffuse).Texture,
	}
}

// Draw renders screens from cam. In view mode screens sit on a black base and no outlines or grid are drawn.
// isSelected reports whether the screen at an index gets the selection outline.
func (r *Renderer) Draw(cam *camera.Orbit, screens []*screen.Screen, isSelected func(int) bool, viewMode bool) {
	rl.SetClipPlanes(float64(cam.Near), float64(cam.Far))
	rl.BeginMode3D(cam.Camera3D())
	if r.GridVisible && !viewMode {
		r.Grid.Draw()
	}
	rl.DisableBackfaceCulling()
	for i, sc := range screens {
		r.drawSurface(sc, viewMode)
		if viewMode {
			continue
		}
		c := outlineColor
		if isSelected(i) {
			c = selectedColor
		}
		drawOutline(sc, c)
	}
	rl.EnableBackfaceCulling()
	rl.EndMode3D()
}

func (r *Renderer) drawSurface(sc *screen.Screen, viewMode bool) {
	g := r.upload(sc)
	if g == nil {
		return
	}
	m := sc.WorldMatrix()
	tex, textured := r.SourceTexture(sc)
	if viewMode {
		// The base writes no depth so the texture drawn over it at the same depth still passes.
		rl.DisableDepthMask()
		r.drawWith(g, m, r.blank, viewBaseColor)
		rl.EnableDepthMask()
	}
	switch {
	case textured:
		r.drawWith(g, m, *tex, rl.White)
	case !viewMode:
		r.drawWith(g, m, r.blank, emptyColor)
	}
	diffuse := r.material.GetMap(rl.MapDiffuse)
	diffuse.Texture, diffuse.Color = r.blank, rl.White
}

// drawWith draws g with tex tinted by tint.
func (r *Renderer) drawWith(g *gpuMesh, m rl.Matrix, tex rl.Texture2D, tint rl.Color) {
	diffuse := r.material.GetMap(rl.MapDiffuse)
	diffuse.Texture, diffuse.Color = tex, tint
	rl.DrawMesh(g.mesh, r.material, m)
}

// upload returns the GPU mesh for sc, re-uploading it when the screen's geometry changed since the last call.
func (r *Renderer) upload(sc *screen.Screen) *gpuMesh {
	g, ok := r.meshes[sc]
	if ok && g.revision == sc.Revision() && g.arrays.mode == sc.MeshMode() {
		return g
	}
	if ok {
		rl.UnloadMesh(&g.mesh)
		delete(r.meshes, sc)
	}
	data := arraysFor(sc)
	if len(data.indices) == 0 {
		return nil
	}
	g = &gpuMesh{revision: sc.Revision(), arrays: data}
	g.mesh = rl.Mesh{
		VertexCount:   int32(len(data.vertices) / 3),
		TriangleCount: int32(len(data.indices) / 3),
		Vertices:      &g.arrays.vertices[0],
		Normals:       &g.arrays.normals[0],
		Texcoords:     &g.arrays.texcoords[0],
		Indices:       &g.arrays.indices[0],
	}
	rl.UploadMesh(&g.mesh, false)
	r.meshes[sc] = g
	return g
}

// SourceTexture returns the texture of the image sc is bound to. Only folder sources carry pixels; other
// bindings, missing files and unbound screens return false. Failed loads are remembered and not retried.
func (r *Renderer) SourceTexture(sc *screen.Screen) (*rl.Texture2D, bool) {
	fb, ok := sc.Binding().(*source.FileBinding)
	if !ok || fb == nil {
		return nil, false
	}
	tex, ok := r.textures[fb.Path]
	if !ok {
		tex = loadTexture(fb.Path)
		r.textures[fb.Path] = tex
	}
	if tex.ID == 0 {
		return nil, false
	}
	return &tex, true
}

func loadTexture(path string) rl.Texture2D {
	img := rl.LoadImage(path)
	if !rl.IsImageValid(img) {
		logger.L().Warn("load source image", "path", path)
		return rl.Texture2D{}
	}
	defer rl.UnloadImage(img)
	return rl.LoadTextureFromImage(img)
}

// ReloadTextures drops cached source textures so changed files are read again on next use.
func (r *Renderer) ReloadTextures() {
	for path, tex := range r.textures {
		if tex.ID != 0 {
			rl.UnloadTexture(tex)
		}
		delete(r.textures, path)
	}
}

// Prune unloads meshes of screens that are no longer in screens.
func (r *Renderer) Prune(screens []*screen.Screen) {
	live := make(map[*screen.Screen]struct{}, len(screens))
	for _, sc := range screens {
		live[sc] = struct{}{}
	}
	for sc, g := range r.meshes {
		if _, ok := live[sc]; !ok {
			rl.UnloadMesh(&g.mesh)
			delete(r.meshes, sc)
		}
	}
}

// Unload releases every GPU resource. The renderer is empty but usable afterwards.
func (r *Renderer) Unload() {
	r.Prune(nil)
	r.ReloadTextures()
}

// drawOutline draws the closed world-space contour of sc.
func drawOutline(sc *screen.Screen, c rl.Color) {
	pts := sc.Outline()
	for i := range pts {
		rl.DrawLine3D(pts[i], pts[(i+1)%len(pts)], c)
	}
}
