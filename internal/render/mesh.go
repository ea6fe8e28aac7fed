package render

import "stage-designer/internal/screen"

// meshData is a screen mesh flattened into the arrays raylib uploads.
type meshData struct {
	mode      screen.MeshMode
	vertices  []float32
	normals   []float32
	texcoords []float32
	indices   []uint16
}

// arraysFor flattens the active mesh of sc. Curved meshes are built bottom row first with v growing upward,
// while textures are stored top row first, so their v is mirrored inside the crop window.
func arraysFor(sc *screen.Screen) meshData {
	mode := sc.MeshMode()
	m := sc.ActiveMesh()
	d := meshData{
		mode:      mode,
		vertices:  make([]float32, 0, 3*len(m.Vertices)),
		normals:   make([]float32, 0, 3*len(m.Normals)),
		texcoords: make([]float32, 0, 2*len(m.TexCoords)),
		indices:   append([]uint16(nil), m.Indices...),
	}
	for _, v := range m.Vertices {
		d.vertices = append(d.vertices, v.X, v.Y, v.Z)
	}
	for _, n := range m.Normals {
		d.normals = append(d.normals, n.X, n.Y, n.Z)
	}
	crop := sc.CropRect()
	for _, uv := range m.TexCoords {
		v := uv.Y
		if mode == screen.ModeCurved {
			v = 2*crop.Y + crop.H - v
		}
		d.texcoords = append(d.texcoords, uv.X, v)
	}
	return d
}
