package geom

import (
	"errors"
	"fmt"
	"math"
)

// Mesh errors.
var (
	ErrFaceIndexOutOfRange = errors.New("face index out of range")
	ErrGroupOutOfRange     = errors.New("material group out of range")
)

// Material tags a range of faces. Tags carry no appearance of their own;
// exporters decide how each tag is rendered.
type Material int

// Known material tags.
const (
	MaterialDefault Material = iota
	MaterialAISuggested
)

// String returns the material name used in exported files.
func (m Material) String() string {
	switch m {
	case MaterialAISuggested:
		return "ai_suggested"
	default:
		return "default"
	}
}

// MaterialGroup assigns a material to a contiguous run of faces.
// Groups never overlap and are ordered by FaceStart.
type MaterialGroup struct {
	Material  Material
	FaceStart int
	FaceCount int
}

// Mesh is an indexed triangle mesh. Faces reference vertex indices; Groups
// optionally tag face ranges with a material. A nil Groups slice means every
// face uses MaterialDefault.
type Mesh struct {
	Vertices []Vec3
	Faces    [][3]uint32
	Groups   []MaterialGroup
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no faces.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Faces) == 0
}

// Validate checks that every face index references an existing vertex and
// that material groups stay within the face list.
func (m *Mesh) Validate() error {
	n := uint32(len(m.Vertices))
	for fi, f := range m.Faces {
		for _, idx := range f {
			if idx >= n {
				return fmt.Errorf("face %d references vertex %d of %d: %w", fi, idx, n, ErrFaceIndexOutOfRange)
			}
		}
	}
	for _, g := range m.Groups {
		if g.FaceStart < 0 || g.FaceCount < 0 || g.FaceStart+g.FaceCount > len(m.Faces) {
			return fmt.Errorf("group [%d,%d) of %d faces: %w", g.FaceStart, g.FaceStart+g.FaceCount, len(m.Faces), ErrGroupOutOfRange)
		}
	}
	return nil
}

// Translate moves every vertex by delta.
func (m *Mesh) Translate(delta Vec3) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(delta)
	}
}

// RotateZ rotates every vertex about the vertical axis through the origin.
func (m *Mesh) RotateZ(deg float64) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].RotateZ(deg)
	}
}

// Bounds returns the axis-aligned bounding box. The second return is false
// for a mesh with no vertices.
func (m *Mesh) Bounds() (min, max Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return Vec3{}, Vec3{}, false
	}
	min = Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Vertices {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max, true
}

// MaterialAt returns the material of face fi, resolving group membership.
func (m *Mesh) MaterialAt(fi int) Material {
	for _, g := range m.Groups {
		if fi >= g.FaceStart && fi < g.FaceStart+g.FaceCount {
			return g.Material
		}
	}
	return MaterialDefault
}

// Tag marks all current faces of the mesh with material mat, replacing any
// existing groups.
func (m *Mesh) Tag(mat Material) {
	if len(m.Faces) == 0 {
		m.Groups = nil
		return
	}
	m.Groups = []MaterialGroup{{Material: mat, FaceStart: 0, FaceCount: len(m.Faces)}}
}

// FaceNormal returns the (unnormalized-safe) unit normal of face fi following
// the face winding.
func (m *Mesh) FaceNormal(fi int) Vec3 {
	f := m.Faces[fi]
	a := m.Vertices[f[0]]
	b := m.Vertices[f[1]]
	c := m.Vertices[f[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}
