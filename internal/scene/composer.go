// Package scene merges terrain and building meshes into one composite mesh.
package scene

import (
	"errors"

	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

// ErrEmptyScene is returned when composition would produce a mesh with no
// geometry at all.
var ErrEmptyScene = errors.New("scene has no terrain and no buildings")

// Member is one input mesh with its material tag. Tag only matters for
// AI-suggested volumes; regular buildings and terrain use MaterialDefault.
type Member struct {
	Mesh *geom.Mesh
	Tag  geom.Material
}

// Compose concatenates the terrain (optional) and all non-empty building
// meshes into a single mesh. Face indices of each appended mesh are offset
// by the running vertex count, and contiguous face ranges keep their
// material tag as groups on the result. Empty meshes are skipped silently;
// an entirely empty input set fails with ErrEmptyScene.
func Compose(terrain *geom.Mesh, buildings []Member) (*geom.Mesh, error) {
	members := make([]Member, 0, len(buildings)+1)
	if !terrain.IsEmpty() {
		members = append(members, Member{Mesh: terrain, Tag: geom.MaterialDefault})
	}
	for _, b := range buildings {
		if b.Mesh.IsEmpty() {
			continue
		}
		members = append(members, b)
	}
	if len(members) == 0 {
		return nil, ErrEmptyScene
	}

	var totalVerts, totalFaces int
	for _, m := range members {
		totalVerts += m.Mesh.VertexCount()
		totalFaces += m.Mesh.FaceCount()
	}

	out := &geom.Mesh{
		Vertices: make([]geom.Vec3, 0, totalVerts),
		Faces:    make([][3]uint32, 0, totalFaces),
	}

	for _, m := range members {
		offset := uint32(len(out.Vertices))
		faceStart := len(out.Faces)

		out.Vertices = append(out.Vertices, m.Mesh.Vertices...)
		for _, f := range m.Mesh.Faces {
			out.Faces = append(out.Faces, [3]uint32{f[0] + offset, f[1] + offset, f[2] + offset})
		}

		appendGroups(out, m, faceStart)
	}

	// Collapse Groups to nil when nothing is tagged, so a plain scene
	// stays a plain mesh.
	allDefault := true
	for _, g := range out.Groups {
		if g.Material != geom.MaterialDefault {
			allDefault = false
			break
		}
	}
	if allDefault {
		out.Groups = nil
	}

	return out, nil
}

// appendGroups carries the member's material ranges into the composite,
// shifted to the member's position in the output face list. A member with no
// groups contributes one range covering all of its faces with its Tag.
func appendGroups(out *geom.Mesh, m Member, faceStart int) {
	if len(m.Mesh.Groups) == 0 {
		out.Groups = append(out.Groups, geom.MaterialGroup{
			Material:  m.Tag,
			FaceStart: faceStart,
			FaceCount: m.Mesh.FaceCount(),
		})
		return
	}
	for _, g := range m.Mesh.Groups {
		out.Groups = append(out.Groups, geom.MaterialGroup{
			Material:  g.Material,
			FaceStart: faceStart + g.FaceStart,
			FaceCount: g.FaceCount,
		})
	}
}
