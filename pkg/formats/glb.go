package formats

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

// WriteGLB writes the mesh as binary glTF. Positions are shared across
// primitives; each material group becomes its own primitive so viewers can
// style ai_suggested volumes separately. Untagged faces use a neutral
// opaque material, ai_suggested faces a translucent red.
func WriteGLB(w io.Writer, name string, mesh *geom.Mesh) error {
	if mesh.IsEmpty() {
		return ErrEmptyMesh
	}
	if err := mesh.Validate(); err != nil {
		return err
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "propmodel"

	positions := make([][3]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	posAccessor := modeler.WritePosition(doc, positions)

	materials := map[geom.Material]uint32{}
	materialIndex := func(mat geom.Material) uint32 {
		if idx, ok := materials[mat]; ok {
			return idx
		}
		doc.Materials = append(doc.Materials, glbMaterial(mat))
		idx := uint32(len(doc.Materials) - 1)
		materials[mat] = idx
		return idx
	}

	var primitives []*gltf.Primitive
	for _, r := range faceRanges(mesh) {
		indices := make([]uint32, 0, r.count*3)
		for fi := r.start; fi < r.start+r.count; fi++ {
			f := mesh.Faces[fi]
			indices = append(indices, f[0], f[1], f[2])
		}
		primitives = append(primitives, &gltf.Primitive{
			Attributes: map[string]uint32{gltf.POSITION: posAccessor},
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Material:   gltf.Index(materialIndex(r.material)),
		})
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: primitives})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(doc)
}

func glbMaterial(mat geom.Material) *gltf.Material {
	switch mat {
	case geom.MaterialAISuggested:
		return &gltf.Material{
			Name: mat.String(),
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{0.78, 0.39, 0.39, 0.59},
			},
			AlphaMode: gltf.AlphaBlend,
		}
	default:
		return &gltf.Material{
			Name: mat.String(),
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{0.72, 0.72, 0.72, 1},
			},
		}
	}
}

// faceRange is a contiguous run of faces sharing one material.
type faceRange struct {
	material geom.Material
	start    int
	count    int
}

// faceRanges flattens the mesh's groups into an ordered, gap-free cover of
// all faces, merging adjacent ranges with equal materials.
func faceRanges(mesh *geom.Mesh) []faceRange {
	if len(mesh.Groups) == 0 {
		return []faceRange{{material: geom.MaterialDefault, start: 0, count: mesh.FaceCount()}}
	}

	var ranges []faceRange
	for fi := 0; fi < mesh.FaceCount(); fi++ {
		mat := mesh.MaterialAt(fi)
		if n := len(ranges); n > 0 && ranges[n-1].material == mat {
			ranges[n-1].count++
			continue
		}
		ranges = append(ranges, faceRange{material: mat, start: fi, count: 1})
	}
	return ranges
}
