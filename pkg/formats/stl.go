package formats

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

// stlHeaderSize is the fixed comment block at the start of a binary STL file.
const stlHeaderSize = 80

// WriteSTL writes the mesh as binary STL (little-endian). STL carries no
// material information, so group tags are dropped. Face normals follow the
// face winding.
func WriteSTL(w io.Writer, name string, mesh *geom.Mesh) error {
	if mesh.IsEmpty() {
		return ErrEmptyMesh
	}
	if err := mesh.Validate(); err != nil {
		return err
	}

	var header [stlHeaderSize]byte
	copy(header[:], "propmodel "+name)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("writing STL header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(mesh.FaceCount())); err != nil {
		return fmt.Errorf("writing STL face count: %w", err)
	}

	for fi, f := range mesh.Faces {
		n := mesh.FaceNormal(fi)
		tri := stlTriangle{
			Normal: [3]float32{float32(n.X), float32(n.Y), float32(n.Z)},
		}
		for c, idx := range f {
			v := mesh.Vertices[idx]
			tri.Vertices[c] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		if err := binary.Write(w, binary.LittleEndian, tri); err != nil {
			return fmt.Errorf("writing STL face %d: %w", fi, err)
		}
	}
	return nil
}

// stlTriangle matches the 50-byte binary STL facet layout.
type stlTriangle struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}
