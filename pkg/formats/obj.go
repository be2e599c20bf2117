// Package formats writes triangle meshes to 3D interchange formats:
// Wavefront OBJ (text), binary STL, and binary glTF (GLB).
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

// ErrEmptyMesh is returned when a mesh with no faces is written.
var ErrEmptyMesh = errors.New("cannot write empty mesh")

// WriteOBJ writes the mesh as Wavefront OBJ. Vertex positions keep full
// float64 precision. Material groups are emitted as usemtl sections so a
// viewer can pick out ai_suggested volumes.
func WriteOBJ(w io.Writer, name string, mesh *geom.Mesh) error {
	if mesh.IsEmpty() {
		return ErrEmptyMesh
	}
	if err := mesh.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "o %s\n", name)
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}

	// OBJ face indices are 1-based.
	current := geom.Material(-1)
	for fi, f := range mesh.Faces {
		if len(mesh.Groups) > 0 {
			if mat := mesh.MaterialAt(fi); mat != current {
				fmt.Fprintf(bw, "usemtl %s\n", mat)
				current = mat
			}
		}
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}

	return bw.Flush()
}
