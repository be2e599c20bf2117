package terrain

import (
	"errors"
	"fmt"

	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

// ErrFieldTooSmall is returned when a height field has too few grid points
// to form a single triangle.
var ErrFieldTooSmall = errors.New("height field smaller than 2x2 cannot be triangulated")

// Triangulate converts a height field into a surface mesh.
//
// An N x N grid yields exactly N*N vertices and (N-1)*(N-1)*2 faces: two
// triangles per cell, always split along the cell's lower-left/upper-right
// diagonal so winding is uniform across the field. Grid indices map to plan
// coordinates spanning [-radius, +radius] on both axes, and heights are
// scaled by heightMultiplier. A non-positive multiplier flattens or inverts
// the surface without changing the topology.
func Triangulate(field *HeightField, heightMultiplier float64) (*geom.Mesh, error) {
	size := field.Size()
	if size < 2 {
		return nil, fmt.Errorf("grid is %dx%d: %w", size, size, ErrFieldTooSmall)
	}

	scale := field.Radius * 2 / float64(size)

	vertices := make([]geom.Vec3, 0, size*size)
	for row := 0; row < size; row++ {
		y := float64(row)*scale - field.Radius
		for col := 0; col < size; col++ {
			x := float64(col)*scale - field.Radius
			vertices = append(vertices, geom.Vec3{
				X: x,
				Y: y,
				Z: field.Heights[row][col] * heightMultiplier,
			})
		}
	}

	faces := make([][3]uint32, 0, (size-1)*(size-1)*2)
	for row := 0; row < size-1; row++ {
		for col := 0; col < size-1; col++ {
			i00 := uint32(row*size + col)
			i01 := uint32(row*size + col + 1)
			i10 := uint32((row+1)*size + col)
			i11 := uint32((row+1)*size + col + 1)

			// Both triangles share the i00-i11 diagonal and wind
			// counter-clockwise seen from above, so normals face +z.
			faces = append(faces,
				[3]uint32{i00, i11, i10},
				[3]uint32{i00, i01, i11},
			)
		}
	}

	return &geom.Mesh{Vertices: vertices, Faces: faces}, nil
}
