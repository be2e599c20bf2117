package building

import (
	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

// MeshGenerator produces a building volume from resolved dimensions. The
// footprint center lies at the plan origin and the lowest face sits exactly
// at base; the scene composer relies on this to sit buildings on terrain.
type MeshGenerator interface {
	Generate(width, length, height, base float64) *geom.Mesh
}

// generatorFor selects the concrete generator for a building type.
func generatorFor(t Type) MeshGenerator {
	switch t {
	case TypeHouse:
		return houseGenerator{}
	case TypeApartment:
		return apartmentGenerator{}
	case TypeCommercial:
		return commercialGenerator{}
	default:
		return genericGenerator{}
	}
}

// Synthesize builds the mesh for one building spec.
func Synthesize(spec Spec) (*geom.Mesh, error) {
	width, length, height, err := spec.dimensions()
	if err != nil {
		return nil, err
	}
	return generatorFor(spec.Type).Generate(width, length, height, spec.BaseElevation), nil
}

// houseGenerator emits a prism for the lower 70% of the height topped by a
// four-slope pyramidal roof. The roof shares the prism's top boundary loop,
// so there is no gap or interior face between the two volumes.
type houseGenerator struct{}

func (houseGenerator) Generate(width, length, height, base float64) *geom.Mesh {
	wallTop := base + height*(1-roofShare)
	ridge := base + height
	hw, hl := width/2, length/2

	vertices := []geom.Vec3{
		{X: -hw, Y: -hl, Z: base},
		{X: hw, Y: -hl, Z: base},
		{X: hw, Y: hl, Z: base},
		{X: -hw, Y: hl, Z: base},
		{X: -hw, Y: -hl, Z: wallTop},
		{X: hw, Y: -hl, Z: wallTop},
		{X: hw, Y: hl, Z: wallTop},
		{X: -hw, Y: hl, Z: wallTop},
		{X: 0, Y: 0, Z: ridge}, // roof apex
	}

	faces := [][3]uint32{
		// bottom
		{0, 2, 1}, {0, 3, 2},
		// walls
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
		// roof slopes to the apex
		{4, 5, 8}, {5, 6, 8}, {6, 7, 8}, {7, 4, 8},
	}

	return &geom.Mesh{Vertices: vertices, Faces: faces}
}

// apartmentGenerator emits a flat-topped slab scaled 1.5x in plan.
type apartmentGenerator struct{}

func (apartmentGenerator) Generate(width, length, height, base float64) *geom.Mesh {
	return Box(width*1.5, length*1.5, height, base)
}

// commercialGenerator emits a flat-topped block scaled 2x in plan.
type commercialGenerator struct{}

func (commercialGenerator) Generate(width, length, height, base float64) *geom.Mesh {
	return Box(width*2, length*2, height, base)
}

// genericGenerator emits an unscaled flat-topped prism.
type genericGenerator struct{}

func (genericGenerator) Generate(width, length, height, base float64) *geom.Mesh {
	return Box(width, length, height, base)
}

// Box builds a rectangular prism centered at the plan origin with its bottom
// face at z = base. Faces wind counter-clockwise seen from outside.
func Box(width, length, height, base float64) *geom.Mesh {
	hw, hl := width/2, length/2
	top := base + height

	vertices := []geom.Vec3{
		{X: -hw, Y: -hl, Z: base},
		{X: hw, Y: -hl, Z: base},
		{X: hw, Y: hl, Z: base},
		{X: -hw, Y: hl, Z: base},
		{X: -hw, Y: -hl, Z: top},
		{X: hw, Y: -hl, Z: top},
		{X: hw, Y: hl, Z: top},
		{X: -hw, Y: hl, Z: top},
	}

	faces := [][3]uint32{
		// bottom
		{0, 2, 1}, {0, 3, 2},
		// top
		{4, 5, 6}, {4, 6, 7},
		// walls
		{0, 1, 5}, {0, 5, 4},
		{1, 2, 6}, {1, 6, 5},
		{2, 3, 7}, {2, 7, 6},
		{3, 0, 4}, {3, 4, 7},
	}

	return &geom.Mesh{Vertices: vertices, Faces: faces}
}
