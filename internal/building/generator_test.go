package building

import (
	"errors"
	"math"
	"testing"

	"github.com/eiendomsmuligheter/propmodel/pkg/geom"
)

const tol = 1e-9

// House with 2 floors over 128 m² gross area: 8 m square footprint, 6 m
// tall, walls up to 4.2 m and roof from 4.2 m to 6 m.
func TestSynthesizeHouseProportions(t *testing.T) {
	mesh, err := Synthesize(Spec{Type: TypeHouse, Floors: 2, GrossArea: 128})
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	min, max, ok := mesh.Bounds()
	if !ok {
		t.Fatal("empty mesh")
	}
	if math.Abs(max.X-min.X-8) > tol || math.Abs(max.Y-min.Y-8) > tol {
		t.Errorf("footprint = %v x %v, want 8 x 8", max.X-min.X, max.Y-min.Y)
	}
	if math.Abs(min.Z) > tol || math.Abs(max.Z-6) > tol {
		t.Errorf("z range = [%v, %v], want [0, 6]", min.Z, max.Z)
	}

	// Wall top ring at 70% of total height, apex at full height.
	wallTop := 0.0
	for _, v := range mesh.Vertices {
		if v.Z > wallTop && v.Z < max.Z {
			wallTop = v.Z
		}
	}
	if math.Abs(wallTop-4.2) > tol {
		t.Errorf("roof starts at %v, want 4.2", wallTop)
	}

	// Apex sits at the footprint center.
	var apex geom.Vec3
	for _, v := range mesh.Vertices {
		if v.Z == max.Z {
			apex = v
		}
	}
	if math.Abs(apex.X) > tol || math.Abs(apex.Y) > tol {
		t.Errorf("apex at (%v, %v), want plan origin", apex.X, apex.Y)
	}
}

// The lowest vertex of every generated mesh must sit exactly at the base
// elevation.
func TestSynthesizeBaseElevation(t *testing.T) {
	for _, typ := range []Type{TypeHouse, TypeApartment, TypeCommercial, TypeGeneric} {
		for _, base := range []float64{-3.5, 0, 12.25} {
			mesh, err := Synthesize(Spec{Type: typ, Floors: 3, BaseElevation: base})
			if err != nil {
				t.Fatalf("Synthesize(%v) error: %v", typ, err)
			}
			min, _, ok := mesh.Bounds()
			if !ok {
				t.Fatalf("Synthesize(%v) produced empty mesh", typ)
			}
			if math.Abs(min.Z-base) > tol {
				t.Errorf("%v base %v: lowest z = %v", typ, base, min.Z)
			}
		}
	}
}

func TestSynthesizePlanScaling(t *testing.T) {
	cases := []struct {
		typ   Type
		scale float64
	}{
		{TypeGeneric, 1},
		{TypeApartment, 1.5},
		{TypeCommercial, 2},
	}
	for _, tc := range cases {
		mesh, err := Synthesize(Spec{Type: tc.typ, Width: 10, Length: 8, Floors: 1})
		if err != nil {
			t.Fatalf("Synthesize(%v) error: %v", tc.typ, err)
		}
		min, max, _ := mesh.Bounds()
		if got, want := max.X-min.X, 10*tc.scale; math.Abs(got-want) > tol {
			t.Errorf("%v width = %v, want %v", tc.typ, got, want)
		}
		if got, want := max.Y-min.Y, 8*tc.scale; math.Abs(got-want) > tol {
			t.Errorf("%v length = %v, want %v", tc.typ, got, want)
		}
	}
}

func TestSynthesizeDefaults(t *testing.T) {
	mesh, err := Synthesize(Spec{})
	if err != nil {
		t.Fatalf("Synthesize(zero spec) error: %v", err)
	}
	min, max, _ := mesh.Bounds()
	if math.Abs(max.X-min.X-defaultWidth) > tol || math.Abs(max.Y-min.Y-defaultLength) > tol {
		t.Errorf("default footprint = %v x %v", max.X-min.X, max.Y-min.Y)
	}
	if got := max.Z - min.Z; math.Abs(got-defaultFloors*FloorHeight) > tol {
		t.Errorf("default height = %v, want %v", got, defaultFloors*FloorHeight)
	}
}

func TestSynthesizeInvalidSpecs(t *testing.T) {
	cases := []Spec{
		{Floors: -1},
		{GrossArea: -50},
	}
	for _, spec := range cases {
		if _, err := Synthesize(spec); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("Synthesize(%+v) = %v, want ErrInvalidSpec", spec, err)
		}
	}
}

func TestSynthesizeMeshesAreValid(t *testing.T) {
	for _, typ := range []Type{TypeHouse, TypeApartment, TypeCommercial, TypeGeneric} {
		mesh, err := Synthesize(Spec{Type: typ})
		if err != nil {
			t.Fatal(err)
		}
		if err := mesh.Validate(); err != nil {
			t.Errorf("%v: %v", typ, err)
		}
	}
}

func TestTypeFromString(t *testing.T) {
	cases := []struct {
		in   string
		want Type
	}{
		{"enebolig", TypeHouse},
		{"hytte", TypeHouse},
		{"leilighetsbygg", TypeApartment},
		{"næringsbygg", TypeCommercial},
		{"offentlig_bygg", TypeCommercial},
		{"garasje", TypeGeneric},
		{"", TypeGeneric},
	}
	for _, tc := range cases {
		if got := TypeFromString(tc.in); got != tc.want {
			t.Errorf("TypeFromString(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
