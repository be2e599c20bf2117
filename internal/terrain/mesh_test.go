package terrain

import (
	"errors"
	"math"
	"testing"
)

func flatField(size int, radius, height float64) *HeightField {
	heights := make([][]float64, size)
	for i := range heights {
		heights[i] = make([]float64, size)
		for j := range heights[i] {
			heights[i][j] = height
		}
	}
	return &HeightField{
		MinX: -radius, MinY: -radius, MaxX: radius, MaxY: radius,
		Radius: radius, Resolution: float64(size) / (radius * 2),
		Heights: heights,
	}
}

func TestTriangulateCounts(t *testing.T) {
	for _, size := range []int{2, 3, 5, 8, 17} {
		mesh, err := Triangulate(flatField(size, 10, 1), 1)
		if err != nil {
			t.Fatalf("Triangulate(size=%d) error: %v", size, err)
		}
		if got, want := mesh.VertexCount(), size*size; got != want {
			t.Errorf("size %d: vertices = %d, want %d", size, got, want)
		}
		if got, want := mesh.FaceCount(), (size-1)*(size-1)*2; got != want {
			t.Errorf("size %d: faces = %d, want %d", size, got, want)
		}
		if err := mesh.Validate(); err != nil {
			t.Errorf("size %d: %v", size, err)
		}
	}
}

func TestTriangulateTooSmall(t *testing.T) {
	_, err := Triangulate(flatField(1, 10, 0), 1)
	if !errors.Is(err, ErrFieldTooSmall) {
		t.Errorf("Triangulate(1x1) = %v, want ErrFieldTooSmall", err)
	}
}

func TestTriangulateHeightMultiplier(t *testing.T) {
	base, err := Triangulate(flatField(4, 10, 2), 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, mult := range []float64{2, 0, -1} {
		mesh, err := Triangulate(flatField(4, 10, 2), mult)
		if err != nil {
			t.Fatalf("Triangulate(mult=%v) error: %v", mult, err)
		}
		if mesh.VertexCount() != base.VertexCount() || mesh.FaceCount() != base.FaceCount() {
			t.Errorf("mult %v changed topology", mult)
		}
		for i, v := range mesh.Vertices {
			if v.X != base.Vertices[i].X || v.Y != base.Vertices[i].Y {
				t.Fatalf("mult %v moved vertex %d in plan", mult, i)
			}
			if want := 2 * mult; math.Abs(v.Z-want) > 1e-12 {
				t.Fatalf("mult %v: vertex %d z = %v, want %v", mult, i, v.Z, want)
			}
		}
	}
}

func TestTriangulatePlanExtent(t *testing.T) {
	mesh, err := Triangulate(flatField(4, 10, 0), 1)
	if err != nil {
		t.Fatal(err)
	}
	min, max, ok := mesh.Bounds()
	if !ok {
		t.Fatal("empty mesh")
	}
	if min.X != -10 || min.Y != -10 {
		t.Errorf("min plan corner = (%v, %v), want (-10, -10)", min.X, min.Y)
	}
	if max.X >= 10 || max.Y >= 10 {
		t.Errorf("max plan corner = (%v, %v), want < (10, 10)", max.X, max.Y)
	}
}

// All faces of an upward surface must share an upward normal; a mixed
// diagonal split would flip some of them.
func TestTriangulateWindingUniform(t *testing.T) {
	mesh, err := Triangulate(flatField(6, 10, 3), 1)
	if err != nil {
		t.Fatal(err)
	}
	for fi := range mesh.Faces {
		if n := mesh.FaceNormal(fi); n.Z <= 0 {
			t.Fatalf("face %d normal = %v, want +z", fi, n)
		}
	}
}
