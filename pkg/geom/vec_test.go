package geom

import (
	"math"
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	if l := n.Length(); math.Abs(l-1) > 1e-12 {
		t.Errorf("Vec3.Normalize().Length() = %v, want 1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3RotateZ(t *testing.T) {
	v := Vec3{1, 0, 5}
	got := v.RotateZ(90)
	if math.Abs(got.X) > 1e-12 || math.Abs(got.Y-1) > 1e-12 || got.Z != 5 {
		t.Errorf("Vec3.RotateZ(90) = %v, want (0, 1, 5)", got)
	}
}
