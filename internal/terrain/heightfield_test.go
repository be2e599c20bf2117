package terrain

import (
	"errors"
	"math"
	"testing"
)

// square sample set: four corners at distinct heights plus a center point.
func squareSamples() []ElevationSample {
	return []ElevationSample{
		{X: -10, Y: -10, Z: 1},
		{X: 10, Y: -10, Z: 2},
		{X: -10, Y: 10, Z: 3},
		{X: 10, Y: 10, Z: 4},
		{X: 0, Y: 0, Z: 2.5},
	}
}

func TestBuildHeightFieldEmpty(t *testing.T) {
	_, err := BuildHeightField(nil, 10, 0.2)
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("BuildHeightField(nil) = %v, want ErrInsufficientSamples", err)
	}
}

func TestBuildHeightFieldCollinear(t *testing.T) {
	samples := []ElevationSample{
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 2},
		{X: 2, Y: 2, Z: 3},
		{X: 3, Y: 3, Z: 4},
	}
	_, err := BuildHeightField(samples, 10, 0.2)
	if !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("BuildHeightField(collinear) = %v, want ErrInsufficientSamples", err)
	}
}

func TestBuildHeightFieldGridSize(t *testing.T) {
	field, err := BuildHeightField(squareSamples(), 10, 0.35)
	if err != nil {
		t.Fatalf("BuildHeightField() error: %v", err)
	}
	want := int(math.Ceil(10 * 2 * 0.35)) // 7
	if field.Size() != want {
		t.Errorf("Size() = %d, want %d", field.Size(), want)
	}
	for _, row := range field.Heights {
		if len(row) != want {
			t.Fatalf("row length = %d, want %d (grid must be square)", len(row), want)
		}
	}
}

func TestBuildHeightFieldExactAtSamples(t *testing.T) {
	// Samples placed exactly on grid nodes of a 3x3 grid over [-10,10].
	samples := []ElevationSample{
		{X: -10, Y: -10, Z: 5},
		{X: 10, Y: -10, Z: 6},
		{X: -10, Y: 10, Z: 7},
		{X: 10, Y: 10, Z: 8},
	}
	field, err := BuildHeightField(samples, 10, 0.15) // size 3
	if err != nil {
		t.Fatalf("BuildHeightField() error: %v", err)
	}
	if got := field.Heights[0][0]; got != 5 {
		t.Errorf("corner height = %v, want 5", got)
	}
	if got := field.Heights[2][2]; got != 8 {
		t.Errorf("corner height = %v, want 8", got)
	}
}

func TestBuildHeightFieldOutsideHullIsZero(t *testing.T) {
	// A triangle in the lower-left of the bound leaves the upper-right
	// grid corner outside the hull.
	samples := []ElevationSample{
		{X: 0, Y: 0, Z: 9},
		{X: 10, Y: 0, Z: 9},
		{X: 0, Y: 10, Z: 9},
		{X: 2, Y: 2, Z: 9},
	}
	field, err := BuildHeightField(samples, 5, 0.5) // size 5
	if err != nil {
		t.Fatalf("BuildHeightField() error: %v", err)
	}
	n := field.Size()
	if got := field.Heights[n-1][n-1]; got != 0 {
		t.Errorf("height outside hull = %v, want 0", got)
	}
	if got := field.Heights[0][0]; got == 0 {
		t.Error("height inside hull should not fall back to 0")
	}
}

func TestHeightFieldHeightAt(t *testing.T) {
	samples := []ElevationSample{
		{X: -10, Y: -10, Z: 4},
		{X: 10, Y: -10, Z: 4},
		{X: -10, Y: 10, Z: 4},
		{X: 10, Y: 10, Z: 4},
		{X: 0, Y: 0, Z: 4},
	}
	field, err := BuildHeightField(samples, 10, 0.5)
	if err != nil {
		t.Fatalf("BuildHeightField() error: %v", err)
	}
	if got := field.HeightAt(0, 0); math.Abs(got-4) > 1e-9 {
		t.Errorf("HeightAt(0,0) = %v, want 4", got)
	}
	// Outside the grid clamps instead of panicking.
	_ = field.HeightAt(100, -100)
}

func TestBuildHeightFieldInvalidResolution(t *testing.T) {
	_, err := BuildHeightField(squareSamples(), 0, 1)
	if !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("BuildHeightField(radius=0) = %v, want ErrInvalidResolution", err)
	}
}
