// Package terrain turns scattered elevation samples into a regular height
// grid and triangulates that grid into a renderable surface mesh.
package terrain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Interpolation errors.
var (
	ErrInsufficientSamples = errors.New("need at least 3 non-collinear elevation samples")
	ErrInvalidResolution   = errors.New("resolution and radius must be positive")
)

// ElevationSample is a projected (x, y) position with a measured height z,
// as returned by the terrain provider. Units are meters.
type ElevationSample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HeightField is a square regular grid of interpolated heights covering the
// bounding box of the input samples. Grid nodes outside the convex hull of
// the samples hold height 0.
type HeightField struct {
	MinX, MinY float64
	MaxX, MaxY float64

	// Radius and Resolution are the query parameters the grid was built
	// for; the grid is Size x Size with Size = ceil(radius * 2 * resolution).
	Radius     float64
	Resolution float64

	// Heights is indexed [row][col], row along y, col along x.
	Heights [][]float64
}

// Size returns the grid dimension along each axis.
func (f *HeightField) Size() int {
	return len(f.Heights)
}

// BuildHeightField interpolates scattered samples onto a regular grid.
//
// Heights are interpolated with inverse-distance weighting (power 2) over
// the input samples, which is smooth away from the sample points and exact
// at them. Nodes outside the convex hull of the samples are set to 0 rather
// than extrapolated. Fewer than 3 non-collinear samples cannot define a
// surface and fail with ErrInsufficientSamples.
func BuildHeightField(samples []ElevationSample, radius, resolution float64) (*HeightField, error) {
	if radius <= 0 || resolution <= 0 {
		return nil, fmt.Errorf("radius %g, resolution %g: %w", radius, resolution, ErrInvalidResolution)
	}
	if len(samples) < 3 || collinear(samples) {
		return nil, fmt.Errorf("%d samples: %w", len(samples), ErrInsufficientSamples)
	}

	minX, minY := samples[0].X, samples[0].Y
	maxX, maxY := minX, minY
	for _, s := range samples[1:] {
		minX = math.Min(minX, s.X)
		minY = math.Min(minY, s.Y)
		maxX = math.Max(maxX, s.X)
		maxY = math.Max(maxY, s.Y)
	}

	size := int(math.Ceil(radius * 2 * resolution))
	if size < 2 {
		size = 2
	}

	hull := convexHull(samples)

	heights := make([][]float64, size)
	for row := range heights {
		heights[row] = make([]float64, size)
		// linspace over the sample bounds, matching the grid the mesh
		// builder expects
		y := minY + (maxY-minY)*float64(row)/float64(size-1)
		for col := 0; col < size; col++ {
			x := minX + (maxX-minX)*float64(col)/float64(size-1)
			if !insideHull(hull, x, y) {
				continue // stays 0
			}
			heights[row][col] = idw(samples, x, y)
		}
	}

	return &HeightField{
		MinX: minX, MinY: minY,
		MaxX: maxX, MaxY: maxY,
		Radius:     radius,
		Resolution: resolution,
		Heights:    heights,
	}, nil
}

// HeightAt returns the bilinearly interpolated height at a position in the
// field's local frame, where (0,0) is the grid center and each axis spans
// [-radius, +radius]. Positions outside the grid clamp to the nearest cell.
func (f *HeightField) HeightAt(wx, wy float64) float64 {
	n := f.Size()
	if n == 0 {
		return 0
	}
	scale := f.Radius * 2 / float64(n)

	colF := (wx + f.Radius) / scale
	rowF := (wy + f.Radius) / scale

	col := clampInt(int(colF), 0, n-2)
	row := clampInt(int(rowF), 0, n-2)
	fx := clampFloat(colF-float64(col), 0, 1)
	fy := clampFloat(rowF-float64(row), 0, 1)

	south := f.Heights[row][col]*(1-fx) + f.Heights[row][col+1]*fx
	north := f.Heights[row+1][col]*(1-fx) + f.Heights[row+1][col+1]*fx
	return south*(1-fy) + north*fy
}

// idw is inverse-distance weighting with power 2. A node closer than epsilon
// to a sample takes that sample's height exactly.
func idw(samples []ElevationSample, x, y float64) float64 {
	const epsilon = 1e-9

	var num, den float64
	for _, s := range samples {
		dx, dy := x-s.X, y-s.Y
		d2 := dx*dx + dy*dy
		if d2 < epsilon {
			return s.Z
		}
		w := 1 / d2
		num += w * s.Z
		den += w
	}
	return num / den
}

// collinear reports whether all samples lie on a single line in the plane.
func collinear(samples []ElevationSample) bool {
	// Find two distinct anchor points.
	a := samples[0]
	bi := -1
	for i := 1; i < len(samples); i++ {
		if samples[i].X != a.X || samples[i].Y != a.Y {
			bi = i
			break
		}
	}
	if bi < 0 {
		return true
	}
	b := samples[bi]
	for _, s := range samples[bi+1:] {
		if crossXY(a, b, s) != 0 {
			return false
		}
	}
	return true
}

func crossXY(o, a, b ElevationSample) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// convexHull computes the convex hull of the sample positions using
// Andrew's monotone chain, returned in counter-clockwise order.
func convexHull(samples []ElevationSample) []ElevationSample {
	pts := make([]ElevationSample, len(samples))
	copy(pts, samples)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	var lower []ElevationSample
	for _, p := range pts {
		for len(lower) >= 2 && crossXY(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []ElevationSample
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && crossXY(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// insideHull reports whether (x, y) lies inside or on the hull boundary.
func insideHull(hull []ElevationSample, x, y float64) bool {
	if len(hull) < 3 {
		return false
	}
	p := ElevationSample{X: x, Y: y}
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		if crossXY(a, b, p) < 0 {
			return false
		}
	}
	return true
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
