package pipeline

import (
	"github.com/eiendomsmuligheter/propmodel/internal/export"
)

// Modeling defaults.
const (
	DefaultResolution       = 10.0  // grid points per meter
	DefaultTerrainRadius    = 100.0 // meters around the property center
	DefaultHeightMultiplier = 1.0
	DefaultLOD              = 2

	minLOD = 1
	maxLOD = 5
)

// ModelingOptions configures one pipeline run. Options are copied on entry
// and never mutated afterwards; use DefaultOptions as the starting point.
type ModelingOptions struct {
	// Resolution is the nominal terrain grid density in points per meter.
	Resolution float64

	// TerrainRadius is the terrain query radius in meters.
	TerrainRadius float64

	IncludeTerrain   bool
	IncludeBuildings bool

	// HeightMultiplier scales terrain heights for exaggerated relief.
	// Zero and negative values are passed through (flat or inverted
	// terrain).
	HeightMultiplier float64

	// LOD in [1, 5] scales the effective grid resolution; DefaultLOD
	// leaves Resolution unchanged.
	LOD int

	Format export.Format
}

// DefaultOptions returns the standard modeling configuration.
func DefaultOptions() ModelingOptions {
	return ModelingOptions{
		Resolution:       DefaultResolution,
		TerrainRadius:    DefaultTerrainRadius,
		IncludeTerrain:   true,
		IncludeBuildings: true,
		HeightMultiplier: DefaultHeightMultiplier,
		LOD:              DefaultLOD,
		Format:           export.FormatGLB,
	}
}

// normalized fills unset numeric fields with defaults and clamps LOD.
func (o ModelingOptions) normalized() ModelingOptions {
	if o.Resolution <= 0 {
		o.Resolution = DefaultResolution
	}
	if o.TerrainRadius <= 0 {
		o.TerrainRadius = DefaultTerrainRadius
	}
	if o.LOD == 0 {
		o.LOD = DefaultLOD
	}
	if o.LOD < minLOD {
		o.LOD = minLOD
	}
	if o.LOD > maxLOD {
		o.LOD = maxLOD
	}
	if o.Format == "" {
		o.Format = export.FormatGLB
	}
	return o
}

// effectiveResolution applies the LOD scale: LOD 2 is the nominal
// resolution, 1 halves it, 5 is 2.5x denser.
func (o ModelingOptions) effectiveResolution() float64 {
	return o.Resolution * float64(o.LOD) / float64(DefaultLOD)
}
