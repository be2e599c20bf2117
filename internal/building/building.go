// Package building synthesizes parametric building volumes from property
// attributes. Shapes are approximations derived from floor count, gross
// area, and building type, not surveyed geometry.
package building

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpec is returned for non-physical building attributes.
var ErrInvalidSpec = errors.New("invalid building spec")

// Type classifies a building for mesh synthesis.
type Type int

// Building types.
const (
	TypeGeneric Type = iota
	TypeHouse
	TypeApartment
	TypeCommercial
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeHouse:
		return "house"
	case TypeApartment:
		return "apartment"
	case TypeCommercial:
		return "commercial"
	default:
		return "generic"
	}
}

// TypeFromString maps a matrikkel building-type string to a Type.
// Unknown strings fall back to TypeGeneric.
func TypeFromString(s string) Type {
	switch s {
	case "enebolig", "tomannsbolig", "rekkehus", "hytte", "house":
		return TypeHouse
	case "leilighetsbygg", "apartment":
		return TypeApartment
	case "næringsbygg", "industribygg", "offentlig_bygg", "commercial":
		return TypeCommercial
	default:
		return TypeGeneric
	}
}

// Synthesis constants.
const (
	// FloorHeight is the assumed height of one floor in meters.
	FloorHeight = 3.0

	// roofShare is the fraction of a house's total height taken by the
	// pitched roof.
	roofShare = 0.3

	defaultFloors = 2
	defaultWidth  = 10.0
	defaultLength = 8.0
)

// Spec describes one building to synthesize. Zero values mean "unspecified":
// Floors defaults to 2 and the footprint falls back to GrossArea or, failing
// that, a default 10 m x 8 m plan.
type Spec struct {
	Type Type

	// Floors is the floor count; 0 defaults to 2, negative is invalid.
	Floors int

	// GrossArea is the total floor area in square meters across all
	// floors; the derived footprint is a square of side
	// sqrt(GrossArea/Floors).
	GrossArea float64

	// Width and Length override the derived footprint when both are
	// positive.
	Width, Length float64

	// BaseElevation is the ground reference: the lowest face of the
	// synthesized mesh sits exactly at this height.
	BaseElevation float64
}

// dimensions resolves the plan footprint and height, applying defaults.
func (s Spec) dimensions() (width, length, height float64, err error) {
	floors := s.Floors
	if floors < 0 {
		return 0, 0, 0, fmt.Errorf("%w: floor count %d", ErrInvalidSpec, s.Floors)
	}
	if floors == 0 {
		floors = defaultFloors
	}

	switch {
	case s.Width > 0 && s.Length > 0:
		width, length = s.Width, s.Length
	case s.GrossArea != 0:
		if s.GrossArea < 0 {
			return 0, 0, 0, fmt.Errorf("%w: gross area %g", ErrInvalidSpec, s.GrossArea)
		}
		side := math.Sqrt(s.GrossArea / float64(floors))
		width, length = side, side
	default:
		width, length = defaultWidth, defaultLength
	}

	return width, length, float64(floors) * FloorHeight, nil
}
