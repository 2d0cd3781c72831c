package pointcloud

import "github.com/golang/geo/r3"

// Point is a single colored sample of a point cloud plus the transient
// attributes the interpolator and resolution controller attach to it.
// Position and color are the only fields that survive authoring; Mapping,
// Density, Size and NearCrack are scratch state owned by whichever
// transform is currently running and are not meaningful outside it.
type Point struct {
	Position r3.Vector

	R, G, B, A uint8

	// Mapping counts how many times this point has been selected as an
	// interpolation target in the current pass. Extrinsic to the point: it
	// is read and written through the owning cloud's Mapping slice, never
	// carried by value across clouds (see Cloud.MappingFor).
	Mapping uint16

	// Density is the local point density recorded the last time crack
	// detection ran against this point's neighborhood.
	Density float32

	// Size is the render point size; defaults to 1.0 and is set to 2.0 when
	// a point is flagged NearCrack.
	Size float32

	// NearCrack marks a point whose local density after interpolation fell
	// at or below its recorded Density, indicating a visual seam.
	NearCrack bool

	// Index is this point's dense integer identity within its owning
	// cloud. It is stable across Segment and Subsample but not across
	// Interpolate (the output cloud's Index references the target cloud).
	Index int
}

// NewPoint builds a Point with the default size and no transient attributes
// set, at a given dense index.
func NewPoint(pos r3.Vector, r, g, b, a uint8, index int) Point {
	return Point{
		Position: pos,
		R:        r,
		G:        g,
		B:        b,
		A:        a,
		Size:     1.0,
		Index:    index,
	}
}

// averagedWith returns the element-wise average of p and other: position,
// color and size are averaged; Mapping resets to 0 and Index takes other's
// identity, per the interpolator's averaging contract (spec §4.7).
func (p Point) averagedWith(other Point) Point {
	return Point{
		Position: p.Position.Add(other.Position).Mul(0.5),
		R:        averageUint8(p.R, other.R),
		G:        averageUint8(p.G, other.G),
		B:        averageUint8(p.B, other.B),
		A:        averageUint8(p.A, other.A),
		Mapping:  0,
		Density:  other.Density,
		Size:     (p.Size + other.Size) / 2,
		Index:    other.Index,
	}
}

func averageUint8(a, b uint8) uint8 {
	return uint8((int(a) + int(b)) / 2)
}
