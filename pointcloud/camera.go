package pointcloud

import "github.com/golang/geo/r3"

// Camera is the contract the resolution controller needs from a renderer's
// camera state: camera-space distance to a (possibly anti-aliased) world
// point, the world-space size of the view plane at a given depth, and the
// viewport's pixel dimensions. GPU rasterization itself is out of scope;
// this is the minimal read-only surface the controller depends on.
type Camera interface {
	// Distance returns the camera-space distance from the camera to p.
	Distance(p r3.Vector) float64

	// PlaneAt returns the world-space (width, height) of the viewport at
	// camera-space depth z.
	PlaneAt(z float64) (width, height float64)

	// ViewportPixels returns the viewport's pixel dimensions.
	ViewportPixels() (width, height int)
}

// AntiAlias is a linear scale-and-offset transform applied to positions
// before distance computation, used to counteract supersampling/rendering
// scale mismatches between the authored cloud and the live camera.
type AntiAlias struct {
	Scale  float64
	Offset r3.Vector
}

// IdentityAntiAlias returns a no-op anti-alias transform.
func IdentityAntiAlias() AntiAlias {
	return AntiAlias{Scale: 1}
}

// Apply transforms a single position.
func (a AntiAlias) Apply(p r3.Vector) r3.Vector {
	return r3.Vector{X: p.X * a.Scale, Y: p.Y * a.Scale, Z: p.Z * a.Scale}.Add(a.Offset)
}

// ApplyAll transforms every point's position in points, returning a new
// slice of transformed positions (points themselves are not mutated).
func (a AntiAlias) ApplyAll(points []Point) []r3.Vector {
	out := make([]r3.Vector, len(points))
	for i, p := range points {
		out[i] = a.Apply(p.Position)
	}
	return out
}
