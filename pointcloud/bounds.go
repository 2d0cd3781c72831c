package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max r3.Vector
}

// ComputeBounds scans a cloud once to find its axis-aligned bounding box.
// It fails with ErrEmptyInput on an empty cloud.
func ComputeBounds(cloud *Cloud) (Bounds, error) {
	if cloud.IsEmpty() {
		return Bounds{}, errors.Wrap(ErrEmptyInput, "compute bounds")
	}
	first := cloud.Points[0].Position
	b := Bounds{Min: first, Max: first}
	for _, p := range cloud.Points[1:] {
		b.Min.X = math.Min(b.Min.X, p.Position.X)
		b.Min.Y = math.Min(b.Min.Y, p.Position.Y)
		b.Min.Z = math.Min(b.Min.Z, p.Position.Z)
		b.Max.X = math.Max(b.Max.X, p.Position.X)
		b.Max.Y = math.Max(b.Max.Y, p.Position.Y)
		b.Max.Z = math.Max(b.Max.Z, p.Position.Z)
	}
	return b, nil
}

// Midpoint is the arithmetic mean of Min and Max, i.e. the box's center.
// See Design Note (b): the original implementation's "midpoint" helper
// actually computed HalfExtent; this method is the true midpoint.
func (b Bounds) Midpoint() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfExtent returns (Max-Min)/2 per axis — half the box's size, not its
// center. Kept as a distinct operation from Midpoint per Design Note (b).
func (b Bounds) HalfExtent() r3.Vector {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Extent returns (Max-Min) per axis, the box's full size.
func (b Bounds) Extent() r3.Vector {
	return b.Max.Sub(b.Min)
}

// Vertices returns the 8 corners of the box.
func (b Bounds) Vertices() [8]r3.Vector {
	return [8]r3.Vector{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// Partition splits b into nx*ny*nz equal-volume sub-bounds in row-major
// order: index = ix*ny*nz + iy*nz + iz.
func (b Bounds) Partition(nx, ny, nz int) ([]Bounds, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, errors.Wrap(ErrInvalidPartition, "partition")
	}
	ext := b.Extent()
	stepX, stepY, stepZ := ext.X/float64(nx), ext.Y/float64(ny), ext.Z/float64(nz)

	out := make([]Bounds, nx*ny*nz)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			for iz := 0; iz < nz; iz++ {
				idx := ix*ny*nz + iy*nz + iz
				out[idx] = Bounds{
					Min: r3.Vector{
						X: b.Min.X + float64(ix)*stepX,
						Y: b.Min.Y + float64(iy)*stepY,
						Z: b.Min.Z + float64(iz)*stepZ,
					},
					Max: r3.Vector{
						X: b.Min.X + float64(ix+1)*stepX,
						Y: b.Min.Y + float64(iy+1)*stepY,
						Z: b.Min.Z + float64(iz+1)*stepZ,
					},
				}
			}
		}
	}
	return out, nil
}

// CellIndex returns the linear index of the cell containing p under an
// nx*ny*nz partition of b, clamping to N-1 on each axis so points on the
// max face remain valid. Points strictly outside b are a programmer error:
// callers must derive b from the same cloud they index points from.
func (b Bounds) CellIndex(p r3.Vector, nx, ny, nz int) (int, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return 0, errors.Wrap(ErrInvalidPartition, "cell index")
	}
	if !b.Contains(p) {
		return 0, errors.Wrap(ErrOutOfBounds, "cell index")
	}
	ext := b.Extent()
	ix := cellAxisIndex(p.X, b.Min.X, ext.X, nx)
	iy := cellAxisIndex(p.Y, b.Min.Y, ext.Y, ny)
	iz := cellAxisIndex(p.Z, b.Min.Z, ext.Z, nz)
	return ix*ny*nz + iy*nz + iz, nil
}

func cellAxisIndex(v, min, extent float64, n int) int {
	if extent <= 0 {
		return 0
	}
	step := extent / float64(n)
	i := int(math.Floor((v - min) / step))
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}
	return i
}

// Contains reports whether p lies within b (inclusive of the boundary).
func (b Bounds) Contains(p r3.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
