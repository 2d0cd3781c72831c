package pointcloud

import "github.com/pkg/errors"

// Segment buckets cloud's points into nx*ny*nz spatial cells in one pass,
// preserving the relative order of points within a segment, and returns a
// new Cloud whose Segments field holds one Cloud per cell (cloud.Points is
// unchanged). Segment computes its own bounds from cloud.
func Segment(cloud *Cloud, nx, ny, nz int) (*Cloud, error) {
	bounds, err := ComputeBounds(cloud)
	if err != nil {
		return nil, err
	}
	return segmentWithBounds(cloud, bounds, nx, ny, nz)
}

func segmentWithBounds(cloud *Cloud, bounds Bounds, nx, ny, nz int) (*Cloud, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, errors.Wrap(ErrInvalidPartition, "segment")
	}
	numSegments := nx * ny * nz
	buckets := make([][]Point, numSegments)

	for _, p := range cloud.Points {
		idx, err := bounds.CellIndex(p.Position, nx, ny, nz)
		if err != nil {
			return nil, err
		}
		buckets[idx] = append(buckets[idx], p)
	}

	segments := make([]*Cloud, numSegments)
	for i, points := range buckets {
		segments[i] = &Cloud{Points: points}
	}

	return &Cloud{Points: cloud.Points, Segments: segments}, nil
}
