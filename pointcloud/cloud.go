package pointcloud

import "github.com/pkg/errors"

// Cloud is an ordered sequence of Points plus an optional list of Segments.
// A Segment is itself a Cloud over the same point type, holding the subset
// of points belonging to one spatial cell. When Segments is non-nil, the
// concatenation of segment Points is a permutation of the top-level Points.
type Cloud struct {
	Points   []Point
	Segments []*Cloud
}

// NewCloud builds a Cloud from points, assigning a dense Index to each point
// in order if it is not already set consistently. Callers that construct
// Points with NewPoint (which stamps Index) can pass them through unchanged.
func NewCloud(points []Point) *Cloud {
	for i := range points {
		points[i].Index = i
	}
	return &Cloud{Points: points}
}

// Len returns the number of top-level points.
func (c *Cloud) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Points)
}

// IsEmpty reports whether the cloud has no points.
func (c *Cloud) IsEmpty() bool {
	return c.Len() == 0
}

// Clone returns a deep copy of the cloud, including segments.
func (c *Cloud) Clone() *Cloud {
	if c == nil {
		return nil
	}
	points := make([]Point, len(c.Points))
	copy(points, c.Points)
	var segments []*Cloud
	if c.Segments != nil {
		segments = make([]*Cloud, len(c.Segments))
		for i, s := range c.Segments {
			segments[i] = s.Clone()
		}
	}
	return &Cloud{Points: points, Segments: segments}
}

// MappingFor returns a parallel slice, one entry per point, used to track
// interpolation selection counts without storing a back-pointer on Point
// (see Design Notes: cyclic references are modeled as an extrinsic vector
// keyed by dense Index rather than a pointer from Point to its cloud).
func (c *Cloud) MappingFor() []uint16 {
	m := make([]uint16, c.Len())
	for i, p := range c.Points {
		m[i] = p.Mapping
	}
	return m
}

// ApplyMapping writes mapping counts back onto the cloud's points by index.
func (c *Cloud) ApplyMapping(mapping []uint16) error {
	if len(mapping) != c.Len() {
		return errors.Wrap(ErrShapeMismatch, "mapping length does not match cloud length")
	}
	for i := range c.Points {
		c.Points[i].Mapping = mapping[i]
	}
	return nil
}
