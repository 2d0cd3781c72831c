package pointcloud

import "github.com/pkg/errors"

// Sentinel errors for the core transforms. Callers wrap these with
// errors.Wrap to attach call-site context. Subsample's check for a
// non-positive threshold returns a plain error with no sentinel behind it.
var (
	// ErrEmptyInput is returned by operations that require at least one point.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidPartition is returned when any component of a partition
	// triple (Nx, Ny, Nz) is zero.
	ErrInvalidPartition = errors.New("invalid partition: all axis counts must be > 0")

	// ErrOutOfBounds is returned when a point does not lie within the bounds
	// used to index it. Callers must derive bounds from the same cloud they
	// index points from; this is a programmer error, not a recoverable one.
	ErrOutOfBounds = errors.New("point is out of bounds")

	// ErrShapeMismatch is returned by frame-delta computation when the two
	// frames do not have the same number of points.
	ErrShapeMismatch = errors.New("frames have different point counts")

	// ErrMissingMetadata is returned when the resolution controller is
	// queried before metadata for the requested frame is available.
	ErrMissingMetadata = errors.New("metadata not available for frame")
)
