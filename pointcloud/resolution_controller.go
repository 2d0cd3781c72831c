package pointcloud

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ControllerConfig tunes the resolution controller's scaling heuristic.
// The cubic exponent and anchor neighbor count are content-dependent
// choices the original design calls "a tuning choice": expose them here
// rather than hardcoding (Design Note c).
type ControllerConfig struct {
	// ScalingExponent is the exponent applied to (anchorSpacing /
	// desiredSpacing); the spec's default of 3 models point density
	// scaling with screen-space sampling rate plus an aliasing margin.
	ScalingExponent float64

	// AnchorNeighbors is how many nearest neighbors are queried per point to
	// estimate anchor spacing, counting the point itself, which is dropped
	// before averaging; the default is 4.
	AnchorNeighbors int
}

// DefaultControllerConfig returns the spec's defaults.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{ScalingExponent: 3, AnchorNeighbors: 4}
}

// ResolutionController computes, for a given camera pose, how many
// additional points each spatial segment should display to match screen
// pixel density. It borrows a MetadataSet read-only and never mutates it.
type ResolutionController struct {
	anchorSpacing float64
	antialias     AntiAlias
	cfg           ControllerConfig
}

// NewResolutionController computes anchorSpacing once, as the mean over all
// points of the average distance to the AnchorNeighbors-1 nearest
// neighbors (excluding the point itself), on the anti-aliased anchor cloud.
func NewResolutionController(anchor *Cloud, antialias AntiAlias, cfg ControllerConfig) (*ResolutionController, error) {
	if anchor.IsEmpty() {
		return nil, errors.Wrap(ErrEmptyInput, "resolution controller anchor cloud")
	}
	if cfg.AnchorNeighbors < 2 {
		cfg.AnchorNeighbors = 4
	}
	if cfg.ScalingExponent == 0 {
		cfg.ScalingExponent = 3
	}

	positions := antialias.ApplyAll(anchor.Points)
	tree := NewKDTree()
	for i, p := range positions {
		tree.Insert(p, i)
	}

	spacings := make([]float64, len(positions))
	for i, p := range positions {
		neighbors := tree.KNearestNeighbors(p, cfg.AnchorNeighbors, SquaredEuclideanMetric{})
		var sum float64
		var count int
		for _, n := range neighbors {
			if n.Payload == i {
				continue
			}
			sum += math.Sqrt(n.Distance)
			count++
		}
		if count > 0 {
			spacings[i] = sum / float64(count)
		}
	}

	return &ResolutionController{
		anchorSpacing: stat.Mean(spacings, nil),
		antialias:     antialias,
		cfg:           cfg,
	}, nil
}

// DesiredCounts computes the desired point count per segment for frame
// frameIndex under camera, per spec §4.6 steps 1-8. If excludeBase is true,
// the returned counts exclude each segment's base point count.
func (rc *ResolutionController) DesiredCounts(meta *MetadataSet, frameIndex int, camera Camera, excludeBase bool) ([]int, error) {
	if meta == nil {
		return nil, errors.Wrap(ErrMissingMetadata, "desired counts")
	}
	bounds, baseCounts, additional, err := meta.Frame(frameIndex)
	if err != nil {
		return nil, err
	}
	segBounds, err := bounds.Partition(meta.Partitions[0], meta.Partitions[1], meta.Partitions[2])
	if err != nil {
		return nil, err
	}

	out := make([]int, len(segBounds))
	for s, segBound := range segBounds {
		baseCount := 0
		if s < len(baseCounts) {
			baseCount = baseCounts[s]
		}

		ext := segBound.Extent()
		margin := math.Max(ext.X, math.Max(ext.Y, ext.Z)) / (2 * rc.antialias.Scale)

		z := math.Inf(1)
		for _, v := range segBound.Vertices() {
			d := camera.Distance(rc.antialias.Apply(v))
			if d < z {
				z = d
			}
		}
		z = math.Max(0, z-margin)

		w, h := camera.PlaneAt(z)
		vw, vh := camera.ViewportPixels()
		desiredSpacing := math.Min(w/float64(vw), h/float64(vh))

		var scale float64
		if desiredSpacing > 0 {
			scale = math.Pow(rc.anchorSpacing/desiredSpacing, rc.cfg.ScalingExponent)
		}
		needed := int(math.Floor(float64(baseCount) * scale))
		deficit := needed - baseCount
		if deficit < 0 {
			deficit = 0
		}

		var addS int
		if s < len(additional) {
			addS = binarySearchCumulative(additional[s], deficit)
		}

		if excludeBase {
			out[s] = addS
		} else {
			out[s] = baseCount + addS
		}
	}
	return out, nil
}

// binarySearchCumulative returns the smallest value in a non-decreasing
// slice that is >= target, or the slice's last value if target exceeds it
// (capping at the maximum available, per spec §4.6 step 7-8). Returns 0 for
// an empty slice.
func binarySearchCumulative(cumulative []int, target int) int {
	if len(cumulative) == 0 {
		return 0
	}
	i := sort.SearchInts(cumulative, target)
	if i >= len(cumulative) {
		return cumulative[len(cumulative)-1]
	}
	return cumulative[i]
}
