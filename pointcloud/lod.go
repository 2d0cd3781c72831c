package pointcloud

import (
	"math/rand"

	"github.com/edaniels/golog"
)

// PartitionLOD orchestrates subsampling and segmenting to produce a base
// cloud, a per-segment residual cloud for each of the partitions, and the
// per-segment point counts table used to build Metadata.
//
// segmentsByResolution[s] is the concatenation, across resolutions in order
// r=0..R-1, of the points that landed in segment s at resolution r; this
// makes segmentsByResolution[s][0:cumulative] a valid progressive prefix.
// countsBySegment[s][r] is the count contributed by resolution r to segment
// s, so sum_r countsBySegment[s][r] == len(segmentsByResolution[s]).
//
// If cloud is empty, PartitionLOD returns (empty clone, nil, nil). If
// proportions has length 1, it returns (clone, nil, nil) with no additional
// resolutions.
func PartitionLOD(
	cloud *Cloud,
	partitions [3]int,
	proportions []int,
	threshold int,
	rng *rand.Rand,
	logger golog.Logger,
) (base *Cloud, segmentsByResolution []*Cloud, countsBySegment [][]int, err error) {
	if cloud.IsEmpty() {
		return cloud.Clone(), nil, nil, nil
	}

	layers, err := Subsample(cloud, proportions, threshold, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(layers) == 1 {
		return layers[0], nil, nil, nil
	}

	base = layers[0]
	additional := layers[1:]

	numSegments := partitions[0] * partitions[1] * partitions[2]
	pointsBySegment := make([][]Point, numSegments)
	countsBySegment = make([][]int, numSegments)

	for r, layer := range additional {
		partitioned, err := Segment(layer, partitions[0], partitions[1], partitions[2])
		if err != nil {
			return nil, nil, nil, err
		}
		for s, segment := range partitioned.Segments {
			pointsBySegment[s] = append(pointsBySegment[s], segment.Points...)
			countsBySegment[s] = append(countsBySegment[s], len(segment.Points))
		}
		if logger != nil {
			logger.Debugw("partitioned LOD resolution", "resolution", r, "points", len(layer.Points))
		}
	}

	segmentsByResolution = make([]*Cloud, numSegments)
	for s, points := range pointsBySegment {
		segmentsByResolution[s] = &Cloud{Points: points}
	}

	if logger != nil {
		logger.Infow("LOD partition complete",
			"input_points", len(cloud.Points),
			"base_points", len(base.Points),
			"segments", numSegments,
			"resolutions", len(additional),
		)
	}

	return base, segmentsByResolution, countsBySegment, nil
}
