package pointcloud

import "github.com/pkg/errors"

// MetadataSet is the serializable description of the LOD ladder across all
// authored frames: per-frame Bounds, the base cloud's per-segment point
// counts, and the cumulative additional-point counts per segment per
// resolution. Metadata is produced once per frame during authoring and is
// read-only thereafter; the resolution controller borrows it and never
// mutates it.
type MetadataSet struct {
	Bounds              []Bounds
	BasePointNum        [][]int
	AdditionalPointNums [][][]int
	NumAdditionalLevels int
	Partitions          [3]int
}

// NewMetadataSet returns an empty MetadataSet for the given partition
// triple.
func NewMetadataSet(partitions [3]int) *MetadataSet {
	return &MetadataSet{Partitions: partitions}
}

// AppendFrame records one frame's bounds, base per-segment counts, and the
// per-resolution counts contributed by PartitionLOD, converting the latter
// into the cumulative form additionalPointNums[s][r] = sum_{r'<=r}
// countsBySegment[s][r'] that enables binary search at query time.
func (m *MetadataSet) AppendFrame(bounds Bounds, baseCounts []int, countsBySegment [][]int) {
	cumulative := make([][]int, len(countsBySegment))
	for s, counts := range countsBySegment {
		cumulative[s] = make([]int, len(counts))
		running := 0
		for r, c := range counts {
			running += c
			cumulative[s][r] = running
		}
	}

	m.Bounds = append(m.Bounds, bounds)
	m.BasePointNum = append(m.BasePointNum, baseCounts)
	m.AdditionalPointNums = append(m.AdditionalPointNums, cumulative)
	if len(countsBySegment) > 0 {
		levels := len(countsBySegment[0])
		if levels > m.NumAdditionalLevels {
			m.NumAdditionalLevels = levels
		}
	}
}

// NumFrames returns the number of frames recorded so far.
func (m *MetadataSet) NumFrames() int {
	return len(m.Bounds)
}

// Frame returns the bounds, base counts and cumulative additional counts
// for frame i.
func (m *MetadataSet) Frame(i int) (Bounds, []int, [][]int, error) {
	if i < 0 || i >= len(m.Bounds) {
		return Bounds{}, nil, nil, errors.Wrap(ErrMissingMetadata, "frame index out of range")
	}
	return m.Bounds[i], m.BasePointNum[i], m.AdditionalPointNums[i], nil
}
