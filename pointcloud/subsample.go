package pointcloud

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Subsample voxel-grid downsamples cloud into len(proportions) output
// layers. The input is voxelized into cells sized so each cell holds on
// average threshold points; within each cell, points are randomly shuffled
// and dealt out to the output layers following the proportion ratios (e.g.
// proportions [4,1,1] assigns 4/6 of a cell's points to layer 0, 1/6 each to
// layers 1 and 2). Every input point appears in exactly one output layer,
// and output[0] is the base cloud.
//
// If cloud is empty, Subsample returns it unchanged as the sole element. If
// len(proportions) == 1, Subsample returns a single clone of cloud.
func Subsample(cloud *Cloud, proportions []int, threshold int, rng *rand.Rand) ([]*Cloud, error) {
	if cloud.IsEmpty() {
		return []*Cloud{cloud}, nil
	}
	if len(proportions) == 1 {
		return []*Cloud{cloud.Clone()}, nil
	}
	if threshold <= 0 {
		return nil, errors.New("subsample: threshold must be > 0")
	}

	bounds, err := ComputeBounds(cloud)
	if err != nil {
		return nil, err
	}
	nx, ny, nz := voxelGrid(bounds, len(cloud.Points), threshold)

	buckets := make([][]Point, nx*ny*nz)
	for _, p := range cloud.Points {
		idx, err := bounds.CellIndex(p.Position, nx, ny, nz)
		if err != nil {
			return nil, err
		}
		buckets[idx] = append(buckets[idx], p)
	}

	pattern := dealPattern(proportions)
	out := make([]*Cloud, len(proportions))
	for i := range out {
		out[i] = &Cloud{}
	}

	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		order := rng.Perm(len(bucket))
		for seq, pointIdx := range order {
			layer := pattern[seq%len(pattern)]
			out[layer].Points = append(out[layer].Points, bucket[pointIdx])
		}
	}
	return out, nil
}

// voxelGrid picks an (nx, ny, nz) partition whose cells hold on average
// threshold points, spreading the voxel count across axes in proportion to
// the bound's extent on each axis.
func voxelGrid(bounds Bounds, numPoints, threshold int) (nx, ny, nz int) {
	ext := bounds.Extent()
	volume := ext.X * ext.Y * ext.Z
	targetVoxels := math.Max(1, float64(numPoints)/float64(threshold))

	if volume <= 0 {
		return 1, 1, 1
	}
	side := math.Cbrt(volume / targetVoxels)
	nx = axisVoxelCount(ext.X, side)
	ny = axisVoxelCount(ext.Y, side)
	nz = axisVoxelCount(ext.Z, side)
	return nx, ny, nz
}

func axisVoxelCount(extent, side float64) int {
	if extent <= 0 || side <= 0 {
		return 1
	}
	n := int(math.Ceil(extent / side))
	if n < 1 {
		return 1
	}
	return n
}

// dealPattern expands proportions into a repeating deal sequence: layer i
// appears proportions[i] times, e.g. [4,1,1] -> [0,0,0,0,1,2].
func dealPattern(proportions []int) []int {
	var pattern []int
	for layer, p := range proportions {
		for i := 0; i < p; i++ {
			pattern = append(pattern, layer)
		}
	}
	if len(pattern) == 0 {
		pattern = []int{0}
	}
	return pattern
}
