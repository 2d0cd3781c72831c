package pointcloud

import (
	"math"
	"math/rand"
	"sync"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// ScoringConfig holds the numeric-format constants the penalized matching
// score normalizes against. These are content-dependent magic numbers in
// the original design (Design Note c) and are exposed here rather than
// hardcoded.
type ScoringConfig struct {
	// CoordBound is the assumed per-axis coordinate bound (default 512).
	CoordBound float64
	// ColorBound is the assumed per-channel color bound (default 256).
	ColorBound float64
	// LuminanceCap is a perceptual luminance weighting cap (default 100).
	LuminanceCap float64
}

// DefaultScoringConfig returns the spec's default normalization constants.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{CoordBound: 512, ColorBound: 256, LuminanceCap: 100}
}

// InterpolationParams configures one Interpolate call.
type InterpolationParams struct {
	// PenalizeCoord, PenalizeColor and PenalizeMapped weight the three
	// terms of the penalized matching score.
	PenalizeCoord, PenalizeColor, PenalizeMapped float64

	// Radius is the infinity-norm radius used for candidate search when K
	// is 0.
	Radius float64
	// K, if > 0, switches candidate search to k-nearest-neighbor instead of
	// radius search.
	K int

	// Workers is the number of parallel query workers; defaults to 4.
	Workers int

	ShowUnmapped      bool
	ResizeNearCracks  bool
	MarkEnlarged      bool
	ComputeFrameDelta bool

	Scoring ScoringConfig
	RNG     *rand.Rand
	Logger  golog.Logger
}

// InterpolationResult is everything Interpolate produces.
type InterpolationResult struct {
	// Interpolated is the reconstructed frame, same length and order as
	// the source frame.
	Interpolated *Cloud
	// ReferenceFrame is a clone of the target frame with Mapping counts
	// updated by this pass.
	ReferenceFrame *Cloud
	// Marked is non-nil only when ResizeNearCracks && MarkEnlarged: the
	// interpolated frame with near-crack points recolored red.
	Marked *Cloud
	// DeltaPosition and DeltaColor are populated only when
	// ComputeFrameDelta is set.
	DeltaPosition []r3.Vector
	DeltaColor    []r3.Vector
	// UnmappedClusters counts isolated all-unmapped neighborhoods found and
	// recolored green, populated only when ShowUnmapped is set.
	UnmappedClusters int
}

// Interpolate reconstructs an intermediate frame from source frame a by, for
// each point, finding spatially near candidates in target frame b under the
// infinity-norm metric, scoring them with the penalized distance in
// params, and averaging the source point with the winning candidate. If a
// source point has no candidates, it passes through unchanged.
func Interpolate(a, b *Cloud, params InterpolationParams) (InterpolationResult, error) {
	if params.Workers <= 0 {
		params.Workers = 4
	}
	if params.Scoring == (ScoringConfig{}) {
		params.Scoring = DefaultScoringConfig()
	}
	if params.RNG == nil {
		params.RNG = rand.New(rand.NewSource(1))
	}

	tree := NewKDTree()
	InsertShuffled(tree, b.Points, params.RNG)

	bByIndex := make(map[int]int, len(b.Points))
	for i, p := range b.Points {
		bByIndex[p.Index] = i
	}

	candidateLists := parallelQueryCandidates(a.Points, tree, params)

	mapping := make([]uint16, len(b.Points))
	interpolated := make([]Point, len(a.Points))

	for i, pa := range a.Points {
		candidates := candidateLists[i]
		if len(candidates) == 0 {
			interpolated[i] = pa
			continue
		}

		bestScore := math.MaxFloat64
		bestArrIdx := -1
		for _, payload := range candidates {
			arrIdx, ok := bByIndex[payload]
			if !ok {
				continue
			}
			pb := b.Points[arrIdx]
			score := scoreCandidate(pa, pb, mapping[arrIdx], params)
			if score < bestScore {
				bestScore = score
				bestArrIdx = arrIdx
			}
		}
		if bestArrIdx < 0 {
			interpolated[i] = pa
			continue
		}
		mapping[bestArrIdx]++
		interpolated[i] = pa.averagedWith(b.Points[bestArrIdx])
	}

	if params.Logger != nil {
		params.Logger.Infow("interpolation complete", "source_points", len(a.Points), "target_points", len(b.Points))
	}

	refFrame := b.Clone()
	_ = refFrame.ApplyMapping(mapping)

	result := InterpolationResult{
		Interpolated:   &Cloud{Points: interpolated},
		ReferenceFrame: refFrame,
	}

	if params.ComputeFrameDelta {
		deltaPos, deltaColor, err := FrameDelta(a, result.Interpolated)
		if err != nil {
			return InterpolationResult{}, err
		}
		result.DeltaPosition = deltaPos
		result.DeltaColor = deltaColor
	}

	if params.ShowUnmapped {
		result.UnmappedClusters = flagIsolatedUnmapped(refFrame)
	}

	if params.ResizeNearCracks {
		adjustPointSizes(result.Interpolated, params.Radius)
		if params.MarkEnlarged {
			result.Marked = markPointsNearCracks(result.Interpolated)
		}
	}

	return result, nil
}

// parallelQueryCandidates computes, for each point in source, the candidate
// set (as B's dense Index payloads) found against tree, splitting the work
// across params.Workers goroutines with disjoint chunks joined by a
// WaitGroup. Output order matches input order regardless of which chunk
// finishes first, since each worker writes to its own disjoint slice range.
func parallelQueryCandidates(source []Point, tree *KDTree, params InterpolationParams) [][]int {
	out := make([][]int, len(source))
	if len(source) == 0 {
		return out
	}

	chunkSize := (len(source) + params.Workers - 1) / params.Workers
	var wg sync.WaitGroup
	for start := 0; start < len(source); start += chunkSize {
		end := start + chunkSize
		if end > len(source) {
			end = len(source)
		}
		start, end := start, end
		wg.Add(1)
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = queryCandidates(source[i].Position, tree, params)
			}
		})
	}
	wg.Wait()
	return out
}

func queryCandidates(query r3.Vector, tree *KDTree, params InterpolationParams) []int {
	var neighbors []Neighbor
	if params.K > 0 {
		neighbors = tree.KNearestNeighbors(query, params.K, InfinityNormMetric{})
	} else {
		neighbors = tree.RadiusNearestNeighbors(query, params.Radius, InfinityNormMetric{})
	}
	payloads := make([]int, len(neighbors))
	for i, n := range neighbors {
		payloads[i] = n.Payload
	}
	return payloads
}

// scoreCandidate is the penalized matching score of spec §4.7.
func scoreCandidate(a, b Point, bMapping uint16, params InterpolationParams) float64 {
	cfg := params.Scoring
	coordScale := math.Sqrt(3 * cfg.CoordBound * cfg.CoordBound)
	colorScale := math.Sqrt(cfg.LuminanceCap*cfg.LuminanceCap + 2*cfg.ColorBound*cfg.ColorBound)

	coordDist := a.Position.Sub(b.Position).Norm()
	colorDist := rgbDistance(a, b)

	return params.PenalizeCoord*coordDist/coordScale +
		params.PenalizeColor*colorDist/colorScale +
		params.PenalizeMapped*float64(bMapping)
}

func rgbDistance(a, b Point) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// flagIsolatedUnmapped scans refFrame for points with Mapping == 0 whose
// other points among their 3 nearest (the point itself included, so 2
// neighbors) are also all Mapping == 0, and recolors them green as
// an isolated-unmapped-cluster diagnostic. The "all unmapped" flag is reset
// before each point's neighbor scan (Design Note a: the original carried
// the flag across iterations in one code path; this is specified as a bug
// fix here).
func flagIsolatedUnmapped(refFrame *Cloud) int {
	tree := NewKDTree()
	for i, p := range refFrame.Points {
		tree.Insert(p.Position, i)
	}

	clusters := 0
	for i, p := range refFrame.Points {
		if p.Mapping != 0 {
			continue
		}
		allUnmapped := true
		neighbors := tree.KNearestNeighbors(p.Position, 3, SquaredEuclideanMetric{})
		for _, n := range neighbors {
			if n.Payload == i {
				continue
			}
			if refFrame.Points[n.Payload].Mapping != 0 {
				allUnmapped = false
				break
			}
		}
		if allUnmapped {
			refFrame.Points[i].R, refFrame.Points[i].G, refFrame.Points[i].B = 0, 255, 0
			clusters++
		}
	}
	return clusters
}

// adjustPointSizes builds a kd-tree on cloud and, for each point, computes
// local density (neighbor count within radius under the infinity norm,
// divided by pi*radius^2). A point whose new density is at or below its
// recorded Density is flagged NearCrack and enlarged to Size 2.0.
func adjustPointSizes(cloud *Cloud, radius float64) {
	tree := NewKDTree()
	for i, p := range cloud.Points {
		tree.Insert(p.Position, i)
	}
	area := math.Pi * radius * radius
	for i, p := range cloud.Points {
		neighbors := tree.RadiusNearestNeighbors(p.Position, radius, InfinityNormMetric{})
		density := float64(len(neighbors)) / area
		if density <= float64(p.Density) {
			cloud.Points[i].NearCrack = true
			cloud.Points[i].Size = 2.0
		}
	}
}

// markPointsNearCracks returns a clone of cloud with every near-crack point
// recolored red and every point's size reset to 1.0, for visual debugging.
func markPointsNearCracks(cloud *Cloud) *Cloud {
	marked := cloud.Clone()
	for i := range marked.Points {
		marked.Points[i].Size = 1.0
		if marked.Points[i].NearCrack {
			marked.Points[i].R, marked.Points[i].G, marked.Points[i].B = 255, 0, 0
		}
	}
	return marked
}

// FrameDelta computes per-index position and color deltas between next and
// prev (next - prev), usable by downstream compression stages. next and
// prev must have equal length.
func FrameDelta(next, prev *Cloud) (deltaPos, deltaColor []r3.Vector, err error) {
	if next.Len() != prev.Len() {
		return nil, nil, errors.Wrap(ErrShapeMismatch, "frame delta")
	}
	deltaPos = make([]r3.Vector, next.Len())
	deltaColor = make([]r3.Vector, next.Len())
	for i := range next.Points {
		np, pp := next.Points[i], prev.Points[i]
		deltaPos[i] = np.Position.Sub(pp.Position)
		deltaColor[i] = r3.Vector{
			X: float64(np.R) - float64(pp.R),
			Y: float64(np.G) - float64(pp.G),
			Z: float64(np.B) - float64(pp.B),
		}
	}
	return deltaPos, deltaColor, nil
}
