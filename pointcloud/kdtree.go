package pointcloud

import (
	"container/heap"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// Metric is a distance function used by the spatial index, paired with the
// single-axis bound needed to prune kd-tree subtrees safely under that
// metric. AxisBound must return, for a given coordinate difference on one
// axis, a value comparable to Distance's output that lower-bounds the
// distance from the query to any point on the far side of a splitting
// plane perpendicular to that axis.
type Metric interface {
	Distance(a, b r3.Vector) float64
	AxisBound(diff float64) float64
}

// SquaredEuclideanMetric is the squared Euclidean distance.
type SquaredEuclideanMetric struct{}

func (SquaredEuclideanMetric) Distance(a, b r3.Vector) float64 {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

func (SquaredEuclideanMetric) AxisBound(diff float64) float64 { return diff * diff }

// InfinityNormMetric is the max of absolute per-axis deltas.
type InfinityNormMetric struct{}

func (InfinityNormMetric) Distance(a, b r3.Vector) float64 {
	d := a.Sub(b)
	return math.Max(math.Abs(d.X), math.Max(math.Abs(d.Y), math.Abs(d.Z)))
}

func (InfinityNormMetric) AxisBound(diff float64) float64 { return math.Abs(diff) }

// Neighbor is one result of a spatial index query.
type Neighbor struct {
	Distance float64
	Payload  int
	Position r3.Vector
}

type kdNode struct {
	position    r3.Vector
	payload     int
	left, right *kdNode
}

// KDTree is a 3D kd-tree keyed by (x, y, z) with an associated int payload,
// typically a point index. It supports k-nearest and radius queries under
// either SquaredEuclideanMetric or InfinityNormMetric. The tree is not
// self-balancing: insertion order determines its shape, which is why
// callers that build a tree from a pre-sorted cloud (the interpolator) are
// expected to shuffle points before insertion.
type KDTree struct {
	root *kdNode
	size int
}

// NewKDTree returns an empty kd-tree.
func NewKDTree() *KDTree {
	return &KDTree{}
}

// Insert adds a single (position, payload) pair to the tree.
func (t *KDTree) Insert(position r3.Vector, payload int) {
	node := &kdNode{position: position, payload: payload}
	t.size++
	if t.root == nil {
		t.root = node
		return
	}
	cur := t.root
	depth := 0
	for {
		axis := depth % 3
		if axisValue(position, axis) < axisValue(cur.position, axis) {
			if cur.left == nil {
				cur.left = node
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = node
				return
			}
			cur = cur.right
		}
		depth++
	}
}

// InsertShuffled inserts every point of points (using its index as payload)
// in a uniform random order, avoiding degenerate trees on pre-sorted input
// (spec §4.2 construction note).
func InsertShuffled(t *KDTree, points []Point, rng *rand.Rand) {
	order := rng.Perm(len(points))
	for _, i := range order {
		t.Insert(points[i].Position, points[i].Index)
	}
}

// Len returns the number of points inserted.
func (t *KDTree) Len() int { return t.size }

func axisValue(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// neighborHeap is a bounded max-heap over Neighbor, ordered so the farthest
// candidate is at the root and can be evicted in O(log k).
type neighborHeap []Neighbor

func (h neighborHeap) Len() int            { return len(h) }
func (h neighborHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(Neighbor)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// KNearestNeighbors returns up to k neighbors of query sorted ascending by
// distance under metric.
func (t *KDTree) KNearestNeighbors(query r3.Vector, k int, metric Metric) []Neighbor {
	if k <= 0 || t.root == nil {
		return nil
	}
	h := &neighborHeap{}
	heap.Init(h)
	var search func(n *kdNode, depth int)
	search = func(n *kdNode, depth int) {
		if n == nil {
			return
		}
		d := metric.Distance(query, n.position)
		cand := Neighbor{Distance: d, Payload: n.payload, Position: n.position}
		if h.Len() < k {
			heap.Push(h, cand)
		} else if d < (*h)[0].Distance {
			heap.Pop(h)
			heap.Push(h, cand)
		}

		axis := depth % 3
		diff := axisValue(query, axis) - axisValue(n.position, axis)
		near, far := n.left, n.right
		if diff > 0 {
			near, far = n.right, n.left
		}
		search(near, depth+1)
		if h.Len() < k || metric.AxisBound(diff) < (*h)[0].Distance {
			search(far, depth+1)
		}
	}
	search(t.root, 0)

	out := make([]Neighbor, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(Neighbor)
	}
	return out
}

// RadiusNearestNeighbors returns every neighbor of query within radius
// under metric, in no particular order.
func (t *KDTree) RadiusNearestNeighbors(query r3.Vector, radius float64, metric Metric) []Neighbor {
	var out []Neighbor
	var search func(n *kdNode, depth int)
	search = func(n *kdNode, depth int) {
		if n == nil {
			return
		}
		d := metric.Distance(query, n.position)
		if d <= radius {
			out = append(out, Neighbor{Distance: d, Payload: n.payload, Position: n.position})
		}
		axis := depth % 3
		diff := axisValue(query, axis) - axisValue(n.position, axis)
		near, far := n.left, n.right
		if diff > 0 {
			near, far = n.right, n.left
		}
		search(near, depth+1)
		if metric.AxisBound(diff) <= radius {
			search(far, depth+1)
		}
	}
	search(t.root, 0)
	return out
}
