package pointcloud

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func uniformCloud(n int, rng *rand.Rand) *Cloud {
	points := make([]Point, n)
	for i := range points {
		points[i] = NewPoint(r3.Vector{
			X: rng.Float64() * 10,
			Y: rng.Float64() * 10,
			Z: rng.Float64() * 10,
		}, 100, 100, 100, 255, i)
	}
	return &Cloud{Points: points}
}

func TestSubsampleEmptyReturnsUnchanged(t *testing.T) {
	c := &Cloud{}
	out, err := Subsample(c, []int{4, 1, 1}, 10, rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldHaveLength, 1)
	test.That(t, out[0], test.ShouldEqual, c)
}

func TestSubsampleSingleProportionReturnsClone(t *testing.T) {
	c := uniformCloud(50, rand.New(rand.NewSource(2)))
	out, err := Subsample(c, []int{1}, 10, rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldHaveLength, 1)
	test.That(t, out[0].Len(), test.ShouldEqual, c.Len())
	test.That(t, out[0], test.ShouldNotEqual, c)
}

func TestSubsamplePreservesTotalCount(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	c := uniformCloud(600, rng)
	out, err := Subsample(c, []int{4, 1, 1}, 10, rng)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldHaveLength, 3)

	total := 0
	for _, layer := range out {
		total += layer.Len()
	}
	test.That(t, total, test.ShouldEqual, 600)

	// base layer should carry roughly 4/6 of the points, within voxel
	// quantization slack.
	test.That(t, out[0].Len(), test.ShouldBeGreaterThan, 300)
	test.That(t, out[0].Len(), test.ShouldBeLessThan, 500)
}

func TestSubsampleEachPointAppearsOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	c := uniformCloud(200, rng)
	out, err := Subsample(c, []int{2, 1}, 8, rng)
	test.That(t, err, test.ShouldBeNil)

	seen := map[int]int{}
	for _, layer := range out {
		for _, p := range layer.Points {
			seen[p.Index]++
		}
	}
	test.That(t, seen, test.ShouldHaveLength, 200)
	for _, count := range seen {
		test.That(t, count, test.ShouldEqual, 1)
	}
}
