package pointcloud

import (
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestPartitionLODEmptyCloud(t *testing.T) {
	c := &Cloud{}
	base, segments, counts, err := PartitionLOD(c, [3]int{2, 2, 2}, []int{4, 1, 1}, 10, rand.New(rand.NewSource(1)), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, base.Len(), test.ShouldEqual, 0)
	test.That(t, segments, test.ShouldBeNil)
	test.That(t, counts, test.ShouldBeNil)
}

func TestPartitionLODSingleLayer(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	c := uniformCloud(100, rng)
	base, segments, counts, err := PartitionLOD(c, [3]int{2, 2, 2}, []int{1}, 10, rng, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, base.Len(), test.ShouldEqual, c.Len())
	test.That(t, segments, test.ShouldBeNil)
	test.That(t, counts, test.ShouldBeNil)
}

func TestPartitionLODInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	c := uniformCloud(900, rng)
	partitions := [3]int{2, 2, 2}
	base, segments, counts, err := PartitionLOD(c, partitions, []int{4, 1, 1}, 10, rng, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, segments, test.ShouldHaveLength, 8)
	test.That(t, counts, test.ShouldHaveLength, 8)

	for s, seg := range segments {
		sum := 0
		for _, c := range counts[s] {
			sum += c
		}
		test.That(t, sum, test.ShouldEqual, seg.Len())
	}

	total := base.Len()
	for _, seg := range segments {
		total += seg.Len()
	}
	test.That(t, total, test.ShouldEqual, c.Len())
}
