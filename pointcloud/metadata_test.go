package pointcloud

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestMetadataSetCumulative(t *testing.T) {
	set := NewMetadataSet([3]int{1, 1, 1})
	bounds := Bounds{Min: r3.Vector{}, Max: r3.Vector{X: 1, Y: 1, Z: 1}}
	set.AppendFrame(bounds, []int{100}, [][]int{{50, 100, 250}})

	test.That(t, set.NumFrames(), test.ShouldEqual, 1)
	gotBounds, baseCounts, additional, err := set.Frame(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gotBounds, test.ShouldResemble, bounds)
	test.That(t, baseCounts, test.ShouldResemble, []int{100})
	test.That(t, additional, test.ShouldResemble, [][]int{{50, 150, 400}})
	test.That(t, set.NumAdditionalLevels, test.ShouldEqual, 3)
}

func TestMetadataFrameOutOfRange(t *testing.T) {
	set := NewMetadataSet([3]int{1, 1, 1})
	_, _, _, err := set.Frame(0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAdditionalPointNumsNonDecreasing(t *testing.T) {
	set := NewMetadataSet([3]int{2, 1, 1})
	set.AppendFrame(Bounds{}, []int{10, 20}, [][]int{{3, 0, 5}, {1, 1, 1}})
	_, _, additional, err := set.Frame(0)
	test.That(t, err, test.ShouldBeNil)
	for _, segment := range additional {
		for i := 1; i < len(segment); i++ {
			test.That(t, segment[i], test.ShouldBeGreaterThanOrEqualTo, segment[i-1])
		}
	}
}
