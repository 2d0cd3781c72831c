package pointcloud

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// fixedCamera is a Camera stub that reports a constant distance and a
// fixed view-plane size regardless of depth, so tests can pin down
// desiredSpacing exactly.
type fixedCamera struct {
	distance    float64
	planeW      float64
	planeH      float64
	viewportW   int
	viewportH   int
}

func (c fixedCamera) Distance(p r3.Vector) float64          { return c.distance }
func (c fixedCamera) PlaneAt(z float64) (float64, float64)  { return c.planeW, c.planeH }
func (c fixedCamera) ViewportPixels() (int, int)            { return c.viewportW, c.viewportH }

func lineAnchor(n int) *Cloud {
	points := make([]Point, n)
	for i := range points {
		points[i] = NewPoint(r3.Vector{X: float64(i)}, 0, 0, 0, 255, i)
	}
	return &Cloud{Points: points}
}

func TestNewResolutionControllerAnchorSpacing(t *testing.T) {
	anchor := lineAnchor(5)
	rc, err := NewResolutionController(anchor, IdentityAntiAlias(), ControllerConfig{ScalingExponent: 3, AnchorNeighbors: 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rc.anchorSpacing, test.ShouldEqual, 1.0)
}

func TestNewResolutionControllerEmptyAnchor(t *testing.T) {
	_, err := NewResolutionController(&Cloud{}, IdentityAntiAlias(), DefaultControllerConfig())
	test.That(t, err, test.ShouldNotBeNil)
}

// TestDesiredCountsScenario reproduces the worked example: anchorSpacing=1,
// desiredSpacing=0.5, base=100, cumulative additional=[50,150,400] yields
// scale=8, needed=800, deficit=700, binary search caps at 400, and the
// final (non-excluding) result is 500.
func TestDesiredCountsScenario(t *testing.T) {
	anchor := lineAnchor(5)
	rc, err := NewResolutionController(anchor, IdentityAntiAlias(), ControllerConfig{ScalingExponent: 3, AnchorNeighbors: 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rc.anchorSpacing, test.ShouldEqual, 1.0)

	meta := NewMetadataSet([3]int{1, 1, 1})
	bounds := Bounds{Min: r3.Vector{}, Max: r3.Vector{X: 1, Y: 1, Z: 1}}
	meta.AppendFrame(bounds, []int{100}, [][]int{{50, 100, 250}})

	cam := fixedCamera{distance: 0, planeW: 0.5, planeH: 0.5, viewportW: 1, viewportH: 1}

	counts, err := rc.DesiredCounts(meta, 0, cam, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, counts, test.ShouldHaveLength, 1)
	test.That(t, counts[0], test.ShouldEqual, 500)
}

func TestDesiredCountsExcludeBase(t *testing.T) {
	anchor := lineAnchor(5)
	rc, err := NewResolutionController(anchor, IdentityAntiAlias(), ControllerConfig{ScalingExponent: 3, AnchorNeighbors: 2})
	test.That(t, err, test.ShouldBeNil)

	meta := NewMetadataSet([3]int{1, 1, 1})
	bounds := Bounds{Min: r3.Vector{}, Max: r3.Vector{X: 1, Y: 1, Z: 1}}
	meta.AppendFrame(bounds, []int{100}, [][]int{{50, 100, 250}})

	cam := fixedCamera{distance: 0, planeW: 0.5, planeH: 0.5, viewportW: 1, viewportH: 1}

	counts, err := rc.DesiredCounts(meta, 0, cam, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, counts[0], test.ShouldEqual, 400)
}

func TestDesiredCountsMissingMetadata(t *testing.T) {
	anchor := lineAnchor(5)
	rc, err := NewResolutionController(anchor, IdentityAntiAlias(), DefaultControllerConfig())
	test.That(t, err, test.ShouldBeNil)
	_, err = rc.DesiredCounts(nil, 0, fixedCamera{}, false)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDesiredCountsFrameOutOfRange(t *testing.T) {
	anchor := lineAnchor(5)
	rc, err := NewResolutionController(anchor, IdentityAntiAlias(), DefaultControllerConfig())
	test.That(t, err, test.ShouldBeNil)
	meta := NewMetadataSet([3]int{1, 1, 1})
	_, err = rc.DesiredCounts(meta, 0, fixedCamera{}, false)
	test.That(t, err, test.ShouldNotBeNil)
}
