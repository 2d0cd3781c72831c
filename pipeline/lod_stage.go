package pipeline

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ngchisern/vvtk-go/pointcloud"
)

// Dispatcher is a pipeline stage: it consumes a batch of messages and
// forwards results (and any unhandled messages, notably KindEnd) to ch.
type Dispatcher interface {
	Handle(ctx context.Context, messages []Message, ch *Channel) error
}

// LODStage wires pointcloud.PartitionLOD into the pipeline contract of
// spec.md §6: for each KindIndexedPointCloud it emits the base cloud named
// "base", one additional-resolution segment cloud per segment index, and a
// single KindMetaData message.
type LODStage struct {
	Partitions  [3]int
	Proportions []int
	Threshold   int
	RNG         *rand.Rand
	Logger      golog.Logger
}

// Handle implements Dispatcher.
func (s *LODStage) Handle(ctx context.Context, messages []Message, ch *Channel) error {
	rng := s.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	for _, msg := range messages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch msg.Kind {
		case KindIndexedPointCloud:
			base, segments, counts, err := pointcloud.PartitionLOD(
				msg.Cloud, s.Partitions, s.Proportions, s.Threshold, rng, s.Logger)
			if err != nil {
				return errors.Wrap(err, "LOD stage")
			}

			ch.Send(IndexedPointCloudWithName(base, msg.FrameIndex, "base"))
			for segIdx, segCloud := range segments {
				ch.Send(IndexedPointCloudWithName(segCloud, msg.FrameIndex, strconv.Itoa(segIdx)))
			}

			baseSegmented, err := pointcloud.Segment(base, s.Partitions[0], s.Partitions[1], s.Partitions[2])
			if err != nil {
				return errors.Wrap(err, "LOD stage: segment base cloud")
			}
			baseCounts := make([]int, len(baseSegmented.Segments))
			for i, seg := range baseSegmented.Segments {
				baseCounts[i] = seg.Len()
			}

			ch.Send(MetaDataMessage(FrameMetadata{
				Bounds:              mustBounds(msg.Cloud),
				BaseCounts:          baseCounts,
				NumAdditionalLevels: len(s.Proportions) - 1,
				Partitions:          s.Partitions,
				AdditionalCounts:    counts,
			}))
		case KindEnd:
			ch.Send(msg)
		default:
			// Metrics, already-named clouds, and metadata messages pass
			// through unchanged; this stage only produces them.
			ch.Send(msg)
		}
	}
	return nil
}

func mustBounds(cloud *pointcloud.Cloud) pointcloud.Bounds {
	b, err := pointcloud.ComputeBounds(cloud)
	if err != nil {
		return pointcloud.Bounds{}
	}
	return b
}
