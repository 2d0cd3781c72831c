package stream

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.viam.com/test"

	"github.com/ngchisern/vvtk-go/pointcloud"
)

func TestBufferedReaderYieldsFramesInOrder(t *testing.T) {
	keys := []FrameKey{
		{ObjectID: uuid.New(), Quality: 0, FrameOffset: 0},
		{ObjectID: uuid.New(), Quality: 0, FrameOffset: 1},
		{ObjectID: uuid.New(), Quality: 0, FrameOffset: 2},
	}

	fetch := func(ctx context.Context, key FrameKey) (*pointcloud.Cloud, error) {
		return &pointcloud.Cloud{Points: make([]pointcloud.Point, key.FrameOffset+1)}, nil
	}

	ctx := context.Background()
	reader := NewBufferedReader(ctx, keys, 2, fetch)
	defer reader.Close()

	for i, key := range keys {
		cloud, err := reader.Next(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cloud.Len(), test.ShouldEqual, key.FrameOffset+1)
		_ = i
	}
}

func TestBufferedReaderBoundsFetchAheadByTarget(t *testing.T) {
	const target = 2
	const numKeys = 6

	keys := make([]FrameKey, numKeys)
	for i := range keys {
		keys[i] = FrameKey{ObjectID: uuid.New(), Quality: 0, FrameOffset: i}
	}

	var mu sync.Mutex
	produced := 0

	fetch := func(ctx context.Context, key FrameKey) (*pointcloud.Cloud, error) {
		mu.Lock()
		produced++
		mu.Unlock()
		return &pointcloud.Cloud{Points: make([]pointcloud.Point, key.FrameOffset+1)}, nil
	}

	ctx := context.Background()
	reader := NewBufferedReader(ctx, keys, target, fetch)
	defer reader.Close()

	// With no consumption yet, the producer should only be able to fetch
	// ahead as far as target frames before its occupancy semaphore blocks
	// it from starting the next one.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	test.That(t, produced, test.ShouldEqual, target)
	mu.Unlock()

	for range keys {
		_, err := reader.Next(ctx)
		test.That(t, err, test.ShouldBeNil)
	}

	mu.Lock()
	defer mu.Unlock()
	test.That(t, produced, test.ShouldEqual, numKeys)
}

func TestBufferedReaderNextRespectsContextCancellation(t *testing.T) {
	blockCh := make(chan struct{})
	fetch := func(ctx context.Context, key FrameKey) (*pointcloud.Cloud, error) {
		<-blockCh
		return &pointcloud.Cloud{}, nil
	}

	keys := []FrameKey{{ObjectID: uuid.New(), Quality: 0, FrameOffset: 0}}
	ctx := context.Background()
	reader := NewBufferedReader(ctx, keys, 1, fetch)
	defer reader.Close()
	defer close(blockCh)

	nextCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	_, err := reader.Next(nextCtx)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBufferedReaderClosePropagatesFetchError(t *testing.T) {
	wantErr := context.Canceled
	fetch := func(ctx context.Context, key FrameKey) (*pointcloud.Cloud, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	keys := []FrameKey{{ObjectID: uuid.New(), Quality: 0, FrameOffset: 0}}
	reader := NewBufferedReader(context.Background(), keys, 1, fetch)

	err := reader.Close()
	test.That(t, err, test.ShouldEqual, wantErr)
}
