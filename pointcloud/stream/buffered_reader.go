package stream

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ngchisern/vvtk-go/pointcloud"
)

// FrameKey identifies one buffered frame by the object it belongs to, its
// quality (LOD) level, and its offset within the stream.
type FrameKey struct {
	ObjectID    uuid.UUID
	Quality     int
	FrameOffset int
}

// FetchFunc fetches one frame for key, blocking until it's available or ctx
// is canceled.
type FetchFunc func(ctx context.Context, key FrameKey) (*pointcloud.Cloud, error)

// BufferedReader is a bounded, keyed buffer fed by a producer goroutine
// that keeps occupancy topped up to target, and drained by callers in
// frame order. Occupancy (frames fetched but not yet consumed) never
// exceeds target: the producer blocks on a counting semaphore before
// fetching each key, and Next releases a slot as it consumes a frame,
// mirroring the original reader's "while next_to_get - current_frame <
// buffer_size" throttle. Suspension and cancellation occur at the channel
// boundary: Next blocks until a frame is ready or ctx is canceled, and
// Close stops the producer at its next fetch boundary.
type BufferedReader struct {
	fetch  FetchFunc
	target int
	keys   []FrameKey

	mu     sync.Mutex
	filled map[int]*pointcloud.Cloud
	cursor int

	sem    chan struct{}
	ready  chan struct{}
	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewBufferedReader starts a producer that fetches keys in order, keeping
// up to target frames buffered ahead of the consumer's cursor.
func NewBufferedReader(ctx context.Context, keys []FrameKey, target int, fetch FetchFunc) *BufferedReader {
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	if target < 1 {
		target = 1
	}

	r := &BufferedReader{
		fetch:  fetch,
		target: target,
		keys:   keys,
		filled: make(map[int]*pointcloud.Cloud),
		sem:    make(chan struct{}, target),
		ready:  make(chan struct{}, len(keys)+1),
		group:  group,
		cancel: cancel,
	}

	group.Go(func() error {
		return r.produce(ctx)
	})

	return r
}

func (r *BufferedReader) produce(ctx context.Context) error {
	for i, key := range r.keys {
		select {
		case r.sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}

		cloud, err := r.fetch(ctx, key)
		if err != nil {
			return err
		}

		r.mu.Lock()
		r.filled[i] = cloud
		r.mu.Unlock()

		select {
		case r.ready <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Next blocks until the next frame (in key order) is available or ctx is
// canceled, returning it, advancing the consumer cursor, and releasing the
// occupancy slot the producer is waiting on.
func (r *BufferedReader) Next(ctx context.Context) (*pointcloud.Cloud, error) {
	for {
		r.mu.Lock()
		cloud, ok := r.filled[r.cursor]
		r.mu.Unlock()
		if ok {
			r.mu.Lock()
			delete(r.filled, r.cursor)
			r.cursor++
			r.mu.Unlock()
			<-r.sem
			return cloud, nil
		}

		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close cancels the producer and waits for it to stop at its next fetch
// boundary, returning the producer's terminal error: context.Canceled if it
// was still running, nil if it had already fetched every key.
func (r *BufferedReader) Close() error {
	r.cancel()
	return r.group.Wait()
}
