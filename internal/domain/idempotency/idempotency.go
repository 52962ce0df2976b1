// Package idempotency tracks request ids so a retried session submission
// cannot insert its feedback bundle twice.
package idempotency

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50_000

// Tracker records seen request ids for at-most-once processing.
type Tracker interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an id so the request can be retried. Use it when
	// a request was recorded but its processing failed.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// memoryTracker implements Tracker with a bounded FIFO of seen ids.
// When the cap is reached the oldest id is forgotten first; an old
// duplicate slipping through after eviction only re-runs an idempotent
// persistence path, so a bounded window is an acceptable trade.
type memoryTracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
	size    atomic.Int64
}

// Option applies a configuration option to the tracker.
type Option func(*memoryTracker)

// WithMaxSize bounds how many ids are remembered.
func WithMaxSize(n int) Option {
	return func(t *memoryTracker) {
		if n > 0 {
			t.maxSize = n
		}
	}
}

// NewTracker creates a bounded in-memory tracker.
func NewTracker(opts ...Option) Tracker {
	t := &memoryTracker{
		seen:    make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *memoryTracker) SeenAndRecord(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return true
	}
	if len(t.order) >= t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.seen, oldest)
		t.size.Add(-1)
	}
	t.seen[id] = struct{}{}
	t.order = append(t.order, id)
	t.size.Add(1)
	return false
}

func (t *memoryTracker) Unrecord(_ context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; !ok {
		return
	}
	delete(t.seen, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	t.size.Add(-1)
}

func (t *memoryTracker) Size() int64 {
	return t.size.Load()
}
