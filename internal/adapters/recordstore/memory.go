package recordstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
	"github.com/Nagaurav/MockInterview1/pkg/metrics"
)

// MemoryStore is an in-process Store used by tests and single-node
// deployments. Reads return deep-enough copies that one aggregation's
// input is an immutable snapshot regardless of concurrent writes.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string][]*memoryRecord // userID -> interviews, ascending by CreatedAt
	notifier *notifier
	closed   bool
}

type memoryRecord struct {
	interview model.Interview
	feedback  []model.FeedbackBundle
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string][]*memoryRecord),
		notifier: newNotifier(),
	}
}

// ListRecords implements Store.
func (s *MemoryStore) ListRecords(ctx context.Context, userID string, since time.Time) ([]model.Record, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []model.Record
	for _, rec := range s.records[userID] {
		if rec.interview.CreatedAt.Before(since) {
			continue
		}
		out = append(out, rec.snapshot())
	}
	return out, nil
}

// PutInterview implements Store.
func (s *MemoryStore) PutInterview(ctx context.Context, iv model.Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = time.Now()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	list := s.records[iv.UserID]
	replaced := false
	for _, rec := range list {
		if rec.interview.ID == iv.ID {
			rec.interview = iv
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, &memoryRecord{interview: iv})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].interview.CreatedAt.Before(list[j].interview.CreatedAt)
	})
	s.records[iv.UserID] = list
	s.mu.Unlock()

	metrics.RecordStoreWrite()
	s.notifier.publish(iv.UserID)
	return nil
}

// PutFeedback implements Store.
func (s *MemoryStore) PutFeedback(ctx context.Context, bundle model.FeedbackBundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bundle.ID == "" {
		bundle.ID = uuid.NewString()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	var target *memoryRecord
	for _, rec := range s.records[bundle.UserID] {
		if rec.interview.ID == bundle.InterviewID {
			target = rec
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	target.feedback = append(target.feedback, bundle)
	s.mu.Unlock()

	metrics.RecordStoreWrite()
	s.notifier.publish(bundle.UserID)
	return nil
}

// DeleteInterview implements Store.
func (s *MemoryStore) DeleteInterview(ctx context.Context, userID, interviewID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	list := s.records[userID]
	idx := -1
	for i, rec := range list {
		if rec.interview.ID == interviewID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.records[userID] = append(list[:idx], list[idx+1:]...)
	s.mu.Unlock()

	metrics.RecordStoreWrite()
	s.notifier.publish(userID)
	return nil
}

// Watch implements Store.
func (s *MemoryStore) Watch(ctx context.Context, userID string) (<-chan Change, CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return s.notifier.watch(userID)
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.notifier.close()
	return nil
}

// Count returns the number of interviews stored for a user.
func (s *MemoryStore) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[userID])
}

func (r *memoryRecord) snapshot() model.Record {
	out := model.Record{Interview: r.interview}
	if r.interview.Score != nil {
		score := *r.interview.Score
		out.Interview.Score = &score
	}
	if len(r.feedback) > 0 {
		out.Feedback = make([]model.FeedbackBundle, len(r.feedback))
		copy(out.Feedback, r.feedback)
	}
	return out
}
