// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nagaurav/MockInterview1/internal/adapters/recordstore"
	"github.com/Nagaurav/MockInterview1/internal/domain/analytics"
	"github.com/Nagaurav/MockInterview1/internal/domain/feedback"
	"github.com/Nagaurav/MockInterview1/internal/domain/idempotency"
	"github.com/Nagaurav/MockInterview1/internal/domain/model"
	"github.com/Nagaurav/MockInterview1/internal/domain/session"
	"github.com/Nagaurav/MockInterview1/internal/perception"
	"github.com/Nagaurav/MockInterview1/pkg/logger"
	"github.com/Nagaurav/MockInterview1/pkg/metrics"
)

// SessionRequest carries one completed interview session for analysis.
type SessionRequest struct {
	RequestID   string
	InterviewID string
	UserID      string
	Type        string
	Duration    string
	Frame       []byte
	Audio       []float64
}

// Service implements the API dependencies for the analytics pipeline.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    recordstore.Store
	provider perception.Provider
	analyzer *session.Analyzer
	tracker  idempotency.Tracker

	// Configuration
	skills          []model.SkillDefinition
	windowDays      int
	idempotencySize int
	analysisTimeout time.Duration
	lowThreshold    float64
	highThreshold   float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects the record store backend. Defaults to the in-memory
// store when unset.
func WithStore(store recordstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithProvider injects the perception backend. Defaults to the simulated
// provider when unset.
func WithProvider(p perception.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithSkills sets the skill definitions used by analytics aggregation.
func WithSkills(skills []model.SkillDefinition) Option {
	return func(s *Service) {
		if len(skills) > 0 {
			s.skills = skills
		}
	}
}

// WithWindowDays sets the default analytics lookback window.
func WithWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowDays = days
		}
	}
}

// WithIdempotencySize sets the size of the duplicate-request cache.
func WithIdempotencySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.idempotencySize = size
		}
	}
}

// WithAnalysisTimeout bounds one session analysis end to end.
func WithAnalysisTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.analysisTimeout = d
		}
	}
}

// WithFeedbackThresholds sets the corrective and commendation bands.
func WithFeedbackThresholds(low, high float64) Option {
	return func(s *Service) {
		if high >= low {
			s.lowThreshold = low
			s.highThreshold = high
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		skills:          model.DefaultSkills(),
		windowDays:      30,
		idempotencySize: 50000,
		analysisTimeout: 15 * time.Second,
		lowThreshold:    70,
		highThreshold:   90,
		stopCh:          make(chan struct{}),
		logger:          nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting interview analytics service...")

	// Initialize components
	if s.store == nil {
		s.store = recordstore.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory record store")
	}
	if s.provider == nil {
		s.provider = perception.NewSimProvider()
		s.logger.Info(ctx, "using simulated perception provider")
	}
	s.tracker = idempotency.NewTracker(
		idempotency.WithMaxSize(s.idempotencySize),
	)
	synth := feedback.New(
		feedback.WithThresholds(s.lowThreshold, s.highThreshold),
	)
	s.analyzer = session.NewAnalyzer(s.provider, synth,
		session.WithTimeout(s.analysisTimeout),
		session.WithLogger(s.logger),
	)

	s.started = true
	s.logger.Info(ctx, "interview analytics service started",
		logger.Int("windowDays", s.windowDays),
		logger.Int("idempotencySize", s.idempotencySize),
		logger.Duration("analysisTimeout", s.analysisTimeout),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping interview analytics service...")

	// Close the record store; this also ends all active watches.
	if s.store != nil {
		_ = s.store.Close()
	}

	// Signal refresh loops to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "interview analytics service stopped")
}

// SeenAndRecord atomically checks if a request id was seen and records it
// if not. Returns true if the request was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.tracker.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSessionDuplicate()
	}
	return seen
}

// Unrecord removes a request ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.tracker.Unrecord(ctx, id)
}

// AnalyzeSession analyzes one session and persists the resulting feedback
// bundle together with the updated interview record.
func (s *Service) AnalyzeSession(ctx context.Context, req SessionRequest) (model.FeedbackBundle, error) {
	start := time.Now()

	if req.InterviewID == "" {
		req.InterviewID = uuid.NewString()
	}

	bundle, err := s.analyzer.Analyze(ctx, session.Input{
		InterviewID: req.InterviewID,
		UserID:      req.UserID,
		Frame:       req.Frame,
		Audio:       req.Audio,
	})
	if err != nil {
		metrics.RecordAnalysisFailure(failureReason(err))
		return model.FeedbackBundle{}, err
	}

	iv := s.interviewFor(ctx, req, bundle)
	if err := s.store.PutInterview(ctx, iv); err != nil {
		metrics.RecordAnalysisFailure("store")
		return model.FeedbackBundle{}, fmt.Errorf("persist interview: %w", err)
	}
	if err := s.store.PutFeedback(ctx, bundle); err != nil {
		metrics.RecordAnalysisFailure("store")
		return model.FeedbackBundle{}, fmt.Errorf("persist feedback: %w", err)
	}

	metrics.RecordSessionAnalyzed()
	metrics.RecordAnalysisLatency(time.Since(start).Seconds())

	s.logger.Debug(ctx, "session analyzed",
		logger.String("interviewID", req.InterviewID),
		logger.String("userID", req.UserID),
		logger.Int("scores", len(bundle.Scores)),
	)

	return bundle, nil
}

// interviewFor builds the interview row for this session, preserving the
// original creation time when the interview already exists.
func (s *Service) interviewFor(ctx context.Context, req SessionRequest, bundle model.FeedbackBundle) model.Interview {
	score := meanScore(bundle.Scores)
	iv := model.Interview{
		ID:        req.InterviewID,
		UserID:    req.UserID,
		Type:      req.Type,
		Score:     &score,
		Duration:  req.Duration,
		CreatedAt: bundle.CreatedAt,
	}

	records, err := s.store.ListRecords(ctx, req.UserID, time.Time{})
	if err != nil {
		return iv
	}
	for _, r := range records {
		if r.Interview.ID == req.InterviewID {
			iv.CreatedAt = r.Interview.CreatedAt
			if iv.Type == "" {
				iv.Type = r.Interview.Type
			}
			if iv.Duration == "" {
				iv.Duration = r.Interview.Duration
			}
			break
		}
	}
	return iv
}

// Analytics computes the aggregated snapshot for one user over the given
// lookback window. A non-positive window falls back to the default.
func (s *Service) Analytics(ctx context.Context, userID string, windowDays int) (model.AnalyticsSnapshot, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}

	now := time.Now()
	since := now.AddDate(0, 0, -windowDays)

	records, err := s.store.ListRecords(ctx, userID, since)
	if err != nil {
		return model.AnalyticsSnapshot{}, err
	}

	return analytics.Aggregate(records, s.skills, windowDays, now), nil
}

// Records lists the interview records for one user over the given window.
func (s *Service) Records(ctx context.Context, userID string, windowDays int) ([]model.Record, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}
	since := time.Now().AddDate(0, 0, -windowDays)
	return s.store.ListRecords(ctx, userID, since)
}

// RemoveInterview deletes one interview and its feedback.
func (s *Service) RemoveInterview(ctx context.Context, userID, interviewID string) error {
	return s.store.DeleteInterview(ctx, userID, interviewID)
}

// WatchAnalytics streams analytics snapshots for one user: an immediate
// snapshot followed by one recomputed snapshot per store change. Changes
// arriving while a refresh is in flight are coalesced by the store; the
// refresh loop itself is strictly serial per subscription. The returned
// channel closes when ctx is canceled or the store shuts down.
func (s *Service) WatchAnalytics(ctx context.Context, userID string, windowDays int) (<-chan model.AnalyticsSnapshot, error) {
	if windowDays <= 0 {
		windowDays = s.windowDays
	}

	changes, cancelWatch, err := s.store.Watch(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make(chan model.AnalyticsSnapshot, 1)

	go func() {
		defer close(out)
		defer cancelWatch()

		if !s.refresh(ctx, userID, windowDays, out) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !s.refresh(ctx, userID, windowDays, out) {
					return
				}
			}
		}
	}()

	return out, nil
}

// refresh recomputes one snapshot and delivers it. A failed recompute is
// logged and counted but keeps the subscription alive; the next change
// triggers another attempt. Returns false only when the subscriber is gone.
func (s *Service) refresh(ctx context.Context, userID string, windowDays int, out chan model.AnalyticsSnapshot) bool {
	start := time.Now()

	snapshot, err := s.Analytics(ctx, userID, windowDays)
	metrics.RecordRefreshRun()
	if err != nil {
		metrics.RecordRefreshError()
		s.logger.Warn(ctx, "analytics refresh failed",
			logger.String("userID", userID),
			logger.Error(err),
		)
		return ctx.Err() == nil
	}
	metrics.RecordRefreshLatency(time.Since(start).Seconds())

	// Replace a stale undelivered snapshot rather than blocking the loop.
	select {
	case out <- snapshot:
	default:
		select {
		case <-out:
		default:
		}
		select {
		case out <- snapshot:
		default:
		}
	}
	metrics.RecordSnapshotPublished()
	return ctx.Err() == nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"windowDays":      s.windowDays,
		"idempotencySize": s.idempotencySize,
		"analysisTimeout": s.analysisTimeout.String(),
	}

	if s.started {
		stats["trackedRequests"] = s.tracker.Size()
	}

	return stats
}

// Size returns the current number of entries in the idempotency tracker.
func (s *Service) Size() int64 {
	if s.tracker == nil {
		return 0
	}
	return s.tracker.Size()
}

// meanScore averages the bundle's metric scores into the interview score.
func meanScore(scores map[model.Kind]float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}

// failureReason maps an analysis error to a metrics label.
func failureReason(err error) string {
	var ae *session.AnalysisError
	if errors.As(err, &ae) {
		return ae.Path
	}
	return "internal"
}
