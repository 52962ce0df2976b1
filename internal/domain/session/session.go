// Package session orchestrates the analysis of one completed interview
// session: it drives the perception provider and the metric extractors for
// the face and audio paths concurrently, then narrates the scores into a
// feedback bundle.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	extract "github.com/Nagaurav/MockInterview1/internal/domain/extract"
	feedback "github.com/Nagaurav/MockInterview1/internal/domain/feedback"
	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
	perception "github.com/Nagaurav/MockInterview1/internal/perception"
	"github.com/Nagaurav/MockInterview1/pkg/logger"
)

// defaultTimeout bounds both perception calls; a slow model is treated
// the same as a failed detection, never an indefinite block.
const defaultTimeout = 15 * time.Second

// Input carries everything needed to analyze one session.
type Input struct {
	InterviewID string
	UserID      string
	Frame       []byte
	Audio       []float64
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithTimeout bounds the perception calls for one analysis.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithClock overrides the bundle timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets a custom logger for the analyzer.
func WithLogger(log logger.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.logger = log
		}
	}
}

// Analyzer turns one session's raw samples into a FeedbackBundle. It
// returns data only; persisting the bundle belongs to the caller.
type Analyzer struct {
	provider perception.Provider
	synth    *feedback.Synthesizer
	timeout  time.Duration
	now      func() time.Time
	logger   logger.Logger
}

// NewAnalyzer creates an Analyzer with configuration options.
func NewAnalyzer(provider perception.Provider, synth *feedback.Synthesizer, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider: provider,
		synth:    synth,
		timeout:  defaultTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type faceResult struct {
	scores map[model.Kind]float64
	err    error
}

type audioResult struct {
	scores     map[model.Kind]float64
	transcript string
	err        error
}

// Analyze runs the face and audio paths concurrently and joins them into
// one bundle. If either path yields no usable signal the whole analysis
// fails with ErrAnalysis wrapping ErrNoDetection; partial results are
// never defaulted to zero, so the caller can prompt for a retake.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (model.FeedbackBundle, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	faceCh := make(chan faceResult, 1)
	audioCh := make(chan audioResult, 1)

	go func() {
		faceCh <- a.analyzeFace(ctx, in.Frame)
	}()
	go func() {
		audioCh <- a.analyzeAudio(ctx, in.Audio)
	}()

	face := <-faceCh
	audio := <-audioCh

	if face.err != nil {
		return model.FeedbackBundle{}, a.failure(ctx, "face", face.err)
	}
	if audio.err != nil {
		return model.FeedbackBundle{}, a.failure(ctx, "audio", audio.err)
	}

	scores := make(map[model.Kind]float64, len(face.scores)+len(audio.scores))
	for k, v := range face.scores {
		scores[k] = v
	}
	for k, v := range audio.scores {
		scores[k] = v
	}

	return model.FeedbackBundle{
		ID:          uuid.NewString(),
		InterviewID: in.InterviewID,
		UserID:      in.UserID,
		Scores:      scores,
		Feedback:    a.synth.Generate(scores),
		Transcript:  audio.transcript,
		CreatedAt:   a.now(),
	}, nil
}

func (a *Analyzer) analyzeFace(ctx context.Context, frame []byte) faceResult {
	detection, err := a.provider.DetectFace(ctx, frame)
	if err != nil {
		return faceResult{err: err}
	}
	scores, err := extract.FaceScores(extract.FaceSample{
		Landmarks:   detection.Landmarks,
		Expressions: detection.Expressions,
	})
	return faceResult{scores: scores, err: err}
}

func (a *Analyzer) analyzeAudio(ctx context.Context, samples []float64) audioResult {
	scores, err := extract.AudioScores(samples)
	if err != nil {
		return audioResult{err: err}
	}
	transcript, err := a.provider.Transcribe(ctx, samples)
	if err != nil {
		return audioResult{err: err}
	}
	return audioResult{scores: scores, transcript: transcript.Text}
}

// failure wraps a path error into the analyzer's taxonomy. Timeouts and
// provider misses collapse into ErrNoDetection so the UI can show a single
// retake-capture state.
func (a *Analyzer) failure(ctx context.Context, path string, err error) error {
	if a.logger != nil {
		a.logger.Warn(ctx, "session analysis failed",
			logger.String("path", path),
			logger.Error(err),
		)
	}
	switch {
	case errors.Is(err, perception.ErrNoDetection),
		errors.Is(err, extract.ErrNoDetection),
		errors.Is(err, extract.ErrNoSignal),
		errors.Is(err, context.DeadlineExceeded):
		return &AnalysisError{Path: path, Err: ErrNoDetection}
	default:
		return &AnalysisError{Path: path, Err: err}
	}
}
