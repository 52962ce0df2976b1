package perception

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	extract "github.com/Nagaurav/MockInterview1/internal/domain/extract"
)

// Default simulation constants.
const (
	defaultSimMinLatency = 80 * time.Millisecond
	defaultSimMaxLatency = 150 * time.Millisecond
	defaultSimSeed       = 42
	landmarkCount        = 68
)

// SimOption applies a configuration option to the SimProvider.
type SimOption func(*SimProvider)

// WithLatencyRange sets the simulated inference latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) SimOption {
	return func(p *SimProvider) {
		if minLatency > 0 && maxLatency > minLatency {
			p.minLatency = minLatency
			p.maxLatency = maxLatency
		}
	}
}

// WithSeed sets the random seed used for latency jitter.
func WithSeed(seed int64) SimOption {
	return func(p *SimProvider) {
		p.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic simulation
	}
}

// WithNoDetection makes every DetectFace call report no face, which is
// how tests drive the retake-capture path.
func WithNoDetection() SimOption {
	return func(p *SimProvider) {
		p.noDetection = true
	}
}

// SimProvider implements Provider with simulated model inference. The
// detection it fabricates is a deterministic function of the frame bytes,
// so identical input yields identical perception output while still
// exercising the full extractor math downstream.
type SimProvider struct {
	minLatency  time.Duration
	maxLatency  time.Duration
	noDetection bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimProvider creates a simulated provider with configuration options.
func NewSimProvider(opts ...SimOption) *SimProvider {
	p := &SimProvider{
		minLatency: defaultSimMinLatency,
		maxLatency: defaultSimMaxLatency,
		rng:        rand.New(rand.NewSource(defaultSimSeed)), //nolint:gosec // deterministic simulation
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DetectFace fabricates a landmark set and expression map from the frame.
func (p *SimProvider) DetectFace(ctx context.Context, frame []byte) (FaceDetection, error) {
	if err := p.sleep(ctx); err != nil {
		return FaceDetection{}, err
	}
	if p.noDetection || len(frame) == 0 {
		return FaceDetection{}, ErrNoDetection
	}

	seed := hashBytes(frame)
	frameRng := rand.New(rand.NewSource(int64(seed))) //nolint:gosec // content-derived, reproducible

	landmarks := make([]extract.Point, landmarkCount)
	// Cluster landmarks around a content-derived face center.
	centerX := 0.35 + frameRng.Float64()*0.3
	for i := range landmarks {
		landmarks[i] = extract.Point{
			X: centerX + (frameRng.Float64()-0.5)*0.2,
			Y: 0.3 + frameRng.Float64()*0.4,
		}
	}
	landmarks[27] = extract.Point{X: centerX, Y: 0.45}

	happy := frameRng.Float64()
	neutral := (1 - happy) * frameRng.Float64()
	rest := math.Max(0, 1-happy-neutral)
	return FaceDetection{
		Landmarks: landmarks,
		Expressions: map[string]float64{
			"happy":     happy,
			"neutral":   neutral,
			"surprised": rest * 0.5,
			"sad":       rest * 0.3,
			"angry":     rest * 0.2,
		},
	}, nil
}

// Transcribe fabricates a transcript sized to the clip length.
func (p *SimProvider) Transcribe(ctx context.Context, samples []float64) (Transcript, error) {
	if err := p.sleep(ctx); err != nil {
		return Transcript{}, err
	}
	if len(samples) == 0 {
		return Transcript{}, ErrNoDetection
	}
	return Transcript{Text: fmt.Sprintf("simulated transcript (%d samples)", len(samples))}, nil
}

func (p *SimProvider) sleep(ctx context.Context) error {
	p.mu.Lock()
	latency := p.minLatency + time.Duration(p.rng.Int63n(int64(p.maxLatency-p.minLatency)))
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("perception cancelled: %w", ctx.Err())
	case <-time.After(latency):
		return nil
	}
}

func hashBytes(b []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(b)
	return h.Sum32()
}
