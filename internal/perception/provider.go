// Package perception defines the contract for the external detector and
// recognizer models that turn raw camera and microphone capture into
// landmarks, expression probabilities and transcripts.
//
// The pipeline never owns a model handle of its own; callers construct a
// Provider and pass it down, so tests can substitute a fake without any
// shared global state.
package perception

import (
	"context"

	extract "github.com/Nagaurav/MockInterview1/internal/domain/extract"
)

// FaceDetection is one face-detection result.
type FaceDetection struct {
	Landmarks   []extract.Point    `json:"landmarks"`
	Expressions map[string]float64 `json:"expressions"`
}

// Transcript is the decoded speech for one audio clip.
type Transcript struct {
	Text string `json:"text"`
}

// Provider produces perception output for one captured sample. Both calls
// honor ctx for cancellation and deadlines; a timeout is reported as
// ErrNoDetection so callers treat it as a failed capture.
type Provider interface {
	// DetectFace runs face detection over one encoded video frame.
	// Returns ErrNoDetection when no face is found.
	DetectFace(ctx context.Context, frame []byte) (FaceDetection, error)

	// Transcribe decodes speech from one waveform.
	Transcribe(ctx context.Context, samples []float64) (Transcript, error)
}
