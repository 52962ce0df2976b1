package extract

import "errors"

// Sentinel kinds for extraction errors.
var (
	// ErrNoDetection means the face sample carries no usable landmarks
	// or expressions.
	ErrNoDetection = errors.New("no face detection")

	// ErrNoSignal means the waveform is empty.
	ErrNoSignal = errors.New("no audio signal")
)
