package session

import (
	"errors"
	"fmt"
)

// ErrNoDetection means a perception path produced no usable signal and
// the caller should prompt the user to retake the sample.
var ErrNoDetection = errors.New("analysis found no usable signal")

// AnalysisError reports which path of a session analysis failed.
type AnalysisError struct {
	Path string // "face" or "audio"
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("session analysis (%s): %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
