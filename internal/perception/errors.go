package perception

import "errors"

// Sentinel kinds for provider errors.
var (
	// ErrNoDetection means the model produced no usable face or speech
	// for the sample. Timeouts map here as well.
	ErrNoDetection = errors.New("no detection")

	// ErrProviderUnavailable means the remote perception service could
	// not be reached.
	ErrProviderUnavailable = errors.New("perception provider unavailable")
)
