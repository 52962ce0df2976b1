package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors. Auto-registered collectors panic on
// conflict, so this only surfaces from optional registries.
var (
	ErrObserveFailed = errors.New("metrics observe failed")
)
