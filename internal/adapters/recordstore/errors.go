package recordstore

import "errors"

// Sentinel kinds for record-store errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrUnavailable = errors.New("record store unavailable")
	ErrClosed      = errors.New("record store closed")
)
