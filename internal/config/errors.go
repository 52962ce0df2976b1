package config

import (
	"errors"
)

// Sentinel error kinds for this package, matchable with errors.Is.
// ErrLoadConfig covers provider and parse failures; ErrInvalidConfig
// covers values that loaded fine but fail validation.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
