// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WindowDays is the default analytics lookback window.
	WindowDays int `koanf:"window_days"`

	// MaxWindowDays caps GET /analytics?days.
	MaxWindowDays int `koanf:"max_window_days"`

	// AnalysisTimeoutMS bounds a single session analysis end to end.
	AnalysisTimeoutMS int `koanf:"analysis_timeout_ms"`

	// IdempotencySize sets the size of the duplicate-request cache.
	IdempotencySize int `koanf:"idempotency_size"`

	// ProviderMode selects the perception backend: sim or http.
	ProviderMode string `koanf:"provider_mode"`

	// ProviderURL is the base URL of the perception service (http mode).
	ProviderURL string `koanf:"provider_url"`

	// ProviderLatencyMinMS and ProviderLatencyMaxMS simulate external
	// detection latency bounds (sim mode).
	ProviderLatencyMinMS int `koanf:"provider_latency_min_ms"`
	ProviderLatencyMaxMS int `koanf:"provider_latency_max_ms"`

	// StoreDriver selects the record store backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used when StoreDriver is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// FeedbackLowThreshold and FeedbackHighThreshold band metric scores
	// into corrective and commendation feedback.
	FeedbackLowThreshold  float64 `koanf:"feedback_low_threshold"`
	FeedbackHighThreshold float64 `koanf:"feedback_high_threshold"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		WindowDays:            30,
		MaxWindowDays:         365,
		AnalysisTimeoutMS:     15_000,
		IdempotencySize:       50_000,
		ProviderMode:          "sim",
		ProviderURL:           "http://localhost:9200",
		ProviderLatencyMinMS:  80,
		ProviderLatencyMaxMS:  150,
		StoreDriver:           "memory",
		SQLitePath:            "interviews.db",
		FeedbackLowThreshold:  70,
		FeedbackHighThreshold: 90,
	}
}
