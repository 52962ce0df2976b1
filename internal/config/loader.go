package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if INTERVIEW_CONFIG is set
//  3. env (prefix INTERVIEW_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("INTERVIEW_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: INTERVIEW_ADDR, INTERVIEW_WINDOW_DAYS, ...
	// Map env keys like INTERVIEW_WINDOW_DAYS -> window_days (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("INTERVIEW_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "interview_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.StoreDriver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, cfg.StoreDriver)
	}
	switch cfg.ProviderMode {
	case "sim", "http":
	default:
		return fmt.Errorf("%w: unknown provider mode %q", ErrInvalidConfig, cfg.ProviderMode)
	}
	if cfg.ProviderLatencyMinMS < 0 || cfg.ProviderLatencyMaxMS < cfg.ProviderLatencyMinMS {
		return fmt.Errorf("%w: provider latency bounds out of order", ErrInvalidConfig)
	}
	if cfg.FeedbackHighThreshold < cfg.FeedbackLowThreshold {
		return fmt.Errorf("%w: feedback thresholds out of order", ErrInvalidConfig)
	}
	if cfg.WindowDays <= 0 {
		return fmt.Errorf("%w: window_days must be positive", ErrInvalidConfig)
	}
	if cfg.MaxWindowDays < cfg.WindowDays {
		cfg.MaxWindowDays = cfg.WindowDays
	}
	return nil
}
