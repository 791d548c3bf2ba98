package config

import (
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
//  2. file (YAML) if SENSTUNE_CONFIG is set
//  3. env (prefix SENSTUNE_)
func Load() (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SENSTUNE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SENSTUNE_LEVELS_DIR, SENSTUNE_TOLERANCE_MS, ...
	// Map env keys like SENSTUNE_TOLERANCE_MS -> tolerance_ms (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SENSTUNE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "senstune_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.ToleranceMS <= 0 {
		return nil, fmt.Errorf("%w: tolerance_ms must be positive", ErrInvalidConfig)
	}
	if cfg.MinJumpDistance <= 0 {
		return nil, fmt.Errorf("%w: min_jump_distance must be positive", ErrInvalidConfig)
	}
	if cfg.CacheDir == "" {
		return nil, fmt.Errorf("%w: cache_dir must not be empty", ErrInvalidConfig)
	}
	return &cfg, nil
}
