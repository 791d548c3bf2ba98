// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Layer file and env overrides in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"os"
	"path/filepath"
)

// Analysis tuning defaults.
const (
	defaultToleranceMS = 80.0
	defaultMinJumpDist = 40.0
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LevelsDir is the directory holding level files and archives.
	LevelsDir string `koanf:"levels_dir"`

	// ReplaysDir is the directory holding the replays to analyze.
	ReplaysDir string `koanf:"replays_dir"`

	// CacheDir receives level files extracted from archives. Pure
	// cache: safe to delete between runs.
	CacheDir string `koanf:"cache_dir"`

	// ToleranceMS is the widest target-to-action time distance that
	// still counts as a match, in milliseconds.
	ToleranceMS float64 `koanf:"tolerance_ms"`

	// MinJumpDistance is the shortest target-to-target movement, in
	// position units, for which directional bias is measured.
	MinJumpDistance float64 `koanf:"min_jump_distance"`

	// MetricsAddr, when non-empty, serves the Prometheus registry on
	// this address for the duration of the run.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LevelsDir:       "",
		ReplaysDir:      "",
		CacheDir:        filepath.Join(os.TempDir(), "senstune-levels"),
		ToleranceMS:     defaultToleranceMS,
		MinJumpDistance: defaultMinJumpDist,
		MetricsAddr:     "",
	}
}
