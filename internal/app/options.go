package app

import (
	"github.com/okian/senstune/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLevelsDir sets the directory scanned for level files and archives.
func WithLevelsDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.levelsDir = dir
		}
	}
}

// WithReplaysDir sets the directory holding the replays to analyze.
func WithReplaysDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.replaysDir = dir
		}
	}
}

// WithCacheDir sets the archive extraction cache directory.
func WithCacheDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.cacheDir = dir
		}
	}
}

// WithTolerance sets the temporal matching window in milliseconds.
func WithTolerance(ms float64) Option {
	return func(s *Service) {
		if ms > 0 {
			s.tolerance = ms
		}
	}
}

// WithMinJumpDistance sets the movement threshold for bias sampling.
func WithMinJumpDistance(units float64) Option {
	return func(s *Service) {
		if units > 0 {
			s.minJump = units
		}
	}
}

// WithGlobalSensitivity assigns one sensitivity to every replay in the
// batch, bypassing filename tags and the resolver.
func WithGlobalSensitivity(sens float64) Option {
	return func(s *Service) {
		if sens > 0 {
			s.globalSens = sens
		}
	}
}

// WithSensitivityResolver sets the fallback used when a replay carries
// no sensitivity tag and no global value is set. A nil resolver means
// such replays are skipped.
func WithSensitivityResolver(r SensitivityResolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}
