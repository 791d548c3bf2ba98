package index

import "github.com/okian/senstune/pkg/logger"

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithCacheDir sets the directory archive members are extracted into.
func WithCacheDir(dir string) Option {
	return func(i *Index) {
		if dir != "" {
			i.cacheDir = dir
		}
	}
}

// WithLogger sets a custom logger for the index.
func WithLogger(log logger.Logger) Option {
	return func(i *Index) {
		if log != nil {
			i.log = log
		}
	}
}
