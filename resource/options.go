package resource

import "log/slog"

// DefaultCacheSize is the number of textures kept when no cache size is set.
const DefaultCacheSize = 256

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger for loader operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithCacheSize sets how many decoded textures are kept.
// Values <= 0 use DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(l *Loader) {
		l.cacheSize = n
	}
}

// WithConcurrency limits how many textures LoadAll decodes at once.
// Values <= 0 use GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		l.concurrency = n
	}
}
