package pak

import "log/slog"

// Option configures an Archive.
type Option func(*Archive)

// WithLogger sets the logger for archive operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}

// buildConfig holds configuration for archive creation.
type buildConfig struct {
	maxFiles int
	logger   *slog.Logger
}

// BuildOption configures archive creation.
type BuildOption func(*buildConfig)

// BuildWithMaxFiles limits the number of files included in the archive.
// Zero uses DefaultMaxFiles. Negative means no limit.
func BuildWithMaxFiles(n int) BuildOption {
	return func(cfg *buildConfig) {
		cfg.maxFiles = n
	}
}

// BuildWithLogger sets the logger for archive creation.
// If not set, logging is disabled.
func BuildWithLogger(logger *slog.Logger) BuildOption {
	return func(cfg *buildConfig) {
		cfg.logger = logger
	}
}

// extractConfig holds configuration for extraction.
type extractConfig struct {
	overwrite bool
}

// ExtractOption configures extraction.
type ExtractOption func(*extractConfig)

// ExtractWithOverwrite controls whether existing files are replaced.
// Overwriting is enabled by default; when disabled, existing files are
// skipped and counted in ExtractStats.Skipped.
func ExtractWithOverwrite(overwrite bool) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.overwrite = overwrite
	}
}
