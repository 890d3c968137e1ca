package vfs

import "log/slog"

// DefaultChunkSize is the streaming/copy granularity used when neither the
// facade nor the per-call options override it.
const DefaultChunkSize = 1 << 20 // 1 MiB

// Option configures a filesystem facade at construction time.
type Option func(*FS)

// WithLogger sets the structured logger used for operation instrumentation.
// The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(f *FS) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithChunkSize sets the default streaming/copy chunk size in bytes.
// Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(f *FS) {
		if n > 0 {
			f.chunkSize = n
		}
	}
}

// WithTempDir sets the directory used for copy spool files.
// Empty means the operating system default.
func WithTempDir(dir string) Option {
	return func(f *FS) {
		f.tempDir = dir
	}
}
