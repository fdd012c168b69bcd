package qfold

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with qfold-specific context helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger backed by the given handler. A nil handler
// falls back to text output on stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that writes text records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger returns a Logger that discards all records.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // above any level that will ever be logged
	}))
}

// WithComponent returns a Logger scoped to a pipeline component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// WithArchive returns a Logger scoped to an archive name.
func (l *Logger) WithArchive(name string) *Logger {
	return &Logger{Logger: l.Logger.With("archive", name)}
}

// LogCompress records the outcome of a compression run.
func (l *Logger) LogCompress(ctx context.Context, originalSize, compressedSize int, ratio float64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compress failed",
			"original_size", originalSize,
			"duration", duration,
			"error", err,
		)

		return
	}

	l.InfoContext(ctx, "compress completed",
		"original_size", originalSize,
		"compressed_size", compressedSize,
		"ratio", ratio,
		"duration", duration,
	)
}

// LogDecompress records the outcome of a decompression run.
func (l *Logger) LogDecompress(ctx context.Context, size int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decompress failed",
			"duration", duration,
			"error", err,
		)

		return
	}

	l.InfoContext(ctx, "decompress completed",
		"size", size,
		"duration", duration,
	)
}

// LogFallback records a classical degradation attempt. Successful fallbacks
// log at warn level because the quantum pipeline gave up on the input.
func (l *Logger) LogFallback(ctx context.Context, strategy string, success bool, reason string) {
	if !success {
		l.ErrorContext(ctx, "fallback failed",
			"strategy", strategy,
			"reason", reason,
		)

		return
	}

	l.WarnContext(ctx, "fallback engaged",
		"strategy", strategy,
		"reason", reason,
	)
}

// LogAnalyze records the outcome of a standalone analysis run.
func (l *Logger) LogAnalyze(ctx context.Context, size int, entropy float64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "analyze failed",
			"size", size,
			"duration", duration,
			"error", err,
		)

		return
	}

	l.DebugContext(ctx, "analyze completed",
		"size", size,
		"entropy", entropy,
		"duration", duration,
	)
}
