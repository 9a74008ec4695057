// Package logging builds the process-wide structured logger.
//
// Output is JSON on stdout. When a log file is configured the same records are
// also written to a size-rotated file managed by lumberjack.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the logger produced by [New].
type Options struct {
	App   string
	Debug bool

	// File enables the rotating file sink when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New returns a JSON logger tagged with the application name, plus a closer
// for the file sink (a no-op when none is configured).
func New(opts Options) (*slog.Logger, func() error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var writer io.Writer = os.Stdout
	closer := func() error { return nil }

	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		writer = io.MultiWriter(os.Stdout, rotating)
		closer = rotating.Close
	}

	logger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	if opts.App != "" {
		logger = logger.With(slog.String("app", opts.App))
	}
	return logger, closer
}
