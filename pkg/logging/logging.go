// Package logging configures structured logging with tint.
//
// Usage:
//
//	logging.Setup()                          // level from LOG_LEVEL, output from LOG_FILE
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
//	LOG_FILE:  optional path; when set, logs are also written to a rotated file
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the level and optional rotated log file.
type Options struct {
	Level slog.Level
	File  string
}

// Setup configures logging from LOG_LEVEL and LOG_FILE.
func Setup() io.Closer {
	return SetupWithOptions(Options{
		Level: ParseLevel(os.Getenv("LOG_LEVEL")),
		File:  os.Getenv("LOG_FILE"),
	})
}

// SetupWithLevel configures colored stderr logging at the given level.
func SetupWithLevel(level slog.Level) {
	SetupWithOptions(Options{Level: level})
}

// SetupWithOptions installs the default logger. Stderr output is colored;
// when File is set a second uncolored copy goes to a lumberjack-rotated file.
// The returned closer flushes the file and is a no-op otherwise.
func SetupWithOptions(opts Options) io.Closer {
	slog.SetDefault(New(os.Stderr, opts.Level, false))
	if opts.File == "" {
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	slog.SetDefault(slog.New(fanout{
		New(os.Stderr, opts.Level, false).Handler(),
		New(file, opts.Level, true).Handler(),
	}))
	return file
}

// New returns a tint logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		NoColor:    noColor,
	}))
}

// ParseLevel maps debug, warn and error to their slog levels; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
