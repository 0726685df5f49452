package main

import (
	"io"
	"log/slog"
	"os"
)

// newLogger writes to the configured log file. The terminal belongs to the
// editor, so without a log file everything is discarded.
func newLogger(config *Config) (*slog.Logger, io.Closer, error) {
	if config.LogFile == "" {
		return newNopLogger(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return newTextLogger(f, config.Level()), f, nil
}

func newTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

func newNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
