package main

import (
	"log/slog"
	"os"
)

// newLogger builds the logger threaded into the store and triage
// packages. Warnings (e.g. a corrupt store degraded to empty) always
// surface; -verbose adds debug detail.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
