// Package testutil provides shared helpers for tests, currently a
// slog logger that routes through the testing framework.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	return NewTestLoggerAt(t, slog.LevelDebug)
}

// NewTestLoggerAt returns a logger at the given level. Tests that
// drive deeply recursive code pass a higher level to keep the debug
// chatter out of the failure output.
func NewTestLoggerAt(t testing.TB, level slog.Level) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: level,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
