package logging

import (
	"log/slog"
	"sync/atomic"
)

var traceOn atomic.Bool

// SetTrace switches per-sample logging of stream frames and profile cache
// lookups. Init sets it from log.trace.
func SetTrace(on bool) {
	traceOn.Store(on)
}

// Trace logs msg at DEBUG on logger when tracing is on.
func Trace(logger *slog.Logger, msg string, args ...any) {
	if traceOn.Load() {
		logger.Debug(msg, args...)
	}
}
