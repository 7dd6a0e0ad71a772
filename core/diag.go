package core

import (
	"log"
	"os"
	"sync"
)

var (
	diagMu  sync.Mutex
	diagLog = log.New(os.Stderr, "goguru: ", log.LstdFlags)
)

// InternalLogger returns the logger used for the library's own
// diagnostics, such as handler failures inside async workers. Failures are
// reported here best-effort and never propagate to callers.
func InternalLogger() *log.Logger {
	diagMu.Lock()
	defer diagMu.Unlock()
	return diagLog
}

// SetInternalLogger replaces the diagnostics logger. Passing nil silences
// diagnostics entirely.
func SetInternalLogger(l *log.Logger) {
	diagMu.Lock()
	defer diagMu.Unlock()
	diagLog = l
}

// Diag reports a diagnostic message if a diagnostics logger is set.
func Diag(format string, args ...any) {
	if l := InternalLogger(); l != nil {
		l.Printf(format, args...)
	}
}
