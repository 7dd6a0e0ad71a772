package logger

import (
	"sync"

	"github.com/j-raghavan/goguru/core"
)

var (
	globalMu sync.RWMutex
	global   *Logger
)

// Init installs l as the process-wide logger and returns the previous
// one, or nil if none was installed. The caller owns shutting down the
// returned logger.
func Init(l *Logger) *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	prev := global
	global = l
	return prev
}

// Global returns the process-wide logger, lazily initializing an
// info-level logger with no handlers on first use.
func Global() *Logger {
	globalMu.RLock()
	l := global
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = New(core.InfoLevel)
	}
	return global
}

// Log dispatches a record through the global logger.
func Log(rec *core.Record) bool { return Global().Log(rec) }

// Trace logs through the global logger at trace level.
func Trace(msg string) bool { return Global().log(core.TraceLevel, callerSkip, msg) }

// Debug logs through the global logger at debug level.
func Debug(msg string) bool { return Global().log(core.DebugLevel, callerSkip, msg) }

// Info logs through the global logger at info level.
func Info(msg string) bool { return Global().log(core.InfoLevel, callerSkip, msg) }

// Success logs through the global logger at success level.
func Success(msg string) bool { return Global().log(core.SuccessLevel, callerSkip, msg) }

// Warn logs through the global logger at warning level.
func Warn(msg string) bool { return Global().log(core.WarningLevel, callerSkip, msg) }

// Error logs through the global logger at error level.
func Error(msg string) bool { return Global().log(core.ErrorLevel, callerSkip, msg) }

// Critical logs through the global logger at critical level.
func Critical(msg string) bool { return Global().log(core.CriticalLevel, callerSkip, msg) }
