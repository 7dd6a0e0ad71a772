package core

import (
	"fmt"
	"strings"
)

// Level represents the severity of a log record. Levels are totally
// ordered by their numeric value, from TraceLevel (lowest) to
// CriticalLevel (highest).
type Level uint8

const (
	// TraceLevel for very detailed debugging information
	TraceLevel Level = 5
	// DebugLevel for debugging information useful when diagnosing problems
	DebugLevel Level = 10
	// InfoLevel for informational messages (default)
	InfoLevel Level = 20
	// SuccessLevel for successful operations or positive outcomes
	SuccessLevel Level = 25
	// WarningLevel for potentially harmful situations
	WarningLevel Level = 30
	// ErrorLevel for error events the application may recover from
	ErrorLevel Level = 40
	// CriticalLevel for severe errors that will presumably abort the application
	CriticalLevel Level = 50
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case SuccessLevel:
		return "SUCCESS"
	case WarningLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a case-insensitive level name
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "SUCCESS":
		return SuccessLevel, nil
	case "WARNING", "WARN":
		return WarningLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "CRITICAL":
		return CriticalLevel, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", s)
	}
}

// Color returns the ANSI color escape for the level
func (l Level) Color() string {
	switch l {
	case TraceLevel:
		return "\x1b[37m" // white
	case DebugLevel:
		return "\x1b[34m" // blue
	case InfoLevel:
		return "\x1b[32m" // green
	case SuccessLevel:
		return "\x1b[36m" // cyan
	case WarningLevel:
		return "\x1b[33m" // yellow
	case ErrorLevel:
		return "\x1b[31m" // red
	case CriticalLevel:
		return "\x1b[35m" // purple
	default:
		return ""
	}
}

// ResetColor returns the ANSI reset escape
func ResetColor() string {
	return "\x1b[0m"
}
