package logctx

import (
	"time"

	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/logger"
)

// Scope measures a named span of work. Begin captures the start time;
// End reports the elapsed duration through a logger.
type Scope struct {
	name  string
	start time.Time
}

// Begin starts a named scope.
func Begin(name string) *Scope {
	return &Scope{name: name, start: time.Now()}
}

// Name returns the scope's name.
func (s *Scope) Name() string { return s.name }

// Elapsed returns the time since Begin.
func (s *Scope) Elapsed() time.Duration { return time.Since(s.start) }

// End emits a debug record carrying the scope name and its elapsed
// duration. A nil logger falls back to the global one.
func (s *Scope) End(l *logger.Logger) bool {
	if l == nil {
		l = logger.Global()
	}
	elapsed := s.Elapsed()
	rec := core.NewRecord(core.DebugLevel, "scope "+s.name+" completed").
		WithMetadata("scope", s.name).
		WithMetadata("elapsed", elapsed.String())
	return l.Log(rec)
}
