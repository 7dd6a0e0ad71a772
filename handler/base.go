package handler

import (
	"github.com/j-raghavan/goguru/core"
	"github.com/j-raghavan/goguru/formatter"
)

// base carries the state every handler shares: threshold, on/off switch,
// formatter and optional filter. Concrete handlers embed it. Access is
// synchronized by Ref, so the fields are plain.
type base struct {
	level   core.Level
	enabled bool
	fmtr    formatter.Formatter
	filter  Filter
}

func newBase(level core.Level, f formatter.Formatter) base {
	if f == nil {
		f = formatter.NewTextFormatter(formatter.Config{})
	}
	return base{
		level:   level,
		enabled: true,
		fmtr:    f,
	}
}

func (b *base) Level() core.Level { return b.level }

func (b *base) SetLevel(level core.Level) { b.level = level }

func (b *base) Enabled() bool { return b.enabled }

func (b *base) SetEnabled(enabled bool) { b.enabled = enabled }

func (b *base) Formatter() formatter.Formatter { return b.fmtr }

func (b *base) SetFormatter(f formatter.Formatter) { b.fmtr = f }

func (b *base) Filter() Filter { return b.filter }

func (b *base) SetFilter(f Filter) { b.filter = f }
