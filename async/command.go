package async

import "github.com/j-raghavan/goguru/core"

// op discriminates the command variants travelling on the work queue.
type op int

const (
	opLog op = iota
	opFlush
	opShutdown
)

// Command is the unit transmitted on the bounded work queue. Commands are
// delivered to a given worker in submission order; with multiple workers
// no global order is preserved.
type Command struct {
	op  op
	rec *core.Record
}
