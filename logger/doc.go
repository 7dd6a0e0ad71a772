// Package logger provides the dispatch front end: a Logger gates records
// on an activity switch and a severity floor, then fans them out to its
// handlers either synchronously or through an async worker pool. A
// process-wide logger is available via Global and the package-level
// convenience functions.
package logger
