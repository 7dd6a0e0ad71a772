// Package core provides the fundamental types of the goguru logging
// library: severity levels, immutable log records and source location
// capture. It has no dependencies on the rest of the library so that
// handlers, formatters and dispatchers can all build on it.
package core
