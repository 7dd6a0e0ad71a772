package core

import (
	"path/filepath"
	"runtime"
	"strings"
)

// CallerInfo holds a resolved source location.
type CallerInfo struct {
	Module  string
	File    string
	Line    int
	Defined bool
}

// Caller resolves the source location skip frames above the caller.
func Caller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	var module string
	if fn := runtime.FuncForPC(pc); fn != nil {
		module = trimFuncName(fn.Name())
	}

	return CallerInfo{
		Module:  module,
		File:    filepath.Base(file),
		Line:    line,
		Defined: true,
	}
}

// trimFuncName reduces "github.com/user/pkg/sub.(*T).Method" to
// "github.com/user/pkg/sub".
func trimFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		if j := strings.Index(name[i:], "."); j >= 0 {
			return name[:i+j]
		}
		return name
	}
	if j := strings.Index(name, "."); j >= 0 {
		return name[:j]
	}
	return name
}
