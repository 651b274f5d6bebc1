package querystats

import (
	"fmt"
	"runtime"
	"strings"
)

// StackFunc lazily produces a formatted call stack for one query. The
// collector invokes it only when detailed diagnostics are enabled, so the
// frame walk and formatting cost is paid only when the stack will be logged.
// A StackFunc must be invoked synchronously with the query it describes.
type StackFunc func() string

const maxStackDepth = 32

// callerStack captures and formats the stack of the goroutine executing the
// current query. Frames from this package, database/sql, and the runtime are
// dropped so the first line is the application call site that issued the
// query.
func callerStack() string {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !hiddenFrame(frame.Function) {
			fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func hiddenFrame(fn string) bool {
	return strings.HasPrefix(fn, "runtime.") ||
		strings.HasPrefix(fn, "database/sql.") ||
		strings.Contains(fn, "/querystats.")
}
