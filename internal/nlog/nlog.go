// Package nlog is the gridiron-go logger: leveled, timestamped, and able
// to mirror to stderr in addition to (or instead of) a log file. Adapted
// from the teacher's cmn/nlog, trimmed down from its double-buffered,
// pooled-allocation design to a single mutex-guarded writer — this module's
// log volume (per-stage routing events, transport failures) does not
// justify that machinery, but the leveled-severity, depth-aware API shape
// is kept identical.
/*
 * Copyright (c) 2024, gridiron-go authors.
 */
package nlog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/clemson-cal/gridiron-go/internal/mono"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var (
	mu           sync.Mutex
	out          io.Writer = os.Stderr
	toStderr               = true
	alsoToStderr            bool
	minSeverity             = sevInfo
)

// SetOutput redirects log output away from stderr (e.g. to a rotated file).
// Error-level lines are still written to stderr as well. When w is nil,
// output reverts to stderr only.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		out, toStderr = os.Stderr, true
		return
	}
	out, toStderr = w, false
}

// SetAlsoToStderr additionally mirrors every line to stderr even when
// SetOutput has redirected the primary sink elsewhere.
func SetAlsoToStderr(v bool) {
	mu.Lock()
	alsoToStderr = v
	mu.Unlock()
}

// SetQuiet suppresses Info-level lines, keeping Warning/Error only.
func SetQuiet(v bool) {
	mu.Lock()
	if v {
		minSeverity = sevWarn
	} else {
		minSeverity = sevInfo
	}
	mu.Unlock()
}

func Infof(format string, args ...any)    { logf(sevInfo, 1, format, args...) }
func Infoln(args ...any)                  { logln(sevInfo, 1, args...) }
func Warningf(format string, args ...any) { logf(sevWarn, 1, format, args...) }
func Warningln(args ...any)               { logln(sevWarn, 1, args...) }
func Errorf(format string, args ...any)   { logf(sevErr, 1, format, args...) }
func Errorln(args ...any)                 { logln(sevErr, 1, args...) }

func logf(sev severity, depth int, format string, args ...any) {
	write(sev, depth+1, fmt.Sprintf(format, args...))
}

func logln(sev severity, depth int, args ...any) {
	write(sev, depth+1, fmt.Sprintln(args...))
}

func write(sev severity, depth int, msg string) {
	if sev < minSeverity {
		return
	}
	line := formatLine(sev, depth+1, msg)
	mu.Lock()
	defer mu.Unlock()
	if !toStderr {
		io.WriteString(out, line)
	}
	if toStderr || alsoToStderr || sev >= sevErr {
		io.WriteString(os.Stderr, line)
	}
}

func formatLine(sev severity, depth int, msg string) string {
	_, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		file, line = "???", 0
	} else {
		for i := len(file) - 1; i >= 0; i-- {
			if file[i] == '/' {
				file = file[i+1:]
				break
			}
		}
	}
	now := time.Now()
	return fmt.Sprintf("%c%s %s:%d] %s\n",
		sevChar(sev), now.Format("15:04:05.000000"), file, line, trimNewline(msg))
}

func sevChar(sev severity) byte {
	switch sev {
	case sevWarn:
		return 'W'
	case sevErr:
		return 'E'
	default:
		return 'I'
	}
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}

// Since returns mono.NanoTime() as a duration, used to tag stage timing
// events in logs without pulling in a full metrics dependency. In the
// default build that is the time elapsed since process start; under the
// "mono" build tag it is the runtime's raw monotonic clock reading.
func Since() time.Duration { return time.Duration(mono.NanoTime()) }
