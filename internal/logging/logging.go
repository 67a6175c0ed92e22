// Package logging provides leveled wrappers around the standard library logger.
//
// Messages go to stderr. When stderr is an interactive terminal the output is
// bare message text; otherwise each line carries a date and time so batch logs
// can be correlated afterwards.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// Level orders log messages by severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int32(l))
}

// ParseLevel converts a level name such as "debug" or "WARNING" into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

var (
	level  atomic.Int32
	logger = log.New(os.Stderr, "", defaultFlags(os.Stderr))
)

func init() {
	level.Store(int32(LevelInfo))
}

// defaultFlags picks bare output for terminals and timestamps for everything else.
func defaultFlags(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return 0
	}
	return log.Ldate | log.Ltime
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	level.Store(int32(l))
}

// CurrentLevel reports the minimum level that is written.
func CurrentLevel() Level {
	return Level(level.Load())
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
	logger.SetFlags(defaultFlags(w))
}

func logf(l Level, prefix, format string, args ...interface{}) {
	if l < CurrentLevel() {
		return
	}
	logger.Output(3, prefix+fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func Debugf(format string, args ...interface{}) { logf(LevelDebug, "DEBUG ", format, args...) }

// Infof logs at info level.
func Infof(format string, args ...interface{}) { logf(LevelInfo, "", format, args...) }

// Warnf logs at warn level.
func Warnf(format string, args ...interface{}) { logf(LevelWarn, "WARNING ", format, args...) }

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) { logf(LevelError, "ERROR ", format, args...) }
