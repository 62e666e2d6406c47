// Package debug provides the leveled logger behind the log capability.
//
// Hosts install a *Logger under the log capability identifier; plugins that
// resolve it log through the host's sink instead of their own stderr. Core
// code never logs on the render path.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	// LevelDebug is detailed development output.
	LevelDebug Level = iota
	// LevelInfo is general informational output.
	LevelInfo
	// LevelWarn flags recoverable problems.
	LevelWarn
	// LevelError flags failures.
	LevelError
	// LevelOff disables all output.
	LevelOff
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a leveled logger with a pluggable writer.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	prefix string
}

// New creates a logger writing to out with the given prefix.
func New(out io.Writer, prefix string) *Logger {
	return &Logger{out: out, level: LevelInfo, prefix: prefix}
}

// Default returns a stderr logger at LevelInfo.
func Default() *Logger {
	return New(os.Stderr, "plugrt")
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput replaces the writer.
func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
}

// Logf writes one message at the given level.
func (l *Logger) Logf(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || l.out == nil {
		return
	}
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(l.out, "%s [%s] %s: %s\n", ts, level, l.prefix, fmt.Sprintf(format, args...))
}

// Debugf logs at LevelDebug.
func (l *Logger) Debugf(format string, args ...any) { l.Logf(LevelDebug, format, args...) }

// Infof logs at LevelInfo.
func (l *Logger) Infof(format string, args ...any) { l.Logf(LevelInfo, format, args...) }

// Warnf logs at LevelWarn.
func (l *Logger) Warnf(format string, args ...any) { l.Logf(LevelWarn, format, args...) }

// Errorf logs at LevelError.
func (l *Logger) Errorf(format string, args ...any) { l.Logf(LevelError, format, args...) }
