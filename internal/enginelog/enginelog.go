// Package enginelog is the engine's only logging surface: a thin wrapper
// over the standard log package, in the teacher's own style (cmd/lsp logs
// straight through log.Printf with no third-party logging library). Every
// line carries a short trace id so concurrent Get/Set calls against one
// Engine can be told apart in a shared log stream.
package enginelog

import (
	"log"
	"os"

	"github.com/google/uuid"
)

// Level gates which lines actually print.
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelDebug
)

// Logger is a leveled wrapper around a standard library *log.Logger.
type Logger struct {
	level Level
	out   *log.Logger
}

// New returns a Logger writing to stderr at level.
func New(level Level) *Logger {
	return &Logger{level: level, out: log.New(os.Stderr, "", log.LstdFlags)}
}

// Trace generates a short id to correlate the lines of one call.
func Trace() string {
	return uuid.NewString()[:8]
}

func (l *Logger) Debugf(trace, format string, args ...any) {
	if l == nil || l.level < LevelDebug {
		return
	}
	l.out.Printf("[%s] DEBUG "+format, append([]any{trace}, args...)...)
}

func (l *Logger) Errorf(trace, format string, args ...any) {
	if l == nil || l.level < LevelError {
		return
	}
	l.out.Printf("[%s] ERROR "+format, append([]any{trace}, args...)...)
}
