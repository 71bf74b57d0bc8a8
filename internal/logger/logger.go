// Package logger provides leveled logging for the exporter.
// A Logger is constructed once at startup and passed to each component,
// so components stay independently testable. Debug messages are only
// printed when verbose mode is enabled via the --verbose flag.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes timestamped, leveled messages to a single writer.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

// New creates a Logger writing to stderr.
func New(verbose bool) *Logger {
	return &Logger{out: os.Stderr, verbose: verbose}
}

// NewWithWriter creates a Logger writing to w. Useful for testing.
func NewWithWriter(w io.Writer, verbose bool) *Logger {
	return &Logger{out: w, verbose: verbose}
}

// IsVerbose returns true if debug logging is enabled.
func (l *Logger) IsVerbose() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.verbose
}

func (l *Logger) log(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.out, "%s [%s] "+format+"\n", append([]any{ts, level}, args...)...)
}

// Info prints an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.log("INFO", format, args...)
}

// Warn prints a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log("WARN", format, args...)
}

// Error prints an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log("ERROR", format, args...)
}

// Debug prints a message only when verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	l.mu.Lock()
	verbose := l.verbose
	l.mu.Unlock()
	if verbose {
		l.log("DEBUG", format, args...)
	}
}
