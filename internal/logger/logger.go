// Package logger provides verbose logging for docchat.
// When verbose mode is enabled via the --verbose flag, messages are printed
// to stderr so users can follow backend requests, identity changes and
// discarded stale responses. Nothing is printed otherwise.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// level prefixes a log line.
type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes one line while holding the lock so concurrent callers never
// interleave on a shared writer.
func emit(line string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		_, _ = io.WriteString(output, line)
	}
}

func logf(l level, format string, args []any) {
	if !IsVerbose() {
		return
	}
	emit(fmt.Sprintf("[%s] %s\n", l, fmt.Sprintf(format, args...)))
}

// Debug logs request and state-machine detail.
func Debug(format string, args ...any) { logf(levelDebug, format, args) }

// Info logs startup and configuration facts.
func Info(format string, args ...any) { logf(levelInfo, format, args) }

// Warn logs recoverable failures, such as a watcher reload error.
func Warn(format string, args ...any) { logf(levelWarn, format, args) }

// Section prints a header separating phases of a command.
func Section(name string) {
	emit(fmt.Sprintf("\n=== %s ===\n", name))
}

// tokenPrefixLen is how much of a token Redact keeps.
const tokenPrefixLen = 15

// Redact shortens a bearer token for log output.
func Redact(token string) string {
	if token == "" {
		return "<none>"
	}
	if len(token) <= tokenPrefixLen {
		return "..."
	}
	return token[:tokenPrefixLen] + "..."
}
