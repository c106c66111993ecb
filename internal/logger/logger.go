// Package logger provides leveled diagnostics on a side channel.
//
// Hook responses own stdout, so every log line goes to stderr (or to the
// writer set with SetOutput) and never mixes with the decision.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level represents log level
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var (
	globalLevel             = LevelWarn
	globalColored           = true
	globalOut     io.Writer = os.Stderr
	globalMu      sync.RWMutex
)

var (
	styleTrace = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ECE6A"))
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0AF68"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E"))
	styleFaint = lipgloss.NewStyle().Faint(true)
)

// Logger provides leveled logging
type Logger struct {
	prefix string
}

// New creates a new logger with the given prefix
func New(prefix string) *Logger {
	return &Logger{prefix: prefix}
}

// SetGlobalLevel sets the global log level
func SetGlobalLevel(level Level) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLevel = level
}

// ParseLevel converts a string to a Level, returning an error if unrecognized.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning", "":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error)", s)
}

// SetGlobalLevelFromString sets log level from string
func SetGlobalLevelFromString(level string) {
	if l, err := ParseLevel(level); err == nil {
		SetGlobalLevel(l)
	}
}

// SetColored enables or disables colored output
func SetColored(colored bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalColored = colored
}

// SetOutput redirects all loggers. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	globalOut = w
}

func (l *Logger) log(level Level, levelStr string, style lipgloss.Style, format string, args ...any) {
	globalMu.RLock()
	if level < globalLevel {
		globalMu.RUnlock()
		return
	}
	colored := globalColored
	out := globalOut
	globalMu.RUnlock()

	timestamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf(format, args...)

	if colored {
		label := style.Render("[" + levelStr + "]")
		fmt.Fprintf(out, "%s %s %s %s\n",
			styleFaint.Render(timestamp), label, styleFaint.Render("["+l.prefix+"]"), msg)
	} else {
		fmt.Fprintf(out, "%s [%s] [%s] %s\n",
			timestamp, levelStr, l.prefix, msg)
	}
}

// Trace logs a trace message (most verbose)
func (l *Logger) Trace(format string, args ...any) {
	l.log(LevelTrace, "TRACE", styleTrace, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, "DEBUG", styleDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, "INFO", styleInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, "WARN", styleWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, "ERROR", styleError, format, args...)
}
