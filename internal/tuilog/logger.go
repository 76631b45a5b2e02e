// Package tuilog provides file-based logging for tripchat.
// While the TUI owns the terminal nothing may be written to stdout or stderr,
// so every package logs through the global Log, which writes to the file
// given with --log or discards.
package tuilog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger writes timestamped key=value lines.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	file  *os.File
	level Level
}

var (
	// Log is the process-wide logger. It discards until Init is called.
	Log     = &Logger{level: LevelInfo}
	logOnce sync.Once
)

// Init opens path for appending and routes Log there. An empty path keeps
// logging disabled. Only the first call has an effect.
func Init(path string) error {
	if path == "" {
		return nil
	}

	var initErr error
	logOnce.Do(func() {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			initErr = fmt.Errorf("open log file: %w", err)
			return
		}
		Log.mu.Lock()
		Log.file = f
		Log.out = f
		Log.mu.Unlock()
		Log.Info("Logger initialized", "path", path)
	})
	return initErr
}

// New returns a logger writing to w. Mainly useful in tests.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: w, level: level}
}

// SetLevel changes the minimum level written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = nil
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Enabled returns whether lines at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out != nil && level >= l.level
}

// Writer returns the destination, or io.Discard when logging is off.
func (l *Logger) Writer() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return io.Discard
	}
	return l.out
}

func (l *Logger) log(level Level, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil || level < l.level {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("15:04:05.000"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)

	for i := 0; i < len(keyvals); i += 2 {
		b.WriteByte(' ')
		b.WriteString(fmt.Sprint(keyvals[i]))
		b.WriteByte('=')
		if i+1 < len(keyvals) {
			b.WriteString(formatValue(keyvals[i+1]))
		} else {
			b.WriteString(`"(MISSING)"`)
		}
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.out, b.String())
	if l.file != nil {
		_ = l.file.Sync()
	}
}

func formatValue(v any) string {
	var s string
	switch val := v.(type) {
	case error:
		if val == nil {
			return "<nil>"
		}
		s = val.Error()
	case time.Duration:
		s = val.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) { l.log(LevelDebug, msg, keyvals...) }

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyvals ...any) { l.log(LevelInfo, msg, keyvals...) }

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) { l.log(LevelWarn, msg, keyvals...) }

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyvals ...any) { l.log(LevelError, msg, keyvals...) }

// Timed logs the duration of an operation. Usage:
//
//	defer tuilog.Log.Timed("load thread")()
func (l *Logger) Timed(operation string) func() {
	if !l.Enabled(LevelDebug) {
		return func() {}
	}
	start := time.Now()
	l.Debug(operation, "status", "started")
	return func() {
		l.Debug(operation, "status", "completed", "duration", time.Since(start))
	}
}
