package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
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

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo // Default to INFO for unknown
	}
}

// fallback is a named secondary output. Fallbacks keep log output visible
// across the window where the interactive front-end is being replaced. The
// same name may end up registered more than once, which is why removal is
// retried by callers.
type fallback struct {
	name string
	w    io.Writer
}

// switchWriter fans every write out to the current primary sink plus all
// registered fallbacks. The primary can be swapped while other goroutines
// are logging.
type switchWriter struct {
	mu        sync.Mutex
	primary   io.Writer
	fallbacks []fallback
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.primary != nil {
		if n, err := s.primary.Write(p); err != nil {
			return n, err
		}
	}
	for _, f := range s.fallbacks {
		// Fallback write failures are ignored; the primary sink is the
		// authoritative destination.
		_, _ = f.w.Write(p)
	}
	return len(p), nil
}

var (
	mu            sync.Mutex
	defaultLogger *slog.Logger
	output        = &switchWriter{}
)

// Init initializes the logger. This should be called once at application
// startup; SetSink is the supported way to redirect output afterwards.
func Init(level LogLevel, out io.Writer) {
	output.mu.Lock()
	output.primary = out
	output.mu.Unlock()

	opts := &slog.HandlerOptions{
		Level: level.SlogLevel(),
	}

	mu.Lock()
	defer mu.Unlock()
	defaultLogger = slog.New(slog.NewTextHandler(output, opts))
	slog.SetDefault(defaultLogger)
}

// SetSink redirects all subsequent log output to w without rebuilding the
// handler. Safe to call while other goroutines are logging.
func SetSink(w io.Writer) {
	output.mu.Lock()
	defer output.mu.Unlock()
	output.primary = w
}

// AddFallback registers a named secondary writer. Registering the same name
// twice produces duplicate output until the duplicates are removed.
func AddFallback(name string, w io.Writer) {
	output.mu.Lock()
	defer output.mu.Unlock()
	output.fallbacks = append(output.fallbacks, fallback{name: name, w: w})
}

// RemoveFallback removes one occurrence of the named fallback and reports
// whether one was found.
func RemoveFallback(name string) bool {
	output.mu.Lock()
	defer output.mu.Unlock()
	for i, f := range output.fallbacks {
		if f.name == name {
			output.fallbacks = append(output.fallbacks[:i], output.fallbacks[i+1:]...)
			return true
		}
	}
	return false
}

// HasFallback reports whether at least one fallback with the given name is
// still registered.
func HasFallback(name string) bool {
	output.mu.Lock()
	defer output.mu.Unlock()
	for _, f := range output.fallbacks {
		if f.name == name {
			return true
		}
	}
	return false
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	mu.Lock()
	logger := defaultLogger
	mu.Unlock()

	if logger == nil || !logger.Enabled(context.Background(), level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	slogAttrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		slogAttrs = append(slogAttrs, slog.String("error", err.Error()))
	}

	logger.LogAttrs(context.Background(), level.SlogLevel(), msg, slogAttrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
