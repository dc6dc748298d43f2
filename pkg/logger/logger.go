// Package logger provides structured JSON logging for FitCircle.
// No external dependencies - uses only standard library.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
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

// ParseLevel parses a string into a Level. Unrecognized input maps to Info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field          { return Field{Key: key, Value: value} }
func Int(key string, value int) Field         { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field     { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field       { return Field{Key: key, Value: value} }
func Any(key string, value any) Field         { return Field{Key: key, Value: value} }

// Err creates an error field.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field rendered as a human-readable string.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

type entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Caller    string         `json:"caller,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger writes JSON log entries to a single output. Safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	base      []Field
	addCaller bool
}

// Options configures the logger.
type Options struct {
	Output    io.Writer
	Level     Level
	AddCaller bool
}

// DefaultOptions returns stdout at Info level with caller annotation.
func DefaultOptions() Options {
	return Options{
		Output:    os.Stdout,
		Level:     LevelInfo,
		AddCaller: true,
	}
}

// New creates a new Logger with the given options.
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Logger{
		out:       opts.Output,
		level:     opts.Level,
		addCaller: opts.AddCaller,
	}
}

// Default creates a logger with default options.
func Default() *Logger {
	return New(DefaultOptions())
}

// With returns a new Logger carrying extra fields on every entry.
func (l *Logger) With(fields ...Field) *Logger {
	base := make([]Field, 0, len(l.base)+len(fields))
	base = append(base, l.base...)
	base = append(base, fields...)
	return &Logger{
		out:       l.out,
		level:     l.level,
		base:      base,
		addCaller: l.addCaller,
	}
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
	}

	if l.addCaller {
		if _, file, line, ok := runtime.Caller(2); ok {
			if idx := strings.LastIndex(file, "/"); idx >= 0 {
				file = file[idx+1:]
			}
			e.Caller = fmt.Sprintf("%s:%d", file, line)
		}
	}

	if n := len(l.base) + len(fields); n > 0 {
		e.Fields = make(map[string]any, n)
		for _, f := range l.base {
			e.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			e.Fields[f.Key] = f.Value
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(l.out, "%s [%s] %s\n", e.Timestamp, e.Level, msg)
		return
	}
	l.out.Write(data)
	l.out.Write([]byte("\n"))
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

// Domain logging helpers for FitCircle.
func UserID(id string) Field        { return String("user_id", id) }
func RequesterID(id string) Field   { return String("requester_id", id) }
func Score(score float64) Field     { return Float64("score", score) }
func Candidates(n int) Field        { return Int("candidates", n) }
func WorkoutType(name string) Field { return String("workout_type", name) }
func Component(name string) Field   { return String("component", name) }
func Operation(name string) Field   { return String("operation", name) }
func Latency(d time.Duration) Field { return Duration("latency", d) }
