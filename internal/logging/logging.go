package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Logger is a deliberately small, framework-agnostic logging interface.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning.
	Warn(msg string, fields ...Field)

	// Error logs an error.
	Error(msg string, fields ...Field)

	// With returns a child logger with persistent fields.
	With(fields ...Field) Logger
}

// Field is a simple key/value pair for structured logging fields.
type Field struct {
	Key   string
	Value interface{}
}

// Level orders log severities; messages below the logger's level are dropped.
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
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// ParseLevel maps a level name to a Level. Empty input yields LevelWarn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "", "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelWarn, fmt.Errorf("unknown log level %q", s)
}

// JSONLogger prints one JSON object per line to its writer.
// Children created with With share the writer and its lock.
type JSONLogger struct {
	mu        *sync.Mutex
	out       io.Writer
	level     Level
	component string
	fields    []Field
}

// NewJSONLogger creates a JSONLogger. component is optional and is emitted on
// every line; a "component" field passed to With replaces it.
func NewJSONLogger(out io.Writer, level Level, component string) *JSONLogger {
	return &JSONLogger{
		mu:        &sync.Mutex{},
		out:       out,
		level:     level,
		component: component,
	}
}

func (j *JSONLogger) log(level Level, msg string, fields ...Field) {
	if level < j.level {
		return
	}
	type outEntry struct {
		Level     string         `json:"level"`
		Msg       string         `json:"msg"`
		Component string         `json:"component,omitempty"`
		Time      string         `json:"time"`
		Fields    map[string]any `json:"fields,omitempty"`
	}
	m := make(map[string]any, len(j.fields)+len(fields))
	for _, f := range j.fields {
		m[f.Key] = fieldValue(f.Value)
	}
	for _, f := range fields {
		m[f.Key] = fieldValue(f.Value)
	}
	entry := outEntry{
		Level:     level.String(),
		Msg:       msg,
		Component: j.component,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Fields:    m,
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	enc, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(j.out, "%s %s %v\n", entry.Level, msg, m)
		return
	}
	fmt.Fprintln(j.out, string(enc))
}

// errors marshal to {} otherwise
func fieldValue(v any) any {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}

func (j *JSONLogger) Debug(msg string, fields ...Field) {
	j.log(LevelDebug, msg, fields...)
}

func (j *JSONLogger) Info(msg string, fields ...Field) {
	j.log(LevelInfo, msg, fields...)
}

func (j *JSONLogger) Warn(msg string, fields ...Field) {
	j.log(LevelWarn, msg, fields...)
}

func (j *JSONLogger) Error(msg string, fields ...Field) {
	j.log(LevelError, msg, fields...)
}

func (j *JSONLogger) With(fields ...Field) Logger {
	child := &JSONLogger{
		mu:        j.mu,
		out:       j.out,
		level:     j.level,
		component: j.component,
		fields:    append([]Field(nil), j.fields...),
	}
	for _, f := range fields {
		if f.Key == "component" {
			if str, ok := f.Value.(string); ok {
				child.component = str
				continue
			}
		}
		child.fields = append(child.fields, f)
	}
	return child
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
