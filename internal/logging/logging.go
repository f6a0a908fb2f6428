package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Logger is a deliberately small, framework-agnostic logging interface.
// Keep implementations swappable; components accept the interface and
// tolerate a nil logger.
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

// WriterLogger is a tiny, structured logger. It implements Logger and
// prints JSON lines to the configured writer.
type WriterLogger struct {
	w         io.Writer
	component string
	fields    []Field
}

// NewStdoutLogger creates a WriterLogger bound to stdout. component is
// optional and is included as a persistent field.
func NewStdoutLogger(component string) *WriterLogger {
	return NewWriterLogger(os.Stdout, component)
}

// NewWriterLogger creates a WriterLogger writing JSON lines to w. The CLI
// binds this to stderr so log lines never mix with the result message.
func NewWriterLogger(w io.Writer, component string) *WriterLogger {
	if w == nil {
		w = os.Stdout
	}
	return &WriterLogger{w: w, component: component}
}

func (s *WriterLogger) log(level string, msg string, fields ...Field) {
	type outEntry struct {
		Level     string         `json:"level"`
		Msg       string         `json:"msg"`
		Component string         `json:"component,omitempty"`
		Time      string         `json:"time"`
		Fields    map[string]any `json:"fields,omitempty"`
	}
	m := make(map[string]any)
	for _, f := range s.fields {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	entry := outEntry{
		Level:     level,
		Msg:       msg,
		Component: s.component,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Fields:    m,
	}
	enc, err := json.Marshal(entry)
	if err != nil {
		// Fallback simple formatting if JSON marshal fails
		fmt.Fprintf(s.w, "%s %s %v\n", level, msg, m)
		return
	}
	fmt.Fprintln(s.w, string(enc))
}

func (s *WriterLogger) Debug(msg string, fields ...Field) {
	s.log("debug", msg, fields...)
}

func (s *WriterLogger) Info(msg string, fields ...Field) {
	s.log("info", msg, fields...)
}

func (s *WriterLogger) Warn(msg string, fields ...Field) {
	s.log("warn", msg, fields...)
}

func (s *WriterLogger) Error(msg string, fields ...Field) {
	s.log("error", msg, fields...)
}

func (s *WriterLogger) With(fields ...Field) Logger {
	child := &WriterLogger{
		w:         s.w,
		component: s.component,
		fields:    append(append([]Field{}, s.fields...), fields...),
	}
	// If fields include a component key, prefer that as the component name
	for _, f := range fields {
		if f.Key == "component" {
			if str, ok := f.Value.(string); ok {
				child.component = str
			}
		}
	}
	return child
}
