// Package logger internal/infrastructure/logger/logger.go
package logger

import (
	"io"
	"os"
	"sort"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Level represents the severity level of a log message
type Level string

const (
	// DebugLevel is used for development messages
	DebugLevel Level = "DEBUG"
	// InfoLevel is used for general operational information
	InfoLevel Level = "INFO"
	// WarnLevel is used for warnings and potential issues
	WarnLevel Level = "WARN"
	// ErrorLevel is used for errors and unexpected events
	ErrorLevel Level = "ERROR"
	// FatalLevel is used for critical errors that require termination
	FatalLevel Level = "FATAL"
)

// callerDepth skips the go-kit context, log and the exported level method
const callerDepth = 5

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// JSONLogger writes structured JSON logs through go-kit/log
type JSONLogger struct {
	base   kitlog.Logger
	fields map[string]interface{}
	exit   func(int)
}

// ParseLevel converts a configured level name, defaulting to InfoLevel
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel
	case WarnLevel:
		return WarnLevel
	case ErrorLevel:
		return ErrorLevel
	case FatalLevel:
		return FatalLevel
	default:
		return InfoLevel
	}
}

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(output io.Writer, lvl Level) *JSONLogger {
	if output == nil {
		output = os.Stdout
	}

	base := kitlog.NewJSONLogger(kitlog.NewSyncWriter(output))
	base = level.NewFilter(base, allowOption(lvl))
	base = kitlog.With(base, "timestamp", kitlog.DefaultTimestampUTC, "caller", kitlog.Caller(callerDepth))

	return &JSONLogger{
		base:   base,
		fields: make(map[string]interface{}),
		exit:   os.Exit,
	}
}

func allowOption(lvl Level) level.Option {
	switch lvl {
	case DebugLevel:
		return level.AllowDebug()
	case WarnLevel:
		return level.AllowWarn()
	case ErrorLevel, FatalLevel:
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// WithField returns a new logger with the field added to the log context
func (l *JSONLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a new logger with the fields added to the log context
func (l *JSONLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}

	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &JSONLogger{
		base:   l.base,
		fields: newFields,
		exit:   l.exit,
	}
}

// Debug logs a message at debug level
func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(level.Debug(l.base), msg, fields)
}

// Info logs a message at info level
func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.log(level.Info(l.base), msg, fields)
}

// Warn logs a message at warn level
func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(level.Warn(l.base), msg, fields)
}

// Error logs a message at error level
func (l *JSONLogger) Error(msg string, fields map[string]interface{}) {
	l.log(level.Error(l.base), msg, fields)
}

// Fatal logs a message at error level flagged as fatal and then terminates the program
func (l *JSONLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(level.Error(l.base), msg, mergeFields(fields, map[string]interface{}{"fatal": true}))
	l.exit(1)
}

func (l *JSONLogger) log(target kitlog.Logger, msg string, fields map[string]interface{}) {
	all := mergeFields(l.fields, fields)

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keyvals := make([]interface{}, 0, 2+2*len(keys))
	keyvals = append(keyvals, "message", msg)
	for _, k := range keys {
		keyvals = append(keyvals, k, all[k])
	}

	// A failed write leaves nothing better to report to
	_ = target.Log(keyvals...)
}

func mergeFields(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Default logger instances
var (
	defaultLogger Logger = NewJSONLogger(os.Stdout, InfoLevel)
)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Debug Global logger functions
func Debug(msg string, fields map[string]interface{}) {
	defaultLogger.Debug(msg, fields)
}

func Info(msg string, fields map[string]interface{}) {
	defaultLogger.Info(msg, fields)
}

func Warn(msg string, fields map[string]interface{}) {
	defaultLogger.Warn(msg, fields)
}

func Error(msg string, fields map[string]interface{}) {
	defaultLogger.Error(msg, fields)
}

func Fatal(msg string, fields map[string]interface{}) {
	defaultLogger.Fatal(msg, fields)
}
