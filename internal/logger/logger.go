package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

func parseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger is a leveled logger writing to stdout and optionally a file.
type Logger struct {
	level  Level
	output io.Writer
	mu     sync.Mutex
}

func New(level string) *Logger {
	return &Logger{
		level:  parseLevel(level),
		output: os.Stdout,
	}
}

// NewFromEnv builds a logger from LOG_LEVEL and LOG_FILE.
func NewFromEnv() *Logger {
	l := New(os.Getenv("LOG_LEVEL"))
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		l.SetLogFile(logFile)
	}
	return l
}

func (l *Logger) SetLogFile(filePath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.output = io.MultiWriter(os.Stdout, file)
	return nil
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level > l.level {
		return
	}

	message := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.output, "[%s] [%s] %s\n", timestamp, level, message)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// WithFields returns an Entry that appends key=value pairs to every message.
func (l *Logger) WithFields(fields map[string]interface{}) *Entry {
	return &Entry{
		logger: l,
		fields: fields,
	}
}

type Entry struct {
	logger *Logger
	fields map[string]interface{}
}

func (e *Entry) formatFields() string {
	if len(e.fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(e.fields))
	for key := range e.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", key, e.fields[key]))
	}
	return " " + strings.Join(pairs, " ")
}

func (e *Entry) Error(format string, args ...interface{}) {
	e.logger.log(LevelError, format+e.formatFields(), args...)
}

func (e *Entry) Warn(format string, args ...interface{}) {
	e.logger.log(LevelWarn, format+e.formatFields(), args...)
}

func (e *Entry) Info(format string, args ...interface{}) {
	e.logger.log(LevelInfo, format+e.formatFields(), args...)
}

func (e *Entry) Debug(format string, args ...interface{}) {
	e.logger.log(LevelDebug, format+e.formatFields(), args...)
}
