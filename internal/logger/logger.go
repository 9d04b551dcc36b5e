package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Fields map[string]interface{}

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG:   "DEBUG",
	INFO:    "INFO",
	WARNING: "WARNING",
	ERROR:   "ERROR",
}

// Options controls where Initialize sends log output.
type Options struct {
	Dir        string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

type Logger struct {
	mu    sync.RWMutex
	level LogLevel
	out   *log.Logger
	file  io.Closer
}

var (
	instance *Logger
	once     sync.Once
)

// GetInstance returns the process-wide logger. Until Initialize is called
// it writes to stderr only.
func GetInstance() *Logger {
	once.Do(func() {
		instance = New(os.Stderr, INFO)
	})
	return instance
}

// New creates a logger writing to w. Used directly by tests.
func New(w io.Writer, level LogLevel) *Logger {
	return &Logger{
		level: level,
		out:   log.New(w, "", log.LstdFlags),
	}
}

// Initialize redirects output to stdout and a rotating file app.log inside opts.Dir.
func (l *Logger) Initialize(opts Options) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, "app.log"),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	l.out = log.New(io.MultiWriter(os.Stdout, fileWriter), "", log.LstdFlags)
	l.level = ParseLevel(opts.Level)
	l.file = fileWriter

	return nil
}

// Writer exposes the underlying destination so other loggers (gin, gorm) can share it.
func (l *Logger) Writer() io.Writer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.out.Writer()
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) logWithFields(level LogLevel, msg string, fields Fields) {
	l.mu.RLock()
	currentLevel := l.level
	out := l.out
	l.mu.RUnlock()

	if level < currentLevel {
		return
	}

	prefix := fmt.Sprintf("[%s]", levelNames[level])

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
		}
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, " "))
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	} else {
		file = filepath.Base(file)
	}

	out.Output(0, fmt.Sprintf("%s %s [in %s:%d]", prefix, msg, file, line))
}

func (l *Logger) Debug(msg string) { l.logWithFields(DEBUG, msg, nil) }
func (l *Logger) Info(msg string)  { l.logWithFields(INFO, msg, nil) }
func (l *Logger) Warn(msg string)  { l.logWithFields(WARNING, msg, nil) }
func (l *Logger) Error(msg string) { l.logWithFields(ERROR, msg, nil) }

func (l *Logger) Infof(format string, args ...any) {
	l.logWithFields(INFO, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logWithFields(WARNING, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logWithFields(ERROR, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{logger: l, fields: fields}
}

// Entry carries a fixed set of fields into every line it logs.
type Entry struct {
	logger *Logger
	fields Fields
}

func (e *Entry) Info(msg string)  { e.logger.logWithFields(INFO, msg, e.fields) }
func (e *Entry) Warn(msg string)  { e.logger.logWithFields(WARNING, msg, e.fields) }
func (e *Entry) Error(msg string) { e.logger.logWithFields(ERROR, msg, e.fields) }

func (e *Entry) Infof(format string, args ...any) {
	e.logger.logWithFields(INFO, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Warnf(format string, args ...any) {
	e.logger.logWithFields(WARNING, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Errorf(format string, args ...any) {
	e.logger.logWithFields(ERROR, fmt.Sprintf(format, args...), e.fields)
}

func ParseLevel(value string) LogLevel {
	switch strings.TrimSpace(strings.ToUpper(value)) {
	case "DEBUG":
		return DEBUG
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}
