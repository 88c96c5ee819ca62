package logging

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a wrapper around the log.Logger from the charmbracelet/log package.
type Logger struct {
	*log.Logger
	buf *bytes.Buffer
}

var (
	logger *Logger
	once   sync.Once
)

// CreateLogger sets up the shared logger. It must be called before using the
// package-level logging functions; GetLogger calls it lazily.
func CreateLogger() {
	once.Do(func() {
		baseLogger := log.New(os.Stderr)

		if os.Getenv("DEBUG") == "1" {
			baseLogger = log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				Prefix:          "mediaconv",
			})
			baseLogger.SetLevel(log.DebugLevel)
		} else {
			baseLogger.SetLevel(log.InfoLevel)
		}

		logger = &Logger{Logger: baseLogger}
	})
}

// GetLogger returns the shared Logger instance.
func GetLogger() *Logger {
	if logger == nil {
		CreateLogger()
	}
	return logger
}

// NewLogger returns a Logger writing to the given writer at info level.
func NewLogger(w io.Writer) *Logger {
	return &Logger{Logger: log.New(w)}
}

// NewTestLogger returns a Logger that records output in an in-memory buffer
// so tests can assert on logged messages.
func NewTestLogger() *Logger {
	buf := &bytes.Buffer{}
	baseLogger := log.NewWithOptions(buf, log.Options{
		ReportTimestamp: false,
	})
	baseLogger.SetLevel(log.DebugLevel)
	return &Logger{Logger: baseLogger, buf: buf}
}

// Output returns everything written through a test logger. It returns the
// empty string for loggers not created by NewTestLogger.
func (l *Logger) Output() string {
	if l.buf == nil {
		return ""
	}
	return l.buf.String()
}

// BaseLogger returns the underlying *log.Logger.
func (l *Logger) BaseLogger() *log.Logger {
	return l.Logger
}
