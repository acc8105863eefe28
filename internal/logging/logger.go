// Package logging writes the human-readable diagnostic log.
//
// Structured, machine-readable events go through internal/otel instead.
// Every helper is a no-op until Init or InitWriter has been called.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the global logger, nil before Init.
	Logger *log.Logger

	logFile *os.File
)

// Init opens <dir>/logs/hotnews-YYYY-MM-DD.log and installs the logger.
func Init(dir, level string) error {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("hotnews-%s.log", time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f

	InitWriter(f, level)
	return nil
}

// InitWriter installs a logger writing to w. Unknown levels mean info.
func InitWriter(w io.Writer, level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
}

// Close closes the log file, if any, and resets the logger.
func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	Logger = nil
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// WithPrefix returns a prefixed child logger, or nil before Init.
func WithPrefix(prefix string) *log.Logger {
	if Logger != nil {
		return Logger.WithPrefix(prefix)
	}
	return nil
}
