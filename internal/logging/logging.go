package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// logFile is the file handle for the log file
	logFile *os.File
)

// Init initializes the logging system. Logs go to a file so they never
// corrupt the TUI output.
func Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	logDir := filepath.Join(homeDir, ".einsatzmonitor", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create log file with date
	logFileName := fmt.Sprintf("einsatzmonitor-%s.log", time.Now().Format("2006-01-02"))
	logPath := filepath.Join(logDir, logFileName)

	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	Logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
	})

	Logger.Info("Einsatz-Monitor started")
	return nil
}

// Close closes the log file
func Close() {
	if Logger != nil {
		Logger.Info("Einsatz-Monitor shutting down")
	}
	if logFile != nil {
		logFile.Close()
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Component is a prefixed logger for one subsystem (poll, websocket,
// coordinator). All alarm activity lands in the shared log file; the prefix
// is what keeps the interleaved subsystems readable. Safe to use before
// Init: messages are dropped until the logger exists.
type Component struct {
	prefix string
}

// ForComponent returns a Component logging under the given prefix.
func ForComponent(prefix string) Component {
	return Component{prefix: prefix}
}

func (c Component) Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.WithPrefix(c.prefix).Info(msg, keyvals...)
	}
}

func (c Component) Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.WithPrefix(c.prefix).Debug(msg, keyvals...)
	}
}

func (c Component) Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.WithPrefix(c.prefix).Warn(msg, keyvals...)
	}
}

func (c Component) Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.WithPrefix(c.prefix).Error(msg, keyvals...)
	}
}
