// Package logger holds the process-wide slog logger.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

var (
	globalLogger *slog.Logger
	logFile      *os.File
	mu           sync.Mutex
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s", level)
}

// InitLogger installs a text logger on stdout at the given level. When path
// is not empty, records are also appended to that file.
func InitLogger(level string, path string) error {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: slogLevel}

	mu.Lock()
	defer mu.Unlock()
	closeLocked()

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		handler = slogmulti.Fanout(handler, slog.NewTextHandler(f, opts))
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return nil
}

// GetLogger returns the installed logger, or slog.Default before InitLogger.
func GetLogger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// Close closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
