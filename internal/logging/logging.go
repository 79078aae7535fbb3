// Package logging holds the process-wide diagnostic logger. It writes
// leveled text lines to a file and is safe to set up more than once.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Name tags every record written through this package.
const Name = "specc"

var (
	mu      sync.Mutex
	current *slog.Logger
	closer  io.Closer
	path    string
)

// Setup opens path for appending and installs a text logger at level.
// Later calls return the installed logger and open nothing, whatever
// their arguments. A Setup after Close starts over.
func Setup(logPath string, level slog.Level) (*slog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return current, nil
	}

	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	current = newLogger(f, level)
	closer = f
	path = logPath
	return current, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("logger", Name)
}

// Default returns the installed logger, or one that discards everything
// when Setup has not run.
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		return slog.New(slog.DiscardHandler)
	}
	return current
}

// Path returns the file the installed logger writes to, if any.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return path
}

// Close releases the log file and uninstalls the logger.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	var err error
	if closer != nil {
		err = closer.Close()
	}
	current, closer, path = nil, nil, ""
	return err
}

// ParseLevel maps debug, info, warn or warning, and error to a level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
