// Package logging provides config-driven categorized logging for cocktailnerd.
// All categories share one zap core; each category is a named child logger.
// When debug_mode is false nothing is written and every category is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cocktailnerd/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and config
	CategorySession Category = "session" // Session controller state transitions
	CategoryAPI     Category = "api"     // Backend calls
	CategoryUI      Category = "ui"      // Terminal UI events
	CategoryStub    Category = "stub"    // Stub backend server
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	loggers = make(map[Category]*zap.Logger)
	cfg     config.LoggingConfig
	closeFn func() error
)

// Initialize builds the shared logger from cfg.
// Calling it again replaces the previous logger.
func Initialize(c config.LoggingConfig) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	cfg = c
	loggers = make(map[Category]*zap.Logger)

	if !c.DebugMode {
		base = zap.NewNop()
		return nil
	}

	level, err := zapcore.ParseLevel(levelOrDefault(c.Level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	ws, closer, err := openSink(c.File)
	if err != nil {
		return err
	}

	core := zapcore.NewCore(newEncoder(c.Format), ws, zap.NewAtomicLevelAt(level))
	base = zap.New(core, zap.AddCaller())
	closeFn = closer

	base.Named(string(CategoryBoot)).Info("logging initialized",
		zap.String("level", level.String()),
		zap.String("format", c.Format),
		zap.String("file", c.File),
	)
	return nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "console" {
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

// openSink opens the log file, or stderr when no file is configured.
func openSink(path string) (zapcore.WriteSyncer, func() error, error) {
	if path == "" {
		return zapcore.Lock(os.Stderr), nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return zapcore.AddSync(f), f.Close, nil
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return categoryEnabledLocked(category)
}

func categoryEnabledLocked(category Category) bool {
	if !cfg.DebugMode {
		return false
	}
	if cfg.Categories == nil {
		return true
	}
	enabled, exists := cfg.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode or the category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	l := zap.NewNop()
	if categoryEnabledLocked(category) {
		l = base.Named(string(category))
	}
	loggers[category] = l
	return l
}

// SetBase installs an already-built logger for every category.
// Tests use it with zaptest/observer; the CLI uses it for non-interactive commands.
func SetBase(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	base = l
	cfg = config.LoggingConfig{DebugMode: true}
	loggers = make(map[Category]*zap.Logger)
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

// CloseAll flushes and closes the log file, resetting to a no-op logger.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	base = zap.NewNop()
	cfg = config.LoggingConfig{}
	loggers = make(map[Category]*zap.Logger)
}

func closeLocked() {
	_ = base.Sync()
	if closeFn != nil {
		_ = closeFn()
		closeFn = nil
	}
}
