package zipdoc

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelOff disables logging entirely
	LogLevelOff = "off"
)

var (
	globalLogger      *zap.Logger
	globalAtomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	globalLoggerMutex sync.RWMutex
	globalLoggerOnce  sync.Once
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		config := GetGlobalConfig()
		applyLevel(config.LogLevel)

		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = globalAtomicLevel
		logger, err := zapConfig.Build()
		if err != nil {
			logger = zap.NewNop()
		}

		globalLoggerMutex.Lock()
		globalLogger = logger.Named("zipdoc")
		globalLoggerMutex.Unlock()
	})
}

// parseLogLevel maps a level name to a zap level. "off" maps above fatal.
func parseLogLevel(levelStr string) (zapcore.Level, bool) {
	levelStr = strings.ToLower(strings.TrimSpace(levelStr))
	if levelStr == LogLevelOff || levelStr == "none" {
		return zapcore.FatalLevel + 1, true
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(levelStr)); err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

func applyLevel(levelStr string) {
	lvl, _ := parseLogLevel(levelStr)
	globalAtomicLevel.SetLevel(lvl)
}

// NewLogger returns a production zap logger with the specified level.
func NewLogger(logLevel string) (*zap.Logger, error) {
	lvl, ok := parseLogLevel(logLevel)
	if !ok {
		return nil, NewArgumentError("logLevel", "unknown level "+logLevel)
	}
	if lvl > zapcore.FatalLevel {
		return zap.NewNop(), nil
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}

// SetLogger replaces the package logger.
func SetLogger(logger *zap.Logger) {
	initGlobalLogger()
	if logger == nil {
		logger = zap.NewNop()
	}
	globalLoggerMutex.Lock()
	globalLogger = logger
	globalLoggerMutex.Unlock()
}

// GetLogger returns the package logger.
func GetLogger() *zap.Logger {
	initGlobalLogger()
	globalLoggerMutex.RLock()
	defer globalLoggerMutex.RUnlock()
	return globalLogger
}

// UpdateLoggerFromConfig updates the default logger level from the current global configuration
func UpdateLoggerFromConfig() {
	initGlobalLogger()
	applyLevel(GetGlobalConfig().LogLevel)
}
