package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.SugaredLogger

// Init initializes the global logger with JSON output
func Init(appEnv string) error {
	var config zap.Config

	if appEnv == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Ensure output is JSON
	config.Encoding = "json"

	// Stamp every line with the service and environment
	config.InitialFields = map[string]interface{}{"service": "paddock", "env": appEnv}

	// Skip the package wrappers so callers show up in the caller field
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	globalLogger = logger.Sugar()
	return nil
}

// GetLogger returns the global SugaredLogger for structured logging
func GetLogger() *zap.SugaredLogger {
	if globalLogger == nil {
		// Fallback logger if Init wasn't called
		logger, _ := zap.NewProduction(zap.AddCallerSkip(1))
		globalLogger = logger.Sugar()
	}
	return globalLogger
}

// SetLogger replaces the global logger, e.g. with zaptest or zap.NewNop in tests
func SetLogger(l *zap.SugaredLogger) {
	globalLogger = l
}

// Close flushes any buffered logs
func Close() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Info logs an info message with optional fields
func Info(message string, fields ...interface{}) {
	GetLogger().Infow(message, fields...)
}

// Debug logs a debug message with optional fields
func Debug(message string, fields ...interface{}) {
	GetLogger().Debugw(message, fields...)
}

// Warn logs a warning message with optional fields
func Warn(message string, fields ...interface{}) {
	GetLogger().Warnw(message, fields...)
}

// Error logs an error message with optional fields
func Error(message string, fields ...interface{}) {
	GetLogger().Errorw(message, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(message string, fields ...interface{}) {
	GetLogger().Fatalw(message, fields...)
	os.Exit(1)
}

// scoped undoes the package-level caller skip for loggers that are called
// directly rather than through Info/Warn/Error.
func scoped() *zap.SugaredLogger {
	return GetLogger().WithOptions(zap.AddCallerSkip(-1))
}

// WithRequest creates a logger with request context fields
func WithRequest(requestID string, actorID string, endpoint string) *zap.SugaredLogger {
	return scoped().With(
		"request_id", requestID,
		"actor_id", actorID,
		"endpoint", endpoint,
	)
}

// WithOperation creates a logger scoped to one core command
func WithOperation(operation string, actorID string) *zap.SugaredLogger {
	return scoped().With(
		"operation", operation,
		"actor_id", actorID,
	)
}
