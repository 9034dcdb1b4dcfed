package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "JOINPANEL_LOG_LEVEL"

// Initialize creates the global logger at the given level, writing to the
// given output paths (zap sink URLs or file paths). With no paths it writes
// to stdout.
//
// An empty level falls back to JOINPANEL_LOG_LEVEL; if that is empty too the
// logger is a no-op.
func Initialize(level string, outputPaths ...string) error {
	level = ResolveLevel(level)
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		return err
	}

	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	// Colour codes only make sense on a terminal.
	if len(outputPaths) == 1 && (outputPaths[0] == "stdout" || outputPaths[0] == "stderr") {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// ResolveLevel returns level, or JOINPANEL_LOG_LEVEL when level is empty.
// An empty result means logging is off.
func ResolveLevel(level string) string {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	return strings.TrimSpace(level)
}

// ParseLevel maps a level name onto a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogFieldCommit logs a single form field written into a configuration record.
func LogFieldCommit(field string, target string, value string) {
	Info("Field committed",
		zap.String("field", field),
		zap.String("target", target),
		zap.String("value", value),
	)
}

// LogFieldRejected logs a field whose submitted value failed validation.
func LogFieldRejected(field string, value string, err error) {
	Warn("Field rejected",
		zap.String("field", field),
		zap.String("value", value),
		zap.Error(err),
	)
}

// LogSubmit logs the outcome of a form submission.
func LogSubmit(committed []string, rejected int, relayAddress string) {
	Info("Form submitted",
		zap.Strings("committed", committed),
		zap.Int("rejected", rejected),
		zap.String("relay_address", relayAddress),
	)
}

// LogRelayAddress logs the relay address being persisted and announced.
func LogRelayAddress(key string, address string) {
	Info("Relay address updated",
		zap.String("key", key),
		zap.String("address", address),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
