// Package util provides common utilities including logger construction,
// file system paths, and small generic helpers.
package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a JSON logger at level writing to file, or to stderr when
// file is empty. The debug level switches to the console encoder.
func NewLogger(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	var config zap.Config
	if lvl == zapcore.DebugLevel {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	out := "stderr"
	if file != "" {
		out = file
	}
	config.OutputPaths = []string{out}
	config.ErrorOutputPaths = []string{out}
	return config.Build()
}

// LogError logs an error with context if it is non-nil.
func LogError(context string, err error) {
	if err != nil {
		zap.L().Error(context, zap.Error(err))
	}
}

// MustSucceed logs and exits on error. Use sparingly.
func MustSucceed(context string, err error) {
	if err != nil {
		zap.L().Fatal(context, zap.Error(err))
	}
}
