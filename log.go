package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the process logger.  Console output goes to stderr; if logFile is set, JSON records are
// also written to a size-rotated file.
func newLogger(debug bool, logFile string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)

	level := zap.InfoLevel

	if debug {
		level = zap.DebugLevel
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}

	if err != nil {
		return nil, err
	}

	if logFile == "" {
		return l, nil
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	})

	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), w, level)

	return l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	})), nil
}
