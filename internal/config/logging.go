// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger returns a zap logger configured by cfg. Logs are written to
// standard error unless output paths are given.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	paths := cfg.OutputPaths
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}

	var (
		enc      zapcore.EncoderConfig
		encoding string
	)
	switch cfg.Format {
	case "console":
		enc = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	default:
		enc = zap.NewProductionEncoderConfig()
		encoding = "json"
	}
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      cfg.Format == "console",
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      paths,
		ErrorOutputPaths: []string{"stderr"},
	}
	log, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("config: failed to build logger: %w", err)
	}
	return log, nil
}
