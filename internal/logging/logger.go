// Package logging builds the zap logger shared by the gateway, the pollers and the CLI.
// Every entry is a single JSON object with a "ts" field, matching the request logs.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"legaldesk/internal/config"
)

// New returns a JSON logger writing to stdout and, when cfg.File is set, to a
// size-rotated file as well.
func New(cfg config.LogConfig) *zap.Logger {
	level := ParseLevel(cfg.Level)
	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)}
	if cfg.File != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}))
	}
	core := zapcore.NewCore(Encoder(time.Local), zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core)
}

// NewWithWriter returns a JSON logger writing to w. Timestamps are rendered in loc.
func NewWithWriter(w io.Writer, level zapcore.Level, loc *time.Location) *zap.Logger {
	core := zapcore.NewCore(Encoder(loc), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Encoder returns the JSON encoder used by every logger in the process.
func Encoder(loc *time.Location) zapcore.Encoder {
	if loc == nil {
		loc = time.Local
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.MessageKey = "msg"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(time.RFC3339Nano))
	}
	return zapcore.NewJSONEncoder(cfg)
}

// ParseLevel maps debug/info/warn/error to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
