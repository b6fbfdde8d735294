// Package logger builds the zap logger used by chronogrid commands.
package logger

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to w at info level.
func New(w io.Writer) *zap.Logger {
	return NewWithLevel(w, zapcore.InfoLevel)
}

// NewWithLevel returns a console logger writing to w at the given level.
// Times are encoded as RFC3339 UTC and durations in their Go string form.
func NewWithLevel(w io.Writer, level zapcore.Level) *zap.Logger {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}
	config.EncodeDuration = func(d time.Duration, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(d.String())
	}
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	))
}
