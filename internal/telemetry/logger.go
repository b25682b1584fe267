// Package telemetry keeps the matching core free of ambient imports: the
// core only ever depends on the small Logger/Metrics interfaces in this
// package, never directly on zap or prometheus. Concrete implementations
// are wired in at the cmd/engine layer. The zap setup is grounded on
// uhyunpark-hyperlicked's pkg/util/log.go.
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured-logging surface the engine and broadcaster
// depend on. zapLogger's Fatal exits the process after logging.
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
}

// Field is a lazily-typed structured log field, mirroring zap.Field
// without leaking the zap package into every caller's import list.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field { return Field{Key: key, Value: value} }

func toZap(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}

// zapLogger adapts *zap.Logger to Logger.
type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger builds a production-style JSON logger at info level,
// following uhyunpark-hyperlicked's NewLogger configuration.
func NewZapLogger() (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

func (z *zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, toZap(fields)...) }
func (z *zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, toZap(fields)...) }
func (z *zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, toZap(fields)...) }
func (z *zapLogger) Fatal(msg string, fields ...Field) { z.l.Fatal(msg, toZap(fields)...) }

// NoopLogger discards everything; used by tests that don't care about
// log output.
type NoopLogger struct{}

func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}
func (NoopLogger) Fatal(string, ...Field) {}
