package telemetry

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLoggerBuildsWithoutError(t *testing.T) {
	logger, err := NewZapLogger()
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}
	if logger == nil {
		t.Fatalf("NewZapLogger returned a nil Logger")
	}
}

func TestZapLoggerForwardsFieldsToUnderlyingCore(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &zapLogger{l: zap.New(core)}

	l.Info("order admitted", F("order_id", uint64(42)))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0].Message != "order admitted" {
		t.Errorf("message = %q, want %q", entries[0].Message, "order admitted")
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %v, want Info", entries[0].Level)
	}
	got := entries[0].ContextMap()["order_id"]
	if got != uint64(42) {
		t.Errorf("field order_id = %v, want 42", got)
	}
}

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	var l Logger = NoopLogger{}
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.Fatal("x")
}
