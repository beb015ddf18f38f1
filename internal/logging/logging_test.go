package logging

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{" WARN ", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"chatty", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level not enabled")
	}

	if _, err := NewLogger("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWithOperation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := WithOperation(zap.New(core), "markings_analyze", "req-1")
	logger.Info("done")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["operation"] != "markings_analyze" || fields["request_id"] != "req-1" {
		t.Errorf("fields = %v", fields)
	}

	core, logs = observer.New(zapcore.InfoLevel)
	WithOperation(zap.New(core), "ping", "").Info("pong")
	if _, ok := logs.All()[0].ContextMap()["request_id"]; ok {
		t.Error("empty request ID should not be logged")
	}
}

func TestOperationError(t *testing.T) {
	base := errors.New("boom")

	err := NewOperationError("markings_fingerprint", "abc", base)
	if got := err.Error(); got != "markings_fingerprint (request_id=abc): boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, base) {
		t.Error("errors.Is failed to unwrap")
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Operation != "markings_fingerprint" {
		t.Errorf("errors.As failed: %v", opErr)
	}

	if got := NewOperationError("x", "", base).Error(); got != "x: boom" {
		t.Errorf("Error() without request id = %q", got)
	}
	if NewOperationError("x", "", nil) != nil {
		t.Error("nil error should stay nil")
	}
}
