package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/zhenqiu/fupan/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"unknown", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSetsGlobalLevel(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "warn",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("Expected logger to be created")
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("Expected global level warn, got %v", zerolog.GlobalLevel())
	}
}

func TestWithFieldChaining(t *testing.T) {
	log := NewNop()

	derived := log.WithField("component", "test").
		WithFields(map[string]interface{}{"trade_date": "2025-08-29"})
	if derived == nil {
		t.Fatal("Expected derived logger")
	}

	// 派生 logger 不影响原 logger，调用不应 panic
	derived.Info("message")
	log.Info("message")
}
