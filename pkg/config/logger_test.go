package config

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		logger, err := NewLogger(tt.level)
		if err != nil {
			t.Fatalf("level %q: %v", tt.level, err)
		}

		if !logger.Core().Enabled(tt.want) {
			t.Errorf("level %q: expected %v enabled", tt.level, tt.want)
		}

		if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
			t.Errorf("level %q: expected %v disabled", tt.level, tt.want-1)
		}
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger("shouting")
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
}
