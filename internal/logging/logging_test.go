package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, env := range []string{"dev", "prod", ""} {
		logger, err := New("warn", env)
		if err != nil {
			t.Fatalf("New(warn, %q) error: %v", env, err)
		}
		if logger.Desugar().Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("env %q: info should be disabled at warn level", env)
		}
		if !logger.Desugar().Core().Enabled(zapcore.ErrorLevel) {
			t.Errorf("env %q: error should be enabled at warn level", env)
		}
	}
}
