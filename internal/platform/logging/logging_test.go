package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	testCases := []struct {
		env   string
		level string
		want  zapcore.Level
	}{
		{"development", "debug", zapcore.DebugLevel},
		{"production", "info", zapcore.InfoLevel},
		{"PRODUCTION", "warn", zapcore.WarnLevel},
		{"", "error", zapcore.ErrorLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.env+"/"+tc.level, func(t *testing.T) {
			log, err := New(tc.env, tc.level)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if !log.Core().Enabled(tc.want) {
				t.Errorf("level %v should be enabled", tc.want)
			}
			if tc.want > zapcore.DebugLevel && log.Core().Enabled(tc.want-1) {
				t.Errorf("level %v should be disabled", tc.want-1)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("development", "loud"); err == nil {
		t.Fatal("New should reject unknown level")
	}
}
