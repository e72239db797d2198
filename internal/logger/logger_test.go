package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := map[string]struct {
		level   string
		enabled zapcore.Level
		blocked zapcore.Level
	}{
		"default info": {level: "", enabled: zapcore.InfoLevel, blocked: zapcore.DebugLevel},
		"debug":        {level: "debug", enabled: zapcore.DebugLevel, blocked: zapcore.DebugLevel - 1},
		"warn":         {level: "WARN", enabled: zapcore.WarnLevel, blocked: zapcore.InfoLevel},
		"error":        {level: "error", enabled: zapcore.ErrorLevel, blocked: zapcore.WarnLevel},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for _, format := range []string{"json", "console"} {
				l := New(tc.level, format)
				if !l.Core().Enabled(tc.enabled) {
					t.Fatalf("%s/%s: expected %s enabled", tc.level, format, tc.enabled)
				}
				if l.Core().Enabled(tc.blocked) {
					t.Fatalf("%s/%s: expected %s disabled", tc.level, format, tc.blocked)
				}
			}
		})
	}
}
