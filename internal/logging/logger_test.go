package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		val   string
		debug bool
		want  slog.Level
	}{
		{"", false, slog.LevelInfo},
		{"DEBUG", false, slog.LevelDebug},
		{"warning", false, slog.LevelWarn},
		{"error", false, slog.LevelError},
		{"bogus", false, slog.LevelInfo},
		{"error", true, slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.val, tt.debug))
		})
	}
}

func TestNewLoggerToStripsTime(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, false)

	log.Debug("hidden")
	log.Info("deployed", "contract", "Token")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "time=")
	assert.Contains(t, out, "msg=deployed contract=Token")
}
