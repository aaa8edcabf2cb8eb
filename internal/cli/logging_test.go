package cli

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "info", "json").Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	newLogger(&buf, "warn", "text").Info("hidden")
	assert.Empty(t, buf.String())
	newLogger(&buf, "warn", "text").Warn("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
