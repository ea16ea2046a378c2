package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/dialogue-engine/internal/config"
)

func TestNew_HandlerByEnvironment(t *testing.T) {
	tests := []struct {
		env      string
		contains string
	}{
		{"production", `"msg":"hello"`},
		{"development", "msg=hello"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&config.Config{Environment: tt.env, LogLevel: slog.LevelInfo}, &buf)
			l.Info("hello")
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.contains)
			}
		})
	}
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	l := New(&config.Config{LogLevel: slog.LevelWarn}, &buf)
	l.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&config.Config{Environment: "production"}, &buf)
	WithError(WithSession(l, "abc"), errors.New("boom")).Warn("failed")

	out := buf.String()
	for _, want := range []string{`"session_id":"abc"`, `"error":"boom"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}
