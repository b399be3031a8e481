package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblecloud/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Simulated 60 frames")

	out := buf.String()
	if !strings.Contains(out, "Simulated 60 frames (") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	h := newLoggingHooks(newLogger(&buf, log.DebugLevel))

	h.OnConfigure(300, 600, 2449.5, 2400)
	h.OnNodeAdded("n0", 0)
	h.OnSelect("n0")
	h.OnDeselect("n0")
	h.OnSave(context.Background(), "file", "picker", 512, nil)
	h.OnLoad(context.Background(), "redis", "picker", false, nil)

	out := buf.String()
	for _, want := range []string{"hooks", "configure", "node added", "select", "deselect", "saved", "load"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)
	t.Cleanup(observability.Reset)

	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if _, ok := observability.Simulation().(*loggingHooks); !ok {
		t.Errorf("simulation hooks = %T, want *loggingHooks", observability.Simulation())
	}
}
