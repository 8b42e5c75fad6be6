package logruslog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wudi/qpickit/observability"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")
	log.Info("rendered", observability.String("format", "svg"), observability.Int("wires", 2))
	out := buf.String()
	if !strings.Contains(out, "rendered") || !strings.Contains(out, "format=svg") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info").With(observability.String("component", "render"))
	log.Info("hi")
	if !strings.Contains(buf.String(), "component=render") {
		t.Fatalf("bound field missing: %q", buf.String())
	}
}

func TestLoggerUnknownLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "nonsense")
	log.Info("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("info should be visible at fallback level: %q", buf.String())
	}
}
