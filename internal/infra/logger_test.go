package infra

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	prod := newLogger("production", &buf)
	prod.Debug().Msg("hidden")
	prod.Info().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug message logged in production: %s", out)
	}
	if !strings.Contains(out, `"service":"vidembed"`) || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	child := Component(prod, "resolver")
	child.Info().Msg("tagged")
	if !strings.Contains(buf.String(), `"component":"resolver"`) {
		t.Fatalf("component field missing: %s", buf.String())
	}
}
