package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false)

	LogInfo("fetched %d records", 3)
	LogError(errors.New("connection refused"), "refresh")
	LogDebug("hidden")
	LogRequest("GET", "/api/graph", "127.0.0.1", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"[INFO] ", "fetched 3 records", "[ERROR] ", "refresh: connection refused", "GET /api/graph 127.0.0.1 200"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("expected debug output to be dropped")
	}
	if DebugEnabled() {
		t.Error("expected debug disabled")
	}
}

func TestInitWriter_Debug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, true)

	LogDebug("payload %s", "x")

	if !strings.Contains(buf.String(), "[DEBUG] ") || !strings.Contains(buf.String(), "payload x") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
	if !DebugEnabled() {
		t.Error("expected debug enabled")
	}
}
