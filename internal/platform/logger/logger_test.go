package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
)

func newBufLogger(level Level, asJSON bool) (*stdLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &stdLogger{
		out:   log.New(&buf, "", 0),
		level: level,
		json:  asJSON,
		app:   "case-portal",
	}, &buf
}

func TestLog_FiltersBelowLevel(t *testing.T) {
	l, buf := newBufLogger(Warn, false)

	l.Info("ruido", nil)
	if buf.Len() != 0 {
		t.Fatalf("info below warn threshold should be dropped, got %q", buf.String())
	}

	l.Error("falla", map[string]any{"error": "boom"})
	out := buf.String()
	if !strings.Contains(out, "level=error") || !strings.Contains(out, "error=boom") {
		t.Fatalf("unexpected text line: %q", out)
	}
	if !strings.Contains(out, "app=case-portal") {
		t.Fatalf("app field missing: %q", out)
	}
}

func TestLog_JSONFormat(t *testing.T) {
	l, buf := newBufLogger(Info, true)

	l.Info("http request", map[string]any{"status": 200})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid json: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "http request" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry["status"] != float64(200) {
		t.Fatalf("fields should pass through, got %#v", entry["status"])
	}
}

func TestParseLevel_Defaults(t *testing.T) {
	tests := map[string]Level{
		"":        Info,
		"info":    Info,
		"WARN":    Warn,
		"warning": Warn,
		"error":   Error,
		"basura":  Info,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}
