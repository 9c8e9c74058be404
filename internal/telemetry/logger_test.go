package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesDottedEvents(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info")
	l.Info("game.flow", map[string]any{"from": "settings/none", "to": "play/first_check"})
	l.Warn("game.invalid_transition", map[string]any{"intent": "next"})
	l.Debug("ui.frame", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["message"] != "game.invalid_transition" || entry["level"] != "warn" || entry["intent"] != "next" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("expected timestamp in %#v", entry)
	}
}

func TestLoggerFileAndDiscard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l, err := NewJSONLogger(path, "warn")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Info("game.flow", nil)
	l.Error("game.hook_failed", map[string]any{"error": "boom"})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(b), "game.flow") || !strings.Contains(string(b), "game.hook_failed") {
		t.Fatalf("unexpected log contents %q", b)
	}

	nop, err := NewJSONLogger("", "")
	if err != nil {
		t.Fatalf("discard logger: %v", err)
	}
	nop.Info("x", nil)
	if err := nop.Close(); err != nil {
		t.Fatalf("close discard: %v", err)
	}
}
