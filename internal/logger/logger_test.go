package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bcbseries/internal/config"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.Log{Level: "info", Format: "json"}, &buf)

	log.Debug("hidden")
	log.Info("fetched", "code", "433", "rows", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("want 1 line (debug filtered), got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["msg"] != "fetched" || rec["code"] != "433" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNewWithWriter_TextLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"error", false, false},
		{"", false, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		log := NewWithWriter(config.Log{Level: tt.level}, &buf)
		log.Debug("dbg")
		log.Warn("wrn")

		out := buf.String()
		if got := strings.Contains(out, "msg=dbg"); got != tt.wantDebug {
			t.Errorf("level %q: debug emitted=%v", tt.level, got)
		}
		if got := strings.Contains(out, "msg=wrn"); got != tt.wantWarn {
			t.Errorf("level %q: warn emitted=%v", tt.level, got)
		}
	}
}
