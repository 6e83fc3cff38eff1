package diag

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "logfmt")
	l.Info("hidden")
	l.Warn("shown", "zone", "up-left")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "zone=up-left") {
		t.Fatalf("warn line missing fields: %q", out)
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	l := New(&bytes.Buffer{}, "chatty", "")
	if l.GetLevel() != log.InfoLevel {
		t.Fatalf("level = %v, want info", l.GetLevel())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "DEBUG", "json")
	l.Debug("pointer", "x", 10)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "pointer" {
		t.Fatalf("msg = %v", entry["msg"])
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PTERO_LOG_LEVEL", "debug")
	if FromEnv().GetLevel() != log.DebugLevel {
		t.Fatal("PTERO_LOG_LEVEL not applied")
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("nothing to see")
	if l.GetLevel() != log.FatalLevel {
		t.Fatalf("Nop level = %v", l.GetLevel())
	}
}

func TestFileFromEnv(t *testing.T) {
	t.Setenv("PTERO_LOG_FILE", "")
	l, closeLog, err := FileFromEnv()
	if err != nil || l.GetLevel() != log.FatalLevel {
		t.Fatalf("unset PTERO_LOG_FILE should discard, got %v %v", l.GetLevel(), err)
	}
	closeLog()

	path := filepath.Join(t.TempDir(), "game.log")
	t.Setenv("PTERO_LOG_FILE", path)
	l, closeLog, err = FileFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	l.Info("client joined", "client", 1)
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "client joined") {
		t.Fatalf("log file = %q", data)
	}
}
