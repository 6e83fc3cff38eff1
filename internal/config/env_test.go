package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("PTERO_TEST_INT", "12")
	t.Setenv("PTERO_TEST_BAD_INT", "twelve")
	t.Setenv("PTERO_TEST_FLOAT", "2.5")
	t.Setenv("PTERO_TEST_BOOL", "true")
	t.Setenv("PTERO_TEST_DURATION", "750ms")

	if got := GetEnv("PTERO_TEST_MISSING", "x"); got != "x" {
		t.Fatalf("GetEnv missing = %q, want x", got)
	}
	if got := GetEnvInt("PTERO_TEST_INT", 1); got != 12 {
		t.Fatalf("GetEnvInt = %d, want 12", got)
	}
	if got := GetEnvInt("PTERO_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("GetEnvInt unparsable = %d, want fallback 7", got)
	}
	if got := GetEnvFloat("PTERO_TEST_FLOAT", 0); got != 2.5 {
		t.Fatalf("GetEnvFloat = %v, want 2.5", got)
	}
	if got := GetEnvBool("PTERO_TEST_BOOL", false); !got {
		t.Fatal("GetEnvBool = false, want true")
	}
	if got := GetEnvDuration("PTERO_TEST_DURATION", time.Second); got != 750*time.Millisecond {
		t.Fatalf("GetEnvDuration = %v, want 750ms", got)
	}
}

func TestLoadSkipsMissingFilesAndKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.env")
	if err := os.WriteFile(path, []byte("PTERO_TEST_FROM_FILE=file\nPTERO_TEST_PRESET=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PTERO_TEST_PRESET", "process")
	t.Cleanup(func() { os.Unsetenv("PTERO_TEST_FROM_FILE") })

	if err := Load(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("PTERO_TEST_FROM_FILE"); got != "file" {
		t.Fatalf("PTERO_TEST_FROM_FILE = %q, want file", got)
	}
	if got := os.Getenv("PTERO_TEST_PRESET"); got != "process" {
		t.Fatalf("PTERO_TEST_PRESET = %q, want process value kept", got)
	}
}
