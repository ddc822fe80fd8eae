package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesToFile(t *testing.T) {
	dir := t.TempDir()

	logger := Setup(dir, false)
	logger.Info().Str("note", "1").Msg("note updated")

	data, err := os.ReadFile(filepath.Join(dir, logFilename))
	if err != nil {
		t.Fatalf("Expected log file, got error: %v", err)
	}
	if !strings.Contains(string(data), "note updated") {
		t.Errorf("Expected log entry, got %q", string(data))
	}
}

func TestRotateIfOversized(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, logFilename)

	big := make([]byte, maxLogSize)
	if err := os.WriteFile(path, big, 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	rotateIfOversized(path)

	if _, err := os.Stat(path + ".old"); err != nil {
		t.Errorf("Expected rotated backup, got error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected original moved aside, got error: %v", err)
	}
}

func TestRotateSmallFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, logFilename)

	if err := os.WriteFile(path, []byte("small"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	rotateIfOversized(path)

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file untouched, got error: %v", err)
	}
	if _, err := os.Stat(path + ".old"); !os.IsNotExist(err) {
		t.Error("Expected no backup for a small file")
	}
}
