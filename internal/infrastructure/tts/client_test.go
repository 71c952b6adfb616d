package tts

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanupOldAudio(t *testing.T) {
	dir := t.TempDir()
	c := &Client{audioTempDir: dir, logger: slog.New(slog.DiscardHandler)}

	old := filepath.Join(dir, "tts_old.mp3")
	if err := os.WriteFile(old, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(dir, "tts_fresh.mp3")
	if err := os.WriteFile(fresh, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := c.CleanupOldAudio(24 * time.Hour)
	if err != nil {
		t.Fatalf("CleanupOldAudio: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("stale file survived cleanup")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh file must survive cleanup")
	}
}

func TestCleanupMissingDir(t *testing.T) {
	c := &Client{audioTempDir: filepath.Join(t.TempDir(), "absent"), logger: slog.New(slog.DiscardHandler)}
	if _, err := c.CleanupOldAudio(time.Hour); err != nil {
		t.Errorf("missing dir must be a no-op, got %v", err)
	}
}
