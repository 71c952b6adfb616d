package logfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestResolveConfiguredDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2025-10-19.txt"), []byte("日志内容"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, testLogger())
	path, exists := r.Resolve("2025-10-19")
	if !exists {
		t.Fatalf("expected file to exist, got path=%s", path)
	}
	if path != filepath.Join(dir, "2025-10-19.txt") {
		t.Errorf("unexpected path: %s", path)
	}
}

func TestResolveTotality(t *testing.T) {
	// 任意输入都必须返回路径，不exists时exists=false
	r := NewResolver("", testLogger())

	cases := []string{"2099-01-01", "", "not-a-date", "../escape"}
	for _, date := range cases {
		path, exists := r.Resolve(date)
		if path == "" {
			t.Errorf("Resolve(%q) returned empty path", date)
		}
		if exists {
			t.Errorf("Resolve(%q) claimed existence for missing file", date)
		}
	}
}

func TestResolvePlaceholderPath(t *testing.T) {
	r := NewResolver("", testLogger())
	path, exists := r.Resolve("2099-12-31")
	if exists {
		t.Fatal("placeholder must report exists=false")
	}
	if !strings.HasSuffix(path, filepath.Join("tmp", "dispatch-logs", "2099-12-31.txt")) {
		t.Errorf("placeholder path should point at tmp/dispatch-logs: %s", path)
	}
}

func TestResolveConfiguredDirFallsBack(t *testing.T) {
	// 配置目录中没有文件时继续按 cwd 查找，最终返回占位路径
	dir := t.TempDir()
	r := NewResolver(dir, testLogger())
	path, exists := r.Resolve("2000-01-01")
	if exists {
		t.Fatal("expected no file")
	}
	if strings.HasPrefix(path, dir) {
		t.Errorf("placeholder must not live in the configured dir: %s", path)
	}
}
