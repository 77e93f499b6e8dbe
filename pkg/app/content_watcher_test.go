package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestIsContentFile 只关注 YAML 文件
func TestIsContentFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"data/zones.yaml", true},
		{"data/ARCHETYPES.YML", true},
		{"data/zones.yaml~", false},
		{"data/.zones.yaml.swp", false},
		{"data/readme.md", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isContentFile(tt.path); got != tt.want {
				t.Errorf("isContentFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// TestContentWatcherReportsYAMLChanges 写入 YAML 文件后收到事件，其他文件被忽略
func TestContentWatcherReportsYAMLChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewContentWatcher(dir, DefaultDebounce)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "zones.yaml")
	if err := os.WriteFile(target, []byte("zones: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events():
		if name != target {
			t.Errorf("Expected event for %s, got %s", target, name)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for content change event")
	}
}

// TestContentWatcherClose 关闭后事件通道关闭，重复关闭安全
func TestContentWatcherClose(t *testing.T) {
	w, err := NewContentWatcher(t.TempDir(), DefaultDebounce)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}

	select {
	case _, ok := <-w.Events():
		if ok {
			t.Error("Expected events channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("Events channel was not closed")
	}
}

// TestNewContentWatcherMissingDir 目录不存在时返回错误
func TestNewContentWatcherMissingDir(t *testing.T) {
	if _, err := NewContentWatcher(filepath.Join(t.TempDir(), "missing"), DefaultDebounce); err == nil {
		t.Error("Expected error for missing directory")
	}
}
