package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	cases := map[string]bool{
		"content/posts/en/a.mdx":     true,
		"content/posts/en/b.md":      true,
		"content/posts/en/_tpl.mdx":  false,
		"content/posts/en/.a.swp":    false,
		"content/posts/en/cover.png": false,
		"content/posts/de":           true,
	}
	for name, want := range cases {
		if got := relevant(fsnotify.Event{Name: name, Op: fsnotify.Write}); got != want {
			t.Fatalf("relevant(%q)=%v want %v", name, got, want)
		}
	}
	if relevant(fsnotify.Event{Name: "a.mdx", Op: fsnotify.Chmod}) {
		t.Fatalf("chmod is not a content change")
	}
}

func TestWatcher_DebouncedCallback(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "posts", "en")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var calls atomic.Int32
	w := New(root, 50*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// 等待监听建立
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "a.mdx"), []byte("---\ntitle: a\n---\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatalf("callback not triggered")
	}
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("burst of writes should trigger once, got %d", n)
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), 0, func(context.Context) error { return nil })
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("expect error for missing root")
	}
}
