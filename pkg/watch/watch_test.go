package watch

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan string, 4)
	d := NewDebouncer(40*time.Millisecond, func(key string) {
		calls.Add(1)
		fired <- key
	})

	for i := 0; i < 5; i++ {
		d.Trigger("a.c")
		time.Sleep(5 * time.Millisecond)
	}
	if !d.Pending("a.c") {
		t.Errorf("expected a pending callback")
	}

	select {
	case key := <-fired:
		if key != "a.c" {
			t.Errorf("callback key = %q; want a.c", key)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced callback never fired")
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times; want 1", got)
	}
	if d.Pending("a.c") {
		t.Errorf("no callback should be pending after firing")
	}
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	var wg sync.WaitGroup
	wg.Add(2)
	d := NewDebouncer(10*time.Millisecond, func(key string) {
		mu.Lock()
		seen[key]++
		mu.Unlock()
		wg.Done()
	})

	d.Trigger("a")
	d.Trigger("b")
	wg.Wait()

	if seen["a"] != 1 || seen["b"] != 1 {
		t.Errorf("seen = %v; want one call per key", seen)
	}
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func(string) { calls.Add(1) })
	d.Trigger("a")
	d.Stop()
	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("callback ran %d times after Stop", got)
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.c")
	if err := os.WriteFile(path, []byte("int x;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	changed := make(chan string, 8)
	w, err := New(20*time.Millisecond, func(p string) { changed <- p })
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	go w.Watch()

	// Give the poller a baseline and make sure the new mtime differs.
	time.Sleep(50 * time.Millisecond)
	later := time.Now().Add(2 * time.Second)
	if err := os.WriteFile(path, []byte("int y;\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	os.Chtimes(path, later, later)

	want, _ := filepath.Abs(path)
	select {
	case got := <-changed:
		if got != want {
			t.Errorf("changed path = %q; want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no change notification")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.c")
	if err := os.WriteFile(path, []byte("int x;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	changed := make(chan string, 8)
	w, err := New(10*time.Millisecond, func(p string) { changed <- p })
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Add(path); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	go w.Watch()

	if err := os.WriteFile(filepath.Join(dir, "other.c"), []byte("int z;\n"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}

	select {
	case got := <-changed:
		t.Errorf("unexpected notification for %q", got)
	case <-time.After(300 * time.Millisecond):
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
