package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("<p>one</p>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var calls atomic.Int32
	changed := make(chan struct{}, 4)
	w, err := New(path, 100*time.Millisecond, zerolog.Nop(), func() {
		calls.Add(1)
		changed <- struct{}{}
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("<p>two</p>"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatalf("no change reported")
	}
	time.Sleep(300 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one coalesced callback, got %d", n)
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	changed := make(chan struct{}, 1)
	w, err := New(path, 20*time.Millisecond, zerolog.Nop(), func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()
	if w.Path() != path {
		t.Fatalf("path = %q, want %q", w.Path(), path)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.html"), []byte("y"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-changed:
		t.Fatalf("sibling write should not trigger")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w, err := New(path, 0, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestNewFailsForMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope", "page.html"), 0, zerolog.Nop(), nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
