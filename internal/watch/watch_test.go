package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stevecallear/feta/internal/watch"
)

func TestWatcherReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.yaml")
	if err := os.WriteFile(path, []byte("features: {}\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, err := watch.New(path, 10*time.Millisecond, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	go w.Run(ctx, func() error {
		select {
		case reloaded <- struct{}{}:
		default:
		}
		return nil
	})

	// give the event loop a moment to start before writing
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("features: {}\n# edited\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("expected reload")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.yaml")
	if err := os.WriteFile(path, []byte("features: {}\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, err := watch.New(path, 10*time.Millisecond, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	go w.Run(ctx, func() error {
		select {
		case reloaded <- struct{}{}:
		default:
		}
		return nil
	})

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := watch.New(filepath.Join(t.TempDir(), "missing", "features.yaml"), 0, zerolog.Nop()); err == nil {
		t.Fatal("expected error")
	}
}
