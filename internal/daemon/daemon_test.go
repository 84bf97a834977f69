package daemon

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func quietConfig(interval time.Duration) *Config {
	return &Config{
		Interval: interval,
		Debounce: 10 * time.Millisecond,
		Logger:   log.New(io.Discard, "", 0),
	}
}

func gitLayout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git", "refs", "remotes", "origin"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	return root
}

func TestNewRequiresRunPass(t *testing.T) {
	if _, err := New(t.TempDir(), "origin", "master", nil, nil); err == nil {
		t.Error("Expected error for nil runPass")
	}
}

func TestInitialAndTickerPasses(t *testing.T) {
	root := gitLayout(t)

	var passes atomic.Int32
	d, err := New(root, "origin", "master", func(ctx context.Context) error {
		passes.Add(1)
		return nil
	}, quietConfig(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := d.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}

	// One initial pass plus at least one ticker pass
	if got := passes.Load(); got < 2 {
		t.Errorf("Expected at least 2 passes, got %d", got)
	}
}

func TestRefEventTriggersPass(t *testing.T) {
	root := gitLayout(t)
	refPath := filepath.Join(root, ".git", "refs", "remotes", "origin", "master")

	var passes atomic.Int32
	d, err := New(root, "origin", "master", func(ctx context.Context) error {
		passes.Add(1)
		return nil
	}, quietConfig(time.Hour))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	// Wait for the initial pass, then move the ref
	deadline := time.After(2 * time.Second)
	for passes.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for initial pass")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := os.WriteFile(refPath, []byte("abc123\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	deadline = time.After(2 * time.Second)
	for passes.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("Timed out waiting for event-triggered pass")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestPassFailureDoesNotStopDaemon(t *testing.T) {
	root := gitLayout(t)

	var passes atomic.Int32
	d, err := New(root, "origin", "master", func(ctx context.Context) error {
		passes.Add(1)
		return errors.New("transport failure")
	}, quietConfig(30*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_ = d.Start(ctx)

	if got := passes.Load(); got < 2 {
		t.Errorf("Expected daemon to keep running after failures, got %d passes", got)
	}
}

func TestRelevantEvents(t *testing.T) {
	d := &Daemon{remote: "origin", branch: "master", config: quietConfig(time.Minute)}

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"remote tracking ref", "/repo/.git/refs/remotes/origin/master", true},
		{"fetch head", "/repo/.git/FETCH_HEAD", true},
		{"packed refs", "/repo/.git/packed-refs", true},
		{"unrelated branch ref", "/repo/.git/refs/remotes/origin/other", false},
		{"index file", "/repo/.git/index", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: tt.path, Op: fsnotify.Write}
			if got := d.relevant(event); got != tt.expected {
				t.Errorf("Expected %v for %s, got %v", tt.expected, tt.path, got)
			}
		})
	}
}
