// Package daemon runs the sync pass continuously in watch mode.
//
// The daemon triggers a pass when git's bookkeeping for the published
// branch changes on disk (a fetch or pull moved the remote-tracking ref)
// and on a periodic fallback interval, since a remote-side edit is
// invisible locally until something fetches. Rapid events are debounced
// so a burst of ref updates causes a single pass.
//
// Passes run strictly one at a time; the daemon is a trigger layer, not
// a concurrency layer.
package daemon

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config holds configuration for the daemon.
type Config struct {
	// Interval is the periodic fallback between passes.
	Interval time.Duration

	// Debounce is how long to wait after a ref event before running,
	// batching rapid updates together.
	Debounce time.Duration

	// Logger for daemon activity.
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Interval: 5 * time.Minute,
		Debounce: 2 * time.Second,
		Logger:   log.New(os.Stderr, "[watch] ", log.LstdFlags),
	}
}

// Daemon watches git ref bookkeeping and runs sync passes.
type Daemon struct {
	repoRoot string
	remote   string
	branch   string
	runPass  func(ctx context.Context) error
	config   *Config

	watcher *fsnotify.Watcher
}

// New creates a Daemon for the repository at repoRoot that runs runPass
// whenever the remote-tracking ref of branch (on remote) may have moved.
func New(repoRoot, remote, branch string, runPass func(ctx context.Context) error, config *Config) (*Daemon, error) {
	if runPass == nil {
		return nil, fmt.Errorf("runPass cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Daemon{
		repoRoot: repoRoot,
		remote:   remote,
		branch:   branch,
		runPass:  runPass,
		config:   config,
		watcher:  watcher,
	}, nil
}

// watchPaths returns the directories whose contents move when the
// published branch is fetched: the remote-tracking ref directory and
// the .git directory itself (FETCH_HEAD, packed-refs).
func (d *Daemon) watchPaths() []string {
	gitDir := filepath.Join(d.repoRoot, ".git")
	return []string{
		gitDir,
		filepath.Join(gitDir, "refs", "remotes", d.remote),
	}
}

// Start runs the daemon until ctx is cancelled. An initial pass runs
// immediately; afterwards passes are triggered by ref events and the
// fallback ticker. Pass failures are logged and the daemon keeps
// running, since a transient transport failure should not stop
// watching.
func (d *Daemon) Start(ctx context.Context) error {
	defer d.watcher.Close()

	for _, path := range d.watchPaths() {
		if err := d.watcher.Add(path); err != nil {
			// The remotes directory may not exist until the first
			// fetch; the ticker still covers that window.
			d.config.Logger.Printf("Not watching %s: %v", path, err)
		}
	}

	d.config.Logger.Printf("Watching %s for %s/%s updates (fallback every %s)",
		d.repoRoot, d.remote, d.branch, d.config.Interval)

	d.run(ctx)

	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	var debounce *time.Timer
	var debounceC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			d.config.Logger.Printf("Shutting down")
			return ctx.Err()

		case event, ok := <-d.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if !d.relevant(event) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(d.config.Debounce)
			} else {
				debounce.Reset(d.config.Debounce)
			}
			debounceC = debounce.C

		case <-debounceC:
			debounceC = nil
			d.run(ctx)

		case <-ticker.C:
			d.run(ctx)

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			d.config.Logger.Printf("Watcher error: %v", err)
		}
	}
}

// relevant filters ref events down to the ones that can signal new
// published-branch commits.
func (d *Daemon) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	switch name {
	case d.branch, "FETCH_HEAD", "packed-refs":
		return true
	}
	return false
}

// run executes one sync pass, logging failures without stopping.
func (d *Daemon) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := d.runPass(ctx); err != nil {
		d.config.Logger.Printf("Sync pass failed: %v", err)
	}
}
