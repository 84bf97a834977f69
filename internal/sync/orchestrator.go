// Package sync drives the published-to-vault reverse sync pass.
//
// The orchestrator is a small state machine: it decides whether a sync
// is needed by comparing recorded and observed repository state, selects
// the changed-file set, moves files between branches through the VCS
// collaborator, delegates markdown rewriting to the converter, and
// persists the new baseline. It never parses markdown itself, and the
// converter never touches version control.
//
// A pass that produced commits leaves the local published head equal to
// the recorded revision, so the next invocation (for example one
// triggered by the commit this pass just made) observes no drift and
// does nothing. That is the loop-avoidance guarantee.
package sync

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wikibridge/wikibridge/internal/config"
	"github.com/wikibridge/wikibridge/internal/convert"
	"github.com/wikibridge/wikibridge/internal/state"
	"github.com/wikibridge/wikibridge/internal/vcs"
)

// Journal records completed passes. Recording is best-effort; failures
// are logged and never abort a pass.
type Journal interface {
	Record(ctx context.Context, revision string, filesChanged, filesConverted int) error
}

// Orchestrator performs one drift-check-and-sync pass per Run call.
// It is not safe for concurrent use; the design assumes at most one
// pass runs at a time per repository working tree.
type Orchestrator struct {
	git     vcs.Client
	cfg     *config.Config
	logger  *log.Logger
	journal Journal
}

// New creates an Orchestrator. journal may be nil to disable the pass
// journal. If logger is nil, a default logger writing to stderr is used.
func New(git vcs.Client, cfg *config.Config, logger *log.Logger, journal Journal) *Orchestrator {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Orchestrator{
		git:     git,
		cfg:     cfg,
		logger:  logger,
		journal: journal,
	}
}

// DriftInfo is the observed repository state behind a classification.
type DriftInfo struct {
	Drift      Drift
	LocalHead  string
	RemoteHead string
	Recorded   *string
	LastSync   *time.Time
}

// Result summarizes a completed pass.
type Result struct {
	// Drift is the classification that triggered (or skipped) the pass.
	Drift Drift

	// Revision is the published-branch head recorded as the new baseline.
	// Empty when no drift was detected.
	Revision string

	// FilesChanged is the size of the changed markdown set examined.
	FilesChanged int

	// FilesConverted is how many files conversion actually modified.
	FilesConverted int

	// Committed is true if a commit was created on the vault branch.
	Committed bool
}

func (o *Orchestrator) statePath() string {
	return filepath.Join(o.git.RepoRoot(), o.cfg.StateFile)
}

// CheckDrift performs the three-way state comparison without mutating
// anything: it fetches the remote head, reads the local head and the
// recorded baseline, and classifies.
func (o *Orchestrator) CheckDrift(ctx context.Context) (*DriftInfo, error) {
	st, err := state.Load(o.statePath())
	if err != nil {
		return nil, err
	}

	local, err := o.git.LocalHead(ctx, o.cfg.PublishedBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to read local %s head: %w", o.cfg.PublishedBranch, err)
	}

	remote, err := o.git.RemoteHead(ctx, o.cfg.Remote, o.cfg.PublishedBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote %s head: %w", o.cfg.PublishedBranch, err)
	}

	return &DriftInfo{
		Drift:      Classify(local, remote, st.LastRevision),
		LocalHead:  local,
		RemoteHead: remote,
		Recorded:   st.LastRevision,
		LastSync:   st.LastSyncTime,
	}, nil
}

// ValidateBranches confirms every required branch exists. Called before
// any state-changing action; a missing branch terminates the run with
// nothing mutated.
func (o *Orchestrator) ValidateBranches(ctx context.Context) error {
	for _, branch := range o.cfg.RequiredBranches() {
		if !o.git.BranchExists(ctx, branch) {
			return fmt.Errorf("%w: %s", vcs.ErrBranchNotFound, branch)
		}
	}
	return nil
}

// Run performs one full drift-check-and-sync pass.
//
// When no drift is detected the pass performs no branch switches, no
// commits and no state writes. Otherwise it pulls the published branch,
// materializes each changed markdown file onto the vault branch, runs
// it through the converter, commits the converted set as a single
// commit, and persists the new baseline. Whatever branch was checked
// out before the run is restored on every exit path; that restoration
// is best-effort and never escalates.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	if err := o.ValidateBranches(ctx); err != nil {
		return nil, err
	}

	info, err := o.CheckDrift(ctx)
	if err != nil {
		return nil, err
	}
	if !info.Drift.Detected() {
		o.logger.Printf("No external changes detected on %s", o.cfg.PublishedBranch)
		return &Result{Drift: NoDrift}, nil
	}
	o.logger.Printf("External changes detected (%s), starting reverse sync", info.Drift)

	originalBranch, err := o.git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	defer o.restoreBranch(ctx, originalBranch)

	if err := o.git.Checkout(ctx, o.cfg.PublishedBranch); err != nil {
		return nil, err
	}
	if err := o.git.Pull(ctx, o.cfg.Remote, o.cfg.PublishedBranch); err != nil {
		return nil, err
	}

	files, err := o.changedMarkdown(ctx, info.Recorded)
	if err != nil {
		return nil, err
	}

	result := &Result{Drift: info.Drift, FilesChanged: len(files)}

	if len(files) == 0 {
		o.logger.Printf("No markdown files to process")
		return result, o.finalize(ctx, result)
	}
	o.logger.Printf("Processing %d changed markdown files", len(files))

	if err := o.git.Checkout(ctx, o.cfg.VaultBranch); err != nil {
		return nil, err
	}

	converted, err := o.convertFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	result.FilesConverted = converted

	if converted > 0 {
		if err := o.git.AddAll(ctx); err != nil {
			return nil, err
		}
		msg := fmt.Sprintf("Sync from wiki: converted %d files", converted)
		if err := o.git.Commit(ctx, msg); err != nil {
			return nil, err
		}
		result.Committed = true
		o.logger.Printf("Synced %d files from wiki to vault format", converted)
	} else {
		o.logger.Printf("No files needed conversion")
	}

	return result, o.finalize(ctx, result)
}

// changedMarkdown computes the file set to convert: every markdown file
// touched since the recorded baseline, or every markdown file in the
// tree when no baseline exists (full-resync fallback). Paths that no
// longer exist in the working tree (deleted since the baseline) are
// skipped.
func (o *Orchestrator) changedMarkdown(ctx context.Context, recorded *string) ([]string, error) {
	var paths []string
	var err error

	if recorded == nil {
		paths, err = o.git.ListFiles(ctx, "*.md")
	} else {
		paths, err = o.git.ChangedFiles(ctx, *recorded, "HEAD")
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, p := range paths {
		if !strings.HasSuffix(p, ".md") {
			continue
		}
		fi, err := os.Stat(filepath.Join(o.git.RepoRoot(), p))
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, p)
	}

	return files, nil
}

// convertFiles materializes each published file into the vault working
// tree and rewrites it, returning how many files conversion modified.
func (o *Orchestrator) convertFiles(ctx context.Context, files []string) (int, error) {
	converted := 0

	for _, file := range files {
		if err := o.git.RestoreFile(ctx, o.cfg.PublishedBranch, file); err != nil {
			return 0, err
		}

		path := filepath.Join(o.git.RepoRoot(), file)
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", file, err)
		}

		newText, changed := convert.Reverse(string(data))
		if !changed {
			continue
		}

		if err := os.WriteFile(path, []byte(newText), 0644); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", file, err)
		}
		o.logger.Printf("Converting: %s", file)
		converted++
	}

	return converted, nil
}

// finalize returns to the published branch, persists the new baseline,
// and records the pass in the journal. Only after the state write
// succeeds is the pass considered complete; an abort before this point
// leaves the previous baseline intact so the next invocation recomputes
// the same drift.
func (o *Orchestrator) finalize(ctx context.Context, result *Result) error {
	if err := o.git.Checkout(ctx, o.cfg.PublishedBranch); err != nil {
		return err
	}

	revision, err := o.git.LocalHead(ctx, o.cfg.PublishedBranch)
	if err != nil {
		return err
	}
	result.Revision = revision

	if err := state.Save(o.statePath(), revision, time.Now()); err != nil {
		return err
	}

	if o.journal != nil {
		if err := o.journal.Record(ctx, revision, result.FilesChanged, result.FilesConverted); err != nil {
			o.logger.Printf("Warning: failed to record pass in journal: %v", err)
		}
	}

	return nil
}

// restoreBranch returns the working tree to the branch that was checked
// out before the run. This is unconditional cleanup: it runs even after
// an abort, and its own failure is logged rather than raised, since the
// priority is not leaving the tree on the wrong branch.
func (o *Orchestrator) restoreBranch(ctx context.Context, original string) {
	current, err := o.git.CurrentBranch(ctx)
	if err != nil {
		o.logger.Printf("Warning: could not determine current branch: %v", err)
		return
	}
	if current == original {
		return
	}
	if err := o.git.Checkout(ctx, original); err != nil {
		o.logger.Printf("Warning: failed to restore branch %s: %v", original, err)
	}
}
