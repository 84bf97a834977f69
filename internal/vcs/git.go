package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds every git invocation. It matches the transport
// contract: a command that has not finished by then is a hard failure.
const DefaultTimeout = 5 * time.Minute

// Git implements Client by shelling out to the git binary.
type Git struct {
	// repoRoot is the repository root directory path
	repoRoot string

	// timeout bounds each git invocation
	timeout time.Duration
}

// New creates a Git client for the repository containing path.
// Returns ErrNotInRepo if path is not inside a git working tree and
// ErrGitNotAvailable if the git binary cannot be found.
func New(path string, timeout time.Duration) (*Git, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, ErrGitNotAvailable
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	g := &Git{repoRoot: absPath, timeout: timeout}

	output, err := g.run(context.Background(), "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, ErrNotInRepo
	}
	g.repoRoot = TrimOutput(output)

	return g, nil
}

// run executes a git command in the repository root.
func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	output, err := ExecContext(ctx, g.timeout, g.repoRoot, "git", args...)
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return output, nil
}

// RepoRoot returns the repository root directory path.
func (g *Git) RepoRoot() string {
	return g.repoRoot
}

// CurrentBranch returns the current branch name.
// Returns ErrDetached if HEAD is not on a branch.
func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	output, err := g.run(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("%w (%v)", ErrDetached, err)
	}
	return TrimOutput(output), nil
}

// BranchExists returns true if the named local branch exists.
func (g *Git) BranchExists(ctx context.Context, name string) bool {
	_, err := g.run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// CreateBranch creates a new branch at the current HEAD.
func (g *Git) CreateBranch(ctx context.Context, name string) error {
	if g.BranchExists(ctx, name) {
		return ErrBranchExists
	}
	_, err := g.run(ctx, "branch", name)
	return err
}

// LocalHead returns the head revision of a local branch.
func (g *Git) LocalHead(ctx context.Context, branch string) (string, error) {
	output, err := g.run(ctx, "rev-parse", "--verify", branch)
	if err != nil {
		return "", err
	}
	return TrimOutput(output), nil
}

// RemoteHead fetches branch from remote and returns the fetched head
// revision. The fetch is always performed so drift detection sees the
// actual remote state, not a stale remote-tracking ref.
func (g *Git) RemoteHead(ctx context.Context, remote, branch string) (string, error) {
	if _, err := g.run(ctx, "fetch", remote, branch); err != nil {
		return "", err
	}

	output, err := g.run(ctx, "rev-parse", "--verify", remote+"/"+branch)
	if err != nil {
		return "", err
	}
	return TrimOutput(output), nil
}

// Checkout switches the working tree to the named branch.
func (g *Git) Checkout(ctx context.Context, branch string) error {
	_, err := g.run(ctx, "checkout", branch)
	return err
}

// Pull updates the named branch from the remote.
func (g *Git) Pull(ctx context.Context, remote, branch string) error {
	_, err := g.run(ctx, "pull", remote, branch)
	return err
}

// ChangedFiles lists the paths touched between two revisions.
func (g *Git) ChangedFiles(ctx context.Context, from, to string) ([]string, error) {
	output, err := g.run(ctx, "diff", "--name-only", from, to)
	if err != nil {
		return nil, err
	}
	return ParseLines(output), nil
}

// ListFiles lists all tracked paths matching the pathspec pattern on
// the current branch.
func (g *Git) ListFiles(ctx context.Context, pattern string) ([]string, error) {
	output, err := g.run(ctx, "ls-files", "--", pattern)
	if err != nil {
		return nil, err
	}
	return ParseLines(output), nil
}

// RestoreFile materializes the named branch's version of path into the
// working tree.
func (g *Git) RestoreFile(ctx context.Context, branch, path string) error {
	_, err := g.run(ctx, "checkout", branch, "--", path)
	return err
}

// AddAll stages every change in the working tree.
func (g *Git) AddAll(ctx context.Context) error {
	_, err := g.run(ctx, "add", "--all")
	return err
}

// Commit creates a commit from the staged changes.
func (g *Git) Commit(ctx context.Context, message string) error {
	if message == "" {
		return fmt.Errorf("commit message is required")
	}
	_, err := g.run(ctx, "commit", "-m", message)
	return err
}
