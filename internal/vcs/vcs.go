// Package vcs provides the version control collaborator for wikibridge.
//
// Version control is treated as a black-box transport: the sync
// orchestrator needs a small set of branch and file operations and
// nothing else. The Client interface captures exactly that set, so the
// whole sync pass can be tested by substituting a fake implementation.
//
// The only real implementation shells out to the git binary. Every call
// is blocking and all-or-nothing, with a fixed timeout; a timeout is
// treated identically to a hard failure.
package vcs

import "context"

// Client defines the version control operations the sync orchestrator
// depends on. All operations act on a single repository working tree.
type Client interface {
	// RepoRoot returns the repository root directory path.
	RepoRoot() string

	// CurrentBranch returns the name of the currently checked out branch.
	CurrentBranch(ctx context.Context) (string, error)

	// BranchExists returns true if the named local branch exists.
	BranchExists(ctx context.Context, name string) bool

	// CreateBranch creates a new branch at the current HEAD.
	CreateBranch(ctx context.Context, name string) error

	// LocalHead returns the head revision of a local branch.
	LocalHead(ctx context.Context, branch string) (string, error)

	// RemoteHead fetches the branch from the remote and returns the
	// fetched head revision.
	RemoteHead(ctx context.Context, remote, branch string) (string, error)

	// Checkout switches the working tree to the named branch.
	Checkout(ctx context.Context, branch string) error

	// Pull updates the named branch from the remote.
	Pull(ctx context.Context, remote, branch string) error

	// ChangedFiles lists the paths touched between two revisions.
	ChangedFiles(ctx context.Context, from, to string) ([]string, error)

	// ListFiles lists all tracked paths matching the pathspec pattern
	// on the current branch.
	ListFiles(ctx context.Context, pattern string) ([]string, error)

	// RestoreFile materializes the named branch's version of path into
	// the working tree.
	RestoreFile(ctx context.Context, branch, path string) error

	// AddAll stages every change in the working tree.
	AddAll(ctx context.Context) error

	// Commit creates a commit from the staged changes.
	Commit(ctx context.Context, message string) error
}
