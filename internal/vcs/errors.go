package vcs

import "errors"

// Common errors returned by VCS operations.
//
// These errors can be checked using errors.Is() for proper error handling:
//
//	if errors.Is(err, vcs.ErrBranchNotFound) {
//	    // Handle missing required branch
//	}
var (
	// ErrNotInRepo is returned when the operation requires being inside
	// a git repository but none was found.
	ErrNotInRepo = errors.New("not in a git repository")

	// ErrGitNotAvailable is returned when the git binary is not
	// installed or not in PATH.
	ErrGitNotAvailable = errors.New("git binary not available")

	// ErrBranchNotFound is returned when a required branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrBranchExists is returned when attempting to create a branch
	// that already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrDetached is returned when an operation requires being on a
	// branch but HEAD is detached.
	ErrDetached = errors.New("not on a branch")

	// ErrTimeout is returned when a git operation exceeds its timeout.
	// Timeouts are terminal for the invocation, never retried.
	ErrTimeout = errors.New("operation timed out")
)
