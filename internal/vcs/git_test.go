package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// initTestRepo creates a throwaway git repository with one commit on
// branch "master" and returns its path.
func initTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if output, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, output)
		}
	}

	run("init", "-b", "master")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	run("config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(dir, "Home.md"), []byte("# Home\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	run("add", "--all")
	run("commit", "-m", "initial")

	return dir
}

func TestNewOutsideRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	if _, err := New(t.TempDir(), time.Minute); !errors.Is(err, ErrNotInRepo) {
		t.Errorf("Expected ErrNotInRepo, got %v", err)
	}
}

func TestCurrentBranchAndHeads(t *testing.T) {
	dir := initTestRepo(t)
	ctx := context.Background()

	g, err := New(dir, time.Minute)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "master" {
		t.Errorf("Expected master, got %q", branch)
	}

	head, err := g.LocalHead(ctx, "master")
	if err != nil {
		t.Fatalf("LocalHead failed: %v", err)
	}
	if len(head) != 40 {
		t.Errorf("Expected full commit hash, got %q", head)
	}
}

func TestBranchLifecycle(t *testing.T) {
	dir := initTestRepo(t)
	ctx := context.Background()

	g, err := New(dir, time.Minute)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if g.BranchExists(ctx, "obsidian") {
		t.Fatal("Branch should not exist yet")
	}
	if err := g.CreateBranch(ctx, "obsidian"); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}
	if !g.BranchExists(ctx, "obsidian") {
		t.Error("Branch should exist after create")
	}
	if err := g.CreateBranch(ctx, "obsidian"); !errors.Is(err, ErrBranchExists) {
		t.Errorf("Expected ErrBranchExists, got %v", err)
	}

	if err := g.Checkout(ctx, "obsidian"); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "obsidian" {
		t.Errorf("Expected obsidian, got %q", branch)
	}
}

func TestChangedFilesAndListFiles(t *testing.T) {
	dir := initTestRepo(t)
	ctx := context.Background()

	g, err := New(dir, time.Minute)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	base, err := g.LocalHead(ctx, "master")
	if err != nil {
		t.Fatalf("LocalHead failed: %v", err)
	}

	// Second commit touching a new markdown file and a non-markdown file
	if err := os.WriteFile(filepath.Join(dir, "Setup.md"), []byte("# Setup\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), []byte{0x89}, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := g.AddAll(ctx); err != nil {
		t.Fatalf("AddAll failed: %v", err)
	}
	if err := g.Commit(ctx, "add setup page"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	changed, err := g.ChangedFiles(ctx, base, "HEAD")
	if err != nil {
		t.Fatalf("ChangedFiles failed: %v", err)
	}
	if len(changed) != 2 {
		t.Errorf("Expected 2 changed files, got %v", changed)
	}

	mdFiles, err := g.ListFiles(ctx, "*.md")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(mdFiles) != 2 {
		t.Errorf("Expected 2 markdown files, got %v", mdFiles)
	}
	for _, f := range mdFiles {
		if filepath.Ext(f) != ".md" {
			t.Errorf("Unexpected non-markdown file %q", f)
		}
	}
}

func TestRestoreFile(t *testing.T) {
	dir := initTestRepo(t)
	ctx := context.Background()

	g, err := New(dir, time.Minute)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := g.CreateBranch(ctx, "obsidian"); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}

	// Advance master with new content
	if err := os.WriteFile(filepath.Join(dir, "Home.md"), []byte("# Home\n\nupdated\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := g.AddAll(ctx); err != nil {
		t.Fatalf("AddAll failed: %v", err)
	}
	if err := g.Commit(ctx, "update home"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// The obsidian branch still has the old version; materialize
	// master's version into its working tree.
	if err := g.Checkout(ctx, "obsidian"); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if err := g.RestoreFile(ctx, "master", "Home.md"); err != nil {
		t.Fatalf("RestoreFile failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "Home.md"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "# Home\n\nupdated\n" {
		t.Errorf("Expected master's version, got %q", data)
	}
}
