// Command wikibridge keeps an Obsidian-style note vault and a published
// wiki synchronized over git branches.
//
// The vault lives on one branch and is edited in a rich markdown editor;
// the wiki lives on another branch, mirrored to a remote, and uses a
// different link dialect. wikibridge implements the reverse direction:
// it detects wiki-side changes, rewrites their links into the vault
// dialect, and commits the result to the vault branch without ever
// re-syncing its own commits.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wikibridge/wikibridge/internal/config"
	"github.com/wikibridge/wikibridge/internal/history"
	"github.com/wikibridge/wikibridge/internal/sync"
	"github.com/wikibridge/wikibridge/internal/vcs"
)

var repoPath string

var rootCmd = &cobra.Command{
	Use:   "wikibridge",
	Short: "Sync a published wiki branch back into an Obsidian-style vault branch",
	Long: `wikibridge synchronizes a note vault and a published wiki that share
one git repository, using branches as the transport.

The sync is loop-avoiding: each pass records the published revision it
processed, so the commits a pass creates never trigger another pass.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "C", ".", "path to the wiki repository")
}

// setup builds the configuration and git client for the repository.
func setup() (*config.Config, *vcs.Git, error) {
	git, err := vcs.New(repoPath, 0)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(git.RepoRoot())
	if err != nil {
		return nil, nil, err
	}

	if cfg.CommandTimeout != vcs.DefaultTimeout {
		git, err = vcs.New(git.RepoRoot(), cfg.CommandTimeout)
		if err != nil {
			return nil, nil, err
		}
	}

	return cfg, git, nil
}

// buildOrchestrator wires the orchestrator with its journal. A journal
// that fails to open is reported and skipped; it never blocks syncing.
func buildOrchestrator(logger *log.Logger) (*sync.Orchestrator, func(), error) {
	cfg, git, err := setup()
	if err != nil {
		return nil, nil, err
	}

	var journal sync.Journal
	cleanup := func() {}

	db, err := history.Open(filepath.Join(git.RepoRoot(), cfg.HistoryFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: sync journal unavailable: %v\n", err)
	} else {
		journal = db
		cleanup = func() { _ = db.Close() }
	}

	return sync.New(git, cfg, logger, journal), cleanup, nil
}
