package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wikibridge/wikibridge/internal/config"
	"github.com/wikibridge/wikibridge/internal/vcs"
)

var initYes bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare a repository for bidirectional sync",
	Long: `Prepare the current repository for wikibridge:

  1. Verify the vault, forward-tracking and published branches exist,
     offering to create any that are missing
  2. Write a default .wikibridge.yaml if none exists
  3. Add the sync state and journal files to .gitignore`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, git, err := setup()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var missing []string
		for _, branch := range cfg.RequiredBranches() {
			if !git.BranchExists(ctx, branch) {
				missing = append(missing, branch)
			}
		}

		if len(missing) > 0 {
			create := initYes
			if !create {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("missing required branches: %s (re-run with --yes to create them)",
						strings.Join(missing, ", "))
				}
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Create missing branches: %s?", strings.Join(missing, ", "))).
					Value(&create).
					Run()
				if err != nil {
					return err
				}
			}
			if !create {
				return fmt.Errorf("cannot continue without branches: %s", strings.Join(missing, ", "))
			}
			for _, branch := range missing {
				if err := git.CreateBranch(ctx, branch); err != nil {
					return fmt.Errorf("failed to create branch %s: %w", branch, err)
				}
				fmt.Printf("Created branch %s\n", branch)
			}
		} else {
			fmt.Println("All required branches exist")
		}

		cfgPath := filepath.Join(git.RepoRoot(), config.FileName)
		if _, err := os.Stat(cfgPath); err == nil {
			fmt.Printf("Keeping existing config at %s\n", cfgPath)
		} else {
			path, err := config.WriteDefault(git.RepoRoot())
			if err != nil {
				return err
			}
			fmt.Printf("Wrote default config to %s\n", path)
		}

		if err := ensureIgnored(git, cfg); err != nil {
			return err
		}

		fmt.Println("Repository is ready; run \"wikibridge sync\" to perform the first pass")
		return nil
	},
}

// ensureIgnored keeps the sync state and journal out of version
// control, appending to .gitignore only the entries it is missing.
func ensureIgnored(git *vcs.Git, cfg *config.Config) error {
	entries := []string{
		cfg.StateFile,
		filepath.Dir(cfg.HistoryFile) + "/",
	}

	path := filepath.Join(git.RepoRoot(), ".gitignore")
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read .gitignore: %w", err)
	}

	var add []string
	for _, entry := range entries {
		if !containsLine(string(existing), entry) {
			add = append(add, entry)
		}
	}
	if len(add) == 0 {
		fmt.Println(".gitignore already covers sync files")
		return nil
	}

	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n# wikibridge sync state\n")
	for _, entry := range add {
		b.WriteString(entry + "\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to update .gitignore: %w", err)
	}
	fmt.Printf("Added %d entries to .gitignore\n", len(add))
	return nil
}

func containsLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "create missing branches without prompting")
	rootCmd.AddCommand(initCmd)
}
