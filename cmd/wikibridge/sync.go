package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one wiki-to-vault sync pass",
	Long: `Run a single drift-check-and-sync pass.

The pass compares the recorded baseline against the local and remote
heads of the published branch. When drift is detected it:

  1. Pulls the published branch to the latest remote state
  2. Computes the markdown files changed since the last recorded revision
     (or every markdown file, if never synced)
  3. Materializes each file onto the vault branch and rewrites its links
     into the vault dialect
  4. Commits the converted files as a single commit
  5. Records the new baseline so this pass is never reprocessed

Without drift the pass does nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, cleanup, err := buildOrchestrator(nil)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := orch.Run(cmd.Context())
		if err != nil {
			return err
		}

		if !result.Drift.Detected() {
			fmt.Println("No external changes detected; nothing to do")
			return nil
		}

		if result.Committed {
			fmt.Printf("Synced %d of %d changed files to the vault branch (baseline %.8s)\n",
				result.FilesConverted, result.FilesChanged, result.Revision)
		} else {
			fmt.Printf("Examined %d changed files; none needed conversion (baseline %.8s)\n",
				result.FilesChanged, result.Revision)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
