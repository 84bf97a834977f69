package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wikibridge/wikibridge/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync passes",
	Long:  `List recent completed sync passes from the local journal, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, git, err := setup()
		if err != nil {
			return err
		}

		db, err := history.Open(filepath.Join(git.RepoRoot(), cfg.HistoryFile))
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No sync passes recorded yet")
			return nil
		}

		timeStyle := lipgloss.NewStyle().Faint(true)
		for _, e := range entries {
			fmt.Printf("%s  %s  %d changed, %d converted\n",
				timeStyle.Render(e.FinishedAt.Local().Format("2006-01-02 15:04:05")),
				shortRev(e.Revision),
				e.FilesChanged,
				e.FilesConverted)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of passes to show")
	rootCmd.AddCommand(historyCmd)
}
