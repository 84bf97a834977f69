package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wikibridge/wikibridge/internal/sync"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(18)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	driftStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show drift between the published branch and the recorded baseline",
	Long: `Show the current sync state without mutating anything.

Fetches the published branch's remote head and compares it with the
local head and the last recorded baseline, then reports whether a sync
pass would run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, git, err := setup()
		if err != nil {
			return err
		}

		orch := sync.New(git, cfg, nil, nil)

		branch, err := git.CurrentBranch(cmd.Context())
		if err != nil {
			return err
		}

		info, err := orch.CheckDrift(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(labelStyle.Render("Current branch") + branch)
		fmt.Println(labelStyle.Render("Published branch") + cfg.PublishedBranch)
		fmt.Println(labelStyle.Render("Local head") + shortRev(info.LocalHead))
		fmt.Println(labelStyle.Render("Remote head") + shortRev(info.RemoteHead))

		if info.Recorded != nil {
			recorded := shortRev(*info.Recorded)
			if info.LastSync != nil {
				recorded += dimStyle.Render(fmt.Sprintf("  (synced %s)", info.LastSync.Format("2006-01-02 15:04:05")))
			}
			fmt.Println(labelStyle.Render("Recorded baseline") + recorded)
		} else {
			fmt.Println(labelStyle.Render("Recorded baseline") + dimStyle.Render("none"))
		}

		if info.Drift.Detected() {
			fmt.Println(labelStyle.Render("Drift") + driftStyle.Render(info.Drift.String()+" (sync needed)"))
		} else {
			fmt.Println(labelStyle.Render("Drift") + okStyle.Render("none, up to date"))
		}
		return nil
	},
}

func shortRev(rev string) string {
	if len(rev) > 8 {
		return rev[:8]
	}
	return rev
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
