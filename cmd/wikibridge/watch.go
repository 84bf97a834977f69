package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wikibridge/wikibridge/internal/daemon"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run sync passes continuously until interrupted",
	Long: `Watch the repository's git bookkeeping for published-branch updates
and run a sync pass whenever one is observed, plus on a periodic
fallback interval. An initial pass runs immediately.

When log_file is configured, output goes to a rotating log file instead
of stderr. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, git, err := setup()
		if err != nil {
			return err
		}

		logger := log.New(os.Stderr, "[watch] ", log.LstdFlags)
		if cfg.LogFile != "" {
			logger.SetOutput(&lumberjack.Logger{
				Filename:   filepath.Join(git.RepoRoot(), cfg.LogFile),
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			})
		}

		orch, cleanup, err := buildOrchestrator(logger)
		if err != nil {
			return err
		}
		defer cleanup()

		d, err := daemon.New(git.RepoRoot(), cfg.Remote, cfg.PublishedBranch,
			func(ctx context.Context) error {
				_, err := orch.Run(ctx)
				return err
			},
			&daemon.Config{
				Interval: cfg.WatchInterval,
				Debounce: 2 * time.Second,
				Logger:   logger,
			})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := d.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
