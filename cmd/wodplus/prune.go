package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wodplus/wodplus/internal/domain/activity"
)

var pruneDays int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete workouts older than a number of days",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if pruneDays < 1 {
			return fmt.Errorf("--days must be at least 1")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog := newLogger(cfg.Log)
		defer closeLog()

		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		cutoff := activity.DateOf(time.Now().In(a.loc)).AddDays(-pruneDays)
		n, err := a.activities.PruneBefore(cmd.Context(), cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d workouts dated before %s.\n", n, cutoff)
		return nil
	},
}

func init() {
	pruneCmd.Flags().IntVar(&pruneDays, "days", 90, "Keep workouts from this many days back")
	rootCmd.AddCommand(pruneCmd)
}
