package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "List pending reminders",
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		tasks, err := a.scheduler.Pending(cmd.Context())
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No pending reminders.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ACTIVITY\tFIRES AT")
		for _, t := range tasks {
			fmt.Fprintf(tw, "%d\t%s\n", t.ActivityID, t.FireAt.In(a.loc).Format(time.DateTime))
		}
		return tw.Flush()
	},
}

var remindersFireCmd = &cobra.Command{
	Use:   "fire",
	Short: "Fire every reminder that is already due and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
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

		n, err := a.runner.FireDue(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Fired %d reminders.\n", n)
		return nil
	},
}

func init() {
	remindersCmd.AddCommand(remindersFireCmd)
	rootCmd.AddCommand(remindersCmd)
}
