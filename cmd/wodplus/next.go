package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next selected workout",
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

		next, ok, err := a.activities.Next(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintln(out, "No upcoming workout selected.")
			return nil
		}
		start, _ := next.StartsAt(a.loc)
		fmt.Fprintf(out, "%s %s  %s (%s)\n", next.Date, next.Time, next.SourceName, start.Format(time.RFC1123))
		if next.Content != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, next.Content)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
