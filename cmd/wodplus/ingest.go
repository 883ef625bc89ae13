package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wodplus/wodplus/internal/fetch"
	"github.com/wodplus/wodplus/internal/ingest"
)

var ingestFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Replace stored workouts with fresh scraper output",
	Long: "Runs the configured scraper command, or reads its output from --file " +
		"(use - for stdin), and replaces every stored workout. Selections, times " +
		"and completions are discarded.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog := newLogger(cfg.Log)
		defer closeLog()

		var opts []appOption
		switch ingestFile {
		case "":
		case "-":
			opts = append(opts, withFetcher(fetch.NewReaderFetcher(cmd.InOrStdin())))
		default:
			opts = append(opts, withFetcher(fetch.NewFileFetcher(ingestFile)))
		}

		a, err := newApp(cmd.Context(), cfg, logger, opts...)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.ingest.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		printIngestResult(cmd, res)
		return nil
	},
}

func printIngestResult(cmd *cobra.Command, res *ingest.Result) {
	out := cmd.OutOrStdout()
	if res.Fallback {
		fmt.Fprintln(out, "Scraper output had no data markers; loaded sample workouts.")
	}
	fmt.Fprintf(out, "Saved %d workouts (%d scraped, %d from recurrences", res.Total(), res.Scraped, res.Materialized)
	if res.Dropped > 0 {
		fmt.Fprintf(out, ", %d entries dropped", res.Dropped)
	}
	fmt.Fprintln(out, ")")
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Read scraper output from a file, or - for stdin")
	rootCmd.AddCommand(ingestCmd)
}
