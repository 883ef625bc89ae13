package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wodplus/wodplus/internal/config"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "wodplus",
	Short: "wodplus plans workouts from scraped WODs and reminds you before each one",
	Long: "wodplus ingests the workouts of the day published by the gyms you follow, " +
		"lets you pick the ones you will attend and fires a reminder before they start.",
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (default $WODPLUS_CONFIG_PATH)")
	rootCmd.Version = version
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}
