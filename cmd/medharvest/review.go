package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jobbermed/medharvest/internal/newsletter"
	"github.com/jobbermed/medharvest/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse the master jobs feed interactively",
	Long:  "Open a terminal browser over the master jobs file, with a category filter and per-job detail view.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	masterPath := filepath.Join(cfg.Paths.OutputDir, "master_jobs.json")
	jobs, err := newsletter.LoadJobs(masterPath, 0)
	if err != nil {
		return err
	}

	return review.Run(jobs)
}
