package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobbermed/medharvest/internal/scraper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: scrape then extract",
	Long: "Scrape every enabled job board, then run the LLM extraction pass over " +
		"the fresh snapshot. The newsletter stays a separate step so sends keep " +
		"their own schedule.",
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := scrapeAll(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	if scraper.Failed(results) {
		// A partial snapshot is still worth extracting; flag the failure
		// after the pipeline completes.
		logger.Warn("some scrapers failed, continuing with partial snapshot")
	}

	stats, err := extractSnapshot(ctx, cfg, "", "", "", logger)
	if err != nil {
		return err
	}
	logger.Info("pipeline complete",
		"scraped_sources", len(results),
		"jobs_in_feed", stats.Processed-stats.DuplicatesRemoved,
		"errors", stats.Errors,
	)

	if scraper.Failed(results) {
		return fmt.Errorf("one or more scrapers failed")
	}
	return nil
}
