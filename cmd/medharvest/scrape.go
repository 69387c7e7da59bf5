package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/scraper"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [scraper...]",
	Short: "Scrape job boards into a raw snapshot",
	Long: "Scrape all enabled job boards (or just the named ones) and write the " +
		"combined snapshot to the configured json directory.",
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := scrapeAll(ctx, cfg, args, logger)
	if err != nil {
		return err
	}
	if scraper.Failed(results) {
		return fmt.Errorf("one or more scrapers failed")
	}
	return nil
}

func scrapeAll(ctx context.Context, cfg *config.Config, only []string, logger *slog.Logger) (map[string]scraper.SourceResult, error) {
	seen, closeSeen, err := openSeenStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeSeen()

	scrapers := filterScrapers(buildScrapers(cfg, seen, logger), only)
	if len(scrapers) == 0 {
		return nil, fmt.Errorf("no scrapers to run")
	}

	runner := scraper.NewRunner(scrapers, cfg.Paths.JSONDir, logger)
	return runner.Run(ctx)
}
