package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/model"
	"github.com/jobbermed/medharvest/internal/ratelimit"
	"github.com/jobbermed/medharvest/internal/scraper"
	"github.com/jobbermed/medharvest/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "medharvest",
	Short: "Nigerian medical jobs pipeline",
	Long:  "MedHarvest scrapes Nigerian medical job boards, normalizes listings with an LLM, and ships a weekly email digest.",
	// Default to `run` so that `medharvest` with no args executes the full
	// pipeline, matching how the cron entry invokes the binary.
	RunE: runPipeline,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: MEDHARVEST_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > MEDHARVEST_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("MEDHARVEST_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// openSeenStore returns the listing skip store plus a close func. A disabled
// store degrades to a no-op so every listing is re-fetched.
func openSeenStore(cfg *config.Config, logger *slog.Logger) (model.SeenStore, func(), error) {
	if !cfg.SeenStore.Enabled {
		return store.NewNopStore(), func() {}, nil
	}

	sqlStore, err := store.NewSQLiteStore(cfg.SeenStore.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open seen store: %w", err)
	}
	if err := sqlStore.Cleanup(cfg.SeenStore.MaxAge); err != nil {
		logger.Warn("seen store cleanup failed", "error", err)
	}
	return sqlStore, func() { sqlStore.Close() }, nil
}

// buildScrapers wires one site adapter per enabled scraper config.
func buildScrapers(cfg *config.Config, seen model.SeenStore, logger *slog.Logger) []model.Scraper {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	var scrapers []model.Scraper
	for _, sc := range cfg.Scrapers {
		if !sc.Enabled {
			continue
		}

		// Each site gets its own limiter so one slow board never
		// throttles the others.
		client := scraper.NewClient(httpClient, ratelimit.NewHostRateLimiter(sc.RateLimit), logger)

		switch sc.Name {
		case "medlocum":
			scrapers = append(scrapers, scraper.NewMedlocumScraper(sc, client, logger))
		case "jobsinnigeria":
			scrapers = append(scrapers, scraper.NewJobsInNigeriaScraper(sc, client, seen, logger))
		case "medicalworldnigeria":
			scrapers = append(scrapers, scraper.NewMedicalWorldScraper(sc, client, seen, logger))
		default:
			logger.Warn("unsupported scraper, skipping", "name", sc.Name)
			continue
		}
		logger.Info("registered scraper", "name", sc.Name, "max_pages", sc.MaxPages)
	}
	return scrapers
}

func filterScrapers(scrapers []model.Scraper, only []string) []model.Scraper {
	if len(only) == 0 {
		return scrapers
	}
	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}
	var out []model.Scraper
	for _, s := range scrapers {
		if wanted[s.Name()] {
			out = append(out, s)
		}
	}
	return out
}
