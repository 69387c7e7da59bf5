package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobbermed/medharvest/internal/ai"
	"github.com/jobbermed/medharvest/internal/cache"
	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/extract"
)

var (
	extractJSONDir string
	extractInput   string
	extractOut     string
	extractModel   string
	extractSleep   time.Duration
	extractMax     int
	extractMaxAge  int
	extractToday   string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Normalize a raw snapshot into the master jobs file",
	Long: "Run the LLM extraction pass over the latest raw snapshot: age filter, " +
		"cache lookup, field extraction, deadline resolution, dedup, master file write.",
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractJSONDir, "json-dir", "", "raw snapshot directory (default: paths.json_dir)")
	extractCmd.Flags().StringVar(&extractInput, "input", "", "raw snapshot path (default: <json-dir>/raw_jobs.json)")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "master file path (default: <output_dir>/master_jobs.json)")
	extractCmd.Flags().StringVar(&extractModel, "model", "", "override the extraction model")
	extractCmd.Flags().DurationVar(&extractSleep, "sleep", 0, "override the pause between LLM calls")
	extractCmd.Flags().IntVar(&extractMax, "max", 0, "cap the number of jobs processed (0 = config value)")
	extractCmd.Flags().IntVar(&extractMaxAge, "max-age-days", 0, "override the posting age cutoff in days")
	extractCmd.Flags().StringVar(&extractToday, "today", "", "override today's date for age filtering (YYYY-MM-DD)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if extractModel != "" {
		cfg.Extraction.Model = extractModel
	}
	if extractSleep > 0 {
		cfg.Extraction.Sleep = extractSleep
	}
	if extractMax > 0 {
		cfg.Extraction.MaxJobs = extractMax
	}
	if extractMaxAge > 0 {
		cfg.Extraction.MaxAgeDays = extractMaxAge
	}
	if extractJSONDir != "" {
		cfg.Paths.JSONDir = extractJSONDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := extractSnapshot(ctx, cfg, extractInput, extractOut, extractToday, logger)
	if err != nil {
		return err
	}
	logger.Info("extraction complete",
		"total", stats.TotalJobs,
		"processed", stats.Processed,
		"cache_hits", stats.CacheHits,
		"duplicates_removed", stats.DuplicatesRemoved,
		"errors", stats.Errors,
	)
	return nil
}

func extractSnapshot(ctx context.Context, cfg *config.Config, input, out, today string, logger *slog.Logger) (extract.Stats, error) {
	if cfg.AI.APIKey == "" {
		return extract.Stats{}, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	if input == "" {
		input = filepath.Join(cfg.Paths.JSONDir, "raw_jobs.json")
	}
	if out == "" {
		out = filepath.Join(cfg.Paths.OutputDir, "master_jobs.json")
	}

	params := extract.RunParams{InputPath: input, OutputPath: out}
	if today != "" {
		d, err := time.Parse("2006-01-02", today)
		if err != nil {
			return extract.Stats{}, fmt.Errorf("invalid --today %q: %w", today, err)
		}
		params.Today = d
	}

	provider := ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.Extraction.Model,
		&http.Client{Timeout: cfg.AI.Timeout})
	extractor := ai.NewExtractor(provider)
	fileCache := cache.Open(filepath.Join(cfg.Paths.OutputDir, "extraction_cache.json"))

	engine := extract.NewEngine(extractor, fileCache, cfg.Extraction, logger)
	return engine.Run(ctx, params)
}
