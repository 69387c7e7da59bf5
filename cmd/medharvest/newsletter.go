package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobbermed/medharvest/internal/config"
	"github.com/jobbermed/medharvest/internal/newsletter"
)

var newsletterDryRun bool

var newsletterCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Build and send the weekly digest",
	Long: "Render the newest jobs from the master file into the digest email and " +
		"send it as a Brevo campaign. --dry-run (or NEWSLETTER_DRY_RUN=true) " +
		"writes the preview without sending.",
	RunE: runNewsletter,
}

func init() {
	newsletterCmd.Flags().BoolVar(&newsletterDryRun, "dry-run", false, "build the preview, skip the Brevo send")
	rootCmd.AddCommand(newsletterCmd)
}

func runNewsletter(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return sendNewsletter(ctx, cfg, newsletterDryRun, logger)
}

func sendNewsletter(ctx context.Context, cfg *config.Config, dryRun bool, logger *slog.Logger) error {
	masterPath := filepath.Join(cfg.Paths.OutputDir, "master_jobs.json")
	jobs, err := newsletter.LoadJobs(masterPath, cfg.Newsletter.Limit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		logger.Info("no jobs in feed, skipping newsletter")
		return nil
	}

	html, err := newsletter.BuildHTML(jobs, cfg.Newsletter.SiteURL)
	if err != nil {
		return err
	}

	previewPath := filepath.Join(cfg.Paths.OutputDir, "newsletter_preview.html")
	if err := newsletter.WritePreview(previewPath, html); err != nil {
		return err
	}
	logger.Info("preview written", "path", previewPath, "jobs", len(jobs))

	if dryRun || newsletter.DryRun() {
		logger.Info("dry run, skipping Brevo send")
		return nil
	}

	creds, err := newsletter.CredentialsFromEnv()
	if err != nil {
		return err
	}

	client := newsletter.NewBrevoClient(creds, logger)
	id, err := client.SendCampaign(ctx, html, len(jobs))
	if err != nil {
		return err
	}
	logger.Info("newsletter sent", "campaign_id", id, "jobs", len(jobs))
	return nil
}
