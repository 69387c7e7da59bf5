package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the medharvest pipeline.
type Config struct {
	Paths      PathsConfig
	Scrapers   []ScraperConfig
	Extraction ExtractionConfig
	AI         AIConfig
	Newsletter NewsletterConfig
	SeenStore  SeenStoreConfig
}

// PathsConfig locates the working directories.
type PathsConfig struct {
	JSONDir   string `yaml:"json_dir"`   // raw snapshots
	OutputDir string `yaml:"output_dir"` // master jobs + cache
}

// ScraperConfig describes a single site adapter.
type ScraperConfig struct {
	Name        string         `yaml:"name"`
	Enabled     bool           `yaml:"enabled"`
	MaxPages    int            `yaml:"max_pages"`
	RateLimit   time.Duration  // minimum gap between page fetches
	Professions map[string]int `yaml:"professions"` // medicalworldnigeria only
}

// ExtractionConfig bounds the LLM extraction pass.
type ExtractionConfig struct {
	Model      string
	MaxAgeDays int
	MaxJobs    int // 0 = unlimited
	Sleep      time.Duration
}

// AIConfig controls the OpenAI extraction backend.
type AIConfig struct {
	BaseURL string // defaults to https://api.openai.com/v1
	APIKey  string // expanded from env var by Load
	Timeout time.Duration
}

// NewsletterConfig controls the weekly digest. Brevo credentials come from
// the environment, not the config file.
type NewsletterConfig struct {
	Limit   int    `yaml:"limit"` // newest N jobs in the digest
	SiteURL string `yaml:"site_url"`
}

// SeenStoreConfig controls the scraped-listing skip store.
type SeenStoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	MaxAge  time.Duration
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rawConfig is used for YAML unmarshaling (snake_case fields, durations as strings).
type rawConfig struct {
	Paths      PathsConfig        `yaml:"paths"`
	Scrapers   []rawScraperConfig `yaml:"scrapers"`
	Extraction rawExtraction      `yaml:"extraction"`
	AI         rawAIConfig        `yaml:"ai"`
	Newsletter NewsletterConfig   `yaml:"newsletter"`
	SeenStore  rawSeenStore       `yaml:"seen_store"`
}

type rawScraperConfig struct {
	Name        string         `yaml:"name"`
	Enabled     bool           `yaml:"enabled"`
	MaxPages    int            `yaml:"max_pages"`
	RateLimit   string         `yaml:"rate_limit"`
	Professions map[string]int `yaml:"professions"`
}

type rawExtraction struct {
	Model      string `yaml:"model"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxJobs    int    `yaml:"max_jobs"`
	Sleep      string `yaml:"sleep"`
}

type rawAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

type rawSeenStore struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	MaxAge  string `yaml:"max_age"`
}

// Load reads the YAML config at path, expands environment variables (a .env
// file is loaded first when present), applies defaults, validates, and
// returns the immutable Config.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env is fine, real env vars still apply.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		Paths:      raw.Paths,
		Newsletter: raw.Newsletter,
	}

	if cfg.Paths.JSONDir == "" {
		cfg.Paths.JSONDir = "json"
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = "output"
	}

	for _, rs := range raw.Scrapers {
		sc := ScraperConfig{
			Name:        rs.Name,
			Enabled:     rs.Enabled,
			MaxPages:    rs.MaxPages,
			Professions: rs.Professions,
		}
		sc.RateLimit = 2 * time.Second // default politeness gap
		if rs.RateLimit != "" {
			d, err := time.ParseDuration(rs.RateLimit)
			if err != nil {
				return nil, fmt.Errorf("parse scrapers[%q].rate_limit %q: %w", rs.Name, rs.RateLimit, err)
			}
			sc.RateLimit = d
		}
		cfg.Scrapers = append(cfg.Scrapers, sc)
	}

	cfg.Extraction = ExtractionConfig{
		Model:      raw.Extraction.Model,
		MaxAgeDays: raw.Extraction.MaxAgeDays,
		MaxJobs:    raw.Extraction.MaxJobs,
		Sleep:      500 * time.Millisecond,
	}
	if cfg.Extraction.Model == "" {
		cfg.Extraction.Model = "gpt-4o-mini"
	}
	if cfg.Extraction.MaxAgeDays == 0 {
		cfg.Extraction.MaxAgeDays = 61
	}
	if raw.Extraction.Sleep != "" {
		d, err := time.ParseDuration(raw.Extraction.Sleep)
		if err != nil {
			return nil, fmt.Errorf("parse extraction.sleep %q: %w", raw.Extraction.Sleep, err)
		}
		cfg.Extraction.Sleep = d
	}

	cfg.AI = AIConfig{
		BaseURL: raw.AI.BaseURL,
		APIKey:  raw.AI.APIKey,
		Timeout: 60 * time.Second,
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if raw.AI.Timeout != "" {
		d, err := time.ParseDuration(raw.AI.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse ai.timeout %q: %w", raw.AI.Timeout, err)
		}
		cfg.AI.Timeout = d
	}

	if cfg.Newsletter.Limit == 0 {
		cfg.Newsletter.Limit = 20
	}
	if cfg.Newsletter.SiteURL == "" {
		cfg.Newsletter.SiteURL = "https://jobbermed.com"
	}

	cfg.SeenStore = SeenStoreConfig{
		Enabled: raw.SeenStore.Enabled,
		Path:    raw.SeenStore.Path,
		MaxAge:  90 * 24 * time.Hour,
	}
	if cfg.SeenStore.Path == "" {
		cfg.SeenStore.Path = "scraped.db"
	}
	if raw.SeenStore.MaxAge != "" {
		d, err := time.ParseDuration(raw.SeenStore.MaxAge)
		if err != nil {
			return nil, fmt.Errorf("parse seen_store.max_age %q: %w", raw.SeenStore.MaxAge, err)
		}
		cfg.SeenStore.MaxAge = d
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ScraperByName returns the config block for a named scraper.
func (c *Config) ScraperByName(name string) (ScraperConfig, bool) {
	for _, s := range c.Scrapers {
		if s.Name == name {
			return s, true
		}
	}
	return ScraperConfig{}, false
}

// EnabledScrapers returns the names of all enabled scrapers in config order.
func (c *Config) EnabledScrapers() []string {
	var names []string
	for _, s := range c.Scrapers {
		if s.Enabled {
			names = append(names, s.Name)
		}
	}
	return names
}

func validate(cfg *Config) error {
	if len(cfg.Scrapers) == 0 {
		return fmt.Errorf("at least one scraper must be configured")
	}
	seen := make(map[string]bool)
	for _, s := range cfg.Scrapers {
		if s.Name == "" {
			return fmt.Errorf("scraper entries must have a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate scraper name %q", s.Name)
		}
		seen[s.Name] = true
		if s.RateLimit < 0 {
			return fmt.Errorf("scrapers[%q].rate_limit must not be negative", s.Name)
		}
	}

	if cfg.Extraction.MaxAgeDays < 1 {
		return fmt.Errorf("extraction.max_age_days must be positive, got %d", cfg.Extraction.MaxAgeDays)
	}
	if cfg.Extraction.MaxJobs < 0 {
		return fmt.Errorf("extraction.max_jobs must not be negative, got %d", cfg.Extraction.MaxJobs)
	}
	if cfg.Newsletter.Limit < 1 {
		return fmt.Errorf("newsletter.limit must be positive, got %d", cfg.Newsletter.Limit)
	}
	return nil
}
