package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jobbermed/medharvest/internal/model"
	"github.com/jobbermed/medharvest/internal/ratelimit"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client is the shared page fetcher for all site scrapers: one http.Client,
// browser-like headers, per-host politeness delay.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.HostRateLimiter
	logger     *slog.Logger
}

// NewClient wraps httpClient with the given per-host limiter.
func NewClient(httpClient *http.Client, limiter *ratelimit.HostRateLimiter, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// GetPage fetches one page as a string. A non-200 status is returned as a
// model.HTTPError; callers treat any error as "no data from this page" and
// keep going.
func (c *Client) GetPage(ctx context.Context, pageURL string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, hostOf(pageURL)); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("fetch %s", pageURL),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(body), nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
