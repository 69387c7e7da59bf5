package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"
)

const defaultBrevoBaseURL = "https://api.brevo.com"

// Credentials holds everything needed to send a campaign through Brevo.
type Credentials struct {
	APIKey      string
	ListID      int64
	SenderEmail string
	SenderName  string
}

// CredentialsFromEnv reads Brevo settings from the environment. BREVO_API_KEY
// and BREVO_LIST_ID are required; sender identity falls back to the JobberMed
// defaults.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		APIKey:      os.Getenv("BREVO_API_KEY"),
		SenderEmail: os.Getenv("BREVO_SENDER_EMAIL"),
		SenderName:  os.Getenv("BREVO_SENDER_NAME"),
	}
	if creds.APIKey == "" {
		return Credentials{}, fmt.Errorf("BREVO_API_KEY is not set")
	}
	rawList := os.Getenv("BREVO_LIST_ID")
	if rawList == "" {
		return Credentials{}, fmt.Errorf("BREVO_LIST_ID is not set")
	}
	listID, err := strconv.ParseInt(rawList, 10, 64)
	if err != nil {
		return Credentials{}, fmt.Errorf("BREVO_LIST_ID %q is not a number: %w", rawList, err)
	}
	creds.ListID = listID
	if creds.SenderEmail == "" {
		creds.SenderEmail = "jobs@jobbermed.com"
	}
	if creds.SenderName == "" {
		creds.SenderName = "JobberMed"
	}
	return creds, nil
}

// DryRun reports whether NEWSLETTER_DRY_RUN asks for a build-only run.
func DryRun() bool {
	v, _ := strconv.ParseBool(os.Getenv("NEWSLETTER_DRY_RUN"))
	return v
}

// BrevoClient creates and sends email campaigns through the Brevo REST API.
type BrevoClient struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

func NewBrevoClient(creds Credentials, logger *slog.Logger) *BrevoClient {
	return &BrevoClient{
		baseURL:    defaultBrevoBaseURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		now:        time.Now,
	}
}

type campaignRequest struct {
	Name       string         `json:"name"`
	Subject    string         `json:"subject"`
	Sender     campaignSender `json:"sender"`
	Type       string         `json:"type"`
	HTML       string         `json:"htmlContent"`
	Recipients campaignLists  `json:"recipients"`
}

type campaignSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type campaignLists struct {
	ListIDs []int64 `json:"listIds"`
}

// SendCampaign creates a classic campaign with the rendered digest and sends
// it to the configured list immediately. It returns the campaign ID Brevo
// assigned.
func (c *BrevoClient) SendCampaign(ctx context.Context, htmlContent string, jobCount int) (int64, error) {
	today := c.now()
	req := campaignRequest{
		Name:    "Weekly Digest - " + today.Format("2006-01-02"),
		Subject: fmt.Sprintf("%d New Medical Jobs This Week — %s", jobCount, today.Format("02 Jan 2006")),
		Sender: campaignSender{
			Name:  c.creds.SenderName,
			Email: c.creds.SenderEmail,
		},
		Type:       "classic",
		HTML:       htmlContent,
		Recipients: campaignLists{ListIDs: []int64{c.creds.ListID}},
	}

	id, err := c.createCampaign(ctx, req)
	if err != nil {
		return 0, err
	}
	c.logger.Info("campaign created", "id", id, "subject", req.Subject)

	if err := c.sendNow(ctx, id); err != nil {
		return id, err
	}
	c.logger.Info("campaign sent", "id", id, "list_id", c.creds.ListID)
	return id, nil
}

func (c *BrevoClient) createCampaign(ctx context.Context, campaign campaignRequest) (int64, error) {
	body, err := json.Marshal(campaign)
	if err != nil {
		return 0, fmt.Errorf("marshal campaign: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/emailCampaigns", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("create campaign: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("create campaign: status %d: %s", resp.StatusCode, string(respBody))
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return 0, fmt.Errorf("parse create response: %w", err)
	}
	return created.ID, nil
}

func (c *BrevoClient) sendNow(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/v3/emailCampaigns/%d/sendNow", c.baseURL, id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send campaign %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("send campaign %d: status %d: %s", id, resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *BrevoClient) setHeaders(req *http.Request) {
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.creds.APIKey)
}
