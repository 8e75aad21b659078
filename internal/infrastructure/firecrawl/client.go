package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sakescan/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the Firecrawl scrape API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// scrapeRequest is the Firecrawl /v1/scrape request body
type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
	WaitFor         int64    `json:"waitFor,omitempty"` // milliseconds
}

// scrapeResponse is the Firecrawl /v1/scrape response body
type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		HTML     string `json:"html"`
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// NewClient creates a new Firecrawl API client
func NewClient(apiKey, baseURL string) *Client {
	// Firecrawl's starter plan allows roughly 10 scrapes per minute
	limiter := rate.NewLimiter(rate.Limit(10.0/60.0), 3)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Scrape requests a rendered snapshot of the target URL, returning both the
// raw HTML and a Markdown rendering of the main content region.
// There is no retry: a non-2xx upstream response fails the whole operation
// with the upstream status and body included for diagnosis.
func (c *Client) Scrape(ctx context.Context, targetURL string, opts domain.ScrapeOptions) (*domain.PageSnapshot, error) {
	if c.apiKey == "" {
		return nil, domain.ErrMissingCredential
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqBody := scrapeRequest{
		URL:             targetURL,
		Formats:         []string{"markdown", "html"},
		OnlyMainContent: opts.OnlyMainContent,
		WaitFor:         opts.WaitFor.Milliseconds(),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/scrape", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	if c.debug {
		log.Printf("[FIRECRAWL] Scraping %s (waitFor=%dms)", targetURL, reqBody.WaitFor)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[FIRECRAWL] Scrape error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrScrapeFailed, resp.StatusCode, string(body))
	}

	var scrapeResp scrapeResponse
	if err := json.Unmarshal(body, &scrapeResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if c.debug {
		log.Printf("[FIRECRAWL] Scraped %s: %d bytes html, %d bytes markdown",
			targetURL, len(scrapeResp.Data.HTML), len(scrapeResp.Data.Markdown))
	}

	return &domain.PageSnapshot{
		HTML:     scrapeResp.Data.HTML,
		Markdown: scrapeResp.Data.Markdown,
	}, nil
}
