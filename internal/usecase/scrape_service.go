package usecase

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/sakescan/backend/internal/domain"
)

// Filter keys understood by the catalog export page
const (
	filterKeyCategory   = "Select by Sake Category"
	filterKeyPrefecture = "Select by Prefecture"
)

// ScrapeRequest describes one catalog scrape run. Page is echoed back but
// the export page is single-page; pagination is not implemented.
type ScrapeRequest struct {
	Page       int    `json:"page"`
	Category   string `json:"category,omitempty"`
	Prefecture string `json:"prefecture,omitempty"`
}

// ScrapeServiceConfig holds configuration for the scrape service
type ScrapeServiceConfig struct {
	CatalogURL         string
	WaitFor            time.Duration
	EnableDebugLogging bool
}

// ScrapeService runs the catalog scrape pipeline: fetch a rendered page
// snapshot, extract candidate records and images, deduplicate. Every run is
// stateless and starts from scratch; a stage failure aborts the whole run.
type ScrapeService struct {
	client     domain.ScrapeClient
	extractor  *Extractor
	catalogURL string
	waitFor    time.Duration
}

// NewScrapeService creates a new scrape service with dependencies
func NewScrapeService(client domain.ScrapeClient, config ScrapeServiceConfig) *ScrapeService {
	waitFor := config.WaitFor
	if waitFor == 0 {
		waitFor = 3 * time.Second // let client-side content settle
	}

	return &ScrapeService{
		client:     client,
		extractor:  NewExtractor(PositionalAssociator{}, config.EnableDebugLogging),
		catalogURL: config.CatalogURL,
		waitFor:    waitFor,
	}
}

// ScrapeCatalog fetches and extracts one catalog page.
func (s *ScrapeService) ScrapeCatalog(ctx context.Context, req ScrapeRequest) (*domain.ScrapeResult, error) {
	targetURL := s.buildURL(req)

	log.Printf("[SCRAPE] Scraping URL: %s", targetURL)

	snapshot, err := s.client.Scrape(ctx, targetURL, domain.ScrapeOptions{
		OnlyMainContent: true,
		WaitFor:         s.waitFor,
	})
	if err != nil {
		return nil, err
	}

	sakes := s.extractor.Extract(snapshot)

	page := req.Page
	if page == 0 {
		page = 1
	}

	return &domain.ScrapeResult{
		Sakes:      sakes,
		TotalFound: len(sakes),
		Page:       page,
		HasMore:    false, // single page for now
	}, nil
}

// buildURL appends the optional filter values to the catalog base URL.
func (s *ScrapeService) buildURL(req ScrapeRequest) string {
	params := url.Values{}
	if req.Category != "" {
		params.Set(filterKeyCategory, req.Category)
	}
	if req.Prefecture != "" {
		params.Set(filterKeyPrefecture, req.Prefecture)
	}

	if len(params) == 0 {
		return s.catalogURL
	}
	return s.catalogURL + "?" + params.Encode()
}
