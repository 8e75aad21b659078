package domain

import (
	"context"
	"time"
)

// PageSnapshot holds both renderings of a scraped page. Either string may be
// empty when the upstream service returns no content.
type PageSnapshot struct {
	HTML     string
	Markdown string
}

// ScrapeClient defines the interface to the scrape-as-a-service collaborator.
type ScrapeClient interface {
	Scrape(ctx context.Context, url string, opts ScrapeOptions) (*PageSnapshot, error)
}

// ScrapeOptions control a single scrape request.
type ScrapeOptions struct {
	OnlyMainContent bool
	WaitFor         time.Duration
}

// CatalogRepository defines the catalog read/write collaborator.
// ListProjections loads the full catalog into memory; matching happens at
// catalog-page scale so no pagination is offered.
type CatalogRepository interface {
	ListProjections(ctx context.Context) ([]SakeProjection, error)
	UpdateLabelImage(ctx context.Context, id, imageURL string) error
	Insert(ctx context.Context, sake *Sake) error
}

// ImageStore mirrors externally hosted images into owned storage.
type ImageStore interface {
	Mirror(ctx context.Context, imageURL, sakeName string) (publicURL string, err error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
