package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrMissingCredential is returned when the scrape service API key is not configured
	ErrMissingCredential = errors.New("scrape API key not configured")

	// ErrScrapeFailed is returned when the scrape service request fails
	ErrScrapeFailed = errors.New("scrape request failed")

	// ErrCatalogUnavailable is returned when the catalog database cannot be reached
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrImageDownload is returned when an external image cannot be fetched
	ErrImageDownload = errors.New("image download failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
