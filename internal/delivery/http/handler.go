package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakescan/backend/internal/domain"
	"github.com/sakescan/backend/internal/usecase"
)

// Import actions accepted by the import endpoint
const (
	actionMatch  = "match"
	actionImport = "import"
)

// ScrapeRunner runs one catalog scrape.
type ScrapeRunner interface {
	ScrapeCatalog(ctx context.Context, req usecase.ScrapeRequest) (*domain.ScrapeResult, error)
}

// Importer matches scraped records against the catalog and applies batches.
type Importer interface {
	Match(ctx context.Context, scraped []domain.ScrapedSake) (*domain.MatchResult, error)
	Apply(ctx context.Context, updates, newSakes []domain.MatchDecision) *domain.ImportResult
}

// ImageSearcher finds candidate product images for one sake.
type ImageSearcher interface {
	SearchImages(ctx context.Context, req usecase.SearchRequest) (*domain.ImageSearchResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scraper  ScrapeRunner
	importer Importer
	searcher ImageSearcher
	images   domain.ImageStore
}

// NewHandler creates a new HTTP handler
func NewHandler(scraper ScrapeRunner, importer Importer, searcher ImageSearcher, images domain.ImageStore) *Handler {
	return &Handler{
		scraper:  scraper,
		importer: importer,
		searcher: searcher,
		images:   images,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "sakescan-backend",
		"version": "1.0.0",
	})
}

// Scrape runs a catalog scrape and returns the extracted records.
// The body is optional; an empty body scrapes page 1 with no filters.
func (h *Handler) Scrape(c *gin.Context) {
	var req usecase.ScrapeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}

	result, err := h.scraper.ScrapeCatalog(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type importRequest struct {
	Action   string                 `json:"action" binding:"required"`
	Sakes    []domain.ScrapedSake   `json:"sakes"`
	Updates  []domain.MatchDecision `json:"updates"`
	NewSakes []domain.MatchDecision `json:"newSakes"`
}

// Import dispatches on the requested action: "match" classifies scraped
// records against the catalog, "import" applies an admin-selected batch.
func (h *Handler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	switch req.Action {
	case actionMatch:
		result, err := h.importer.Match(c.Request.Context(), req.Sakes)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)

	case actionImport:
		result := h.importer.Apply(c.Request.Context(), req.Updates, req.NewSakes)
		c.JSON(http.StatusOK, result)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action: " + req.Action})
	}
}

// SearchImage returns candidate product images for one sake.
func (h *Handler) SearchImage(c *gin.Context) {
	var req usecase.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.searcher.SearchImages(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type downloadImageRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
	SakeName string `json:"sakeName" binding:"required"`
}

// DownloadImage mirrors an external image into owned storage and returns
// the public URL to use instead.
func (h *Handler) DownloadImage(c *gin.Context) {
	var req downloadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	publicURL, err := h.images.Mirror(c.Request.Context(), req.ImageURL, req.SakeName)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": publicURL})
}

// respondError maps domain errors to HTTP status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMissingCredential):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrScrapeFailed), errors.Is(err, domain.ErrImageDownload):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
