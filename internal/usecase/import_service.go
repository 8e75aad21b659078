package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/sakescan/backend/internal/domain"
)

// ImportService applies admin-selected match decisions to the catalog.
// The catalog collaborator is injected so the pipeline can be exercised
// against an in-memory fake.
type ImportService struct {
	catalog            domain.CatalogRepository
	matcher            *MatchingService
	enableDebugLogging bool
}

// ImportServiceConfig holds configuration for the import service
type ImportServiceConfig struct {
	EnableDebugLogging bool
}

// NewImportService creates a new import service with dependencies
func NewImportService(catalog domain.CatalogRepository, config ImportServiceConfig) *ImportService {
	return &ImportService{
		catalog:            catalog,
		matcher:            NewMatchingService(MatchConfig{EnableDebugLogging: config.EnableDebugLogging}),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Match loads the full catalog projection and classifies the scraped records
// against it. The snapshot is taken fresh on every call; no state survives
// between invocations.
func (s *ImportService) Match(ctx context.Context, scraped []domain.ScrapedSake) (*domain.MatchResult, error) {
	existing, err := s.catalog.ListProjections(ctx)
	if err != nil {
		return nil, err
	}

	return s.matcher.Classify(ctx, scraped, existing)
}

// Apply performs the import batch: label-image patches for selected update
// candidates, inserts for selected new records. Items are processed
// sequentially and best-effort; a failing item is recorded by name and the
// batch continues. Nothing is rolled back.
func (s *ImportService) Apply(
	ctx context.Context,
	updates []domain.MatchDecision,
	newSakes []domain.MatchDecision,
) *domain.ImportResult {
	result := &domain.ImportResult{Success: true}

	for _, sake := range updates {
		// Updates without a target or an image carry nothing to apply
		if sake.ExistingID == "" || sake.ImageURL == "" {
			continue
		}

		if err := s.catalog.UpdateLabelImage(ctx, sake.ExistingID, sake.ImageURL); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to update %s: %v", sake.Name, err))
			continue
		}
		result.UpdatedCount++
	}

	for _, sake := range newSakes {
		if err := s.catalog.Insert(ctx, newSakeRow(sake)); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to insert %s: %v", sake.Name, err))
			continue
		}
		result.InsertedCount++
	}

	if s.enableDebugLogging {
		log.Printf("[IMPORT] Applied batch: %d updated, %d inserted, %d errors",
			result.UpdatedCount, result.InsertedCount, len(result.Errors))
	}

	return result
}

// newSakeRow builds the insert row for a new catalog entry, defaulting
// brewery to "Unknown" and the rating count to zero.
func newSakeRow(sake domain.MatchDecision) *domain.Sake {
	row := &domain.Sake{
		Name:         sake.Name,
		Brewery:      sake.Brewery,
		TotalRatings: 0,
	}
	if row.Brewery == "" {
		row.Brewery = "Unknown"
	}
	if sake.NameJapanese != "" {
		row.NameJapanese = &sake.NameJapanese
	}
	if sake.Type != "" {
		row.Type = &sake.Type
	}
	if sake.Prefecture != "" {
		row.Prefecture = &sake.Prefecture
	}
	if sake.ImageURL != "" {
		row.LabelImageURL = &sake.ImageURL
	}
	return row
}
