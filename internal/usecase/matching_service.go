package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/sakescan/backend/internal/domain"
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	EnableDebugLogging bool
}

// MatchingService classifies scraped records against the existing catalog
// as new entries or update candidates.
type MatchingService struct {
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	return &MatchingService{
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Classify compares each scraped record against a snapshot of the existing
// catalog. Classification is independent per record and deterministic: the
// first existing entry (in snapshot order) satisfying the match predicate
// wins. The snapshot is never mutated, so re-running with the same inputs
// yields identical output.
func (s *MatchingService) Classify(
	ctx context.Context,
	scraped []domain.ScrapedSake,
	existing []domain.SakeProjection,
) (*domain.MatchResult, error) {
	result := &domain.MatchResult{
		Updates:  []domain.MatchDecision{},
		NewSakes: []domain.MatchDecision{},
	}

	for _, sake := range scraped {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		match, found := findMatch(sake, existing)

		if !found {
			result.NewSakes = append(result.NewSakes, domain.MatchDecision{
				ScrapedSake: sake,
				IsNew:       true,
			})
			result.TotalNew++
			continue
		}

		result.TotalMatched++

		decision := domain.MatchDecision{
			ScrapedSake: sake,
			IsNew:       false,
			ExistingID:  match.ID,
		}

		// Never overwrite a curated image: the scraped URL is carried
		// only when the existing entry has no image at all.
		if match.HasLabelImage || match.HasBottleImage {
			decision.ImageURL = ""
		}

		if s.enableDebugLogging {
			log.Printf("[MATCH] %q -> existing %s (%q), carries image: %v",
				sake.Name, match.ID, match.Name, decision.ImageURL != "")
		}

		// A matched record with nothing to contribute is not actionable
		// and is excluded from the updates list.
		if decision.ImageURL != "" {
			result.Updates = append(result.Updates, decision)
			result.TotalUpdates++
		}
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] Classified %d records: %d matched, %d new, %d updates",
			len(scraped), result.TotalMatched, result.TotalNew, result.TotalUpdates)
	}

	return result, nil
}

// findMatch returns the first existing entry that satisfies the match
// predicate, in snapshot order.
func findMatch(sake domain.ScrapedSake, existing []domain.SakeProjection) (domain.SakeProjection, bool) {
	for _, entry := range existing {
		if matches(sake, entry) {
			return entry, true
		}
	}
	return domain.SakeProjection{}, false
}

// matches is the record-equivalence predicate: case-insensitive name
// containment either way, Japanese-name containment either way, or brewery
// containment combined with the name condition. The brewery clause never
// fires on its own since it requires the name match too; it is kept to
// preserve the established classification behavior.
func matches(sake domain.ScrapedSake, entry domain.SakeProjection) bool {
	nameMatch := containsFold(entry.Name, sake.Name) || containsFold(sake.Name, entry.Name)

	japaneseMatch := sake.NameJapanese != "" && entry.NameJapanese != "" &&
		(strings.Contains(entry.NameJapanese, sake.NameJapanese) ||
			strings.Contains(sake.NameJapanese, entry.NameJapanese))

	breweryMatch := sake.Brewery != "" && entry.Brewery != "" &&
		containsFold(entry.Brewery, sake.Brewery)

	return nameMatch || japaneseMatch || (breweryMatch && nameMatch)
}

// containsFold reports whether haystack contains needle, case-insensitively.
func containsFold(haystack, needle string) bool {
	if needle == "" || haystack == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
