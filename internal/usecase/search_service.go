package usecase

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sakescan/backend/internal/domain"
)

// Heuristic patterns for pulling product data out of search result pages
var (
	searchTypeRegex       = regexp.MustCompile(`(?i)Junmai Daiginjo|Junmai Ginjo|Tokubetsu Junmai|Tokubetsu Honjozo|Junmai|Daiginjo|Ginjo|Honjozo|Nigori|Sparkling|Nama|Futsushu`)
	searchPrefectureRegex = regexp.MustCompile(`(?i)Miyagi|Yamagata|Niigata|Fukuoka|Saga|Hiroshima|Yamaguchi|Nagasaki|Kochi|Shiga|Mie|Gifu|Saitama|Gunma|Akita|Aomori|Osaka`)
	polishingRatioRegex   = regexp.MustCompile(`(?i)(\d+)%?\s*(?:精米|polishing|seimaibuai)`)
	alcoholRegex          = regexp.MustCompile(`(?i)(?:ABV|Alcohol|ALC)[:\s]*(\d+(?:\.\d+)?)\s*%`)
	imageExtensionRegex   = regexp.MustCompile(`(?i)\.(?:jpg|jpeg|png|webp)(?:\?.*)?$`)
	shopifySizeRegex      = regexp.MustCompile(`_\d+x\d*\.`)

	cacheKeyNoiseRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaceRegex    = regexp.MustCompile(`\s+`)
)

// SearchRequest asks for candidate product images for one sake.
type SearchRequest struct {
	Name         string `json:"name" binding:"required"`
	NameJapanese string `json:"nameJapanese,omitempty"`
	Brewery      string `json:"brewery,omitempty"`
}

// SearchServiceConfig holds configuration for the image search service
type SearchServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// SearchService finds candidate product images and best-effort product data
// for a single sake by scraping a small set of known retail sources. Each
// source is tried independently; a failing source is skipped, never fatal.
type SearchService struct {
	client             domain.ScrapeClient
	cache              domain.CacheRepository
	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewSearchService creates a new image search service with dependencies
func NewSearchService(client domain.ScrapeClient, cache domain.CacheRepository, config SearchServiceConfig) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &SearchService{
		client:             client,
		cache:              cache,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// SearchImages queries the configured sources for product images.
// Results are cached by normalized name and brewery.
func (s *SearchService) SearchImages(ctx context.Context, req SearchRequest) (*domain.ImageSearchResult, error) {
	if req.Name == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := s.cacheKey(req)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		if result, ok := cached.(*domain.ImageSearchResult); ok {
			if s.enableDebugLogging {
				log.Printf("[SEARCH] Cache hit for %q", req.Name)
			}
			return result, nil
		}
	}

	result := &domain.ImageSearchResult{Images: []domain.SearchImage{}}

	s.searchSakuraShop(ctx, req, result)
	s.searchUmamiMart(ctx, req, result)
	if req.NameJapanese != "" {
		s.searchSakeTimes(ctx, req, result)
	}

	result.Images = dedupeImagesByURL(result.Images)

	if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
		log.Printf("[SEARCH] Failed to cache result for %q: %v", req.Name, err)
	}

	return result, nil
}

// searchSakuraShop scrapes the catalog shop's keyword search for product
// images and heuristic sake data.
func (s *SearchService) searchSakuraShop(ctx context.Context, req SearchRequest, result *domain.ImageSearchResult) {
	searchURL := "https://export.sakurasaketen.com/sake?Keyword=" + url.QueryEscape(req.Name)

	snapshot, err := s.client.Scrape(ctx, searchURL, domain.ScrapeOptions{OnlyMainContent: true})
	if err != nil {
		log.Printf("[SEARCH] Sakura Sake scrape error: %v", err)
		return
	}

	images := extractDocumentImages(snapshot.HTML, func(src string) bool {
		if isChromeImage(src) || strings.Contains(src, "badge") {
			return false
		}
		return strings.Contains(src, "uploads") || strings.Contains(src, "cdn") || strings.Contains(src, "sake")
	})

	for _, src := range firstN(images, 5) {
		result.Images = append(result.Images, domain.SearchImage{
			URL:    src,
			Source: "Sakura Sake Shop",
			Title:  req.Name,
		})
	}

	if data := extractSakeData(snapshot.Markdown); data != nil && result.SakeData == nil {
		result.SakeData = data
	}
}

// searchUmamiMart scrapes the retail site's product search; its images live
// on the Shopify CDN and can be upsized by rewriting the size suffix.
func (s *SearchService) searchUmamiMart(ctx context.Context, req SearchRequest, result *domain.ImageSearchResult) {
	searchURL := "https://umamimart.com/search?q=" + url.QueryEscape(req.Name+" sake") + "&type=product"

	snapshot, err := s.client.Scrape(ctx, searchURL, domain.ScrapeOptions{OnlyMainContent: true})
	if err != nil {
		log.Printf("[SEARCH] Umami Mart scrape error: %v", err)
		return
	}

	images := extractDocumentImages(snapshot.HTML, func(src string) bool {
		if !strings.Contains(src, "cdn.shopify.com") || !strings.Contains(src, "products") {
			return false
		}
		return !strings.Contains(src, "logo") && !strings.Contains(src, "icon") &&
			!strings.Contains(src, "badge") && !strings.Contains(src, "collection")
	})

	for _, src := range firstN(images, 4) {
		result.Images = append(result.Images, domain.SearchImage{
			URL:    shopifySizeRegex.ReplaceAllString(src, "_800x."),
			Source: "Umami Mart",
			Title:  req.Name,
		})
	}

	if data := extractSakeData(snapshot.Markdown); data != nil && result.SakeData == nil {
		result.SakeData = data
	}
}

// searchSakeTimes scrapes the sake news site by Japanese name.
func (s *SearchService) searchSakeTimes(ctx context.Context, req SearchRequest, result *domain.ImageSearchResult) {
	searchURL := "https://en.sake-times.com/?s=" + url.QueryEscape(req.NameJapanese)

	snapshot, err := s.client.Scrape(ctx, searchURL, domain.ScrapeOptions{OnlyMainContent: true})
	if err != nil {
		log.Printf("[SEARCH] Sake Times scrape error: %v", err)
		return
	}

	images := extractDocumentImages(snapshot.HTML, func(src string) bool {
		if strings.Contains(src, "logo") || strings.Contains(src, "icon") || strings.Contains(src, "avatar") {
			return false
		}
		return strings.Contains(src, "sake")
	})

	for _, src := range firstN(images, 3) {
		result.Images = append(result.Images, domain.SearchImage{
			URL:    src,
			Source: "Sake Times",
			Title:  req.NameJapanese,
		})
	}
}

// extractDocumentImages parses the HTML and collects img sources that have a
// supported image extension and pass the source-specific filter.
func extractDocumentImages(html string, keep func(src string) bool) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var srcs []string
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			src, _ = sel.Attr("data-src")
		}
		if src == "" || !strings.HasPrefix(src, "https://") {
			return
		}
		if !imageExtensionRegex.MatchString(src) {
			return
		}
		if keep(src) {
			srcs = append(srcs, src)
		}
	})

	return srcs
}

// extractSakeData pulls best-effort product data out of page markdown.
// Returns nil when nothing recognizable was found.
func extractSakeData(markdown string) *domain.SearchSakeData {
	data := &domain.SearchSakeData{}
	found := false

	if m := searchTypeRegex.FindString(markdown); m != "" {
		data.Type = m
		found = true
	}
	if m := searchPrefectureRegex.FindString(markdown); m != "" {
		data.Prefecture = m
		found = true
	}
	if m := polishingRatioRegex.FindStringSubmatch(markdown); m != nil {
		if ratio, err := strconv.Atoi(m[1]); err == nil {
			data.PolishingRatio = &ratio
			found = true
		}
	}
	if m := alcoholRegex.FindStringSubmatch(markdown); m != nil {
		if abv, err := strconv.ParseFloat(m[1], 64); err == nil {
			data.AlcoholPercentage = &abv
			found = true
		}
	}

	if !found {
		return nil
	}
	return data
}

// dedupeImagesByURL removes duplicate image URLs, keeping first occurrence.
func dedupeImagesByURL(images []domain.SearchImage) []domain.SearchImage {
	seen := make(map[string]bool)
	unique := make([]domain.SearchImage, 0, len(images))
	for _, img := range images {
		if seen[img.URL] {
			continue
		}
		seen[img.URL] = true
		unique = append(unique, img)
	}
	return unique
}

// firstN returns at most n leading elements.
func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// cacheKey builds a normalized cache key from the search request.
// Format: "imagesearch:{normalized_name}:{normalized_brewery}"
func (s *SearchService) cacheKey(req SearchRequest) string {
	return fmt.Sprintf("imagesearch:%s:%s", normalizeForCacheKey(req.Name), normalizeForCacheKey(req.Brewery))
}

// normalizeForCacheKey lowercases and strips punctuation so equivalent
// queries share a cache entry.
func normalizeForCacheKey(value string) string {
	if value == "" {
		return ""
	}
	result := strings.ToLower(value)
	result = cacheKeyNoiseRegex.ReplaceAllString(result, "")
	result = multiSpaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
