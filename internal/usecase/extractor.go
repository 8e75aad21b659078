package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/sakescan/backend/internal/domain"
)

// Package-level compiled regex patterns for extraction heuristics
var (
	// blockMarkerRegex finds the lead-in of a new catalog entry. The source
	// page prefixes every card with its flavour-matrix label.
	blockMarkerRegex = regexp.MustCompile(`Modern-|Classic-`)

	// matrixLabelRegex matches the flavour-matrix label line itself
	matrixLabelRegex = regexp.MustCompile(`(?i)^(Modern|Classic)-(Light|Medium|Full|Rich)`)

	// breweryLineRegex matches "Brewery \- Prefecture" lines (the markdown
	// rendering escapes the hyphen)
	breweryLineRegex = regexp.MustCompile(`(?i)^([A-Za-z\s]+(?:Shuzo|Brewery|Sake|Brewing|酒造)?)\s*\\?-\s*([A-Za-z]+)$`)

	// japaneseCharRegex detects Hiragana, Katakana, and CJK ideographs
	japaneseCharRegex = regexp.MustCompile(`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}\x{4e00}-\x{9faf}]`)

	// englishNameRegex matches capitalized display names such as "DASSAI 23"
	englishNameRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9\s"'()-]+$`)

	// nameKeywordRegex excludes grade/taste/pairing vocabulary from being
	// mistaken for a product name
	nameKeywordRegex = regexp.MustCompile(`(?i)^(Junmai|Ginjo|Daiginjo|Honjozo|Fruity|Light|Bold|Fresh|Sweet|Rich|Meaty|White|Seafood|Spicy)`)

	// typeRegex matches the sake grade vocabulary, most specific first
	typeRegex = regexp.MustCompile(`(?i)(Junmai Daiginjo|Junmai Ginjo|Tokubetsu Junmai|Junmai|Daiginjo|Ginjo|Tokubetsu Honjozo|Honjozo)`)

	// tasteRegex matches the six fixed taste descriptor phrases
	tasteRegex = regexp.MustCompile(`(?i)(Fruity & Aromatic|Light & Dry|Bold & Aged|Fresh & Vivid|Sweet|Rich & Savory)`)

	// foodPairingRegex matches the five fixed food-category phrases
	foodPairingRegex = regexp.MustCompile(`(?i)(Meaty Food|White Meats and Salty Food|Seafood|Spicy Food|Sweet Food)`)

	// imageURLRegex finds hosted product-image URLs in raw HTML
	imageURLRegex = regexp.MustCompile(`(?i)https://[^"'\s]+(?:uploads|cdn)[^"'\s]+\.(?:jpg|jpeg|png|webp)(?:\?[^"'\s]*)?`)
)

// chromeSubstrings mark lines that are UI furniture, not product data
var chromeSubstrings = []string{"arrow", "icon", "close"}

// excludedImageHints filter out site chrome from the image scan
var excludedImageHints = []string{"logo", "icon", "arrow", "close"}

const minBlockLength = 20

// blockFields accumulates the per-line claims made while scanning one block.
// Each field is claimed at most once; the first claiming line wins.
type blockFields struct {
	EnglishName  string
	JapaneseName string
	Brewery      string
	Prefecture   string
}

// lineRule is one classifier in the ordered extraction chain. Apply returns
// true when the rule claims the line, stopping later rules from seeing it.
type lineRule struct {
	name  string
	apply func(line string, fields *blockFields) bool
}

// lineRules is the extraction policy: rules run in this order on every line
// of a block, and the first rule to claim a line wins. The order is load
// bearing; a line that looks like both a brewery and an English name must be
// read as a brewery.
var lineRules = []lineRule{
	{
		name: "matrix-label",
		apply: func(line string, _ *blockFields) bool {
			return matrixLabelRegex.MatchString(line)
		},
	},
	{
		name: "ui-chrome",
		apply: func(line string, _ *blockFields) bool {
			for _, chrome := range chromeSubstrings {
				if strings.Contains(line, chrome) {
					return true
				}
			}
			return false
		},
	},
	{
		name: "brewery-prefecture",
		apply: func(line string, fields *blockFields) bool {
			m := breweryLineRegex.FindStringSubmatch(line)
			if m == nil {
				return false
			}
			if fields.Brewery == "" {
				fields.Brewery = strings.TrimSpace(m[1])
				fields.Prefecture = strings.TrimSpace(m[2])
			}
			return true
		},
	},
	{
		name: "japanese-name",
		apply: func(line string, fields *blockFields) bool {
			if !japaneseCharRegex.MatchString(line) {
				return false
			}
			if fields.JapaneseName == "" {
				fields.JapaneseName = line
			}
			return true
		},
	},
	{
		name: "english-name",
		apply: func(line string, fields *blockFields) bool {
			if !englishNameRegex.MatchString(line) {
				return false
			}
			if len(line) <= 3 || len(line) >= 100 {
				return false
			}
			if nameKeywordRegex.MatchString(line) {
				return false
			}
			if fields.EnglishName == "" {
				fields.EnglishName = line
			}
			return true
		},
	},
}

// ImageAssociator assigns extracted image URLs to scraped records in place.
type ImageAssociator interface {
	Associate(sakes []domain.ScrapedSake, imageURLs []string)
}

// PositionalAssociator pairs the Nth surviving image with the Nth record.
// This is a best-effort positional guess with no content correlation;
// mismatches are expected whenever image count and record count diverge.
type PositionalAssociator struct{}

// Associate implements ImageAssociator.
func (PositionalAssociator) Associate(sakes []domain.ScrapedSake, imageURLs []string) {
	for i := range sakes {
		if i < len(imageURLs) {
			sakes[i].ImageURL = imageURLs[i]
		}
	}
}

// Extractor turns a scraped page snapshot into candidate catalog records.
// All heuristics are stateless; every call starts from scratch.
type Extractor struct {
	associator         ImageAssociator
	enableDebugLogging bool
}

// NewExtractor creates an extractor with the given image association strategy.
// A nil associator defaults to positional pairing.
func NewExtractor(associator ImageAssociator, enableDebugLogging bool) *Extractor {
	if associator == nil {
		associator = PositionalAssociator{}
	}
	return &Extractor{
		associator:         associator,
		enableDebugLogging: enableDebugLogging,
	}
}

// Extract runs the full extraction pass over one page snapshot: markdown
// record extraction, HTML image extraction with positional association, and
// deduplication by display name.
func (e *Extractor) Extract(snapshot *domain.PageSnapshot) []domain.ScrapedSake {
	sakes := e.ExtractRecords(snapshot.Markdown)
	images := ExtractImageURLs(snapshot.HTML)
	e.associator.Associate(sakes, images)
	return DeduplicateByName(sakes)
}

// ExtractRecords parses the markdown rendering into candidate records.
func (e *Extractor) ExtractRecords(markdown string) []domain.ScrapedSake {
	var sakes []domain.ScrapedSake

	for _, block := range splitBlocks(markdown) {
		if len(block) < minBlockLength {
			continue
		}

		sake, ok := e.extractBlock(block)
		if !ok {
			continue
		}
		sakes = append(sakes, sake)
	}

	if e.enableDebugLogging {
		log.Printf("[EXTRACT] Extracted %d records", len(sakes))
	}

	return sakes
}

// extractBlock scans one block line-by-line through the classifier chain and
// fills keyword fields from the whole block. A block yields a record only if
// an English or Japanese name was claimed.
func (e *Extractor) extractBlock(block string) (domain.ScrapedSake, bool) {
	var fields blockFields

	for _, rawLine := range strings.Split(block, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		for _, rule := range lineRules {
			if rule.apply(line, &fields) {
				break
			}
		}
	}

	if fields.EnglishName == "" && fields.JapaneseName == "" {
		return domain.ScrapedSake{}, false
	}

	name := fields.EnglishName
	if name == "" {
		name = fields.JapaneseName
	}

	sake := domain.ScrapedSake{
		Name:         name,
		NameJapanese: fields.JapaneseName,
		Brewery:      fields.Brewery,
		Prefecture:   fields.Prefecture,
	}

	if m := typeRegex.FindStringSubmatch(block); m != nil {
		sake.Type = m[1]
	}
	if m := tasteRegex.FindStringSubmatch(block); m != nil {
		sake.Taste = m[1]
	}
	if matches := foodPairingRegex.FindAllString(block, -1); matches != nil {
		seen := make(map[string]bool)
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				sake.FoodPairing = append(sake.FoodPairing, match)
			}
		}
	}

	return sake, true
}

// splitBlocks splits the markdown body so every lead-in marker starts a new
// block. RE2 has no lookahead, so the split is done on match positions; any
// prefix before the first marker becomes its own (usually discarded) block.
func splitBlocks(markdown string) []string {
	locs := blockMarkerRegex.FindAllStringIndex(markdown, -1)
	if len(locs) == 0 {
		return []string{markdown}
	}

	var blocks []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			blocks = append(blocks, markdown[prev:loc[0]])
		}
		prev = loc[0]
	}
	blocks = append(blocks, markdown[prev:])

	return blocks
}

// ExtractImageURLs scans raw HTML for plausible product-image URLs: a
// supported image extension plus an uploads/cdn path segment, minus anything
// that looks like site chrome.
func ExtractImageURLs(html string) []string {
	matches := imageURLRegex.FindAllString(html, -1)

	var urls []string
	for _, url := range matches {
		if isChromeImage(url) {
			continue
		}
		urls = append(urls, url)
	}

	return urls
}

func isChromeImage(url string) bool {
	for _, hint := range excludedImageHints {
		if strings.Contains(url, hint) {
			return true
		}
	}
	return false
}

// DeduplicateByName removes records whose exact display name has already
// appeared, keeping the first occurrence. Quadratic is fine at
// catalog-page scale.
func DeduplicateByName(sakes []domain.ScrapedSake) []domain.ScrapedSake {
	var unique []domain.ScrapedSake
	for _, sake := range sakes {
		duplicate := false
		for _, kept := range unique {
			if kept.Name == sake.Name {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, sake)
		}
	}
	return unique
}
