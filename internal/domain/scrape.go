package domain

// ScrapedSake is a transient catalog candidate produced by extraction.
// It is never persisted directly; the matcher decides its fate.
type ScrapedSake struct {
	Name         string   `json:"name"`
	NameJapanese string   `json:"nameJapanese,omitempty"`
	Brewery      string   `json:"brewery,omitempty"`
	Type         string   `json:"type,omitempty"`
	Prefecture   string   `json:"prefecture,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Taste        string   `json:"taste,omitempty"`
	FoodPairing  []string `json:"foodPairing,omitempty"`
}

// MatchDecision wraps a scraped sake with its classification against the
// existing catalog. Exactly one of IsNew or ExistingID is meaningful:
// IsNew is true iff ExistingID is empty.
type MatchDecision struct {
	ScrapedSake
	IsNew      bool   `json:"isNew"`
	ExistingID string `json:"existingId,omitempty"`
}

// ScrapeResult is the outcome of one catalog page scrape.
type ScrapeResult struct {
	Sakes      []ScrapedSake `json:"sakes"`
	TotalFound int           `json:"totalFound"`
	Page       int           `json:"page"`
	HasMore    bool          `json:"hasMore"`
}

// MatchResult partitions classified records for admin review.
// A matched record with no image to contribute appears in neither list;
// it still counts toward TotalMatched.
type MatchResult struct {
	Updates      []MatchDecision `json:"updates"`
	NewSakes     []MatchDecision `json:"newSakes"`
	TotalMatched int             `json:"totalMatched"`
	TotalNew     int             `json:"totalNew"`
	TotalUpdates int             `json:"totalUpdates"`
}

// ImportResult reports a best-effort import batch. Per-item failures are
// collected in Errors; they never abort the remaining items.
type ImportResult struct {
	Success       bool     `json:"success"`
	UpdatedCount  int      `json:"updatedCount"`
	InsertedCount int      `json:"insertedCount"`
	Errors        []string `json:"errors,omitempty"`
}

// SearchImage is one candidate product image found by the image search.
type SearchImage struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Source    string `json:"source"`
	Title     string `json:"title,omitempty"`
}

// SearchSakeData is heuristically extracted product data found alongside
// search images. All fields are best-effort.
type SearchSakeData struct {
	Type              string   `json:"type,omitempty"`
	Prefecture        string   `json:"prefecture,omitempty"`
	PolishingRatio    *int     `json:"polishingRatio,omitempty"`
	AlcoholPercentage *float64 `json:"alcoholPercentage,omitempty"`
}

// ImageSearchResult is the outcome of a per-product image search.
type ImageSearchResult struct {
	Images   []SearchImage   `json:"images"`
	SakeData *SearchSakeData `json:"sakeData,omitempty"`
}
