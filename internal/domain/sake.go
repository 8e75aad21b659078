package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sake is a persisted catalog entry. Column layout mirrors the production
// "sake" table; the importer only ever touches a subset of these fields.
type Sake struct {
	ID                string   `gorm:"primaryKey" json:"id"`
	Name              string   `gorm:"not null" json:"name"`
	NameJapanese      *string  `json:"nameJapanese,omitempty"`
	Brewery           string   `gorm:"not null" json:"brewery"`
	Type              *string  `json:"type,omitempty"`
	Subtype           *string  `json:"subtype,omitempty"`
	Region            *string  `json:"region,omitempty"`
	Prefecture        *string  `json:"prefecture,omitempty"`
	Description       *string  `json:"description,omitempty"`
	RiceVariety       *string  `json:"riceVariety,omitempty"`
	PolishingRatio    *int     `json:"polishingRatio,omitempty"`
	AlcoholPercentage *float64 `json:"alcoholPercentage,omitempty"`
	SMV               *float64 `gorm:"column:smv" json:"smv,omitempty"`
	Acidity           *float64 `json:"acidity,omitempty"`
	LabelImageURL     *string  `json:"labelImageUrl,omitempty"`
	BottleImageURL    *string  `json:"bottleImageUrl,omitempty"`
	AverageRating     *float64 `json:"averageRating,omitempty"`
	TotalRatings      int      `json:"totalRatings"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName keeps the singular table name used by the production database.
func (Sake) TableName() string {
	return "sake"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (s *Sake) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SakeProjection is the slice of a catalog entry the matcher needs.
// The full rows never leave the repository during matching.
type SakeProjection struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NameJapanese   string `json:"nameJapanese,omitempty"`
	Brewery        string `json:"brewery,omitempty"`
	HasLabelImage  bool   `json:"hasLabelImage"`
	HasBottleImage bool   `json:"hasBottleImage"`
}
