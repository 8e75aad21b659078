// Package catalog provides the database-backed catalog collaborator.
//
// The repository reads a projection of the sake table for matching and
// applies the importer's writes. Each call is individually atomic; there is
// no batch transaction across imports.
package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sakescan/backend/internal/domain"
)

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// projectionRow is the scanned shape of the matching projection query.
type projectionRow struct {
	ID             string
	Name           string
	NameJapanese   *string
	Brewery        string
	LabelImageURL  *string
	BottleImageURL *string
}

// ListProjections loads the matching projection of every catalog entry.
// The full catalog is loaded into memory; matching runs at catalog-page
// scale so no pagination is offered.
func (r *Repository) ListProjections(ctx context.Context) ([]domain.SakeProjection, error) {
	var rows []projectionRow
	err := r.db.WithContext(ctx).
		Model(&domain.Sake{}).
		Select("id", "name", "name_japanese", "brewery", "label_image_url", "bottle_image_url").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	projections := make([]domain.SakeProjection, 0, len(rows))
	for _, row := range rows {
		p := domain.SakeProjection{
			ID:             row.ID,
			Name:           row.Name,
			Brewery:        row.Brewery,
			HasLabelImage:  row.LabelImageURL != nil && *row.LabelImageURL != "",
			HasBottleImage: row.BottleImageURL != nil && *row.BottleImageURL != "",
		}
		if row.NameJapanese != nil {
			p.NameJapanese = *row.NameJapanese
		}
		projections = append(projections, p)
	}

	return projections, nil
}

// UpdateLabelImage patches the label image and updated timestamp of an
// existing entry. No other fields are touched.
func (r *Repository) UpdateLabelImage(ctx context.Context, id, imageURL string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Sake{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"label_image_url": imageURL,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("sake %s not found", id)
	}
	return nil
}

// Insert creates a new catalog entry.
func (r *Repository) Insert(ctx context.Context, sake *domain.Sake) error {
	return r.db.WithContext(ctx).Create(sake).Error
}
