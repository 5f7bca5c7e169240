package rates

import (
	"context"

	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
)

// Repository persists metal rate observations. Rows are append-only; the
// newest observation per metal key is the authoritative rate.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Insert appends a new rate observation.
func (r *Repository) Insert(ctx context.Context, rate *models.MetalRate) (*models.MetalRate, error) {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

// LatestRate returns the most recent observation for a single metal key.
func (r *Repository) LatestRate(ctx context.Context, key enums.MetalKey) (*models.MetalRate, error) {
	var rate models.MetalRate
	err := r.db.WithContext(ctx).
		Where("metal_key = ?", key).
		Order("observed_at DESC").
		Order("created_at DESC").
		First(&rate).
		Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// LatestRates returns the most recent observation per metal key.
func (r *Repository) LatestRates(ctx context.Context) ([]models.MetalRate, error) {
	sub := r.db.Model(&models.MetalRate{}).
		Select("metal_key, MAX(observed_at) AS observed_at").
		Group("metal_key")

	var rows []models.MetalRate
	err := r.db.WithContext(ctx).
		Joins("JOIN (?) latest ON metal_rates.metal_key = latest.metal_key AND metal_rates.observed_at = latest.observed_at", sub).
		Order("metal_rates.observed_at DESC").
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	latest := make([]models.MetalRate, 0, len(rows))
	seen := make(map[enums.MetalKey]bool, len(rows))
	for _, row := range rows {
		if seen[row.MetalKey] {
			continue
		}
		seen[row.MetalKey] = true
		latest = append(latest, row)
	}
	return latest, nil
}
