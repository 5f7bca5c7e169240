package packaging

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
)

// Repository persists the packaging item master.
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

// FindByID loads a packaging item by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PackagingItem, error) {
	var item models.PackagingItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindBySKU loads a packaging item by its unique SKU.
func (r *Repository) FindBySKU(ctx context.Context, sku string) (*models.PackagingItem, error) {
	var item models.PackagingItem
	if err := r.db.WithContext(ctx).First(&item, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ActiveRate resolves the rate for an active item by SKU. An inactive or
// missing SKU reports found=false without an error; pricing degrades to a
// zero box charge in that case.
func (r *Repository) ActiveRate(ctx context.Context, sku string) (decimal.Decimal, bool, error) {
	var item models.PackagingItem
	err := r.db.WithContext(ctx).
		Where("sku = ? AND is_active = ?", sku, true).
		First(&item).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return item.Rate, true, nil
}

// List returns all packaging items ordered by SKU.
func (r *Repository) List(ctx context.Context) ([]models.PackagingItem, error) {
	var rows []models.PackagingItem
	if err := r.db.WithContext(ctx).Order("sku ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new packaging item row.
func (r *Repository) Create(ctx context.Context, item *models.PackagingItem) (*models.PackagingItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update saves the full packaging item row.
func (r *Repository) Update(ctx context.Context, item *models.PackagingItem) (*models.PackagingItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a packaging item by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PackagingItem{}).Error
}
