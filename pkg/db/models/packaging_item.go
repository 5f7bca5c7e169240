package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PackagingItem is an item-master row for boxes and wrapping. A product
// referencing an active item's SKU picks up its rate as a flat box charge.
type PackagingItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU       string          `gorm:"column:sku;not null;uniqueIndex"`
	Name      string          `gorm:"column:name;not null"`
	ItemType  *string         `gorm:"column:item_type"`
	Rate      decimal.Decimal `gorm:"column:rate;type:numeric(12,2);not null;default:0"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
