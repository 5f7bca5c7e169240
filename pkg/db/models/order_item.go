package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/types"
)

// OrderItem captures the priced snapshot of one product within an order.
// Written atomically with its order at checkout and immutable thereafter.
type OrderItem struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	UnitPrice      decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice     decimal.Decimal       `gorm:"column:total_price;type:numeric(12,2);not null"`
	PriceBreakdown *types.PriceBreakdown `gorm:"column:price_breakdown;type:jsonb;serializer:json"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
}
