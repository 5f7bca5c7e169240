package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/enums"
)

// Product is a catalog listing. Pricing consumes it read-only; the final
// price is derived from the live metal rate, never stored here.
type Product struct {
	ID                 uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string                  `gorm:"column:name;not null"`
	Description        *string                 `gorm:"column:description"`
	ImageURL           *string                 `gorm:"column:image_url"`
	MetalType          enums.MetalType         `gorm:"column:metal_type;type:text;not null"`
	Purity             *string                 `gorm:"column:purity"`
	WeightGrams        decimal.Decimal         `gorm:"column:weight_grams;type:numeric(10,3);not null"`
	MakingChargesType  enums.MakingChargesType `gorm:"column:making_charges_type;type:text;not null;default:'fixed'"`
	MakingChargesValue decimal.Decimal         `gorm:"column:making_charges_value;type:numeric(12,2);not null;default:0"`
	BoxSKU             *string                 `gorm:"column:box_sku"`
	IsActive           bool                    `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
