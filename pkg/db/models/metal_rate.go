package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/enums"
)

// MetalRate is one observation of a metal's rate per gram. Rows are
// append-only; the most recent observation per metal key is authoritative.
type MetalRate struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MetalKey    enums.MetalKey  `gorm:"column:metal_key;type:text;not null;index"`
	RatePerGram decimal.Decimal `gorm:"column:rate_per_gram;type:numeric(12,2);not null"`
	ObservedAt  time.Time       `gorm:"column:observed_at;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
