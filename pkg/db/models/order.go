package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	"github.com/aureliajewels/aurelia-backend/pkg/types"
)

// Order is the checkout aggregate root. Created once at checkout, mutated by
// status transitions and tracking updates, never deleted.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null"`
	GST             decimal.Decimal      `gorm:"column:gst;type:numeric(12,2);not null;default:0"`
	ShippingCharges decimal.Decimal      `gorm:"column:shipping_charges;type:numeric(12,2);not null;default:0"`
	TotalPrice      decimal.Decimal      `gorm:"column:total_price;type:numeric(12,2);not null"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	ShippingAddress *types.Address       `gorm:"column:shipping_address;type:jsonb"`
	TrackingNumber  *string              `gorm:"column:tracking_number"`
	GatewayOrderRef *string              `gorm:"column:gateway_order_ref"`
	PaymentID       *string              `gorm:"column:payment_id"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
