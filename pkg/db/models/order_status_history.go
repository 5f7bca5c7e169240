package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aureliajewels/aurelia-backend/pkg/enums"
)

// OrderStatusHistory is the append-only audit trail of an order's status
// transitions, one row per transition, oldest first.
type OrderStatusHistory struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null"`
	Notes     string            `gorm:"column:notes;not null;default:''"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the audit table name.
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
