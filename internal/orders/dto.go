package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	"github.com/aureliajewels/aurelia-backend/pkg/types"
)

// OrderItemDTO exposes one priced line of an order.
type OrderItemDTO struct {
	ID             uuid.UUID             `json:"id"`
	ProductID      uuid.UUID             `json:"product_id"`
	Quantity       int                   `json:"quantity"`
	UnitPrice      decimal.Decimal       `json:"unit_price"`
	TotalPrice     decimal.Decimal       `json:"total_price"`
	PriceBreakdown *types.PriceBreakdown `json:"price_breakdown,omitempty"`
}

// StatusHistoryDTO exposes one audit trail entry, oldest-first in lists.
type StatusHistoryDTO struct {
	Status    enums.OrderStatus `json:"status"`
	Notes     string            `json:"notes"`
	CreatedAt time.Time         `json:"created_at"`
}

// OrderDTO is the full order aggregate returned by detail reads.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	GST             decimal.Decimal     `json:"gst"`
	ShippingCharges decimal.Decimal     `json:"shipping_charges"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	ShippingAddress *types.Address      `json:"shipping_address,omitempty"`
	TrackingNumber  *string             `json:"tracking_number,omitempty"`
	GatewayOrderRef *string             `json:"gateway_order_ref,omitempty"`
	PaymentID       *string             `json:"payment_id,omitempty"`
	Items           []OrderItemDTO      `json:"items"`
	StatusHistory   []StatusHistoryDTO  `json:"status_history,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderSummaryDTO is the condensed row returned by order lists.
type OrderSummaryDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	ItemCount     int                 `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ToOrderDTO maps the persisted aggregate onto its external shape.
func ToOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     item.TotalPrice,
			PriceBreakdown: item.PriceBreakdown,
		})
	}
	history := make([]StatusHistoryDTO, 0, len(order.StatusHistory))
	for _, entry := range order.StatusHistory {
		history = append(history, StatusHistoryDTO{
			Status:    entry.Status,
			Notes:     entry.Notes,
			CreatedAt: entry.CreatedAt,
		})
	}
	return &OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		Subtotal:        order.Subtotal,
		GST:             order.GST,
		ShippingCharges: order.ShippingCharges,
		TotalPrice:      order.TotalPrice,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		ShippingAddress: order.ShippingAddress,
		TrackingNumber:  order.TrackingNumber,
		GatewayOrderRef: order.GatewayOrderRef,
		PaymentID:       order.PaymentID,
		Items:           items,
		StatusHistory:   history,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toSummaryDTO(order *models.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:            order.ID,
		UserID:        order.UserID,
		TotalPrice:    order.TotalPrice,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		ItemCount:     len(order.Items),
		CreatedAt:     order.CreatedAt,
	}
}
