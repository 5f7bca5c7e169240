package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
)

// Repository defines persistence operations for the order aggregate.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	AppendStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByGatewayRef(ctx context.Context, gatewayOrderRef string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}
