package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// CreateOrder inserts the order row only; items and history are written
// separately so checkout controls the write order inside its transaction.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items", "StatusHistory").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrderItems inserts the order's line items.
func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// AppendStatusHistory appends one audit row.
func (r *repository) AppendStatusHistory(ctx context.Context, entry *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID loads the full aggregate: order, items, and history oldest-first.
func (r *repository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", orderID).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByGatewayRef loads the aggregate by its gateway order reference.
func (r *repository) FindByGatewayRef(ctx context.Context, gatewayOrderRef string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "gateway_order_ref = ?", gatewayOrderRef).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns a customer's orders with items, newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListAll returns every order with items, newest first.
func (r *repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// UpdateOrder applies column updates to one order row.
func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).
		Error
}
