package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	"github.com/aureliajewels/aurelia-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  subtotal TEXT NOT NULL,
  gst TEXT NOT NULL DEFAULT '0',
  shipping_charges TEXT NOT NULL DEFAULT '0',
  total_price TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  shipping_address TEXT,
  tracking_number TEXT,
  gateway_order_ref TEXT,
  payment_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  total_price TEXT NOT NULL,
  price_breakdown TEXT,
  created_at DATETIME
);`
	statusHistory := `
CREATE TABLE IF NOT EXISTS order_status_history (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(statusHistory).Error)
	return db
}

func testAddress() *types.Address {
	return &types.Address{
		FullName:   "Asha Verma",
		Phone:      "9876543210",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "KA",
		PostalCode: "560001",
		Country:    "IN",
	}
}

func seedOrder(t *testing.T, repo Repository, userID uuid.UUID) *models.Order {
	t.Helper()
	ctx := context.Background()

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Subtotal:        decimal.NewFromInt(60000),
		GST:             decimal.NewFromInt(1800),
		ShippingCharges: decimal.Zero,
		TotalPrice:      decimal.NewFromInt(61800),
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		ShippingAddress: testAddress(),
	}
	_, err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	items := []models.OrderItem{
		{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductID:  uuid.New(),
			Quantity:   2,
			UnitPrice:  decimal.NewFromInt(20600),
			TotalPrice: decimal.NewFromInt(41200),
			PriceBreakdown: &types.PriceBreakdown{
				BasePrice:  decimal.NewFromInt(20000),
				GST:        decimal.NewFromInt(600),
				Subtotal:   decimal.NewFromInt(20000),
				FinalPrice: decimal.NewFromInt(20600),
			},
		},
		{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductID:  uuid.New(),
			Quantity:   1,
			UnitPrice:  decimal.NewFromInt(20600),
			TotalPrice: decimal.NewFromInt(20600),
		},
	}
	require.NoError(t, repo.CreateOrderItems(ctx, items))

	require.NoError(t, repo.AppendStatusHistory(ctx, &models.OrderStatusHistory{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Status:    enums.OrderStatusPending,
		Notes:     "Order created",
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}))
	return order
}

func TestRepositoryCreateAndFindAggregate(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New())
	require.NoError(t, repo.AppendStatusHistory(ctx, &models.OrderStatusHistory{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Status:    enums.OrderStatusConfirmed,
		Notes:     "Payment received",
		CreatedAt: time.Now().UTC(),
	}))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.UserID, loaded.UserID)
	assert.True(t, loaded.TotalPrice.Equal(decimal.NewFromInt(61800)))
	require.Len(t, loaded.Items, 2)
	assert.NotNil(t, loaded.Items[0].PriceBreakdown)

	require.Len(t, loaded.StatusHistory, 2)
	assert.Equal(t, enums.OrderStatusPending, loaded.StatusHistory[0].Status)
	assert.Equal(t, "Order created", loaded.StatusHistory[0].Notes)
	assert.Equal(t, enums.OrderStatusConfirmed, loaded.StatusHistory[1].Status)

	require.NotNil(t, loaded.ShippingAddress)
	assert.Equal(t, "Asha Verma", loaded.ShippingAddress.FullName)
	assert.Equal(t, "560001", loaded.ShippingAddress.PostalCode)
}

func TestRepositoryListByUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	seedOrder(t, repo, alice)
	seedOrder(t, repo, alice)
	seedOrder(t, repo, bob)

	mine, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, order := range mine {
		assert.Equal(t, alice, order.UserID)
		assert.Len(t, order.Items, 2)
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepositoryUpdateOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New())

	require.NoError(t, repo.UpdateOrder(ctx, order.ID, map[string]any{
		"status":         enums.OrderStatusConfirmed,
		"payment_status": enums.PaymentStatusPaid,
		"payment_id":     "pay_123",
	}))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, loaded.Status)
	assert.Equal(t, enums.PaymentStatusPaid, loaded.PaymentStatus)
	require.NotNil(t, loaded.PaymentID)
	assert.Equal(t, "pay_123", *loaded.PaymentID)
}

func TestRepositoryFindByGatewayRef(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New())
	require.NoError(t, repo.UpdateOrder(ctx, order.ID, map[string]any{
		"gateway_order_ref": "order_rzp_1",
	}))

	loaded, err := repo.FindByGatewayRef(ctx, "order_rzp_1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, loaded.ID)

	_, err = repo.FindByGatewayRef(ctx, "order_rzp_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
