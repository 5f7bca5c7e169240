package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/internal/orders"
	"github.com/aureliajewels/aurelia-backend/internal/pricing"
	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type rateSource interface {
	Snapshot(ctx context.Context) (map[enums.MetalKey]decimal.Decimal, error)
}

type boxRateResolver interface {
	ActiveRate(ctx context.Context, sku string) (decimal.Decimal, bool, error)
}

// CartItem is one requested line of a checkout.
type CartItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// Input captures everything checkout needs beyond the caller's identity.
type Input struct {
	Items           []CartItem
	ShippingAddress types.Address
}

// QuoteLineDTO is one priced cart line of a preview.
type QuoteLineDTO struct {
	ProductID      uuid.UUID            `json:"product_id"`
	ProductName    string               `json:"product_name"`
	Quantity       int                  `json:"quantity"`
	UnitPrice      decimal.Decimal      `json:"unit_price"`
	TotalPrice     decimal.Decimal      `json:"total_price"`
	PriceBreakdown types.PriceBreakdown `json:"price_breakdown"`
	Degraded       []string             `json:"degraded,omitempty"`
}

// QuoteDTO is a full cart preview priced exactly like checkout, without
// persisting anything.
type QuoteDTO struct {
	Lines           []QuoteLineDTO  `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	GST             decimal.Decimal `json:"gst"`
	ShippingCharges decimal.Decimal `json:"shipping_charges"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// Service prices a cart and persists the resulting order atomically.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDTO, error)
	Quote(ctx context.Context, items []CartItem) (*QuoteDTO, error)
}

type service struct {
	tx         txRunner
	products   productLoader
	rates      rateSource
	packaging  boxRateResolver
	ordersRepo orders.Repository
	logg       *logger.Logger
}

// NewService builds the checkout orchestrator.
func NewService(
	tx txRunner,
	products productLoader,
	rates rateSource,
	packaging boxRateResolver,
	ordersRepo orders.Repository,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if rates == nil {
		return nil, fmt.Errorf("rate source required")
	}
	if packaging == nil {
		return nil, fmt.Errorf("box rate resolver required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{
		tx:         tx,
		products:   products,
		rates:      rates,
		packaging:  packaging,
		ordersRepo: ordersRepo,
		logg:       logg,
	}, nil
}

type pricedLine struct {
	product   *models.Product
	quantity  int
	breakdown types.PriceBreakdown
	unitPrice decimal.Decimal
	total     decimal.Decimal
	degraded  []pricing.DegradationReason
}

// CreateOrder validates the cart, prices every line against the current
// rate snapshot, applies shipping once at the order level, and persists
// the aggregate in a single transaction. Line shipping fields are zero;
// line totals embed line GST, so the order total is exactly the sum of
// line totals plus the order's shipping charge.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, input Input) (*orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shipping address incomplete")
	}

	snapshot, err := s.rates.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading rate snapshot")
	}

	lines, err := s.priceLines(ctx, pricing.Snapshot{Rates: snapshot}, input.Items)
	if err != nil {
		return nil, err
	}

	orderSubtotal := decimal.Zero
	orderGST := decimal.Zero
	orderTotal := decimal.Zero
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.quantity))
		orderSubtotal = orderSubtotal.Add(line.breakdown.Subtotal.Mul(qty))
		orderGST = orderGST.Add(line.breakdown.GST.Mul(qty))
		orderTotal = orderTotal.Add(line.total)
	}
	shipping := pricing.ShippingFor(orderSubtotal, orderSubtotal)
	orderTotal = orderTotal.Add(shipping)

	address := input.ShippingAddress
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Subtotal:        orderSubtotal,
		GST:             orderGST,
		ShippingCharges: shipping,
		TotalPrice:      orderTotal,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
		ShippingAddress: &address,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			breakdown := line.breakdown
			items = append(items, models.OrderItem{
				ID:             uuid.New(),
				OrderID:        order.ID,
				ProductID:      line.product.ID,
				Quantity:       line.quantity,
				UnitPrice:      line.unitPrice,
				TotalPrice:     line.total,
				PriceBreakdown: &breakdown,
			})
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return err
		}

		return repo.AppendStatusHistory(ctx, &models.OrderStatusHistory{
			ID:      uuid.New(),
			OrderID: order.ID,
			Status:  enums.OrderStatusPending,
			Notes:   "Order created",
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "order creation failed")
	}

	persisted, err := s.ordersRepo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading created order")
	}
	return orders.ToOrderDTO(persisted), nil
}

// Quote prices a cart through the same path as checkout without writing
// anything. The preview shares the order-level shipping rule so the numbers
// match what checkout would persist.
func (s *service) Quote(ctx context.Context, items []CartItem) (*QuoteDTO, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	snapshot, err := s.rates.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading rate snapshot")
	}

	lines, err := s.priceLines(ctx, pricing.Snapshot{Rates: snapshot}, items)
	if err != nil {
		return nil, err
	}

	quote := &QuoteDTO{
		Subtotal:   decimal.Zero,
		GST:        decimal.Zero,
		TotalPrice: decimal.Zero,
	}
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.quantity))
		quote.Subtotal = quote.Subtotal.Add(line.breakdown.Subtotal.Mul(qty))
		quote.GST = quote.GST.Add(line.breakdown.GST.Mul(qty))
		quote.TotalPrice = quote.TotalPrice.Add(line.total)

		degraded := make([]string, 0, len(line.degraded))
		for _, reason := range line.degraded {
			degraded = append(degraded, string(reason))
		}
		quote.Lines = append(quote.Lines, QuoteLineDTO{
			ProductID:      line.product.ID,
			ProductName:    line.product.Name,
			Quantity:       line.quantity,
			UnitPrice:      line.unitPrice,
			TotalPrice:     line.total,
			PriceBreakdown: line.breakdown,
			Degraded:       degraded,
		})
	}
	quote.ShippingCharges = pricing.ShippingFor(quote.Subtotal, quote.Subtotal)
	quote.TotalPrice = quote.TotalPrice.Add(quote.ShippingCharges)
	return quote, nil
}

func (s *service) priceLines(ctx context.Context, snapshot pricing.Snapshot, items []CartItem) ([]pricedLine, error) {
	lines := make([]pricedLine, 0, len(items))
	for _, item := range items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid quantity %d for product %s", item.Quantity, item.ProductID))
		}

		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %s not found", item.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}

		opts := []pricing.Option{pricing.WithOrderLevelShipping()}
		if product.BoxSKU != nil && *product.BoxSKU != "" {
			rate, found, err := s.packaging.ActiveRate(ctx, *product.BoxSKU)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving box rate")
			}
			if found {
				opts = append(opts, pricing.WithBoxRate(rate))
			}
		}

		quote := pricing.Price(product, snapshot, opts...)
		if quote.IsDegraded() && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("pricing degraded for product %s: %v", product.ID, quote.Degraded))
		}

		unit := quote.Breakdown.FinalPrice
		lines = append(lines, pricedLine{
			product:   product,
			quantity:  quantity,
			breakdown: quote.Breakdown,
			unitPrice: unit,
			total:     unit.Mul(decimal.NewFromInt(int64(quantity))),
			degraded:  quote.Degraded,
		})
	}
	return lines, nil
}
