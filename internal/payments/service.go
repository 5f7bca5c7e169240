package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/internal/orders"
	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/razorpay"
)

// Verification outcomes reported to callers and metrics.
const (
	OutcomePaid        = "paid"
	OutcomeCODAccepted = "cod_accepted"

	FallbackGatewayUnconfigured = "gateway_unconfigured"
)

type gateway interface {
	Configured() bool
	Currency() string
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*razorpay.GatewayOrder, error)
	VerifySignature(orderRef, paymentRef, signature string) bool
}

type orderState interface {
	GetOrder(ctx context.Context, orderID uuid.UUID, actor orders.Actor) (*orders.OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, input orders.UpdatePaymentStatusInput) (*orders.OrderDTO, error)
}

type gatewayRefStore interface {
	FindByGatewayRef(ctx context.Context, gatewayOrderRef string) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}

type notifier interface {
	OrderConfirmed(ctx context.Context, order *orders.OrderDTO)
}

// GatewayOrderDTO is what the storefront needs to open the payment widget or
// to fall back to offline collection.
type GatewayOrderDTO struct {
	OrderID          uuid.UUID `json:"order_id"`
	GatewayOrderRef  string    `json:"gateway_order_ref"`
	AmountMinorUnits int64     `json:"amount_minor_units"`
	Currency         string    `json:"currency"`
	CODFallback      bool      `json:"cod_fallback"`
	FallbackReason   string    `json:"fallback_reason,omitempty"`
}

// VerifyInput is the payment callback payload.
type VerifyInput struct {
	OrderID           uuid.UUID
	GatewayOrderRef   string
	GatewayPaymentRef string
	Signature         string
}

// VerifyResult reports the resolved outcome alongside the updated order.
type VerifyResult struct {
	Order          *orders.OrderDTO `json:"order"`
	Outcome        string           `json:"outcome"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
}

// Service handles the payment leg of an order's lifecycle.
type Service interface {
	CreateGatewayOrder(ctx context.Context, actor orders.Actor, orderID uuid.UUID) (*GatewayOrderDTO, error)
	Verify(ctx context.Context, actor orders.Actor, input VerifyInput) (*VerifyResult, error)
}

type service struct {
	gateway  gateway
	orders   orderState
	refs     gatewayRefStore
	notifier notifier
	logg     *logger.Logger
}

// NewService builds the payment verifier.
func NewService(gw gateway, orderSvc orderState, refs gatewayRefStore, notif notifier, logg *logger.Logger) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if refs == nil {
		return nil, fmt.Errorf("order store required")
	}
	return &service{gateway: gw, orders: orderSvc, refs: refs, notifier: notif, logg: logg}, nil
}

// CreateGatewayOrder registers the order's total with the gateway in minor
// units and records the returned reference. When the gateway is unconfigured
// it hands back a Cash on Delivery reference instead of failing checkout.
func (s *service) CreateGatewayOrder(ctx context.Context, actor orders.Actor, orderID uuid.UUID) (*GatewayOrderDTO, error) {
	order, err := s.orders.GetOrder(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}

	if !s.gateway.Configured() {
		ref := codReference(order.ID)
		if err := s.refs.UpdateOrder(ctx, order.ID, map[string]any{"gateway_order_ref": ref}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording gateway reference")
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "payment gateway unconfigured, issuing cash on delivery reference")
		}
		return &GatewayOrderDTO{
			OrderID:         order.ID,
			GatewayOrderRef: ref,
			Currency:        s.gateway.Currency(),
			CODFallback:     true,
			FallbackReason:  FallbackGatewayUnconfigured,
		}, nil
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, order.TotalPrice, order.ID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating gateway order")
	}
	if err := s.refs.UpdateOrder(ctx, order.ID, map[string]any{"gateway_order_ref": gwOrder.Reference}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording gateway reference")
	}
	return &GatewayOrderDTO{
		OrderID:          order.ID,
		GatewayOrderRef:  gwOrder.Reference,
		AmountMinorUnits: gwOrder.Amount,
		Currency:         gwOrder.Currency,
	}, nil
}

// Verify resolves a payment callback. Cash on Delivery references skip
// signature checking, an unconfigured gateway degrades to Cash on Delivery
// acceptance, and everything else must carry a valid gateway signature for a
// reference that belongs to the order being verified. A bad signature or a
// mismatched reference changes no state, and a replayed callback for an
// already paid order returns it unchanged.
func (s *service) Verify(ctx context.Context, actor orders.Actor, input VerifyInput) (*VerifyResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.orders.GetOrder(ctx, input.OrderID, actor)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return &VerifyResult{Order: order, Outcome: OutcomePaid}, nil
	}

	if orders.IsCODReference(input.GatewayOrderRef) || orders.IsCODReference(input.GatewayPaymentRef) {
		return s.acceptCOD(ctx, input.OrderID, firstCODReference(input), "")
	}
	if !s.gateway.Configured() {
		return s.acceptCOD(ctx, input.OrderID, codReference(input.OrderID), FallbackGatewayUnconfigured)
	}

	if input.GatewayOrderRef == "" || input.GatewayPaymentRef == "" || input.Signature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order reference, payment reference and signature are required")
	}
	if !s.gateway.VerifySignature(input.GatewayOrderRef, input.GatewayPaymentRef, input.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid payment signature")
	}
	if err := s.checkGatewayRef(ctx, input); err != nil {
		return nil, err
	}

	paymentRef := input.GatewayPaymentRef
	order, err = s.orders.UpdatePaymentStatus(ctx, input.OrderID, orders.UpdatePaymentStatusInput{
		PaymentStatus: enums.PaymentStatusPaid.String(),
		GatewayRef:    &paymentRef,
	})
	if err != nil {
		return nil, err
	}
	s.notifyConfirmed(ctx, order)
	return &VerifyResult{Order: order, Outcome: OutcomePaid}, nil
}

// checkGatewayRef confirms the callback's gateway order reference was issued
// for the order being verified.
func (s *service) checkGatewayRef(ctx context.Context, input VerifyInput) error {
	stored, err := s.refs.FindByGatewayRef(ctx, input.GatewayOrderRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown gateway order reference")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving gateway order reference")
	}
	if stored.ID != input.OrderID {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "gateway order reference belongs to another order")
	}
	return nil
}

func (s *service) acceptCOD(ctx context.Context, orderID uuid.UUID, ref, fallbackReason string) (*VerifyResult, error) {
	order, err := s.orders.UpdatePaymentStatus(ctx, orderID, orders.UpdatePaymentStatusInput{
		PaymentStatus: enums.PaymentStatusPending.String(),
		GatewayRef:    &ref,
	})
	if err != nil {
		return nil, err
	}
	if fallbackReason != "" && s.logg != nil {
		s.logg.Warn(ctx, "payment verification degraded to cash on delivery: "+fallbackReason)
	}
	s.notifyConfirmed(ctx, order)
	return &VerifyResult{Order: order, Outcome: OutcomeCODAccepted, FallbackReason: fallbackReason}, nil
}

func (s *service) notifyConfirmed(ctx context.Context, order *orders.OrderDTO) {
	if s.notifier == nil || order == nil {
		return
	}
	if order.Status == enums.OrderStatusConfirmed {
		s.notifier.OrderConfirmed(ctx, order)
	}
}

func codReference(orderID uuid.UUID) string {
	return orders.CODReferencePrefix + strings.ReplaceAll(orderID.String(), "-", "")
}

func firstCODReference(input VerifyInput) string {
	if orders.IsCODReference(input.GatewayOrderRef) {
		return input.GatewayOrderRef
	}
	return input.GatewayPaymentRef
}
