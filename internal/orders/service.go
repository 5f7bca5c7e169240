package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
)

// CODReferencePrefix marks a gateway reference as a cash-on-delivery
// declaration rather than an online payment.
const CODReferencePrefix = "cod_"

// IsCODReference reports whether a gateway reference declares COD.
func IsCODReference(ref string) bool {
	return strings.HasPrefix(ref, CODReferencePrefix)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies who is asking for an order.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// UpdateStatusInput carries a fulfillment status change.
type UpdateStatusInput struct {
	Status string
	Notes  *string
}

// UpdatePaymentStatusInput carries a payment status change plus the gateway
// reference that triggered it.
type UpdatePaymentStatusInput struct {
	PaymentStatus string
	GatewayRef    *string
}

// Service applies order state transitions and serves order reads.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDTO, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderSummaryDTO, error)
	ListAllOrders(ctx context.Context) ([]OrderSummaryDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, input UpdatePaymentStatusInput) (*OrderDTO, error)
	UpdateTracking(ctx context.Context, orderID uuid.UUID, trackingNumber string) (*OrderDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the order state manager.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// GetOrder loads the aggregate. Non-admin callers only see their own orders;
// anything else reads as not found.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != enums.UserRoleAdmin && order.UserID != actor.UserID {
		return nil, orderNotFound(orderID)
	}
	return ToOrderDTO(order), nil
}

// ListUserOrders returns the caller's orders, newest first.
func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]OrderSummaryDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toSummaries(rows), nil
}

// ListAllOrders returns every order, newest first.
func (s *service) ListAllOrders(ctx context.Context) ([]OrderSummaryDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toSummaries(rows), nil
}

// UpdateStatus writes the fulfillment status and appends one audit row.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	status, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	notes := fmt.Sprintf("Status updated to %s", status)
	if input.Notes != nil && strings.TrimSpace(*input.Notes) != "" {
		notes = strings.TrimSpace(*input.Notes)
	}

	var dto *OrderDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadOrder(ctx, repo, orderID); err != nil {
			return err
		}
		if err := applyStatusChange(ctx, repo, orderID, status, notes); err != nil {
			return err
		}
		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		dto = ToOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// UpdatePaymentStatus writes the payment status and applies the derived
// fulfillment rule: a paid order auto-confirms with "Payment received"; a
// pending order declared COD auto-confirms with
// "Order placed as Cash on Delivery". Each derived transition appends
// exactly one history row.
func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, input UpdatePaymentStatusInput) (*OrderDTO, error) {
	paymentStatus, err := enums.ParsePaymentStatus(input.PaymentStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
	}

	var dto *OrderDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.PaymentStatus == enums.PaymentStatusPaid && paymentStatus == enums.PaymentStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment status cannot revert to pending")
		}

		updates := map[string]any{"payment_status": paymentStatus}
		if input.GatewayRef != nil && strings.TrimSpace(*input.GatewayRef) != "" {
			ref := strings.TrimSpace(*input.GatewayRef)
			updates["payment_id"] = ref
		}
		if err := repo.UpdateOrder(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment status")
		}

		switch {
		case paymentStatus == enums.PaymentStatusPaid:
			if err := applyStatusChange(ctx, repo, orderID, enums.OrderStatusConfirmed, "Payment received"); err != nil {
				return err
			}
		case input.GatewayRef != nil && IsCODReference(*input.GatewayRef):
			if err := applyStatusChange(ctx, repo, orderID, enums.OrderStatusConfirmed, "Order placed as Cash on Delivery"); err != nil {
				return err
			}
		}

		updated, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		dto = ToOrderDTO(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// UpdateTracking records the shipment tracking number.
func (s *service) UpdateTracking(ctx context.Context, orderID uuid.UUID, trackingNumber string) (*OrderDTO, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number is required")
	}

	var dto *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadOrder(ctx, repo, orderID); err != nil {
			return err
		}
		if err := repo.UpdateOrder(ctx, orderID, map[string]any{"tracking_number": trackingNumber}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating tracking number")
		}
		order, err := s.loadOrder(ctx, repo, orderID)
		if err != nil {
			return err
		}
		dto = ToOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) loadOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderNotFound(orderID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func applyStatusChange(ctx context.Context, repo Repository, orderID uuid.UUID, status enums.OrderStatus, notes string) error {
	if err := repo.UpdateOrder(ctx, orderID, map[string]any{"status": status}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	entry := &models.OrderStatusHistory{
		ID:      uuid.New(),
		OrderID: orderID,
		Status:  status,
		Notes:   notes,
	}
	if err := repo.AppendStatusHistory(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending status history")
	}
	return nil
}

func orderNotFound(orderID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", orderID))
}

func toSummaries(rows []models.Order) []OrderSummaryDTO {
	summaries := make([]OrderSummaryDTO, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, toSummaryDTO(&rows[i]))
	}
	return summaries
}
