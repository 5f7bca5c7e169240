package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aureliajewels/aurelia-backend/api/middleware"
	"github.com/aureliajewels/aurelia-backend/api/responses"
	"github.com/aureliajewels/aurelia-backend/api/validators"
	checkoutsvc "github.com/aureliajewels/aurelia-backend/internal/checkout"
	ordersvc "github.com/aureliajewels/aurelia-backend/internal/orders"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/metrics"
	"github.com/aureliajewels/aurelia-backend/pkg/types"
)

type cartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=0"`
}

type checkoutRequest struct {
	Items           []cartItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress types.Address     `json:"shipping_address" validate:"required"`
}

type quoteRequest struct {
	Items []cartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes,omitempty"`
}

type updateTrackingRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required"`
}

func actorFromContext(r *http.Request) (ordersvc.Actor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return ordersvc.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return ordersvc.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return ordersvc.Actor{
		UserID: userID,
		Role:   enums.UserRole(middleware.RoleFromContext(r.Context())),
	}, nil
}

func toCartItems(items []cartItemRequest) []checkoutsvc.CartItem {
	out := make([]checkoutsvc.CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, checkoutsvc.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

// Checkout prices the cart and creates the order.
func Checkout(svc checkoutsvc.Service, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), actor.UserID, checkoutsvc.Input{
			Items:           toCartItems(payload.Items),
			ShippingAddress: payload.ShippingAddress,
		})
		if err != nil {
			if m != nil {
				m.IncCheckout("error")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if m != nil {
			m.IncCheckout("created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// Quote previews cart pricing without creating anything.
func Quote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), toCartItems(payload.Items))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orders, err := svc.ListUserOrders(r.Context(), actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), orderID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminOrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.ListAllOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

func AdminUpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, ordersvc.UpdateStatusInput{
			Status: payload.Status,
			Notes:  payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminUpdateTracking(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateTrackingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateTracking(r.Context(), orderID, payload.TrackingNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
