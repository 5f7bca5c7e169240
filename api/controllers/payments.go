package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aureliajewels/aurelia-backend/api/responses"
	"github.com/aureliajewels/aurelia-backend/api/validators"
	paymentsvc "github.com/aureliajewels/aurelia-backend/internal/payments"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/metrics"
)

type createGatewayOrderRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type verifyPaymentRequest struct {
	OrderID           uuid.UUID `json:"order_id" validate:"required"`
	GatewayOrderRef   string    `json:"gateway_order_ref"`
	GatewayPaymentRef string    `json:"gateway_payment_ref"`
	Signature         string    `json:"signature"`
}

// PaymentsCreateOrder registers the order with the payment gateway and hands
// back the reference the client pays against.
func PaymentsCreateOrder(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createGatewayOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		gwOrder, err := svc.CreateGatewayOrder(r.Context(), actor, payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, gwOrder)
	}
}

// PaymentsVerify settles a payment attempt against the order.
func PaymentsVerify(svc paymentsvc.Service, m *metrics.HTTPMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Verify(r.Context(), actor, paymentsvc.VerifyInput{
			OrderID:           payload.OrderID,
			GatewayOrderRef:   payload.GatewayOrderRef,
			GatewayPaymentRef: payload.GatewayPaymentRef,
			Signature:         payload.Signature,
		})
		if err != nil {
			if m != nil {
				m.IncPaymentVerification("rejected")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if m != nil {
			m.IncPaymentVerification(result.Outcome)
		}
		responses.WriteSuccess(w, result)
	}
}
