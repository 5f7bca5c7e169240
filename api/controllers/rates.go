package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/api/responses"
	"github.com/aureliajewels/aurelia-backend/api/validators"
	ratesvc "github.com/aureliajewels/aurelia-backend/internal/rates"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
)

type setRateRequest struct {
	MetalKey    string          `json:"metal_key" validate:"required"`
	RatePerGram decimal.Decimal `json:"rate_per_gram" validate:"required"`
	ObservedAt  *time.Time      `json:"observed_at,omitempty"`
}

func RatesList(svc ratesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rates, err := svc.LatestRates(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rates)
	}
}

func AdminSetRate(svc ratesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setRateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.SetRate(r.Context(), ratesvc.SetRateInput{
			MetalKey:    payload.MetalKey,
			RatePerGram: payload.RatePerGram,
			ObservedAt:  payload.ObservedAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rate)
	}
}
