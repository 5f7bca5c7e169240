package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/api/responses"
	"github.com/aureliajewels/aurelia-backend/api/validators"
	packagingsvc "github.com/aureliajewels/aurelia-backend/internal/packaging"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
)

type createPackagingRequest struct {
	SKU      string          `json:"sku" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	ItemType *string         `json:"item_type,omitempty"`
	Rate     decimal.Decimal `json:"rate"`
	IsActive *bool           `json:"is_active,omitempty"`
}

type updatePackagingRequest struct {
	Name     *string          `json:"name,omitempty"`
	ItemType *string          `json:"item_type,omitempty"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

func AdminListPackaging(svc packagingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminCreatePackaging(svc packagingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPackagingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive := true
		if payload.IsActive != nil {
			isActive = *payload.IsActive
		}
		item, err := svc.CreateItem(r.Context(), packagingsvc.CreateItemInput{
			SKU:      payload.SKU,
			Name:     payload.Name,
			ItemType: payload.ItemType,
			Rate:     payload.Rate,
			IsActive: isActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func AdminUpdatePackaging(svc packagingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "packagingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePackagingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), id, packagingsvc.UpdateItemInput{
			Name:     payload.Name,
			ItemType: payload.ItemType,
			Rate:     payload.Rate,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminDeletePackaging(svc packagingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "packagingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
