package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/api/responses"
	"github.com/aureliajewels/aurelia-backend/api/validators"
	productsvc "github.com/aureliajewels/aurelia-backend/internal/products"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
)

type createProductRequest struct {
	Name               string          `json:"name" validate:"required"`
	Description        *string         `json:"description,omitempty"`
	ImageURL           *string         `json:"image_url,omitempty"`
	MetalType          string          `json:"metal_type" validate:"required"`
	Purity             *string         `json:"purity,omitempty"`
	WeightGrams        decimal.Decimal `json:"weight_grams" validate:"required"`
	MakingChargesType  string          `json:"making_charges_type,omitempty"`
	MakingChargesValue decimal.Decimal `json:"making_charges_value"`
	BoxSKU             *string         `json:"box_sku,omitempty"`
	IsActive           *bool           `json:"is_active,omitempty"`
}

type updateProductRequest struct {
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	ImageURL           *string          `json:"image_url,omitempty"`
	MetalType          *string          `json:"metal_type,omitempty"`
	Purity             *string          `json:"purity,omitempty"`
	WeightGrams        *decimal.Decimal `json:"weight_grams,omitempty"`
	MakingChargesType  *string          `json:"making_charges_type,omitempty"`
	MakingChargesValue *decimal.Decimal `json:"making_charges_value,omitempty"`
	BoxSKU             *string          `json:"box_sku,omitempty"`
	IsActive           *bool            `json:"is_active,omitempty"`
}

func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive := r.URL.Query().Get("include_inactive") == "true"
		products, err := svc.ListProducts(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive := true
		if payload.IsActive != nil {
			isActive = *payload.IsActive
		}
		product, err := svc.CreateProduct(r.Context(), productsvc.CreateProductInput{
			Name:               payload.Name,
			Description:        payload.Description,
			ImageURL:           payload.ImageURL,
			MetalType:          payload.MetalType,
			Purity:             payload.Purity,
			WeightGrams:        payload.WeightGrams,
			MakingChargesType:  payload.MakingChargesType,
			MakingChargesValue: payload.MakingChargesValue,
			BoxSKU:             payload.BoxSKU,
			IsActive:           isActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, productsvc.UpdateProductInput{
			Name:               payload.Name,
			Description:        payload.Description,
			ImageURL:           payload.ImageURL,
			MetalType:          payload.MetalType,
			Purity:             payload.Purity,
			WeightGrams:        payload.WeightGrams,
			MakingChargesType:  payload.MakingChargesType,
			MakingChargesValue: payload.MakingChargesValue,
			BoxSKU:             payload.BoxSKU,
			IsActive:           payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
