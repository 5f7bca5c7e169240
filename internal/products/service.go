package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
)

// ProductDTO is the externally visible catalog listing.
type ProductDTO struct {
	ID                 uuid.UUID               `json:"id"`
	Name               string                  `json:"name"`
	Description        *string                 `json:"description,omitempty"`
	ImageURL           *string                 `json:"image_url,omitempty"`
	MetalType          enums.MetalType         `json:"metal_type"`
	Purity             *string                 `json:"purity,omitempty"`
	WeightGrams        decimal.Decimal         `json:"weight_grams"`
	MakingChargesType  enums.MakingChargesType `json:"making_charges_type"`
	MakingChargesValue decimal.Decimal         `json:"making_charges_value"`
	BoxSKU             *string                 `json:"box_sku,omitempty"`
	IsActive           bool                    `json:"is_active"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Name               string
	Description        *string
	ImageURL           *string
	MetalType          string
	Purity             *string
	WeightGrams        decimal.Decimal
	MakingChargesType  string
	MakingChargesValue decimal.Decimal
	BoxSKU             *string
	IsActive           bool
}

// UpdateProductInput holds optional mutation values for a listing.
type UpdateProductInput struct {
	Name               *string
	Description        *string
	ImageURL           *string
	MetalType          *string
	Purity             *string
	WeightGrams        *decimal.Decimal
	MakingChargesType  *string
	MakingChargesValue *decimal.Decimal
	BoxSKU             *string
	IsActive           *bool
}

// Service exposes the catalog: public reads and admin mutations.
type Service interface {
	ListProducts(ctx context.Context, includeInactive bool) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// ListProducts returns listings, active-only unless includeInactive is set.
func (s *service) ListProducts(ctx context.Context, includeInactive bool) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toProductDTO(&rows[i]))
	}
	return dtos, nil
}

// GetProduct returns one listing by id.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	dto := toProductDTO(product)
	return &dto, nil
}

// CreateProduct inserts a new listing after validating pricing attributes.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	metalType, err := enums.ParseMetalType(input.MetalType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid metal type")
	}
	chargesType, err := parseChargesType(input.MakingChargesType)
	if err != nil {
		return nil, err
	}
	if input.WeightGrams.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight_grams cannot be negative")
	}
	if input.MakingChargesValue.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "making_charges_value cannot be negative")
	}

	product := &models.Product{
		ID:                 uuid.New(),
		Name:               name,
		Description:        trimPtr(input.Description),
		ImageURL:           trimPtr(input.ImageURL),
		MetalType:          metalType,
		Purity:             trimPtr(input.Purity),
		WeightGrams:        input.WeightGrams,
		MakingChargesType:  chargesType,
		MakingChargesValue: input.MakingChargesValue,
		BoxSKU:             trimPtr(input.BoxSKU),
		IsActive:           input.IsActive,
	}
	if _, err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// UpdateProduct applies the provided fields to an existing listing.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if err := applyUpdateToProduct(product, input); err != nil {
		return nil, err
	}

	if _, err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}

	dto := toProductDTO(product)
	return &dto, nil
}

// DeleteProduct removes a listing.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = trimPtr(input.Description)
	}
	if input.ImageURL != nil {
		product.ImageURL = trimPtr(input.ImageURL)
	}
	if input.MetalType != nil {
		metalType, err := enums.ParseMetalType(*input.MetalType)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid metal type")
		}
		product.MetalType = metalType
	}
	if input.Purity != nil {
		product.Purity = trimPtr(input.Purity)
	}
	if input.WeightGrams != nil {
		if input.WeightGrams.Sign() < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "weight_grams cannot be negative")
		}
		product.WeightGrams = *input.WeightGrams
	}
	if input.MakingChargesType != nil {
		chargesType, err := parseChargesType(*input.MakingChargesType)
		if err != nil {
			return err
		}
		product.MakingChargesType = chargesType
	}
	if input.MakingChargesValue != nil {
		if input.MakingChargesValue.Sign() < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "making_charges_value cannot be negative")
		}
		product.MakingChargesValue = *input.MakingChargesValue
	}
	if input.BoxSKU != nil {
		product.BoxSKU = trimPtr(input.BoxSKU)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func parseChargesType(value string) (enums.MakingChargesType, error) {
	if strings.TrimSpace(value) == "" {
		return enums.MakingChargesTypeFixed, nil
	}
	chargesType, err := enums.ParseMakingChargesType(value)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid making charges type")
	}
	return chargesType, nil
}

func toProductDTO(product *models.Product) ProductDTO {
	return ProductDTO{
		ID:                 product.ID,
		Name:               product.Name,
		Description:        product.Description,
		ImageURL:           product.ImageURL,
		MetalType:          product.MetalType,
		Purity:             product.Purity,
		WeightGrams:        product.WeightGrams,
		MakingChargesType:  product.MakingChargesType,
		MakingChargesValue: product.MakingChargesValue,
		BoxSKU:             product.BoxSKU,
		IsActive:           product.IsActive,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
