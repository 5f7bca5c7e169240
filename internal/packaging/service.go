package packaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/db"
	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
)

// ItemDTO is the externally visible packaging item.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	ItemType  *string         `json:"item_type,omitempty"`
	Rate      decimal.Decimal `json:"rate"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateItemInput holds the validated payload to create a packaging item.
type CreateItemInput struct {
	SKU      string
	Name     string
	ItemType *string
	Rate     decimal.Decimal
	IsActive bool
}

// UpdateItemInput holds optional mutation values for a packaging item.
type UpdateItemInput struct {
	Name     *string
	ItemType *string
	Rate     *decimal.Decimal
	IsActive *bool
}

// Service exposes admin management of the packaging item master.
type Service interface {
	ListItems(ctx context.Context) ([]ItemDTO, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a packaging service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("packaging repository required")
	}
	return &service{repo: repo}, nil
}

// ListItems returns all packaging items.
func (s *service) ListItems(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing packaging items")
	}
	dtos := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toItemDTO(&rows[i]))
	}
	return dtos, nil
}

// CreateItem inserts a new packaging item with a unique SKU.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Rate.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate cannot be negative")
	}

	item := &models.PackagingItem{
		ID:       uuid.New(),
		SKU:      sku,
		Name:     name,
		ItemType: trimPtr(input.ItemType),
		Rate:     input.Rate.Round(2),
		IsActive: input.IsActive,
	}
	if _, err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("packaging sku %q already exists", sku))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating packaging item")
	}

	dto := toItemDTO(item)
	return &dto, nil
}

// UpdateItem applies the provided fields to an existing packaging item.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("packaging item %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading packaging item")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		item.Name = name
	}
	if input.ItemType != nil {
		item.ItemType = trimPtr(input.ItemType)
	}
	if input.Rate != nil {
		if input.Rate.Sign() < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate cannot be negative")
		}
		item.Rate = input.Rate.Round(2)
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if _, err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating packaging item")
	}

	dto := toItemDTO(item)
	return &dto, nil
}

// DeleteItem removes a packaging item. Products still referencing its SKU
// degrade to a zero box charge on the next pricing call.
func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("packaging item %s not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading packaging item")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting packaging item")
	}
	return nil
}

func toItemDTO(item *models.PackagingItem) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		SKU:       item.SKU,
		Name:      item.Name,
		ItemType:  item.ItemType,
		Rate:      item.Rate,
		IsActive:  item.IsActive,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
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
