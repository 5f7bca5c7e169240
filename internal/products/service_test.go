package products

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
)

func TestApplyUpdateToProductTrimsAndCopies(t *testing.T) {
	product := &models.Product{
		Name:              "old name",
		MetalType:         enums.MetalTypeGold,
		MakingChargesType: enums.MakingChargesTypeFixed,
	}

	weight := decimal.RequireFromString("12.5")
	input := UpdateProductInput{
		Name:              stringPtr("  Kundan Necklace "),
		MetalType:         stringPtr("silver"),
		Purity:            stringPtr("  925  "),
		WeightGrams:       &weight,
		MakingChargesType: stringPtr("per_gram"),
		BoxSKU:            stringPtr("   "),
	}

	if err := applyUpdateToProduct(product, input); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if product.Name != "Kundan Necklace" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.MetalType != enums.MetalTypeSilver {
		t.Fatalf("expected silver metal type, got %s", product.MetalType)
	}
	if product.Purity == nil || *product.Purity != "925" {
		t.Fatalf("expected trimmed purity, got %v", product.Purity)
	}
	if !product.WeightGrams.Equal(weight) {
		t.Fatalf("expected weight %s, got %s", weight, product.WeightGrams)
	}
	if product.MakingChargesType != enums.MakingChargesTypePerGram {
		t.Fatalf("expected per_gram charges type, got %s", product.MakingChargesType)
	}
	if product.BoxSKU != nil {
		t.Fatalf("expected blank box sku to clear, got %v", *product.BoxSKU)
	}
}

func TestApplyUpdateToProductRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		input UpdateProductInput
	}{
		{"emptyName", UpdateProductInput{Name: stringPtr("   ")}},
		{"badMetal", UpdateProductInput{MetalType: stringPtr("platinum")}},
		{"negativeWeight", UpdateProductInput{WeightGrams: decimalPtr("-1")}},
		{"badChargesType", UpdateProductInput{MakingChargesType: stringPtr("hourly")}},
		{"negativeCharges", UpdateProductInput{MakingChargesValue: decimalPtr("-5")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := &models.Product{Name: "ring", MetalType: enums.MetalTypeGold}
			err := applyUpdateToProduct(product, tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error code, got %v", err)
			}
		})
	}
}

func TestParseChargesTypeDefaultsToFixed(t *testing.T) {
	chargesType, err := parseChargesType("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if chargesType != enums.MakingChargesTypeFixed {
		t.Fatalf("expected fixed default, got %s", chargesType)
	}
}

func stringPtr(value string) *string {
	return &value
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
