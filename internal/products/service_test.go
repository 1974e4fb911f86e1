package product

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
)

func TestValidatePackageFields(t *testing.T) {
	positive := decimal.NewFromInt(25)
	zero := decimal.Zero
	negative := decimal.NewFromInt(-3)
	count := 10
	badCount := 0

	t.Run("all nil", func(t *testing.T) {
		if err := validatePackageFields(nil, nil, nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("positive values", func(t *testing.T) {
		if err := validatePackageFields(&positive, &positive, &positive, &count); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero decimal", func(t *testing.T) {
		err := validatePackageFields(&zero, nil, nil, nil)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("negative decimal", func(t *testing.T) {
		err := validatePackageFields(nil, &negative, nil, nil)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("zero count", func(t *testing.T) {
		err := validatePackageFields(nil, nil, nil, &badCount)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestApplyUpdateToProductTrims(t *testing.T) {
	product := &models.Product{
		Code: "old-code",
		Name: "old name",
		Unit: enums.UnitKG,
	}

	newUnit := enums.UnitM2
	newPrice := decimal.RequireFromString("12.50")
	input := UpdateProductInput{
		Code:      stringPtr("  FT-100  "),
		Name:      stringPtr("  Granül "),
		Unit:      &newUnit,
		UnitPrice: &newPrice,
	}

	if err := applyUpdateToProduct(product, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Code != "FT-100" {
		t.Fatalf("expected trimmed code, got %q", product.Code)
	}
	if product.Name != "Granül" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.Unit != enums.UnitM2 {
		t.Fatalf("expected unit update, got %q", product.Unit)
	}
	if !product.UnitPrice.Equal(newPrice) {
		t.Fatalf("expected price %s, got %s", newPrice, product.UnitPrice)
	}
}

func TestApplyUpdateToProductClearsPackageData(t *testing.T) {
	kg := decimal.NewFromInt(25)
	product := &models.Product{
		Code:      "FT-100",
		Name:      "Granül",
		Unit:      enums.UnitKG,
		PackageKG: &kg,
	}

	var cleared *decimal.Decimal
	input := UpdateProductInput{PackageKG: &cleared}
	if err := applyUpdateToProduct(product, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.PackageKG != nil {
		t.Fatalf("expected package_kg cleared, got %v", product.PackageKG)
	}
}

func TestApplyUpdateToProductRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		input UpdateProductInput
	}{
		{"empty code", UpdateProductInput{Code: stringPtr("   ")}},
		{"empty name", UpdateProductInput{Name: stringPtr("")}},
		{"bad unit", UpdateProductInput{Unit: unitPtr(enums.Unit("Litre"))}},
		{"bad currency", UpdateProductInput{Currency: currencyPtr(enums.Currency("GBP"))}},
		{"negative price", UpdateProductInput{UnitPrice: decimalPtr(decimal.NewFromInt(-1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := &models.Product{Code: "FT-100", Name: "Granül", Unit: enums.UnitKG}
			err := applyUpdateToProduct(product, tt.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func stringPtr(value string) *string {
	return &value
}

func unitPtr(value enums.Unit) *enums.Unit {
	return &value
}

func currencyPtr(value enums.Currency) *enums.Currency {
	return &value
}

func decimalPtr(value decimal.Decimal) *decimal.Decimal {
	return &value
}
