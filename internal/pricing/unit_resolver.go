// Package pricing implements the quote pricing engine: package-quantity
// resolution, the line-item draft reducer, and the totals calculator.
// Everything here is pure; persistence and transport live elsewhere.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/errors"
)

// Resolution is the outcome of translating a user-entered quantity into
// the product's base unit.
type Resolution struct {
	Quantity    decimal.Decimal
	DisplayText string
	PackageMode bool
}

// ResolveQuantity expands a package count into base units using the
// factor matching the product's unit, or passes a direct quantity
// through. The stored quantity keeps full precision; only the display
// text rounds to two decimals.
func ResolveQuantity(product models.Product, entered decimal.Decimal, packageMode bool) (Resolution, error) {
	if !entered.IsPositive() {
		return Resolution{}, errors.New(errors.CodeValidation, "quantity must be greater than zero").
			WithDetails(map[string]any{"quantity": entered.String()})
	}

	if !packageMode {
		return Resolution{
			Quantity:    entered,
			DisplayText: fmt.Sprintf("%s %s", displayNumber(entered), product.Unit),
		}, nil
	}

	factor, ok := product.PackageFactor()
	if !ok || !factor.IsPositive() {
		return Resolution{}, errors.New(errors.CodeConfiguration, "package data not defined for this product").
			WithDetails(map[string]any{"product_id": product.ID.String(), "unit": string(product.Unit)})
	}

	resolved := entered.Mul(factor)
	return Resolution{
		Quantity:    resolved,
		DisplayText: fmt.Sprintf("%s paket (%s %s)", displayNumber(entered), displayNumber(resolved), product.Unit),
		PackageMode: true,
	}, nil
}

func displayNumber(d decimal.Decimal) string {
	return d.Round(2).String()
}
