package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
)

// Totals are the aggregate monetary figures of a draft. The four fields
// are always mutually consistent: Total = Subtotal - DiscountAmount + VATAmount.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	VATAmount      decimal.Decimal `json:"vat_amount"`
	Total          decimal.Decimal `json:"total"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives the aggregate figures from the current item list
// and discount/VAT settings. It never fails: zero-value decimals stand in
// for missing inputs, and an amount discount is deliberately not clamped
// to the subtotal, so a large flat discount can drive the total negative.
func ComputeTotals(d Draft) Totals {
	subtotal := decimal.Zero
	for _, item := range d.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	var discount decimal.Decimal
	switch d.DiscountType {
	case enums.DiscountTypePercentage:
		discount = subtotal.Mul(d.DiscountValue).Div(oneHundred)
	case enums.DiscountTypeAmount:
		discount = d.DiscountValue
	}

	afterDiscount := subtotal.Sub(discount)

	var vat decimal.Decimal
	if d.VATIncluded {
		vat = afterDiscount.Mul(d.VATRate).Div(oneHundred)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		VATAmount:      vat,
		Total:          afterDiscount.Add(vat),
	}
}
