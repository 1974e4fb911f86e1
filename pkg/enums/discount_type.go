package enums

import "fmt"

// DiscountType selects how a quote-level discount value is interpreted.
type DiscountType string

const (
	// DiscountTypePercentage treats the discount value as a percent of the subtotal.
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeAmount treats the discount value as a flat amount in the quote currency.
	DiscountTypeAmount DiscountType = "amount"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeAmount,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value matches a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
