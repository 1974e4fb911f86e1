package enums

import "fmt"

// Unit is the base unit a product is sold in.
type Unit string

const (
	UnitKG    Unit = "KG"
	UnitMetre Unit = "Metre"
	UnitM2    Unit = "m²"
	UnitAdet  Unit = "Adet"
)

var validUnits = []Unit{
	UnitKG,
	UnitMetre,
	UnitM2,
	UnitAdet,
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known Unit.
func (u Unit) IsValid() bool {
	for _, candidate := range validUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnit converts raw input into a Unit.
func ParseUnit(value string) (Unit, error) {
	for _, candidate := range validUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit %q", value)
}
