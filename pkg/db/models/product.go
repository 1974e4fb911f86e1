package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
)

// Product is a sellable item. The package_* columns describe how much of
// the product's unit one package holds; only the column matching Unit is
// consulted when a quote line is priced per package.
type Product struct {
	ID       uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code     string         `gorm:"column:code;not null;uniqueIndex:idx_products_user_code" json:"code"`
	Name     string         `gorm:"column:name;not null;index" json:"name"`
	Category *string        `gorm:"column:category" json:"category,omitempty"`
	Unit     enums.Unit     `gorm:"column:unit;not null" json:"unit"`
	Currency enums.Currency `gorm:"column:currency;not null;default:'TL'" json:"currency"`

	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(14,4);not null" json:"unit_price"`

	PackageKG     *decimal.Decimal `gorm:"column:package_kg;type:numeric(14,4)" json:"package_kg,omitempty"`
	PackageM2     *decimal.Decimal `gorm:"column:package_m2;type:numeric(14,4)" json:"package_m2,omitempty"`
	PackageLength *decimal.Decimal `gorm:"column:package_length;type:numeric(14,4)" json:"package_length,omitempty"`
	PackageCount  *int             `gorm:"column:package_count" json:"package_count,omitempty"`

	Description *string `gorm:"column:description" json:"description,omitempty"`
	Image       *string `gorm:"column:image" json:"image,omitempty"`

	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_products_user_code;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// PackageFactor returns the package size for the product's unit, or a
// nil decimal and false when the product is not configured for
// package-mode pricing.
func (p Product) PackageFactor() (decimal.Decimal, bool) {
	switch p.Unit {
	case enums.UnitKG:
		if p.PackageKG != nil {
			return *p.PackageKG, true
		}
	case enums.UnitM2:
		if p.PackageM2 != nil {
			return *p.PackageM2, true
		}
	case enums.UnitMetre:
		if p.PackageLength != nil {
			return *p.PackageLength, true
		}
	case enums.UnitAdet:
		if p.PackageCount != nil {
			return decimal.NewFromInt(int64(*p.PackageCount)), true
		}
	}
	return decimal.Decimal{}, false
}
