package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
)

// Quote is a priced offer. Totals are recomputed from the items on every
// write; the stored columns are a snapshot of the last computation.
type Quote struct {
	ID     uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number string            `gorm:"column:number;not null;uniqueIndex:idx_quotes_user_number" json:"number"`
	Status enums.QuoteStatus `gorm:"column:status;not null;default:'draft'" json:"status"`

	CustomerID      *uuid.UUID `gorm:"column:customer_id;type:uuid;index" json:"customer_id,omitempty"`
	CustomerName    string     `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerCompany *string    `gorm:"column:customer_company" json:"customer_company,omitempty"`

	Currency enums.Currency `gorm:"column:currency;not null;default:'TL'" json:"currency"`

	DiscountType  *enums.DiscountType `gorm:"column:discount_type" json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal     `gorm:"column:discount_value;type:numeric(14,4);not null;default:0" json:"discount_value"`
	VATRate       decimal.Decimal     `gorm:"column:vat_rate;type:numeric(5,2);not null;default:0" json:"vat_rate"`
	VATIncluded   bool                `gorm:"column:vat_included;not null;default:false" json:"vat_included"`

	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null;default:0" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(14,2);not null;default:0" json:"discount_amount"`
	VATAmount      decimal.Decimal `gorm:"column:vat_amount;type:numeric(14,2);not null;default:0" json:"vat_amount"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null;default:0" json:"total"`

	IssueDate  time.Time  `gorm:"column:issue_date;not null" json:"issue_date"`
	ValidUntil *time.Time `gorm:"column:valid_until" json:"valid_until,omitempty"`
	Notes      *string    `gorm:"column:notes" json:"notes,omitempty"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items"`

	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_quotes_user_number;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Quote) TableName() string { return "quotes" }

// QuoteItem is a line of a quote. Product fields are copied at add time
// so later product edits do not rewrite history.
type QuoteItem struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID  uuid.UUID `gorm:"column:quote_id;type:uuid;not null;index" json:"quote_id"`
	Position int       `gorm:"column:position;not null" json:"position"`

	ProductID   *uuid.UUID `gorm:"column:product_id;type:uuid" json:"product_id,omitempty"`
	ProductCode string     `gorm:"column:product_code;not null" json:"product_code"`
	ProductName string     `gorm:"column:product_name;not null" json:"product_name"`
	Image       *string    `gorm:"column:image" json:"image,omitempty"`

	Unit             enums.Unit      `gorm:"column:unit;not null" json:"unit"`
	PackageMode      bool            `gorm:"column:package_mode;not null;default:false" json:"package_mode"`
	EnteredQuantity  decimal.Decimal `gorm:"column:entered_quantity;type:numeric(14,4);not null" json:"entered_quantity"`
	ResolvedQuantity decimal.Decimal `gorm:"column:resolved_quantity;type:numeric(14,4);not null" json:"resolved_quantity"`
	DisplayText      string          `gorm:"column:display_text;not null" json:"display_text"`

	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(14,4);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null" json:"subtotal"`

	Note *string `gorm:"column:note" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (QuoteItem) TableName() string { return "quote_items" }
