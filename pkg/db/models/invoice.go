package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
)

// Invoice records a sale or purchase. RemainingAmount is maintained by
// the payment flow and drives PaymentStatus.
type Invoice struct {
	ID     uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number string            `gorm:"column:number;not null;uniqueIndex:idx_invoices_user_number" json:"number"`
	Type   enums.InvoiceType `gorm:"column:type;not null" json:"type"`

	QuoteID *uuid.UUID `gorm:"column:quote_id;type:uuid" json:"quote_id,omitempty"`

	CounterpartyID   *uuid.UUID `gorm:"column:counterparty_id;type:uuid" json:"counterparty_id,omitempty"`
	CounterpartyName string     `gorm:"column:counterparty_name;not null" json:"counterparty_name"`

	Currency enums.Currency `gorm:"column:currency;not null;default:'TL'" json:"currency"`

	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null;default:0" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(14,2);not null;default:0" json:"discount_amount"`
	VATAmount      decimal.Decimal `gorm:"column:vat_amount;type:numeric(14,2);not null;default:0" json:"vat_amount"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null;default:0" json:"total"`

	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null;default:'unpaid'" json:"payment_status"`
	RemainingAmount decimal.Decimal     `gorm:"column:remaining_amount;type:numeric(14,2);not null;default:0" json:"remaining_amount"`

	IssueDate time.Time  `gorm:"column:issue_date;not null" json:"issue_date"`
	DueDate   *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	Notes     *string    `gorm:"column:notes" json:"notes,omitempty"`

	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_invoices_user_number;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// Payment is a single settlement against an invoice, debited from or
// credited to an account.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index" json:"invoice_id"`
	AccountID uuid.UUID       `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	PaidAt    time.Time       `gorm:"column:paid_at;not null" json:"paid_at"`
	Note      *string         `gorm:"column:note" json:"note,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
