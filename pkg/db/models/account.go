package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
)

// Account is a cash drawer or bank account whose balance moves when
// invoices are paid.
type Account struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string            `gorm:"column:name;not null" json:"name"`
	Type          enums.AccountType `gorm:"column:type;not null" json:"type"`
	Currency      enums.Currency    `gorm:"column:currency;not null;default:'TL'" json:"currency"`
	IBAN          *string           `gorm:"column:iban" json:"iban,omitempty"`
	BankName      *string           `gorm:"column:bank_name" json:"bank_name,omitempty"`
	AccountNumber *string           `gorm:"column:account_number" json:"account_number,omitempty"`

	Balance decimal.Decimal `gorm:"column:balance;type:numeric(14,2);not null;default:0" json:"balance"`

	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }
