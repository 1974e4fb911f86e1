package models

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;index" json:"name"`
	Company   *string   `gorm:"column:company" json:"company,omitempty"`
	Email     *string   `gorm:"column:email" json:"email,omitempty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	Address   *string   `gorm:"column:address" json:"address,omitempty"`
	TaxOffice *string   `gorm:"column:tax_office" json:"tax_office,omitempty"`
	TaxNumber *string   `gorm:"column:tax_number" json:"tax_number,omitempty"`
	Notes     *string   `gorm:"column:notes" json:"notes,omitempty"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Supplier) TableName() string { return "suppliers" }
