package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// Sales and purchase invoices number independently, each zero padded so
// string ordering matches numeric ordering.
const (
	salesNumberPrefix    = "SF"
	purchaseNumberPrefix = "AF"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoice repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *repository) Update(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if err := r.db.WithContext(ctx).Save(invoice).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *repository) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", invoiceID, userID).
		Delete(&models.Invoice{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindForUser(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).
		First(&invoice, "id = ? AND user_id = ?", invoiceID, userID).
		Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) FindByQuote(ctx context.Context, userID, quoteID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).
		First(&invoice, "quote_id = ? AND user_id = ?", quoteID, userID).
		Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Invoice], error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("user_id = ?", userID)

	if filters.Type != nil {
		qb = qb.Where("type = ?", *filters.Type)
	}
	if filters.PaymentStatus != nil {
		qb = qb.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		qb = qb.Where("LOWER(number) LIKE ? OR LOWER(counterparty_name) LIKE ?", needle, needle)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Invoice
	if err := qb.
		Order("number DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	result := pagination.NewResult(rows, page, total)
	return &result, nil
}

// NextNumber returns the next free invoice number for the user and type.
func (r *repository) NextNumber(ctx context.Context, userID uuid.UUID, invoiceType enums.InvoiceType) (string, error) {
	prefix := salesNumberPrefix
	if invoiceType == enums.InvoiceTypePurchase {
		prefix = purchaseNumberPrefix
	}

	var last string
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("user_id = ? AND type = ?", userID, invoiceType).
		Order("number DESC").
		Limit(1).
		Pluck("number", &last).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if last == "" {
		return fmt.Sprintf("%s-%05d", prefix, 1), nil
	}
	var seq int
	if _, err := fmt.Sscanf(last, prefix+"-%d", &seq); err != nil {
		return "", fmt.Errorf("parse invoice number %q: %w", last, err)
	}
	return fmt.Sprintf("%s-%05d", prefix, seq+1), nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC").
		Find(&rows).
		Error
	return rows, err
}
