package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// quoteNumberFormat yields FT-00001 style numbers, zero padded so string
// ordering matches numeric ordering.
const quoteNumberFormat = "FT-%05d"

type repository struct {
	db *gorm.DB
}

// NewRepository builds a quote repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).Create(quote).Error; err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *repository) Update(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if err := r.db.WithContext(ctx).
		Omit("Items").
		Save(quote).
		Error; err != nil {
		return nil, err
	}
	return quote, nil
}

// ReplaceItems swaps the full item set of a quote. Positions are assumed
// to already be sequential.
func (r *repository) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.QuoteItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("quote_id = ?", quoteID).Delete(&models.QuoteItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].QuoteID = quoteID
	}
	return tx.Create(&items).Error
}

func (r *repository) Delete(ctx context.Context, userID, quoteID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", quoteID, userID).
		Delete(&models.Quote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindForUser(ctx context.Context, userID, quoteID uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&quote, "id = ? AND user_id = ?", quoteID, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Quote], error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("user_id = ?", userID)

	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		qb = qb.Where("LOWER(number) LIKE ? OR LOWER(customer_name) LIKE ?", needle, needle)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Quote
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

// NextNumber returns the next free quote number for the user. Numbering
// is per user and gapless only as long as quotes are never deleted.
func (r *repository) NextNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	var last string
	err := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("user_id = ?", userID).
		Order("number DESC").
		Limit(1).
		Pluck("number", &last).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if last == "" {
		return fmt.Sprintf(quoteNumberFormat, 1), nil
	}
	var seq int
	if _, err := fmt.Sscanf(last, "FT-%d", &seq); err != nil {
		return "", fmt.Errorf("parse quote number %q: %w", last, err)
	}
	return fmt.Sprintf(quoteNumberFormat, seq+1), nil
}

func (r *repository) UpdateStatus(ctx context.Context, quoteID uuid.UUID, status enums.QuoteStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", quoteID).
		Update("status", status).
		Error
}

// ExpirePendingBefore flips pending quotes whose validity lapsed before
// the cutoff to expired and returns the number of rows changed.
func (r *repository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", enums.QuoteStatusPending, cutoff).
		Update("status", enums.QuoteStatusExpired)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
