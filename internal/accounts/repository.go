package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
)

// Repository persists cash and bank accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindForUser loads one account owned by the given user.
func (r *Repository) FindForUser(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	var row models.Account
	if err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", accountID, userID).
		Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new account row.
func (r *Repository) Create(ctx context.Context, row *models.Account) (*models.Account, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves all columns of an existing account row.
func (r *Repository) Update(ctx context.Context, row *models.Account) (*models.Account, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes an account owned by the given user.
func (r *Repository) Delete(ctx context.Context, userID, accountID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", accountID, userID).
		Delete(&models.Account{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns all of the user's accounts ordered by name.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	var rows []models.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// AdjustBalance moves the account balance by delta. Negative deltas
// withdraw. It reports gorm.ErrRecordNotFound when the account does not
// belong to the user.
func (r *Repository) AdjustBalance(ctx context.Context, userID, accountID uuid.UUID, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Move applies delta within the provided transaction. The payment flow
// uses it so balance changes commit together with the payment row.
func (r *Repository) Move(ctx context.Context, tx *gorm.DB, userID, accountID uuid.UUID, delta decimal.Decimal) error {
	return r.WithTx(tx).AdjustBalance(ctx, userID, accountID, delta)
}
