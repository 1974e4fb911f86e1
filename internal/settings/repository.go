package setting

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
)

// Repository persists per-user settings rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository around the gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindAll returns every setting row for the user ordered by key.
func (r *Repository) FindAll(ctx context.Context, userID uuid.UUID) ([]models.Setting, error) {
	var rows []models.Setting
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes the value under key for the user, creating the row when missing.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, key, value string) error {
	var row models.Setting
	return r.db.WithContext(ctx).
		Where(&models.Setting{UserID: userID, Key: key}).
		Attrs(models.Setting{ID: uuid.New()}).
		Assign(models.Setting{Value: value}).
		FirstOrCreate(&row).Error
}

// Delete removes the setting row for the key. Removing a missing key is a no-op.
func (r *Repository) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		Delete(&models.Setting{}).Error
}
