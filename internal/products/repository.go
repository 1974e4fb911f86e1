package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// Repository wires together product and category persistence helpers.
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

// FindForUser loads one product owned by the given user.
func (r *Repository) FindForUser(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		First(&product, "id = ? AND user_id = ?", productID, userID).
		Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByCode loads one product owned by the given user by its catalog code.
func (r *Repository) FindByCode(ctx context.Context, userID uuid.UUID, code string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		First(&product, "user_id = ? AND code = ?", userID, code).
		Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves all columns of an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product owned by the given user. It reports
// gorm.ErrRecordNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", productID, userID).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListFilters describe the supported filter knobs for the catalog listing.
type ListFilters struct {
	Category *string
	Query    string
}

// List returns one page of the user's catalog ordered by code.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Product], error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("user_id = ?", userID)

	if filters.Category != nil {
		qb = qb.Where("category = ?", *filters.Category)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		qb = qb.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", needle, needle)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Product
	if err := qb.
		Order("code ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	result := pagination.NewResult(rows, page, total)
	return &result, nil
}

// ListCategories returns the user's categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateCategory inserts a category for the user.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes one of the user's categories.
func (r *Repository) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByCategory reports how many of the user's products reference the
// category name. Used to block deleting a category that is still in use.
func (r *Repository) CountByCategory(ctx context.Context, userID uuid.UUID, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("user_id = ? AND category = ?", userID, name).
		Count(&count).
		Error
	return count, err
}
