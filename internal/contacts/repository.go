package contact

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// Repository persists customer and supplier contact cards.
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

func (r *Repository) FindCustomer(ctx context.Context, userID, customerID uuid.UUID) (*models.Customer, error) {
	var row models.Customer
	if err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", customerID, userID).
		Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateCustomer(ctx context.Context, row *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) UpdateCustomer(ctx context.Context, row *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) DeleteCustomer(ctx context.Context, userID, customerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", customerID, userID).
		Delete(&models.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCustomers returns one page of the user's customers ordered by name.
func (r *Repository) ListCustomers(ctx context.Context, userID uuid.UUID, query string, page pagination.Params) (*pagination.Result[models.Customer], error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("user_id = ?", userID)
	qb = applyContactSearch(qb, query)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Customer
	if err := qb.
		Order("name ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	result := pagination.NewResult(rows, page, total)
	return &result, nil
}

func (r *Repository) FindSupplier(ctx context.Context, userID, supplierID uuid.UUID) (*models.Supplier, error) {
	var row models.Supplier
	if err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", supplierID, userID).
		Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateSupplier(ctx context.Context, row *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) UpdateSupplier(ctx context.Context, row *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *Repository) DeleteSupplier(ctx context.Context, userID, supplierID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", supplierID, userID).
		Delete(&models.Supplier{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListSuppliers returns one page of the user's suppliers ordered by name.
func (r *Repository) ListSuppliers(ctx context.Context, userID uuid.UUID, query string, page pagination.Params) (*pagination.Result[models.Supplier], error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("user_id = ?", userID)
	qb = applyContactSearch(qb, query)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Supplier
	if err := qb.
		Order("name ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	result := pagination.NewResult(rows, page, total)
	return &result, nil
}

func applyContactSearch(qb *gorm.DB, query string) *gorm.DB {
	q := strings.TrimSpace(query)
	if q == "" {
		return qb
	}
	needle := "%" + strings.ToLower(q) + "%"
	return qb.Where("LOWER(name) LIKE ? OR LOWER(company) LIKE ?", needle, needle)
}
