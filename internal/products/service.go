package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db"
	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// Service exposes catalog management operations scoped to the owning user.
type Service interface {
	CreateProduct(ctx context.Context, userID uuid.UUID, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error
	GetProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Product], error)

	ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Code          string
	Name          string
	Category      *string
	Unit          enums.Unit
	Currency      enums.Currency
	UnitPrice     decimal.Decimal
	PackageKG     *decimal.Decimal
	PackageM2     *decimal.Decimal
	PackageLength *decimal.Decimal
	PackageCount  *int
	Description   *string
	Image         *string
}

// UpdateProductInput holds optional mutation values for a product.
// Package fields use a double pointer so callers can distinguish
// "leave unchanged" from "clear the value".
type UpdateProductInput struct {
	Code          *string
	Name          *string
	Category      **string
	Unit          *enums.Unit
	Currency      *enums.Currency
	UnitPrice     *decimal.Decimal
	PackageKG     **decimal.Decimal
	PackageM2     **decimal.Decimal
	PackageLength **decimal.Decimal
	PackageCount  **int
	Description   **string
	Image         **string
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, userID uuid.UUID, input CreateProductInput) (*models.Product, error) {
	input.Code = strings.TrimSpace(input.Code)
	input.Name = strings.TrimSpace(input.Name)
	if input.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown unit")
	}
	if !input.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be non-negative")
	}
	if err := validatePackageFields(input.PackageKG, input.PackageM2, input.PackageLength, input.PackageCount); err != nil {
		return nil, err
	}

	product := &models.Product{
		Code:          input.Code,
		Name:          input.Name,
		Category:      input.Category,
		Unit:          input.Unit,
		Currency:      input.Currency,
		UnitPrice:     input.UnitPrice,
		PackageKG:     input.PackageKG,
		PackageM2:     input.PackageM2,
		PackageLength: input.PackageLength,
		PackageCount:  input.PackageCount,
		Description:   input.Description,
		Image:         input.Image,
		UserID:        userID,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_user_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindForUser(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := applyUpdateToProduct(product, input); err != nil {
		return nil, err
	}
	if err := validatePackageFields(product.PackageKG, product.PackageM2, product.PackageLength, product.PackageCount); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_user_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindForUser(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Product], error) {
	result, err := s.repo.List(ctx, userID, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	created, err := s.repo.CreateCategory(ctx, &models.Category{Name: name, UserID: userID})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_categories_user_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return created, nil
}

func (s *service) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	var target *models.Category
	for i := range categories {
		if categories[i].ID == categoryID {
			target = &categories[i]
			break
		}
	}
	if target == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}

	inUse, err := s.repo.CountByCategory(ctx, userID, target.Name)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products in category")
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "category is used by existing products").
			WithDetails(map[string]any{"product_count": inUse})
	}

	if err := s.repo.DeleteCategory(ctx, userID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

func validatePackageFields(kg, m2, length *decimal.Decimal, count *int) error {
	for name, value := range map[string]*decimal.Decimal{
		"package_kg":     kg,
		"package_m2":     m2,
		"package_length": length,
	} {
		if value != nil && !value.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, name+" must be positive")
		}
	}
	if count != nil && *count <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "package_count must be positive")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) error {
	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "code is required")
		}
		product.Code = code
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown unit")
		}
		product.Unit = *input.Unit
	}
	if input.Currency != nil {
		if !input.Currency.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
		}
		product.Currency = *input.Currency
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be non-negative")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.PackageKG != nil {
		product.PackageKG = *input.PackageKG
	}
	if input.PackageM2 != nil {
		product.PackageM2 = *input.PackageM2
	}
	if input.PackageLength != nil {
		product.PackageLength = *input.PackageLength
	}
	if input.PackageCount != nil {
		product.PackageCount = *input.PackageCount
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	return nil
}
