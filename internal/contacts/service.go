package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

// Service exposes customer and supplier card management scoped to the
// owning user. Customers attach to quotes and sales invoices, suppliers
// to purchase invoices.
type Service interface {
	CreateCustomer(ctx context.Context, userID uuid.UUID, input Input) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, userID, customerID uuid.UUID, input Input) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, userID, customerID uuid.UUID) error
	GetCustomer(ctx context.Context, userID, customerID uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, userID uuid.UUID, query string, page pagination.Params) (*pagination.Result[models.Customer], error)

	CreateSupplier(ctx context.Context, userID uuid.UUID, input Input) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, userID, supplierID uuid.UUID, input Input) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, userID, supplierID uuid.UUID) error
	GetSupplier(ctx context.Context, userID, supplierID uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, userID uuid.UUID, query string, page pagination.Params) (*pagination.Result[models.Supplier], error)
}

// Input holds the full contact card payload. Customers and suppliers
// share the same shape.
type Input struct {
	Name      string
	Company   *string
	Email     *string
	Phone     *string
	Address   *string
	TaxOffice *string
	TaxNumber *string
	Notes     *string
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return nil
}

type service struct {
	repo *Repository
}

// NewService constructs a contact service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCustomer(ctx context.Context, userID uuid.UUID, input Input) (*models.Customer, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	row := &models.Customer{UserID: userID}
	applyCustomerInput(row, input)
	created, err := s.repo.CreateCustomer(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return created, nil
}

func (s *service) UpdateCustomer(ctx context.Context, userID, customerID uuid.UUID, input Input) (*models.Customer, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	row, err := s.repo.FindCustomer(ctx, userID, customerID)
	if err != nil {
		return nil, customerLoadError(err)
	}
	applyCustomerInput(row, input)
	updated, err := s.repo.UpdateCustomer(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}
	return updated, nil
}

func (s *service) DeleteCustomer(ctx context.Context, userID, customerID uuid.UUID) error {
	if err := s.repo.DeleteCustomer(ctx, userID, customerID); err != nil {
		return customerLoadError(err)
	}
	return nil
}

func (s *service) GetCustomer(ctx context.Context, userID, customerID uuid.UUID) (*models.Customer, error) {
	row, err := s.repo.FindCustomer(ctx, userID, customerID)
	if err != nil {
		return nil, customerLoadError(err)
	}
	return row, nil
}

func (s *service) ListCustomers(ctx context.Context, userID uuid.UUID, query string, page pagination.Params) (*pagination.Result[models.Customer], error) {
	result, err := s.repo.ListCustomers(ctx, userID, query, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return result, nil
}

func (s *service) CreateSupplier(ctx context.Context, userID uuid.UUID, input Input) (*models.Supplier, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	row := &models.Supplier{UserID: userID}
	applySupplierInput(row, input)
	created, err := s.repo.CreateSupplier(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return created, nil
}

func (s *service) UpdateSupplier(ctx context.Context, userID, supplierID uuid.UUID, input Input) (*models.Supplier, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	row, err := s.repo.FindSupplier(ctx, userID, supplierID)
	if err != nil {
		return nil, supplierLoadError(err)
	}
	applySupplierInput(row, input)
	updated, err := s.repo.UpdateSupplier(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}
	return updated, nil
}

func (s *service) DeleteSupplier(ctx context.Context, userID, supplierID uuid.UUID) error {
	if err := s.repo.DeleteSupplier(ctx, userID, supplierID); err != nil {
		return supplierLoadError(err)
	}
	return nil
}

func (s *service) GetSupplier(ctx context.Context, userID, supplierID uuid.UUID) (*models.Supplier, error) {
	row, err := s.repo.FindSupplier(ctx, userID, supplierID)
	if err != nil {
		return nil, supplierLoadError(err)
	}
	return row, nil
}

func (s *service) ListSuppliers(ctx context.Context, userID uuid.UUID, query string, page pagination.Params) (*pagination.Result[models.Supplier], error) {
	result, err := s.repo.ListSuppliers(ctx, userID, query, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	return result, nil
}

func applyCustomerInput(row *models.Customer, input Input) {
	row.Name = input.Name
	row.Company = input.Company
	row.Email = input.Email
	row.Phone = input.Phone
	row.Address = input.Address
	row.TaxOffice = input.TaxOffice
	row.TaxNumber = input.TaxNumber
	row.Notes = input.Notes
}

func applySupplierInput(row *models.Supplier, input Input) {
	row.Name = input.Name
	row.Company = input.Company
	row.Email = input.Email
	row.Phone = input.Phone
	row.Address = input.Address
	row.TaxOffice = input.TaxOffice
	row.TaxNumber = input.TaxNumber
	row.Notes = input.Notes
}

func customerLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
}

func supplierLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
}
