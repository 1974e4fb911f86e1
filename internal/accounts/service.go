package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
)

// Service exposes cash and bank account management scoped to the owning
// user. Balances move through the invoice payment flow, not through
// direct edits.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Account, error)
	Update(ctx context.Context, userID, accountID uuid.UUID, input Input) (*models.Account, error)
	Delete(ctx context.Context, userID, accountID uuid.UUID) error
	Get(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
}

// Input holds the account card payload. The balance is intentionally
// absent: new accounts may seed an opening balance, existing balances
// only change through payments.
type Input struct {
	Name           string
	Type           enums.AccountType
	Currency       enums.Currency
	IBAN           *string
	BankName       *string
	AccountNumber  *string
	OpeningBalance *decimal.Decimal
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !in.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown account type")
	}
	if !in.Currency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
	}
	return nil
}

type service struct {
	repo *Repository
}

// NewService constructs an account service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("account repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Account, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	row := &models.Account{
		Name:          input.Name,
		Type:          input.Type,
		Currency:      input.Currency,
		IBAN:          input.IBAN,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		UserID:        userID,
	}
	if input.OpeningBalance != nil {
		row.Balance = *input.OpeningBalance
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert account")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, userID, accountID uuid.UUID, input Input) (*models.Account, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}
	row, err := s.repo.FindForUser(ctx, userID, accountID)
	if err != nil {
		return nil, loadError(err)
	}

	row.Name = input.Name
	row.Type = input.Type
	row.Currency = input.Currency
	row.IBAN = input.IBAN
	row.BankName = input.BankName
	row.AccountNumber = input.AccountNumber

	updated, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update account")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, accountID uuid.UUID) error {
	row, err := s.repo.FindForUser(ctx, userID, accountID)
	if err != nil {
		return loadError(err)
	}
	if !row.Balance.IsZero() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "account balance must be zero before deletion").
			WithDetails(map[string]any{"balance": row.Balance.String()})
	}
	if err := s.repo.Delete(ctx, userID, accountID); err != nil {
		return loadError(err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	row, err := s.repo.FindForUser(ctx, userID, accountID)
	if err != nil {
		return nil, loadError(err)
	}
	return row, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accounts")
	}
	return rows, nil
}

func loadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
}
