package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db"
	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type quoteLoader interface {
	FindForUser(ctx context.Context, userID, quoteID uuid.UUID) (*models.Quote, error)
}

type customerLoader interface {
	FindCustomer(ctx context.Context, userID, customerID uuid.UUID) (*models.Customer, error)
}

type supplierLoader interface {
	FindSupplier(ctx context.Context, userID, supplierID uuid.UUID) (*models.Supplier, error)
}

// balanceMover applies payment deltas to an account inside the caller's
// transaction.
type balanceMover interface {
	Move(ctx context.Context, tx *gorm.DB, userID, accountID uuid.UUID, delta decimal.Decimal) error
}

// Service exposes invoice and payment operations scoped to the owning
// user.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Invoice, error)
	CreateFromQuote(ctx context.Context, userID, quoteID uuid.UUID, input FromQuoteInput) (*models.Invoice, error)
	Delete(ctx context.Context, userID, invoiceID uuid.UUID) error
	Get(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Invoice], error)
	RecordPayment(ctx context.Context, userID, invoiceID uuid.UUID, input PaymentInput) (*models.Invoice, error)
	ListPayments(ctx context.Context, userID, invoiceID uuid.UUID) ([]models.Payment, error)
}

// Input holds the payload for a standalone invoice. The total is derived
// from the three amount fields.
type Input struct {
	Type             enums.InvoiceType
	CounterpartyID   *uuid.UUID
	CounterpartyName string
	Currency         enums.Currency
	Subtotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	VATAmount        decimal.Decimal
	IssueDate        time.Time
	DueDate          *time.Time
	Notes            *string
}

// FromQuoteInput carries the fields not copied from the quote.
type FromQuoteInput struct {
	IssueDate time.Time
	DueDate   *time.Time
	Notes     *string
}

// PaymentInput records one settlement against an invoice.
type PaymentInput struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
	PaidAt    time.Time
	Note      *string
}

type service struct {
	repo      Repository
	tx        txRunner
	quotes    quoteLoader
	customers customerLoader
	suppliers supplierLoader
	accounts  balanceMover
}

// NewService constructs an invoice service instance.
func NewService(repo Repository, tx txRunner, quotes quoteLoader, customers customerLoader, suppliers supplierLoader, accounts balanceMover) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quote loader required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier loader required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("balance mover required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		quotes:    quotes,
		customers: customers,
		suppliers: suppliers,
		accounts:  accounts,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Invoice, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown invoice type")
	}
	if input.Currency == "" {
		input.Currency = enums.CurrencyTL
	}
	if !input.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
	}
	if input.Subtotal.IsNegative() || input.DiscountAmount.IsNegative() || input.VATAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amounts must be non-negative")
	}
	if input.IssueDate.IsZero() {
		input.IssueDate = time.Now()
	}

	name, counterpartyID, err := s.resolveCounterparty(ctx, userID, input.Type, input.CounterpartyID, input.CounterpartyName)
	if err != nil {
		return nil, err
	}

	total := input.Subtotal.Sub(input.DiscountAmount).Add(input.VATAmount).Round(2)
	invoice := &models.Invoice{
		Type:             input.Type,
		CounterpartyID:   counterpartyID,
		CounterpartyName: name,
		Currency:         input.Currency,
		Subtotal:         input.Subtotal.Round(2),
		DiscountAmount:   input.DiscountAmount.Round(2),
		VATAmount:        input.VATAmount.Round(2),
		Total:            total,
		PaymentStatus:    enums.PaymentStatusUnpaid,
		RemainingAmount:  total,
		IssueDate:        input.IssueDate,
		DueDate:          input.DueDate,
		Notes:            input.Notes,
		UserID:           userID,
	}

	if err := s.persistNumbered(ctx, userID, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *service) CreateFromQuote(ctx context.Context, userID, quoteID uuid.UUID, input FromQuoteInput) (*models.Invoice, error) {
	quote, err := s.quotes.FindForUser(ctx, userID, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	if quote.Status != enums.QuoteStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only approved quotes can be invoiced").
			WithDetails(map[string]any{"status": quote.Status.String()})
	}

	if existing, err := s.repo.FindByQuote(ctx, userID, quoteID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "quote already invoiced").
			WithDetails(map[string]any{"invoice_number": existing.Number})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check quote invoice")
	}

	if input.IssueDate.IsZero() {
		input.IssueDate = time.Now()
	}

	invoice := &models.Invoice{
		Type:             enums.InvoiceTypeSales,
		QuoteID:          &quote.ID,
		CounterpartyID:   quote.CustomerID,
		CounterpartyName: quote.CustomerName,
		Currency:         quote.Currency,
		Subtotal:         quote.Subtotal,
		DiscountAmount:   quote.DiscountAmount,
		VATAmount:        quote.VATAmount,
		Total:            quote.Total,
		PaymentStatus:    enums.PaymentStatusUnpaid,
		RemainingAmount:  quote.Total,
		IssueDate:        input.IssueDate,
		DueDate:          input.DueDate,
		Notes:            input.Notes,
		UserID:           userID,
	}

	if err := s.persistNumbered(ctx, userID, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *service) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	invoice, err := s.repo.FindForUser(ctx, userID, invoiceID)
	if err != nil {
		return loadError(err)
	}
	payments, err := s.repo.ListPayments(ctx, invoice.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	if len(payments) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "invoices with payments cannot be deleted").
			WithDetails(map[string]any{"payment_count": len(payments)})
	}
	if err := s.repo.Delete(ctx, userID, invoiceID); err != nil {
		return loadError(err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.FindForUser(ctx, userID, invoiceID)
	if err != nil {
		return nil, loadError(err)
	}
	return invoice, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Invoice], error) {
	result, err := s.repo.List(ctx, userID, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	return result, nil
}

func (s *service) RecordPayment(ctx context.Context, userID, invoiceID uuid.UUID, input PaymentInput) (*models.Invoice, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	if input.AccountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account is required")
	}
	if input.PaidAt.IsZero() {
		input.PaidAt = time.Now()
	}

	invoice, err := s.repo.FindForUser(ctx, userID, invoiceID)
	if err != nil {
		return nil, loadError(err)
	}
	if input.Amount.GreaterThan(invoice.RemainingAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount exceeds remaining balance").
			WithDetails(map[string]any{"remaining": invoice.RemainingAmount.String()})
	}

	// Sales payments flow into the account, purchase payments out of it.
	delta := input.Amount
	if invoice.Type == enums.InvoiceTypePurchase {
		delta = delta.Neg()
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		payment := &models.Payment{
			InvoiceID: invoice.ID,
			AccountID: input.AccountID,
			Amount:    input.Amount,
			PaidAt:    input.PaidAt,
			Note:      input.Note,
		}
		if _, err := txRepo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert payment")
		}

		if err := s.accounts.Move(ctx, tx, userID, input.AccountID, delta); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "account not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: move balance")
		}

		invoice.RemainingAmount = invoice.RemainingAmount.Sub(input.Amount)
		invoice.PaymentStatus = paymentStatusFor(invoice.Total, invoice.RemainingAmount)
		if _, err := txRepo.Update(ctx, invoice); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update invoice")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
	}

	return invoice, nil
}

func (s *service) ListPayments(ctx context.Context, userID, invoiceID uuid.UUID) ([]models.Payment, error) {
	invoice, err := s.repo.FindForUser(ctx, userID, invoiceID)
	if err != nil {
		return nil, loadError(err)
	}
	payments, err := s.repo.ListPayments(ctx, invoice.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return payments, nil
}

// persistNumbered assigns the next number and inserts the invoice in one
// transaction.
func (s *service) persistNumbered(ctx context.Context, userID uuid.UUID, invoice *models.Invoice) error {
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		number, err := txRepo.NextNumber(ctx, userID, invoice.Type)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next invoice number")
		}
		invoice.Number = number
		if _, err := txRepo.Create(ctx, invoice); err != nil {
			if db.IsUniqueViolation(err, "idx_invoices_user_number") {
				return pkgerrors.New(pkgerrors.CodeConflict, "invoice number already taken, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert invoice")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
	}
	return nil
}

func (s *service) resolveCounterparty(ctx context.Context, userID uuid.UUID, invoiceType enums.InvoiceType, id *uuid.UUID, name string) (string, *uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if id == nil {
		if name == "" {
			return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "counterparty is required")
		}
		return name, nil, nil
	}

	switch invoiceType {
	case enums.InvoiceTypeSales:
		customer, err := s.customers.FindCustomer(ctx, userID, *id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "customer not found")
			}
			return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}
		return customer.Name, id, nil
	default:
		supplier, err := s.suppliers.FindSupplier(ctx, userID, *id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier not found")
			}
			return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}
		return supplier.Name, id, nil
	}
}

func paymentStatusFor(total, remaining decimal.Decimal) enums.PaymentStatus {
	switch {
	case remaining.IsZero() || remaining.IsNegative():
		return enums.PaymentStatusPaid
	case remaining.LessThan(total):
		return enums.PaymentStatusPartial
	default:
		return enums.PaymentStatusUnpaid
	}
}

func loadError(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
}
