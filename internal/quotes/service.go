package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/internal/pricing"
	"github.com/teklifdesk/teklifdesk-backend/pkg/config"
	"github.com/teklifdesk/teklifdesk-backend/pkg/db"
	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindForUser(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error)
}

type customerLoader interface {
	FindCustomer(ctx context.Context, userID, customerID uuid.UUID) (*models.Customer, error)
}

// Service exposes quote lifecycle operations scoped to the owning user.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Quote, error)
	Update(ctx context.Context, userID, quoteID uuid.UUID, input Input) (*models.Quote, error)
	Delete(ctx context.Context, userID, quoteID uuid.UUID) error
	Get(ctx context.Context, userID, quoteID uuid.UUID) (*models.Quote, error)
	List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Quote], error)
	ChangeStatus(ctx context.Context, userID, quoteID uuid.UUID, target enums.QuoteStatus) (*models.Quote, error)
	Preview(ctx context.Context, userID uuid.UUID, input PreviewInput) (*PreviewResult, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// ItemInput is one requested quote line. Quantity is interpreted in the
// product's base unit, or in packages when UsePackage is set.
type ItemInput struct {
	ProductID  uuid.UUID
	Quantity   decimal.Decimal
	UsePackage bool
	UnitPrice  *decimal.Decimal
	Note       string
}

// Input holds the full quote payload used by create and update.
type Input struct {
	CustomerID    *uuid.UUID
	CustomerName  string
	Currency      enums.Currency
	DiscountType  *enums.DiscountType
	DiscountValue decimal.Decimal
	VATRate       decimal.Decimal
	VATIncluded   bool
	IssueDate     time.Time
	ValidUntil    *time.Time
	Notes         *string
	Items         []ItemInput
}

// PreviewInput prices a set of lines without persisting anything.
type PreviewInput struct {
	DiscountType  *enums.DiscountType
	DiscountValue decimal.Decimal
	VATRate       decimal.Decimal
	VATIncluded   bool
	Items         []ItemInput
}

// PreviewLine is one priced line of a preview response.
type PreviewLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Unit        enums.Unit      `json:"unit"`
	PackageMode bool            `json:"package_mode"`
	Quantity    decimal.Decimal `json:"quantity"`
	DisplayText string          `json:"display_text"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PreviewResult carries the priced lines and the computed totals.
type PreviewResult struct {
	Items  []PreviewLine  `json:"items"`
	Totals pricing.Totals `json:"totals"`
}

type service struct {
	repo         Repository
	tx           txRunner
	products     productLoader
	customers    customerLoader
	validityDays int
}

// NewService constructs a quote service instance.
func NewService(repo Repository, tx txRunner, products productLoader, customers customerLoader, cfg config.QuoteConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	return &service{
		repo:         repo,
		tx:           tx,
		products:     products,
		customers:    customers,
		validityDays: cfg.DefaultValidityDays,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*models.Quote, error) {
	quote, err := s.assemble(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		number, err := txRepo.NextNumber(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next quote number")
		}
		quote.Number = number
		if _, err := txRepo.Create(ctx, quote); err != nil {
			if db.IsUniqueViolation(err, "idx_quotes_user_number") {
				return pkgerrors.New(pkgerrors.CodeConflict, "quote number already taken, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert quote")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
	}

	return s.Get(ctx, userID, quote.ID)
}

func (s *service) Update(ctx context.Context, userID, quoteID uuid.UUID, input Input) (*models.Quote, error) {
	existing, err := s.repo.FindForUser(ctx, userID, quoteID)
	if err != nil {
		return nil, loadError(err)
	}
	if existing.Status != enums.QuoteStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft quotes can be edited").
			WithDetails(map[string]any{"status": existing.Status.String()})
	}

	assembled, err := s.assemble(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	assembled.ID = existing.ID
	assembled.Number = existing.Number
	assembled.Status = existing.Status
	assembled.UserID = existing.UserID
	assembled.CreatedAt = existing.CreatedAt
	items := assembled.Items
	assembled.Items = nil

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Update(ctx, assembled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update quote")
		}
		if err := txRepo.ReplaceItems(ctx, assembled.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace quote items")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quote")
	}

	return s.Get(ctx, userID, quoteID)
}

func (s *service) Delete(ctx context.Context, userID, quoteID uuid.UUID) error {
	existing, err := s.repo.FindForUser(ctx, userID, quoteID)
	if err != nil {
		return loadError(err)
	}
	if existing.Status == enums.QuoteStatusApproved {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "approved quotes cannot be deleted")
	}
	if err := s.repo.Delete(ctx, userID, quoteID); err != nil {
		return loadError(err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, userID, quoteID uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindForUser(ctx, userID, quoteID)
	if err != nil {
		return nil, loadError(err)
	}
	return quote, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Quote], error) {
	result, err := s.repo.List(ctx, userID, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}
	return result, nil
}

func (s *service) ChangeStatus(ctx context.Context, userID, quoteID uuid.UUID, target enums.QuoteStatus) (*models.Quote, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown quote status")
	}
	quote, err := s.repo.FindForUser(ctx, userID, quoteID)
	if err != nil {
		return nil, loadError(err)
	}
	if !quote.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]any{"from": quote.Status.String(), "to": target.String()})
	}
	if err := s.repo.UpdateStatus(ctx, quoteID, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update quote status")
	}
	quote.Status = target
	return quote, nil
}

func (s *service) Preview(ctx context.Context, userID uuid.UUID, input PreviewInput) (*PreviewResult, error) {
	draft, err := s.buildDraft(ctx, userID, input.Items, input.DiscountType, input.DiscountValue, input.VATRate, input.VATIncluded)
	if err != nil {
		return nil, err
	}

	totals := pricing.ComputeTotals(draft)
	lines := make([]PreviewLine, len(draft.Items))
	for i, item := range draft.Items {
		lines[i] = PreviewLine{
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Unit:        item.Unit,
			PackageMode: item.PackageMode,
			Quantity:    item.Quantity,
			DisplayText: item.DisplayText,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}
	return &PreviewResult{Items: lines, Totals: totals}, nil
}

func (s *service) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.repo.ExpirePendingBefore(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire quotes")
	}
	return count, nil
}

// assemble validates the payload, prices the lines, and returns an
// unsaved quote with items and totals filled in.
func (s *service) assemble(ctx context.Context, userID uuid.UUID, input Input) (*models.Quote, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote needs at least one item")
	}
	if input.Currency == "" {
		input.Currency = enums.CurrencyTL
	}
	if !input.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown currency")
	}
	if input.IssueDate.IsZero() {
		input.IssueDate = time.Now()
	}
	if input.ValidUntil == nil && s.validityDays > 0 {
		until := input.IssueDate.AddDate(0, 0, s.validityDays)
		input.ValidUntil = &until
	}

	customerName := strings.TrimSpace(input.CustomerName)
	var customerCompany *string
	if input.CustomerID != nil {
		customer, err := s.customers.FindCustomer(ctx, userID, *input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}
		customerName = customer.Name
		customerCompany = customer.Company
	}
	if customerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer is required")
	}

	draft, err := s.buildDraft(ctx, userID, input.Items, input.DiscountType, input.DiscountValue, input.VATRate, input.VATIncluded)
	if err != nil {
		return nil, err
	}
	totals := pricing.ComputeTotals(draft)

	quote := &models.Quote{
		Status:          enums.QuoteStatusDraft,
		CustomerID:      input.CustomerID,
		CustomerName:    customerName,
		CustomerCompany: customerCompany,
		Currency:        input.Currency,
		DiscountType:    input.DiscountType,
		DiscountValue:   input.DiscountValue,
		VATRate:         input.VATRate,
		VATIncluded:     input.VATIncluded,
		Subtotal:        totals.Subtotal.Round(2),
		DiscountAmount:  totals.DiscountAmount.Round(2),
		VATAmount:       totals.VATAmount.Round(2),
		Total:           totals.Total.Round(2),
		IssueDate:       input.IssueDate,
		ValidUntil:      input.ValidUntil,
		Notes:           input.Notes,
		UserID:          userID,
		Items:           itemsFromDraft(draft),
	}
	return quote, nil
}

func (s *service) buildDraft(ctx context.Context, userID uuid.UUID, items []ItemInput, discountType *enums.DiscountType, discountValue, vatRate decimal.Decimal, vatIncluded bool) (pricing.Draft, error) {
	draft := pricing.Draft{}

	for i, item := range items {
		product, err := s.products.FindForUser(ctx, userID, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pricing.Draft{}, pkgerrors.New(pkgerrors.CodeValidation, "product not found").
					WithDetails(map[string]any{"index": i, "product_id": item.ProductID})
			}
			return pricing.Draft{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		draft, err = pricing.Apply(draft, pricing.AddItem{
			Product: *product,
			Entry: pricing.Entry{
				Quantity:      item.Quantity,
				UsePackage:    item.UsePackage,
				PriceOverride: item.UnitPrice,
				Note:          item.Note,
			},
		})
		if err != nil {
			return pricing.Draft{}, err
		}
	}

	if discountType != nil {
		var err error
		draft, err = pricing.Apply(draft, pricing.SetDiscount{Type: *discountType, Value: discountValue})
		if err != nil {
			return pricing.Draft{}, err
		}
	}
	draft, err := pricing.Apply(draft, pricing.SetVAT{Included: vatIncluded, Rate: vatRate})
	if err != nil {
		return pricing.Draft{}, err
	}
	return draft, nil
}

func itemsFromDraft(draft pricing.Draft) []models.QuoteItem {
	rows := make([]models.QuoteItem, len(draft.Items))
	for i, item := range draft.Items {
		productID := item.ProductID
		var note *string
		if item.Note != "" {
			n := item.Note
			note = &n
		}
		rows[i] = models.QuoteItem{
			Position:         i,
			ProductID:        &productID,
			ProductCode:      item.ProductCode,
			ProductName:      item.ProductName,
			Image:            item.Image,
			Unit:             item.Unit,
			PackageMode:      item.PackageMode,
			EnteredQuantity:  item.EnteredQuantity,
			ResolvedQuantity: item.Quantity,
			DisplayText:      item.DisplayText,
			UnitPrice:        item.UnitPrice,
			Subtotal:         item.Subtotal.Round(2),
			Note:             note,
		}
	}
	return rows
}

func loadError(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
}
