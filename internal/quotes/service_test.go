package quote

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/config"
	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

type stubQuoteRepo struct {
	quotes     map[uuid.UUID]*models.Quote
	nextNumber string
	created    *models.Quote
	status     enums.QuoteStatus
	replaced   []models.QuoteItem
}

func newStubQuoteRepo() *stubQuoteRepo {
	return &stubQuoteRepo{quotes: make(map[uuid.UUID]*models.Quote), nextNumber: "FT-00001"}
}

func (s *stubQuoteRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubQuoteRepo) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	s.created = quote
	s.quotes[quote.ID] = quote
	return quote, nil
}

func (s *stubQuoteRepo) Update(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	s.quotes[quote.ID] = quote
	return quote, nil
}

func (s *stubQuoteRepo) ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []models.QuoteItem) error {
	s.replaced = items
	if q, ok := s.quotes[quoteID]; ok {
		q.Items = items
	}
	return nil
}

func (s *stubQuoteRepo) Delete(ctx context.Context, userID, quoteID uuid.UUID) error {
	if _, ok := s.quotes[quoteID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.quotes, quoteID)
	return nil
}

func (s *stubQuoteRepo) FindForUser(ctx context.Context, userID, quoteID uuid.UUID) (*models.Quote, error) {
	if q, ok := s.quotes[quoteID]; ok && q.UserID == userID {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubQuoteRepo) List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Quote], error) {
	var rows []models.Quote
	for _, q := range s.quotes {
		if q.UserID == userID {
			rows = append(rows, *q)
		}
	}
	result := pagination.NewResult(rows, page, int64(len(rows)))
	return &result, nil
}

func (s *stubQuoteRepo) NextNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.nextNumber, nil
}

func (s *stubQuoteRepo) UpdateStatus(ctx context.Context, quoteID uuid.UUID, status enums.QuoteStatus) error {
	s.status = status
	if q, ok := s.quotes[quoteID]; ok {
		q.Status = status
	}
	return nil
}

func (s *stubQuoteRepo) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for _, q := range s.quotes {
		if q.Status == enums.QuoteStatusPending && q.ValidUntil != nil && q.ValidUntil.Before(cutoff) {
			q.Status = enums.QuoteStatusExpired
			count++
		}
	}
	return count, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProductLoader struct {
	rows map[uuid.UUID]*models.Product
}

func (s *stubProductLoader) FindForUser(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	if p, ok := s.rows[productID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCustomerLoader struct {
	rows map[uuid.UUID]*models.Customer
}

func (s *stubCustomerLoader) FindCustomer(ctx context.Context, userID, customerID uuid.UUID) (*models.Customer, error) {
	if c, ok := s.rows[customerID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(t *testing.T, repo Repository, products *stubProductLoader, customers *stubCustomerLoader) Service {
	t.Helper()
	if products == nil {
		products = &stubProductLoader{rows: map[uuid.UUID]*models.Product{}}
	}
	if customers == nil {
		customers = &stubCustomerLoader{rows: map[uuid.UUID]*models.Customer{}}
	}
	svc, err := NewService(repo, stubTxRunner{}, products, customers, config.QuoteConfig{DefaultValidityDays: 30})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func packagedProduct(userID uuid.UUID) *models.Product {
	kg := decimal.NewFromInt(25)
	return &models.Product{
		ID:        uuid.New(),
		Code:      "GRN-01",
		Name:      "Granül",
		Unit:      enums.UnitKG,
		Currency:  enums.CurrencyTL,
		UnitPrice: dec("40"),
		PackageKG: &kg,
		UserID:    userID,
	}
}

func TestCreateAssignsNumberAndTotals(t *testing.T) {
	userID := uuid.New()
	product := packagedProduct(userID)
	customerID := uuid.New()

	repo := newStubQuoteRepo()
	svc := newTestService(t, repo,
		&stubProductLoader{rows: map[uuid.UUID]*models.Product{product.ID: product}},
		&stubCustomerLoader{rows: map[uuid.UUID]*models.Customer{customerID: {
			ID: customerID, Name: "Yılmaz İnşaat", Company: strPtr("Yılmaz Ltd"), UserID: userID,
		}}},
	)

	discount := enums.DiscountTypePercentage
	created, err := svc.Create(context.Background(), userID, Input{
		CustomerID:    &customerID,
		DiscountType:  &discount,
		DiscountValue: dec("10"),
		VATRate:       dec("18"),
		VATIncluded:   true,
		Items: []ItemInput{
			{ProductID: product.ID, Quantity: dec("3"), UsePackage: true},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Number != "FT-00001" {
		t.Fatalf("expected number FT-00001, got %s", created.Number)
	}
	if created.Status != enums.QuoteStatusDraft {
		t.Fatalf("expected draft status, got %s", created.Status)
	}
	if created.CustomerName != "Yılmaz İnşaat" {
		t.Fatalf("expected customer snapshot, got %q", created.CustomerName)
	}
	if len(created.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(created.Items))
	}

	item := created.Items[0]
	if !item.ResolvedQuantity.Equal(dec("75")) {
		t.Fatalf("expected 3 packages of 25 KG to resolve to 75, got %s", item.ResolvedQuantity)
	}
	if item.DisplayText != "3 paket (75 KG)" {
		t.Fatalf("unexpected display text %q", item.DisplayText)
	}

	// 75 * 40 = 3000, minus 10% = 2700, plus 18% VAT = 3186
	if !created.Subtotal.Equal(dec("3000")) {
		t.Fatalf("expected subtotal 3000, got %s", created.Subtotal)
	}
	if !created.DiscountAmount.Equal(dec("300")) {
		t.Fatalf("expected discount 300, got %s", created.DiscountAmount)
	}
	if !created.Total.Equal(dec("3186")) {
		t.Fatalf("expected total 3186, got %s", created.Total)
	}
}

func TestCreateDefaultsValidUntil(t *testing.T) {
	userID := uuid.New()
	product := packagedProduct(userID)

	repo := newStubQuoteRepo()
	svc := newTestService(t, repo,
		&stubProductLoader{rows: map[uuid.UUID]*models.Product{product.ID: product}}, nil)

	issued := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.Create(context.Background(), userID, Input{
		CustomerName: "X",
		IssueDate:    issued,
		Items:        []ItemInput{{ProductID: product.ID, Quantity: dec("1")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ValidUntil == nil {
		t.Fatalf("expected validity default to be applied")
	}
	if want := issued.AddDate(0, 0, 30); !created.ValidUntil.Equal(want) {
		t.Fatalf("expected valid until %s, got %s", want, created.ValidUntil)
	}

	explicit := issued.AddDate(0, 0, 7)
	created, err = svc.Create(context.Background(), userID, Input{
		CustomerName: "X",
		IssueDate:    issued,
		ValidUntil:   &explicit,
		Items:        []ItemInput{{ProductID: product.ID, Quantity: dec("1")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ValidUntil == nil || !created.ValidUntil.Equal(explicit) {
		t.Fatalf("expected explicit valid until preserved, got %v", created.ValidUntil)
	}
}

func TestCreateRejectsEmptyAndUnknownInputs(t *testing.T) {
	userID := uuid.New()
	repo := newStubQuoteRepo()
	svc := newTestService(t, repo, nil, nil)

	t.Run("no items", func(t *testing.T) {
		_, err := svc.Create(context.Background(), userID, Input{CustomerName: "X"})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.Create(context.Background(), userID, Input{
			CustomerName: "X",
			Items:        []ItemInput{{ProductID: uuid.New(), Quantity: dec("1")}},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown customer", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.Create(context.Background(), userID, Input{
			CustomerID: &missing,
			Items:      []ItemInput{{ProductID: uuid.New(), Quantity: dec("1")}},
		})
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestCreateSurfacesMissingPackageData(t *testing.T) {
	userID := uuid.New()
	product := packagedProduct(userID)
	product.PackageKG = nil

	repo := newStubQuoteRepo()
	svc := newTestService(t, repo,
		&stubProductLoader{rows: map[uuid.UUID]*models.Product{product.ID: product}}, nil)

	_, err := svc.Create(context.Background(), userID, Input{
		CustomerName: "X",
		Items:        []ItemInput{{ProductID: product.ID, Quantity: dec("3"), UsePackage: true}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestUpdateOnlyAllowsDraft(t *testing.T) {
	userID := uuid.New()
	repo := newStubQuoteRepo()
	quoteID := uuid.New()
	repo.quotes[quoteID] = &models.Quote{
		ID:     quoteID,
		Status: enums.QuoteStatusPending,
		UserID: userID,
	}
	svc := newTestService(t, repo, nil, nil)

	_, err := svc.Update(context.Background(), userID, quoteID, Input{CustomerName: "X"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestChangeStatusFollowsTransitions(t *testing.T) {
	userID := uuid.New()
	repo := newStubQuoteRepo()
	quoteID := uuid.New()
	repo.quotes[quoteID] = &models.Quote{
		ID:     quoteID,
		Status: enums.QuoteStatusDraft,
		UserID: userID,
	}
	svc := newTestService(t, repo, nil, nil)

	updated, err := svc.ChangeStatus(context.Background(), userID, quoteID, enums.QuoteStatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enums.QuoteStatusPending {
		t.Fatalf("expected pending, got %s", updated.Status)
	}

	_, err = svc.ChangeStatus(context.Background(), userID, quoteID, enums.QuoteStatusDraft)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for pending->draft, got %v", err)
	}

	_, err = svc.ChangeStatus(context.Background(), userID, quoteID, enums.QuoteStatus("archived"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestDeleteRefusesApproved(t *testing.T) {
	userID := uuid.New()
	repo := newStubQuoteRepo()
	quoteID := uuid.New()
	repo.quotes[quoteID] = &models.Quote{
		ID:     quoteID,
		Status: enums.QuoteStatusApproved,
		UserID: userID,
	}
	svc := newTestService(t, repo, nil, nil)

	err := svc.Delete(context.Background(), userID, quoteID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestPreviewComputesWithoutPersisting(t *testing.T) {
	userID := uuid.New()
	product := packagedProduct(userID)

	repo := newStubQuoteRepo()
	svc := newTestService(t, repo,
		&stubProductLoader{rows: map[uuid.UUID]*models.Product{product.ID: product}}, nil)

	override := dec("50")
	result, err := svc.Preview(context.Background(), userID, PreviewInput{
		VATRate: dec("18"),
		Items: []ItemInput{
			{ProductID: product.ID, Quantity: dec("2"), UsePackage: true, UnitPrice: &override},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created != nil {
		t.Fatalf("preview must not persist a quote")
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(result.Items))
	}
	// 2 packages of 25 KG at the overridden 50 = 2500, VAT excluded
	if !result.Items[0].Subtotal.Equal(dec("2500")) {
		t.Fatalf("expected line subtotal 2500, got %s", result.Items[0].Subtotal)
	}
	if !result.Totals.Total.Equal(dec("2500")) {
		t.Fatalf("expected total 2500 with vat off, got %s", result.Totals.Total)
	}
}

func TestExpireOverdue(t *testing.T) {
	userID := uuid.New()
	repo := newStubQuoteRepo()
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)
	overdue := uuid.New()
	current := uuid.New()
	repo.quotes[overdue] = &models.Quote{ID: overdue, Status: enums.QuoteStatusPending, ValidUntil: &past, UserID: userID}
	repo.quotes[current] = &models.Quote{ID: current, Status: enums.QuoteStatusPending, ValidUntil: &future, UserID: userID}
	svc := newTestService(t, repo, nil, nil)

	count, err := svc.ExpireOverdue(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired quote, got %d", count)
	}
	if repo.quotes[overdue].Status != enums.QuoteStatusExpired {
		t.Fatalf("expected overdue quote expired, got %s", repo.quotes[overdue].Status)
	}
	if repo.quotes[current].Status != enums.QuoteStatusPending {
		t.Fatalf("expected current quote untouched, got %s", repo.quotes[current].Status)
	}
}

func strPtr(value string) *string {
	return &value
}
