package invoice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	pkgerrors "github.com/teklifdesk/teklifdesk-backend/pkg/errors"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
)

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*models.Invoice
	payments map[uuid.UUID][]models.Payment
	byQuote  map[uuid.UUID]*models.Invoice
	next     map[enums.InvoiceType]int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{
		invoices: make(map[uuid.UUID]*models.Invoice),
		payments: make(map[uuid.UUID][]models.Payment),
		byQuote:  make(map[uuid.UUID]*models.Invoice),
		next:     map[enums.InvoiceType]int{enums.InvoiceTypeSales: 1, enums.InvoiceTypePurchase: 1},
	}
}

func (s *stubInvoiceRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	s.invoices[invoice.ID] = invoice
	if invoice.QuoteID != nil {
		s.byQuote[*invoice.QuoteID] = invoice
	}
	return invoice, nil
}

func (s *stubInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	s.invoices[invoice.ID] = invoice
	return invoice, nil
}

func (s *stubInvoiceRepo) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	if _, ok := s.invoices[invoiceID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.invoices, invoiceID)
	return nil
}

func (s *stubInvoiceRepo) FindForUser(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	if inv, ok := s.invoices[invoiceID]; ok && inv.UserID == userID {
		return inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubInvoiceRepo) FindByQuote(ctx context.Context, userID, quoteID uuid.UUID) (*models.Invoice, error) {
	if inv, ok := s.byQuote[quoteID]; ok {
		return inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubInvoiceRepo) List(ctx context.Context, userID uuid.UUID, filters ListFilters, page pagination.Params) (*pagination.Result[models.Invoice], error) {
	var rows []models.Invoice
	for _, inv := range s.invoices {
		if inv.UserID == userID {
			rows = append(rows, *inv)
		}
	}
	result := pagination.NewResult(rows, page, int64(len(rows)))
	return &result, nil
}

func (s *stubInvoiceRepo) NextNumber(ctx context.Context, userID uuid.UUID, invoiceType enums.InvoiceType) (string, error) {
	prefix := "SF"
	if invoiceType == enums.InvoiceTypePurchase {
		prefix = "AF"
	}
	n := s.next[invoiceType]
	s.next[invoiceType] = n + 1
	return fmt.Sprintf("%s-%05d", prefix, n), nil
}

func (s *stubInvoiceRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	s.payments[payment.InvoiceID] = append(s.payments[payment.InvoiceID], *payment)
	return payment, nil
}

func (s *stubInvoiceRepo) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]models.Payment, error) {
	return s.payments[invoiceID], nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubQuoteLoader struct {
	rows map[uuid.UUID]*models.Quote
}

func (s *stubQuoteLoader) FindForUser(ctx context.Context, userID, quoteID uuid.UUID) (*models.Quote, error) {
	if q, ok := s.rows[quoteID]; ok {
		return q, nil
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

type stubSupplierLoader struct {
	rows map[uuid.UUID]*models.Supplier
}

func (s *stubSupplierLoader) FindSupplier(ctx context.Context, userID, supplierID uuid.UUID) (*models.Supplier, error) {
	if sup, ok := s.rows[supplierID]; ok {
		return sup, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubBalanceMover struct {
	deltas map[uuid.UUID]decimal.Decimal
}

func newStubBalanceMover() *stubBalanceMover {
	return &stubBalanceMover{deltas: make(map[uuid.UUID]decimal.Decimal)}
}

func (s *stubBalanceMover) Move(ctx context.Context, tx *gorm.DB, userID, accountID uuid.UUID, delta decimal.Decimal) error {
	s.deltas[accountID] = s.deltas[accountID].Add(delta)
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(t *testing.T, repo Repository, quotes *stubQuoteLoader, mover *stubBalanceMover) Service {
	t.Helper()
	if quotes == nil {
		quotes = &stubQuoteLoader{rows: map[uuid.UUID]*models.Quote{}}
	}
	if mover == nil {
		mover = newStubBalanceMover()
	}
	svc, err := NewService(repo, stubTxRunner{},
		quotes,
		&stubCustomerLoader{rows: map[uuid.UUID]*models.Customer{}},
		&stubSupplierLoader{rows: map[uuid.UUID]*models.Supplier{}},
		mover,
	)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestCreateDerivesTotalAndRemaining(t *testing.T) {
	userID := uuid.New()
	repo := newStubInvoiceRepo()
	svc := newTestService(t, repo, nil, nil)

	created, err := svc.Create(context.Background(), userID, Input{
		Type:             enums.InvoiceTypeSales,
		CounterpartyName: "Aydın Yapı",
		Subtotal:         dec("1000"),
		DiscountAmount:   dec("100"),
		VATAmount:        dec("162"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Number != "SF-00001" {
		t.Fatalf("expected SF-00001, got %s", created.Number)
	}
	if !created.Total.Equal(dec("1062")) {
		t.Fatalf("expected total 1062, got %s", created.Total)
	}
	if !created.RemainingAmount.Equal(created.Total) {
		t.Fatalf("expected remaining equal to total, got %s", created.RemainingAmount)
	}
	if created.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Fatalf("expected unpaid, got %s", created.PaymentStatus)
	}
}

func TestCreateFromQuoteCopiesTotals(t *testing.T) {
	userID := uuid.New()
	quoteID := uuid.New()
	customerID := uuid.New()
	quotes := &stubQuoteLoader{rows: map[uuid.UUID]*models.Quote{
		quoteID: {
			ID:             quoteID,
			Number:         "FT-00007",
			Status:         enums.QuoteStatusApproved,
			CustomerID:     &customerID,
			CustomerName:   "Yılmaz İnşaat",
			Currency:       enums.CurrencyTL,
			Subtotal:       dec("3000"),
			DiscountAmount: dec("300"),
			VATAmount:      dec("486"),
			Total:          dec("3186"),
			UserID:         userID,
		},
	}}
	repo := newStubInvoiceRepo()
	svc := newTestService(t, repo, quotes, nil)

	created, err := svc.CreateFromQuote(context.Background(), userID, quoteID, FromQuoteInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Type != enums.InvoiceTypeSales {
		t.Fatalf("expected sales invoice, got %s", created.Type)
	}
	if created.QuoteID == nil || *created.QuoteID != quoteID {
		t.Fatalf("expected quote link, got %v", created.QuoteID)
	}
	if created.CounterpartyName != "Yılmaz İnşaat" {
		t.Fatalf("expected customer snapshot, got %q", created.CounterpartyName)
	}
	if !created.Total.Equal(dec("3186")) {
		t.Fatalf("expected total copied, got %s", created.Total)
	}

	// converting the same quote twice conflicts
	_, err = svc.CreateFromQuote(context.Background(), userID, quoteID, FromQuoteInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateFromQuoteRequiresApproved(t *testing.T) {
	userID := uuid.New()
	quoteID := uuid.New()
	quotes := &stubQuoteLoader{rows: map[uuid.UUID]*models.Quote{
		quoteID: {ID: quoteID, Status: enums.QuoteStatusPending, CustomerName: "X", UserID: userID},
	}}
	svc := newTestService(t, newStubInvoiceRepo(), quotes, nil)

	_, err := svc.CreateFromQuote(context.Background(), userID, quoteID, FromQuoteInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRecordPaymentMovesBalanceAndStatus(t *testing.T) {
	userID := uuid.New()
	accountID := uuid.New()
	repo := newStubInvoiceRepo()
	mover := newStubBalanceMover()
	svc := newTestService(t, repo, nil, mover)

	created, err := svc.Create(context.Background(), userID, Input{
		Type:             enums.InvoiceTypeSales,
		CounterpartyName: "Aydın Yapı",
		Subtotal:         dec("1000"),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	partial, err := svc.RecordPayment(context.Background(), userID, created.ID, PaymentInput{
		AccountID: accountID,
		Amount:    dec("400"),
		PaidAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partial.PaymentStatus != enums.PaymentStatusPartial {
		t.Fatalf("expected partial, got %s", partial.PaymentStatus)
	}
	if !partial.RemainingAmount.Equal(dec("600")) {
		t.Fatalf("expected remaining 600, got %s", partial.RemainingAmount)
	}
	if !mover.deltas[accountID].Equal(dec("400")) {
		t.Fatalf("expected balance +400, got %s", mover.deltas[accountID])
	}

	paid, err := svc.RecordPayment(context.Background(), userID, created.ID, PaymentInput{
		AccountID: accountID,
		Amount:    dec("600"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", paid.PaymentStatus)
	}

	// settled invoices refuse additional payments
	_, err = svc.RecordPayment(context.Background(), userID, created.ID, PaymentInput{
		AccountID: accountID,
		Amount:    dec("1"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordPaymentPurchaseWithdraws(t *testing.T) {
	userID := uuid.New()
	accountID := uuid.New()
	repo := newStubInvoiceRepo()
	mover := newStubBalanceMover()
	svc := newTestService(t, repo, nil, mover)

	created, err := svc.Create(context.Background(), userID, Input{
		Type:             enums.InvoiceTypePurchase,
		CounterpartyName: "Tedarikçi AŞ",
		Subtotal:         dec("500"),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if created.Number != "AF-00001" {
		t.Fatalf("expected AF-00001, got %s", created.Number)
	}

	if _, err := svc.RecordPayment(context.Background(), userID, created.ID, PaymentInput{
		AccountID: accountID,
		Amount:    dec("500"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mover.deltas[accountID].Equal(dec("-500")) {
		t.Fatalf("expected balance -500, got %s", mover.deltas[accountID])
	}
}

func TestDeleteRefusesInvoicesWithPayments(t *testing.T) {
	userID := uuid.New()
	repo := newStubInvoiceRepo()
	svc := newTestService(t, repo, nil, nil)

	created, err := svc.Create(context.Background(), userID, Input{
		Type:             enums.InvoiceTypeSales,
		CounterpartyName: "Aydın Yapı",
		Subtotal:         dec("100"),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := svc.RecordPayment(context.Background(), userID, created.ID, PaymentInput{
		AccountID: uuid.New(),
		Amount:    dec("50"),
	}); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	err = svc.Delete(context.Background(), userID, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}
