package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	accountsvc "github.com/teklifdesk/teklifdesk-backend/internal/accounts"
	"github.com/teklifdesk/teklifdesk-backend/internal/auth"
	contactsvc "github.com/teklifdesk/teklifdesk-backend/internal/contacts"
	invoicesvc "github.com/teklifdesk/teklifdesk-backend/internal/invoices"
	productsvc "github.com/teklifdesk/teklifdesk-backend/internal/products"
	quotesvc "github.com/teklifdesk/teklifdesk-backend/internal/quotes"
	usersvc "github.com/teklifdesk/teklifdesk-backend/internal/users"
	pkgAuth "github.com/teklifdesk/teklifdesk-backend/pkg/auth"
	"github.com/teklifdesk/teklifdesk-backend/pkg/config"
	"github.com/teklifdesk/teklifdesk-backend/pkg/db/models"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	"github.com/teklifdesk/teklifdesk-backend/pkg/logger"
	"github.com/teklifdesk/teklifdesk-backend/pkg/pagination"
	"github.com/teklifdesk/teklifdesk-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return &auth.RefreshResponse{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubUserService struct{}

func (stubUserService) Create(ctx context.Context, input usersvc.CreateInput) (*models.User, string, error) {
	panic("unimplemented")
}

func (stubUserService) Update(ctx context.Context, userID uuid.UUID, input usersvc.UpdateInput) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return &models.User{ID: userID, Email: "user@example.com", Role: enums.UserRoleUser, Active: true}, nil
}

func (stubUserService) List(ctx context.Context, page pagination.Params) (*pagination.Result[models.User], error) {
	res := pagination.NewResult([]models.User{}, page, 0)
	return &res, nil
}

func (stubUserService) ResetPassword(ctx context.Context, userID uuid.UUID) (string, error) {
	panic("unimplemented")
}

func (stubUserService) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) CreateProduct(ctx context.Context, userID uuid.UUID, input productsvc.CreateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input productsvc.UpdateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	panic("unimplemented")
}

func (stubProductService) GetProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductService) ListProducts(ctx context.Context, userID uuid.UUID, filters productsvc.ListFilters, page pagination.Params) (*pagination.Result[models.Product], error) {
	res := pagination.NewResult([]models.Product{}, page, 0)
	return &res, nil
}

func (stubProductService) ListCategories(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	panic("unimplemented")
}

func (stubProductService) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	panic("unimplemented")
}

func (stubProductService) DeleteCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	panic("unimplemented")
}

type stubContactService struct{}

func (stubContactService) CreateCustomer(ctx context.Context, userID uuid.UUID, input contactsvc.Input) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubContactService) UpdateCustomer(ctx context.Context, userID, customerID uuid.UUID, input contactsvc.Input) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubContactService) DeleteCustomer(ctx context.Context, userID, customerID uuid.UUID) error {
	panic("unimplemented")
}

func (stubContactService) GetCustomer(ctx context.Context, userID, customerID uuid.UUID) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubContactService) ListCustomers(ctx context.Context, userID uuid.UUID, query string, page pagination.Params) (*pagination.Result[models.Customer], error) {
	panic("unimplemented")
}

func (stubContactService) CreateSupplier(ctx context.Context, userID uuid.UUID, input contactsvc.Input) (*models.Supplier, error) {
	panic("unimplemented")
}

func (stubContactService) UpdateSupplier(ctx context.Context, userID, supplierID uuid.UUID, input contactsvc.Input) (*models.Supplier, error) {
	panic("unimplemented")
}

func (stubContactService) DeleteSupplier(ctx context.Context, userID, supplierID uuid.UUID) error {
	panic("unimplemented")
}

func (stubContactService) GetSupplier(ctx context.Context, userID, supplierID uuid.UUID) (*models.Supplier, error) {
	panic("unimplemented")
}

func (stubContactService) ListSuppliers(ctx context.Context, userID uuid.UUID, query string, page pagination.Params) (*pagination.Result[models.Supplier], error) {
	panic("unimplemented")
}

type stubAccountService struct{}

func (stubAccountService) Create(ctx context.Context, userID uuid.UUID, input accountsvc.Input) (*models.Account, error) {
	panic("unimplemented")
}

func (stubAccountService) Update(ctx context.Context, userID, accountID uuid.UUID, input accountsvc.Input) (*models.Account, error) {
	panic("unimplemented")
}

func (stubAccountService) Delete(ctx context.Context, userID, accountID uuid.UUID) error {
	panic("unimplemented")
}

func (stubAccountService) Get(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	panic("unimplemented")
}

func (stubAccountService) List(ctx context.Context, userID uuid.UUID) ([]models.Account, error) {
	panic("unimplemented")
}

type stubQuoteService struct{}

func (stubQuoteService) Create(ctx context.Context, userID uuid.UUID, input quotesvc.Input) (*models.Quote, error) {
	panic("unimplemented")
}

func (stubQuoteService) Update(ctx context.Context, userID, quoteID uuid.UUID, input quotesvc.Input) (*models.Quote, error) {
	panic("unimplemented")
}

func (stubQuoteService) Delete(ctx context.Context, userID, quoteID uuid.UUID) error {
	panic("unimplemented")
}

func (stubQuoteService) Get(ctx context.Context, userID, quoteID uuid.UUID) (*models.Quote, error) {
	panic("unimplemented")
}

func (stubQuoteService) List(ctx context.Context, userID uuid.UUID, filters quotesvc.ListFilters, page pagination.Params) (*pagination.Result[models.Quote], error) {
	panic("unimplemented")
}

func (stubQuoteService) ChangeStatus(ctx context.Context, userID, quoteID uuid.UUID, target enums.QuoteStatus) (*models.Quote, error) {
	panic("unimplemented")
}

func (stubQuoteService) Preview(ctx context.Context, userID uuid.UUID, input quotesvc.PreviewInput) (*quotesvc.PreviewResult, error) {
	panic("unimplemented")
}

func (stubQuoteService) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	panic("unimplemented")
}

type stubInvoiceService struct{}

func (stubInvoiceService) Create(ctx context.Context, userID uuid.UUID, input invoicesvc.Input) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubInvoiceService) CreateFromQuote(ctx context.Context, userID, quoteID uuid.UUID, input invoicesvc.FromQuoteInput) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubInvoiceService) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	panic("unimplemented")
}

func (stubInvoiceService) Get(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubInvoiceService) List(ctx context.Context, userID uuid.UUID, filters invoicesvc.ListFilters, page pagination.Params) (*pagination.Result[models.Invoice], error) {
	panic("unimplemented")
}

func (stubInvoiceService) RecordPayment(ctx context.Context, userID, invoiceID uuid.UUID, input invoicesvc.PaymentInput) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubInvoiceService) ListPayments(ctx context.Context, userID, invoiceID uuid.UUID) ([]models.Payment, error) {
	panic("unimplemented")
}

type stubSettingsService struct{}

func (stubSettingsService) Get(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	return map[string]string{}, nil
}

func (stubSettingsService) Update(ctx context.Context, userID uuid.UUID, values map[string]string) (map[string]string, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "teklifdesk",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              stubPinger{},
		Redis:           (*redis.Client)(nil),
		Session:         stubSessionChecker{},
		AuthService:     stubAuthService{},
		UserService:     stubUserService{},
		ProductService:  stubProductService{},
		ContactService:  stubContactService{},
		AccountService:  stubAccountService{},
		QuoteService:    stubQuoteService{},
		InvoiceService:  stubInvoiceService{},
		SettingsService: stubSettingsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveResponds(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if got := resp.Header().Get("X-TeklifDesk-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for profile got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminCanDeleteUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete got %d", resp.Code)
	}
}

func TestRefreshIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	body := strings.NewReader(`{"access_token":"expired","refresh_token":"refresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for refresh got %d", resp.Code)
	}
}
