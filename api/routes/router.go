package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teklifdesk/teklifdesk-backend/api/controllers"
	"github.com/teklifdesk/teklifdesk-backend/api/middleware"
	accountsvc "github.com/teklifdesk/teklifdesk-backend/internal/accounts"
	"github.com/teklifdesk/teklifdesk-backend/internal/auth"
	contactsvc "github.com/teklifdesk/teklifdesk-backend/internal/contacts"
	invoicesvc "github.com/teklifdesk/teklifdesk-backend/internal/invoices"
	productsvc "github.com/teklifdesk/teklifdesk-backend/internal/products"
	quotesvc "github.com/teklifdesk/teklifdesk-backend/internal/quotes"
	settingsvc "github.com/teklifdesk/teklifdesk-backend/internal/settings"
	usersvc "github.com/teklifdesk/teklifdesk-backend/internal/users"
	"github.com/teklifdesk/teklifdesk-backend/pkg/auth/session"
	"github.com/teklifdesk/teklifdesk-backend/pkg/config"
	"github.com/teklifdesk/teklifdesk-backend/pkg/enums"
	"github.com/teklifdesk/teklifdesk-backend/pkg/logger"
	"github.com/teklifdesk/teklifdesk-backend/pkg/metrics"
	"github.com/teklifdesk/teklifdesk-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   *redis.Client
	Session session.AccessSessionChecker
	Metrics *metrics.HTTPMetrics

	AuthService     auth.Service
	UserService     usersvc.Service
	ProductService  productsvc.Service
	ContactService  contactsvc.Service
	AccountService  accountsvc.Service
	QuoteService    quotesvc.Service
	InvoiceService  invoicesvc.Service
	SettingsService settingsvc.Service

	MetricsHandler http.Handler
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(deps.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	loginLimit := middleware.LoginRateLimit(deps.Redis, cfg.AuthLimit.LoginLimit, cfg.AuthLimit.LoginWindow, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(loginLimit).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/me", controllers.UserMe(deps.UserService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.ProductService, logg))
			r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
			r.Get("/{productId}", controllers.ProductGet(deps.ProductService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.ProductService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.ProductService, logg))
			r.Post("/", controllers.CategoryCreate(deps.ProductService, logg))
			r.Delete("/{categoryId}", controllers.CategoryDelete(deps.ProductService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(deps.ContactService, logg))
			r.Post("/", controllers.CustomerCreate(deps.ContactService, logg))
			r.Get("/{customerId}", controllers.CustomerGet(deps.ContactService, logg))
			r.Put("/{customerId}", controllers.CustomerUpdate(deps.ContactService, logg))
			r.Delete("/{customerId}", controllers.CustomerDelete(deps.ContactService, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(deps.ContactService, logg))
			r.Post("/", controllers.SupplierCreate(deps.ContactService, logg))
			r.Get("/{supplierId}", controllers.SupplierGet(deps.ContactService, logg))
			r.Put("/{supplierId}", controllers.SupplierUpdate(deps.ContactService, logg))
			r.Delete("/{supplierId}", controllers.SupplierDelete(deps.ContactService, logg))
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", controllers.AccountList(deps.AccountService, logg))
			r.Post("/", controllers.AccountCreate(deps.AccountService, logg))
			r.Get("/{accountId}", controllers.AccountGet(deps.AccountService, logg))
			r.Put("/{accountId}", controllers.AccountUpdate(deps.AccountService, logg))
			r.Delete("/{accountId}", controllers.AccountDelete(deps.AccountService, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", controllers.QuoteList(deps.QuoteService, logg))
			r.Post("/", controllers.QuoteCreate(deps.QuoteService, logg))
			r.Post("/preview", controllers.QuotePreview(deps.QuoteService, logg))
			r.Get("/{quoteId}", controllers.QuoteGet(deps.QuoteService, logg))
			r.Put("/{quoteId}", controllers.QuoteUpdate(deps.QuoteService, logg))
			r.Delete("/{quoteId}", controllers.QuoteDelete(deps.QuoteService, logg))
			r.Post("/{quoteId}/status", controllers.QuoteChangeStatus(deps.QuoteService, logg))
			r.Post("/{quoteId}/invoice", controllers.QuoteConvertToInvoice(deps.InvoiceService, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoiceList(deps.InvoiceService, logg))
			r.Post("/", controllers.InvoiceCreate(deps.InvoiceService, logg))
			r.Get("/{invoiceId}", controllers.InvoiceGet(deps.InvoiceService, logg))
			r.Delete("/{invoiceId}", controllers.InvoiceDelete(deps.InvoiceService, logg))
			r.Get("/{invoiceId}/payments", controllers.InvoiceListPayments(deps.InvoiceService, logg))
			r.Post("/{invoiceId}/payments", controllers.InvoiceRecordPayment(deps.InvoiceService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(deps.SettingsService, logg))
			r.Put("/", controllers.SettingsUpdate(deps.SettingsService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Get("/", controllers.UserList(deps.UserService, logg))
			r.Post("/", controllers.UserCreate(deps.UserService, logg))
			r.Patch("/{userId}", controllers.UserUpdate(deps.UserService, logg))
			r.Delete("/{userId}", controllers.UserDelete(deps.UserService, logg))
			r.Post("/{userId}/reset-password", controllers.UserResetPassword(deps.UserService, logg))
		})
	})

	return r
}
