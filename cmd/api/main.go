package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teklifdesk/teklifdesk-backend/api/routes"
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
	"github.com/teklifdesk/teklifdesk-backend/pkg/db"
	"github.com/teklifdesk/teklifdesk-backend/pkg/logger"
	"github.com/teklifdesk/teklifdesk-backend/pkg/metrics"
	"github.com/teklifdesk/teklifdesk-backend/pkg/migrate"
	"github.com/teklifdesk/teklifdesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := usersvc.NewRepository(dbClient.DB())
	productRepo := productsvc.NewRepository(dbClient.DB())
	contactRepo := contactsvc.NewRepository(dbClient.DB())
	accountRepo := accountsvc.NewRepository(dbClient.DB())
	quoteRepo := quotesvc.NewRepository(dbClient.DB())
	invoiceRepo := invoicesvc.NewRepository(dbClient.DB())
	settingRepo := settingsvc.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := usersvc.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	contactService, err := contactsvc.NewService(contactRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	accountService, err := accountsvc.NewService(accountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create account service", err)
		os.Exit(1)
	}

	quoteService, err := quotesvc.NewService(quoteRepo, dbClient, productRepo, contactRepo, cfg.Quote)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	invoiceService, err := invoicesvc.NewService(invoiceRepo, dbClient, quoteRepo, contactRepo, contactRepo, accountRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	settingsService, err := settingsvc.NewService(settingRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Session:         sessionManager,
			Metrics:         httpMetrics,
			AuthService:     authService,
			UserService:     userService,
			ProductService:  productService,
			ContactService:  contactService,
			AccountService:  accountService,
			QuoteService:    quoteService,
			InvoiceService:  invoiceService,
			SettingsService: settingsService,
			MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
