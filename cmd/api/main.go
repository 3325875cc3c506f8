package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/washday/laundry-backend/api/routes"
	"github.com/washday/laundry-backend/internal/auth"
	"github.com/washday/laundry-backend/internal/catalog"
	"github.com/washday/laundry-backend/internal/customers"
	"github.com/washday/laundry-backend/internal/dashboard"
	"github.com/washday/laundry-backend/internal/deliveries"
	"github.com/washday/laundry-backend/internal/landing"
	"github.com/washday/laundry-backend/internal/leads"
	"github.com/washday/laundry-backend/internal/notifications"
	"github.com/washday/laundry-backend/internal/orders"
	"github.com/washday/laundry-backend/internal/payments"
	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/internal/referrals"
	"github.com/washday/laundry-backend/internal/servicearea"
	"github.com/washday/laundry-backend/internal/support"
	"github.com/washday/laundry-backend/internal/users"
	stripewebhook "github.com/washday/laundry-backend/internal/webhooks/stripe"
	"github.com/washday/laundry-backend/internal/wizard"
	"github.com/washday/laundry-backend/pkg/auth/session"
	"github.com/washday/laundry-backend/pkg/config"
	"github.com/washday/laundry-backend/pkg/db"
	"github.com/washday/laundry-backend/pkg/email"
	"github.com/washday/laundry-backend/pkg/kafka"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/metrics"
	"github.com/washday/laundry-backend/pkg/migrate"
	"github.com/washday/laundry-backend/pkg/redis"
	pkgstripe "github.com/washday/laundry-backend/pkg/stripe"
)

const (
	shutdownTimeout      = 15 * time.Second
	webhookIdempotentTTL = 72 * time.Hour
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(context.Background(), logg, "database", err)

	requireResource(context.Background(), logg, "dev migrations", migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient))

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(context.Background(), logg, "redis", err)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(context.Background(), logg, "session manager", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	wizardMetrics := metrics.NewWizardMetrics(registry)

	gormDB := dbClient.DB()
	customerRepo := customers.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		CustomerRepo:   customerRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	requireResource(context.Background(), logg, "auth service", err)

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	requireResource(context.Background(), logg, "register service", err)

	adminRegisterService, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	requireResource(context.Background(), logg, "admin register service", err)

	customerService, err := customers.NewService(customerRepo, dbClient, logg)
	requireResource(context.Background(), logg, "customers service", err)

	ordersService, err := orders.NewService(orders.NewRepository(gormDB), customerService, logg)
	requireResource(context.Background(), logg, "orders service", err)

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB), logg)
	requireResource(context.Background(), logg, "catalog service", err)

	deliveryService, err := deliveries.NewService(deliveries.NewRepository(gormDB), logg)
	requireResource(context.Background(), logg, "deliveries service", err)

	leadService, err := leads.NewService(leads.NewRepository(gormDB), logg)
	requireResource(context.Background(), logg, "leads service", err)

	landingService, err := landing.NewService(gormDB, logg)
	requireResource(context.Background(), logg, "landing service", err)

	dashboardService, err := dashboard.NewService(gormDB, nil)
	requireResource(context.Background(), logg, "dashboard service", err)

	referralService, err := referrals.NewService(referrals.NewRepository(gormDB), logg)
	requireResource(context.Background(), logg, "referrals service", err)

	supportService, err := support.NewService(support.NewRepository(gormDB), logg)
	requireResource(context.Background(), logg, "support service", err)

	serviceArea, err := servicearea.NewChecker(cfg.ServiceArea)
	requireResource(context.Background(), logg, "service area", err)

	estimator, err := pricing.NewEstimator(cfg.Pricing.Rate(), cfg.Pricing.Minimum())
	requireResource(context.Background(), logg, "pricing", err)

	var (
		stripeClient *pkgstripe.Client
		gateway      wizard.Gateway = payments.Unavailable{}
	)
	if cfg.Stripe.APIKey != "" {
		stripeClient, err = pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
		requireResource(context.Background(), logg, "stripe", err)
		stripeGateway, err := payments.NewStripeGateway(payments.NewStripeClient(stripeClient.API()), logg)
		requireResource(context.Background(), logg, "stripe gateway", err)
		gateway = stripeGateway
	} else {
		logg.Warn(context.Background(), "stripe api key not set, payments disabled")
	}

	publisher, err := kafka.NewPublisher(cfg.Kafka, logg)
	requireResource(context.Background(), logg, "kafka", err)
	orderEvents, err := orders.NewEventPublisher(publisher, cfg.Kafka.OrdersTopic)
	requireResource(context.Background(), logg, "order events", err)

	mailer, err := notifications.NewMailer(email.NewSender(cfg.Resend, logg), "", logg)
	requireResource(context.Background(), logg, "mailer", err)

	wizardStore, err := wizard.NewStore(redisClient, cfg.Wizard)
	requireResource(context.Background(), logg, "wizard store", err)

	wizardService, err := wizard.NewService(wizard.ServiceParams{
		Store:             wizardStore,
		Estimator:         estimator,
		Gateway:           gateway,
		Orders:            ordersService,
		Accounts:          registerService,
		Events:            orderEvents,
		Mailer:            mailer,
		Profiles:          customerService,
		Metrics:           wizardMetrics,
		Logger:            logg,
		PublishableKey:    stripeClient.PublishableKey(),
		SideEffectTimeout: cfg.Wizard.SideEffectTimeout,
	})
	requireResource(context.Background(), logg, "wizard service", err)

	var (
		webhookService *stripewebhook.Service
		webhookGuard   *stripewebhook.IdempotencyGuard
	)
	if stripeClient != nil {
		webhookService, err = stripewebhook.NewService(stripewebhook.ServiceParams{Orders: ordersService, Logger: logg})
		requireResource(context.Background(), logg, "stripe webhook service", err)
		webhookGuard, err = stripewebhook.NewIdempotencyGuard(redisClient, webhookIdempotentTTL, "stripe")
		requireResource(context.Background(), logg, "stripe webhook guard", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			httpMetrics,
			sessionManager,
			authService,
			registerService,
			adminRegisterService,
			wizardService,
			customerService,
			ordersService,
			catalogService,
			deliveryService,
			leadService,
			landingService,
			dashboardService,
			referralService,
			supportService,
			serviceArea,
			stripeClient,
			webhookService,
			webhookGuard,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		publisher.Close(),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")
	os.Exit(exitCode)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to bootstrap "+resource, err)
	os.Exit(1)
}
