package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/washday/laundry-backend/api/controllers"
	webhookcontrollers "github.com/washday/laundry-backend/api/controllers/webhooks"
	"github.com/washday/laundry-backend/api/middleware"
	"github.com/washday/laundry-backend/internal/auth"
	"github.com/washday/laundry-backend/internal/catalog"
	"github.com/washday/laundry-backend/internal/customers"
	"github.com/washday/laundry-backend/internal/dashboard"
	"github.com/washday/laundry-backend/internal/deliveries"
	"github.com/washday/laundry-backend/internal/landing"
	"github.com/washday/laundry-backend/internal/leads"
	"github.com/washday/laundry-backend/internal/orders"
	"github.com/washday/laundry-backend/internal/referrals"
	"github.com/washday/laundry-backend/internal/servicearea"
	"github.com/washday/laundry-backend/internal/support"
	stripewebhook "github.com/washday/laundry-backend/internal/webhooks/stripe"
	"github.com/washday/laundry-backend/internal/wizard"
	"github.com/washday/laundry-backend/pkg/auth/session"
	"github.com/washday/laundry-backend/pkg/config"
	"github.com/washday/laundry-backend/pkg/db"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/metrics"
	"github.com/washday/laundry-backend/pkg/redis"
	"github.com/washday/laundry-backend/pkg/stripe"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	adminRegisterService auth.AdminRegisterService,
	wizardService wizard.Service,
	customerService customers.Service,
	ordersService orders.Service,
	catalogService catalog.Service,
	deliveryService deliveries.Service,
	leadService leads.Service,
	landingService landing.Service,
	dashboardService dashboard.Service,
	referralService referrals.Service,
	supportService support.Service,
	serviceArea *servicearea.Checker,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	authLimit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if redisClient == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.AuthRateLimit(policy, redisClient, logg)
	}
	publicLimiter := middleware.NewPublicRateLimiter(cfg.PublicLimit.RequestsPerMinute, cfg.PublicLimit.Burst)

	readiness := map[string]controllers.Pinger{}
	if dbP != nil {
		readiness["db"] = dbP
	}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// typed nils would defeat the handler's availability check
	stripeHandler := webhookcontrollers.StripeWebhook(nil, nil, nil, logg)
	if stripeWebhookService != nil && stripeClient != nil && stripeWebhookGuard != nil {
		stripeHandler = webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg)
	}
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", stripeHandler)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(authLimit(loginPolicy)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(authLimit(registerPolicy)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(adminRegisterService, authService, cfg, logg))
		}
		r.With(authLimit(loginPolicy)).Post("/login", controllers.AdminAuthLogin(authService, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(publicLimiter.Middleware(logg))

		r.Get("/api/v1/services", controllers.PublicServices(catalogService, logg))
		r.Get("/api/v1/landing", controllers.PublicLanding(landingService, logg))
		r.Get("/api/v1/service-area/{zip}", controllers.ServiceAreaCheck(serviceArea, logg))
		r.Post("/api/v1/leads", controllers.CaptureLead(leadService, logg))
		r.With(middleware.OptionalAuth(cfg.JWT, sessionManager, logg)).Post("/api/v1/support", controllers.SubmitSupportIssue(supportService, logg))

		r.Route("/api/v1/wizard", func(r chi.Router) {
			r.With(middleware.OptionalAuth(cfg.JWT, sessionManager, logg)).Post("/", controllers.WizardStart(wizardService, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.WizardGet(wizardService, logg))
				r.Patch("/", controllers.WizardUpdate(wizardService, logg))
				r.Delete("/", controllers.WizardDiscard(wizardService, logg))
				r.Post("/next", controllers.WizardNext(wizardService, logg))
				r.Post("/previous", controllers.WizardPrevious(wizardService, logg))
				r.Post("/jump", controllers.WizardJump(wizardService, logg))
				r.Post("/payment-intent", controllers.WizardPaymentIntent(wizardService, logg))
				r.Post("/confirm", controllers.WizardConfirm(wizardService, logg))
				r.Get("/result", controllers.WizardResult(wizardService, logg))
			})
		})
	})

	r.Route("/api/v1/me", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Get("/", controllers.AccountProfile(customerService, logg))
		r.Put("/", controllers.AccountUpdateProfile(customerService, logg))
		r.Get("/orders", controllers.AccountOrders(customerService, ordersService, logg))
		r.Put("/password", controllers.AccountChangePassword(authService, logg))
		r.Get("/referrals", controllers.AccountReferrals(referralService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(ordersService, logg))
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomers(customerService, logg))
			r.Post("/", controllers.AdminCustomerCreate(customerService, logg))
			r.Get("/{customerId}", controllers.AdminCustomerDetail(customerService, logg))
			r.Put("/{customerId}", controllers.AdminCustomerUpdate(customerService, logg))
			r.Delete("/{customerId}", controllers.AdminCustomerDelete(customerService, logg))
		})
		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.AdminServices(catalogService, logg))
			r.Post("/", controllers.AdminServiceCreate(catalogService, logg))
			r.Get("/{serviceId}", controllers.AdminServiceDetail(catalogService, logg))
			r.Put("/{serviceId}", controllers.AdminServiceUpdate(catalogService, logg))
			r.Get("/{serviceId}/can-delete", controllers.AdminServiceCanDelete(catalogService, logg))
			r.Delete("/{serviceId}", controllers.AdminServiceDelete(catalogService, logg))
		})
		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/", controllers.AdminDeliveries(deliveryService, logg))
			r.Post("/", controllers.AdminDeliveryCreate(deliveryService, logg))
			r.Get("/{deliveryId}", controllers.AdminDeliveryDetail(deliveryService, logg))
			r.Put("/{deliveryId}", controllers.AdminDeliveryUpdate(deliveryService, logg))
			r.Patch("/{deliveryId}/status", controllers.AdminDeliveryUpdateStatus(deliveryService, logg))
			r.Delete("/{deliveryId}", controllers.AdminDeliveryDelete(deliveryService, logg))
		})
		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.AdminLeads(leadService, logg))
			r.Put("/{leadId}", controllers.AdminLeadUpdate(leadService, logg))
		})
		r.Route("/support", func(r chi.Router) {
			r.Get("/", controllers.AdminSupportIssues(supportService, logg))
			r.Patch("/{issueId}", controllers.AdminSupportIssueUpdate(supportService, logg))
		})
		r.Put("/landing", controllers.AdminLandingSave(landingService, logg))
		r.Get("/dashboard/stats", controllers.AdminDashboardStats(dashboardService, logg))
	})

	return r
}
