package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aureliajewels/aurelia-backend/api/controllers"
	"github.com/aureliajewels/aurelia-backend/api/middleware"
	authsvc "github.com/aureliajewels/aurelia-backend/internal/auth"
	checkoutsvc "github.com/aureliajewels/aurelia-backend/internal/checkout"
	ordersvc "github.com/aureliajewels/aurelia-backend/internal/orders"
	packagingsvc "github.com/aureliajewels/aurelia-backend/internal/packaging"
	paymentsvc "github.com/aureliajewels/aurelia-backend/internal/payments"
	productsvc "github.com/aureliajewels/aurelia-backend/internal/products"
	ratesvc "github.com/aureliajewels/aurelia-backend/internal/rates"
	"github.com/aureliajewels/aurelia-backend/pkg/config"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/metrics"
	pkgredis "github.com/aureliajewels/aurelia-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	httpStats *metrics.HTTPMetrics,
	authService authsvc.Service,
	productService productsvc.Service,
	rateService ratesvc.Service,
	packagingService packagingsvc.Service,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
	paymentService paymentsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpStats),
		middleware.CORS(),
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog reads.
		r.Get("/rates", controllers.RatesList(rateService, logg))
		r.Get("/products", controllers.ProductsList(productService, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/quotes", controllers.Quote(checkoutService, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.Checkout(checkoutService, httpStats, logg))
				r.Get("/", controllers.OrdersList(orderService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			})
			r.Route("/payments", func(r chi.Router) {
				r.Post("/order", controllers.PaymentsCreateOrder(paymentService, logg))
				r.Post("/verify", controllers.PaymentsVerify(paymentService, httpStats, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Post("/rates", controllers.AdminSetRate(rateService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(productService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(productService, logg))
		})

		r.Route("/packaging", func(r chi.Router) {
			r.Get("/", controllers.AdminListPackaging(packagingService, logg))
			r.Post("/", controllers.AdminCreatePackaging(packagingService, logg))
			r.Patch("/{packagingId}", controllers.AdminUpdatePackaging(packagingService, logg))
			r.Delete("/{packagingId}", controllers.AdminDeletePackaging(packagingService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(orderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(orderService, logg))
			r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(orderService, logg))
			r.Patch("/{orderId}/tracking", controllers.AdminUpdateTracking(orderService, logg))
		})
	})

	return r
}
