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

	"github.com/aureliajewels/aurelia-backend/api/routes"
	authsvc "github.com/aureliajewels/aurelia-backend/internal/auth"
	checkoutsvc "github.com/aureliajewels/aurelia-backend/internal/checkout"
	"github.com/aureliajewels/aurelia-backend/internal/notifications"
	ordersvc "github.com/aureliajewels/aurelia-backend/internal/orders"
	packagingsvc "github.com/aureliajewels/aurelia-backend/internal/packaging"
	paymentsvc "github.com/aureliajewels/aurelia-backend/internal/payments"
	productsvc "github.com/aureliajewels/aurelia-backend/internal/products"
	ratesvc "github.com/aureliajewels/aurelia-backend/internal/rates"
	"github.com/aureliajewels/aurelia-backend/internal/users"
	"github.com/aureliajewels/aurelia-backend/pkg/config"
	"github.com/aureliajewels/aurelia-backend/pkg/db"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/mailer"
	"github.com/aureliajewels/aurelia-backend/pkg/metrics"
	"github.com/aureliajewels/aurelia-backend/pkg/migrate"
	"github.com/aureliajewels/aurelia-backend/pkg/razorpay"
	"github.com/aureliajewels/aurelia-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gateway, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap razorpay client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpStats := metrics.NewHTTPMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	productsRepo := productsvc.NewRepository(dbClient.DB())
	ratesRepo := ratesvc.NewRepository(dbClient.DB())
	packagingRepo := packagingsvc.NewRepository(dbClient.DB())
	ordersRepo := ordersvc.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(usersRepo, cfg.JWT, cfg.Password, logg)
	if err != nil {
		fatalService(logg, "auth", err)
	}
	productService, err := productsvc.NewService(productsRepo)
	if err != nil {
		fatalService(logg, "products", err)
	}
	rateService, err := ratesvc.NewService(ratesRepo, redisClient, cfg.Rates, logg)
	if err != nil {
		fatalService(logg, "rates", err)
	}
	packagingService, err := packagingsvc.NewService(packagingRepo)
	if err != nil {
		fatalService(logg, "packaging", err)
	}
	orderService, err := ordersvc.NewService(ordersRepo, dbClient, logg)
	if err != nil {
		fatalService(logg, "orders", err)
	}
	checkoutService, err := checkoutsvc.NewService(dbClient, productsRepo, rateService, packagingRepo, ordersRepo, logg)
	if err != nil {
		fatalService(logg, "checkout", err)
	}
	notificationService, err := notifications.NewService(mailer.New(cfg.SMTP, logg), usersRepo, logg)
	if err != nil {
		fatalService(logg, "notifications", err)
	}
	paymentService, err := paymentsvc.NewService(gateway, orderService, ordersRepo, notificationService, logg)
	if err != nil {
		fatalService(logg, "payments", err)
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
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			httpStats,
			authService,
			productService,
			rateService,
			packagingService,
			checkoutService,
			orderService,
			paymentService,
		),
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdownCh:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func fatalService(logg *logger.Logger, name string, err error) {
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
