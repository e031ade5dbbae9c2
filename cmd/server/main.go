package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dukerupert/stride/internal"
	"github.com/dukerupert/stride/internal/api"
	"github.com/dukerupert/stride/internal/cache"
	"github.com/dukerupert/stride/internal/cookie"
	"github.com/dukerupert/stride/internal/crypto"
	"github.com/dukerupert/stride/internal/events"
	"github.com/dukerupert/stride/internal/handler"
	"github.com/dukerupert/stride/internal/handler/admin"
	"github.com/dukerupert/stride/internal/handler/storefront"
	"github.com/dukerupert/stride/internal/middleware"
	"github.com/dukerupert/stride/internal/pricing"
	"github.com/dukerupert/stride/internal/router"
	"github.com/dukerupert/stride/internal/routes"
	"github.com/dukerupert/stride/internal/service"
	"github.com/dukerupert/stride/internal/session"
	"github.com/dukerupert/stride/internal/state"
	"github.com/dukerupert/stride/internal/telemetry"
	"github.com/dukerupert/stride/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Error tracking
	flushSentry, err := telemetry.InitSentry(cfg.Sentry, logger)
	if err != nil {
		return err
	}
	defer flushSentry()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics(registry, "stride")
	businessMetrics := telemetry.NewBusinessMetrics(registry, "stride")

	// Client state persistence (cart-storage, auth-storage)
	logger.Info("Opening client state backend...", "provider", cfg.Persistence.Provider)
	backend, err := state.NewBackend(cfg.Persistence)
	if err != nil {
		return fmt.Errorf("state backend initialization failed: %w", err)
	}
	defer backend.Close()
	logger.Info("Client state backend ready")

	stateBackend := backend
	if cfg.Persistence.EncryptionKey != "" {
		key, err := crypto.DecodeKeyBase64(cfg.Persistence.EncryptionKey)
		if err != nil {
			return fmt.Errorf("STATE_ENCRYPTION_KEY: %w", err)
		}
		enc, err := crypto.NewAESEncryptor(key)
		if err != nil {
			return fmt.Errorf("STATE_ENCRYPTION_KEY: %w", err)
		}
		stateBackend = state.NewSealedBackend(backend, enc, session.Codec.Namespace)
		logger.Info("Session state encrypted at rest")
	}

	// Stale client state sweeper
	if pruner, ok := backend.(state.Pruner); ok && cfg.Persistence.SweepInterval > 0 {
		sweeper := worker.NewSweeper(pruner, worker.Config{
			Interval:  cfg.Persistence.SweepInterval,
			Retention: cfg.Persistence.Retention,
		}, logger)

		sweepCtx, cancelSweep := context.WithCancel(ctx)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sweeper.Start(sweepCtx)
		}()
		defer func() {
			cancelSweep()
			wg.Wait()
		}()
	}

	// Storefront events
	publisher, err := events.New(cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("events initialization failed: %w", err)
	}
	defer publisher.Close()

	// Store backend client
	client := api.New(cfg.Backend.APIURL,
		api.WithHTTPClient(&http.Client{
			Timeout:   cfg.Backend.Timeout,
			Transport: &telemetry.HTTPTransport{},
		}),
		api.WithObserver(businessMetrics),
		api.WithLogger(logger),
	)

	quoter, err := pricing.NewQuoterFromConfig(cfg.Pricing)
	if err != nil {
		return fmt.Errorf("pricing initialization failed: %w", err)
	}
	queryCache := cache.New(cfg.Cache.TTL)

	// Initialize services
	stores := service.NewStores(stateBackend, client.Auth, businessMetrics, logger)
	cartService := service.NewCartService(stores, client.Products, quoter, publisher, businessMetrics, logger)
	sessionService := service.NewSessionService(stores, publisher, businessMetrics, logger)
	catalogService := service.NewCatalogService(client.Products, queryCache, businessMetrics)
	accountService := service.NewAccountService(stores, sessionService, client.Customers, client.Orders, queryCache, logger)
	checkoutService := service.NewCheckoutService(stores, cartService, client.Orders, queryCache, publisher, businessMetrics, logger)
	adminService := service.NewAdminService(client.Orders, client.AdminProducts, client.Stats, queryCache, publisher, businessMetrics, logger)

	// Middleware
	cookies := cookie.NewConfig("", cfg.SecureCookies)
	visitorMiddleware := middleware.Visitor(stores, cookies)
	sentryContext := telemetry.SentryContextMiddleware(middleware.SentryVisitor)
	visitor := func(next http.Handler) http.Handler {
		return visitorMiddleware(sentryContext(next))
	}

	authRateLimiter := middleware.NewRateLimiter(middleware.AuthRateLimiterConfig())
	defer authRateLimiter.Stop()
	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()

	r := router.New(
		router.Recovery(logger),
		telemetry.SentryMiddleware(),
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		httpMetrics.Middleware,
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.SecureCookies)),
		defaultRateLimiter.Middleware,
	)

	healthChecks := map[string]handler.HealthCheck{}
	if sqlBackend, ok := backend.(*state.SQLBackend); ok {
		healthChecks["state"] = sqlBackend.DB().PingContext
	}

	// Register route groups
	routes.RegisterSystemRoutes(r, routes.SystemDeps{
		Health:  handler.Health(healthChecks),
		Metrics: httpMetrics.Handler(),
	})
	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		Visitor:         visitor,
		AuthRateLimit:   authRateLimiter.Middleware,
		ProductHandler:  storefront.NewProductHandler(catalogService),
		CartHandler:     storefront.NewCartHandler(cartService),
		AuthHandler:     storefront.NewAuthHandler(sessionService),
		CheckoutHandler: storefront.NewCheckoutHandler(checkoutService),
		AccountHandler:  storefront.NewAccountHandler(accountService),
	})
	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		Visitor:          visitor,
		DashboardHandler: admin.NewDashboardHandler(adminService),
		OrderHandler:     admin.NewOrderHandler(adminService),
		ProductHandler:   admin.NewProductHandler(adminService),
	})
	r.NotFound(handler.NotFoundResponse)
	logger.Debug("Routes registered", "routes", r.Routes())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.CORS(cfg.AllowedOrigins)(r),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "backend", cfg.Backend.APIURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
