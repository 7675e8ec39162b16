package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/okonkwolabs/kasuwa/internal"
	"github.com/okonkwolabs/kasuwa/internal/address"
	"github.com/okonkwolabs/kasuwa/internal/archive"
	"github.com/okonkwolabs/kasuwa/internal/catalog"
	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/handler/storefront"
	"github.com/okonkwolabs/kasuwa/internal/inventory"
	"github.com/okonkwolabs/kasuwa/internal/kv"
	"github.com/okonkwolabs/kasuwa/internal/middleware"
	"github.com/okonkwolabs/kasuwa/internal/notify"
	"github.com/okonkwolabs/kasuwa/internal/postgres"
	"github.com/okonkwolabs/kasuwa/internal/router"
	"github.com/okonkwolabs/kasuwa/internal/routes"
	"github.com/okonkwolabs/kasuwa/internal/service"
	"github.com/okonkwolabs/kasuwa/internal/shipping"
	"github.com/okonkwolabs/kasuwa/internal/tax"
	"github.com/okonkwolabs/kasuwa/internal/telemetry"
)

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

	// Initialize Prometheus metrics
	telemetry.InitBusinessMetrics("kasuwa")
	metrics := middleware.NewMetrics("kasuwa")

	// Initialize the durable record store
	store, err := kv.NewFileStore(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("record store initialization failed: %w", err)
	}
	logger.Info("Record store initialized", "dir", cfg.Store.DataDir)

	// Initialize the order archive
	var orderArchive archive.Archive
	switch cfg.Archive.Driver {
	case "postgres":
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.Archive.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		logger.Info("Database connection established")

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pool, err := pgxpool.New(ctx, cfg.Archive.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		orderArchive = postgres.NewArchive(pool)
	default:
		orderArchive = archive.NewFileArchive(store, logger)
	}

	// Initialize the notification publisher
	var notifier notify.Notifier
	if cfg.Notify.URL != "" {
		logger.Info("Connecting to NATS...", "url", cfg.Notify.URL)
		natsNotifier, err := notify.NewNatsNotifier(cfg.Notify.URL, cfg.Notify.Subject)
		if err != nil {
			return fmt.Errorf("NATS connection failed: %w", err)
		}
		defer natsNotifier.Close()
		notifier = natsNotifier
	} else {
		notifier = notify.NewLogNotifier(logger)
	}

	// Load the product catalog and start the simulated stock feed
	cat := catalog.Default()
	products := cat.List(ctx, "", "")
	itemIDs := make([]string, 0, len(products))
	for _, p := range products {
		itemIDs = append(itemIDs, p.ID)
	}
	simulator := inventory.NewSimulator(cfg.Inventory.Seed, itemIDs)

	monitor := inventory.NewMonitor(simulator, notifier, logger, time.Duration(cfg.Inventory.RefreshSeconds)*time.Second)
	monitorHandle := monitor.Start(ctx)
	defer monitorHandle.Cancel()

	// Initialize shipping providers
	logisticsProvider := shipping.NewFlatRateProvider(cfg.LogisticsBaseFee, cfg.FreeShippingThreshold)
	stationProvider := shipping.NewStationProvider(shipping.DefaultStations())
	shippingProvider := shipping.NewMethodProvider(logisticsProvider, stationProvider)

	// Initialize tax calculators. The cart estimate and the checkout quote
	// can run different rates.
	cartTaxes, err := taxCalculator(cfg.CartTaxRate)
	if err != nil {
		return fmt.Errorf("failed to initialize cart tax calculator: %w", err)
	}
	checkoutTaxes, err := taxCalculator(cfg.CheckoutTaxRate)
	if err != nil {
		return fmt.Errorf("failed to initialize checkout tax calculator: %w", err)
	}

	// Initialize services
	cartService := service.NewCartService(ctx, store, logger)
	themeService := service.NewThemeService(ctx, store, systemScheme, logger)
	orderService := service.NewOrderService(orderArchive)
	savedService := service.NewSavedService(store, cartService, logger)
	promoService := service.NewPromoService(service.DefaultPromos())
	prefsService := service.NewPrefsService(ctx, store, logger)

	checkoutService := service.NewCheckoutService(service.CheckoutParams{
		Cart:         cartService,
		Provider:     shippingProvider,
		Stations:     stationProvider,
		Addresses:    address.NewNigeriaValidator(),
		Taxes:        checkoutTaxes,
		Orders:       orderArchive,
		Stock:        simulator,
		Notifier:     notifier,
		Logger:       logger,
		ConfirmDelay: time.Duration(cfg.Inventory.ConfirmDelayMs) * time.Millisecond,
	})
	janitorHandle := checkoutService.StartJanitor(ctx, 10*time.Minute)
	defer janitorHandle.Cancel()

	// Build route dependencies
	deps := routes.StorefrontDeps{
		ProductsHandler: storefront.NewProductsHandler(cat, simulator, logger),
		CartHandler:     storefront.NewCartHandler(cartService, prefsService, logisticsProvider, cartTaxes, logger),
		CheckoutHandler: storefront.NewCheckoutHandler(checkoutService, stationProvider, logger),
		ThemeHandler:    storefront.NewThemeHandler(themeService, logger),
		OrdersHandler:   storefront.NewOrdersHandler(orderService, logger),
		SavedHandler:    storefront.NewSavedHandler(savedService, logger),
		PromoHandler:    storefront.NewPromoHandler(promoService, cartService, logger),
		MetricsHandler:  metrics.Handler(),
	}

	// Create the router and register routes
	chain := []router.Middleware{
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
		middleware.Session,
	}
	if len(cfg.CORSOrigins) > 0 {
		chain = append(chain, router.CORS(cfg.CORSOrigins))
	}
	r := router.New(chain...)
	routes.RegisterStorefrontRoutes(r, deps)

	// Start the server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.Info("Starting storefront server", "address", addr, "env", cfg.Env)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

// taxCalculator builds the calculator for a configured rate. A zero rate
// means no tax is charged at all.
func taxCalculator(rate float64) (tax.Calculator, error) {
	if rate == 0 {
		return tax.NewNoTaxCalculator(), nil
	}
	return tax.NewPercentageCalculator(rate)
}

// systemScheme approximates the host light/dark signal from local wall-clock
// time. A headless server has no OS preference to read.
func systemScheme() domain.ThemeMode {
	h := time.Now().Hour()
	if h >= 19 || h < 7 {
		return domain.ThemeDark
	}
	return domain.ThemeLight
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
