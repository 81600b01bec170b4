package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopstack/internal/config"
	"shopstack/internal/database"
	"shopstack/internal/handler"
	"shopstack/internal/mailer"
	"shopstack/internal/payment"
	"shopstack/internal/repository"
	"shopstack/internal/router"
	"shopstack/internal/service"
	"shopstack/internal/shipping"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development convenience; the file is absent in deployment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shopstack API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)

	// Initialize outbound clients
	m, err := mailer.New(cfg.SMTP, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}
	paymentGateway := payment.NewClient(cfg.Razorpay, logger)
	shippingGateway := shipping.NewClient(cfg.Shiprocket, logger)

	if !paymentGateway.Configured() {
		logger.Warn().Msg("payment gateway credentials absent, payment endpoints will respond 503")
	}
	if !shippingGateway.Configured() {
		logger.Warn().Msg("shipping gateway credentials absent, serviceability endpoint will respond 503")
	}

	// Initialize services
	identityService := service.NewIdentityService(customerRepo, logger)
	couponService := service.NewCouponService(couponRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	productService := service.NewProductService(productRepo, notificationRepo, logger)
	orderService := service.NewOrderService(orderRepo, customerRepo, productRepo, notificationRepo, identityService, m, logger)
	authService := service.NewAuthService(customerRepo, m, cfg.JWT, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService, logger),
		Product:      handler.NewProductHandler(productService, logger),
		Order:        handler.NewOrderHandler(orderService, logger),
		Payment:      handler.NewPaymentHandler(paymentGateway, logger),
		Coupon:       handler.NewCouponHandler(couponService, logger),
		Notification: handler.NewNotificationHandler(notificationService, logger),
		Shipping:     handler.NewShippingHandler(shippingGateway, logger),
	}

	// Initialize router
	mux := router.New(handlers, cfg.JWT.Secret, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
