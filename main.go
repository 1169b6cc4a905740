package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	applog "storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
	"storefront/pkg/stripeclient"
)

// Server bundles the HTTP app with the resources it owns.
type Server struct {
	App  *fiber.App
	Auth *services.AuthService

	db *gorm.DB
	mq *rabbitmq.Client
}

// NewApp wires repositories, services and handlers for cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*Server, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	srv := &Server{db: db}

	// --- Messaging (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange})
		if err != nil {
			log.Warn().Err(err).Msg("order events disabled: RabbitMQ unavailable")
		} else {
			srv.mq = mq
			events = mq
		}
	}

	// --- Payment processor ---
	var processor services.PaymentProcessor
	if cfg.Stripe.Mocked() {
		log.Warn().Msg("STRIPE_SECRET is not a live key, using the mock payment processor")
		processor = stripeclient.NewMock()
	} else {
		processor = stripeclient.New(cfg.Stripe.Secret)
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	eventRepo := repositories.NewGORMEventRepository(db)

	// --- Services ---
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cfg.Store.Currency, events)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, processor)
	reconciliationService := services.NewReconciliationService(orderService, paymentService, eventRepo, cfg.Stripe.WebhookSecret)
	checkoutService := services.NewCheckoutService(cartService, orderService, paymentService)
	statsService := services.NewStatsService(userRepo, productRepo, orderRepo)
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret)
	srv.Auth = authService

	if cfg.Auth.AdminUsername != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			srv.Close()
			return nil, fmt.Errorf("failed to bootstrap admin user: %w", err)
		}
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, authService)
	orderHandler := handlers.NewOrderHandler(orderService, authService)
	webhookHandler := handlers.NewWebhookHandler(reconciliationService)
	adminHandler := handlers.NewAdminHandler(statsService)

	app := fiber.New(fiber.Config{AppName: "storefront"})
	app.Use(recover.New())
	app.Use(logger.New())

	authRequired := middleware.AuthRequired(authService)
	adminOnly := middleware.AdminOnly()

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, authRequired, adminOnly)
	cartHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1, authRequired)
	orderHandler.RegisterRoutes(apiV1, authRequired)
	adminHandler.RegisterRoutes(apiV1, authRequired, adminOnly)

	// Processor callbacks live outside the versioned API.
	webhookHandler.RegisterRoutes(app)

	app.Get("/health", srv.handleHealth)

	srv.App = app
	return srv, nil
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	dbState := "up"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		status = fiber.StatusServiceUnavailable
		dbState = "down"
	}
	mqState := "disabled"
	if s.mq != nil {
		mqState = "connected"
	}
	health := "healthy"
	if status != fiber.StatusOK {
		health = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   health,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbState,
		"rabbitMQ": mqState,
	})
}

// Close releases the broker connection and the database pool.
func (s *Server) Close() {
	if s.mq != nil {
		if err := s.mq.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing RabbitMQ client")
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing database")
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	applog.Setup("storefront", cfg.Logger.Level, cfg.Logger.Pretty || cfg.IsDevelopment())

	ctx := context.Background()
	srv, err := NewApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise application")
	}
	defer srv.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
		if err := srv.App.Listen(cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := srv.App.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}
