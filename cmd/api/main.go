package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-api/internal/bootstrap"
	"go-inventory-api/internal/config"
	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/metrics"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := config.ApplyEnvFile(config.EnvPath()); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Setup store
	stores, err := bootstrap.OpenStores(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open store", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	hub := ws.NewHub(zlog.Named("ws"))
	go hub.Run(ctx)

	// 4. Dependency Injection
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	invService := service.NewInventoryService(stores.Products, hub, zlog.Named("inventory"))
	dashService := service.NewDashboardService(stores.Products)
	authService := service.NewAuthService(stores.Users, tokens, zlog.Named("auth"))
	userService := service.NewUserService(stores.Users, authService, zlog.Named("users"))

	if err := bootstrap.SeedAdmin(ctx, cfg.Admin, stores.Users, authService, zlog); err != nil {
		zlog.Warn("failed to seed admin user", zap.Error(err))
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Inventory Management API v1.0",
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: handler.ErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigin}))

	apiLimiter := limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "TooManyRequests",
				"message": "Too many requests from this IP, please try again later.",
			})
		},
	})

	// 6. Routes
	handler.Mount(app, handler.Routes{
		Auth:        handler.NewAuthHandler(authService),
		Products:    handler.NewProductHandler(invService),
		Dashboard:   handler.NewDashboardHandler(dashService),
		Users:       handler.NewUserHandler(userService),
		RequireAuth: middleware.RequireAuth(stores.Users, tokens),
	}, apiLimiter)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(hub.Handler()))

	if cfg.Metrics {
		metrics.Register(app)
	}
	app.Use(handler.NotFound)

	// 7. Graceful Shutdown
	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")
	cancel()
	if err := app.Shutdown(); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	if err := stores.Close(); err != nil {
		zlog.Error("failed to close store", zap.Error(err))
	}
	zlog.Info("Server exited")
}
