package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nft-drop/internal/di"
	"nft-drop/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host        string `env:"SERVER_HOST" envDefault:"localhost"`
	Port        string `env:"SERVER_PORT" envDefault:"3000"`
	CORSOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	// ProxyHeader names the header carrying the client IP, e.g. X-Forwarded-For.
	// It is only read from requests sent by TrustedProxies.
	ProxyHeader    string   `env:"SERVER_PROXY_HEADER"`
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES" envSeparator:","`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()

	cfgs, err := di.LoadConfigs()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appLogger.Info("Application configuration loaded successfully")

	container := di.NewContainer(cfgs, appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.InitializeInfrastructure(ctx); err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}
	if err := container.InitializeModules(ctx); err != nil {
		log.Fatalf("Failed to initialize modules: %v", err)
	}
	appLogger.Info("Modules initialized successfully")

	webModule := container.GetWebModule()
	walletModule := container.GetWalletModule()
	dropModule := container.GetDropModule()
	middleware := walletModule.GetMiddleware()

	app := fiber.New(fiber.Config{
		AppName:      "NFT Drop",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		Views:        webModule.Views(),
		ErrorHandler: webModule.ErrorHandler(),

		ProxyHeader:             serverCfg.ProxyHeader,
		EnableTrustedProxyCheck: len(serverCfg.TrustedProxies) > 0,
		TrustedProxies:          serverCfg.TrustedProxies,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestContext())
	app.Use(middleware.SecurityHeaders())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestID} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     serverCfg.CORSOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: serverCfg.CORSOrigins != "*",
	}))

	// Register module routes
	api := app.Group("/api")
	container.GetCatalogModule().RegisterRoutes(api)
	walletModule.RegisterRoutes(api.Group("/wallet"))
	dropModule.RegisterRoutes(api.Group("/drops"), middleware.Protect())
	dropModule.RegisterRealtime(app)
	webModule.RegisterRoutes(app, middleware.Identify())
	appLogger.Info("Routes registered")

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	// Start server in a goroutine for graceful shutdown
	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed to start: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
