package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	cartapp "github.com/kartikpareekak-cloud/shopbackend/internal/application/cart"
	catalogapp "github.com/kartikpareekak-cloud/shopbackend/internal/application/catalog"
	identityapp "github.com/kartikpareekak-cloud/shopbackend/internal/application/identity"
	orderapp "github.com/kartikpareekak-cloud/shopbackend/internal/application/order"
	reportapp "github.com/kartikpareekak-cloud/shopbackend/internal/application/report"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/auth"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/config"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/event"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/logger"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/notification"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/persistence"
	"github.com/kartikpareekak-cloud/shopbackend/internal/infrastructure/telemetry"
	"github.com/kartikpareekak-cloud/shopbackend/internal/interfaces/http/handler"
	"github.com/kartikpareekak-cloud/shopbackend/internal/interfaces/http/middleware"
	"github.com/kartikpareekak-cloud/shopbackend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, gormlogger.Warn)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()
	if tracerProvider.IsEnabled() {
		if err := telemetry.RegisterDBTracing(db.DB, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	// Token infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	statsRepo := persistence.NewGormStatsRepository(db.DB)

	// Event bus and live event fan-out
	eventBus := event.NewInMemoryEventBus(log)
	liveEvents := handler.NewLiveEventsHandler(log)
	eventBus.Subscribe(liveEvents)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	liveEvents.Start()
	defer liveEvents.Stop()

	// Outbound order alerts
	notifier := notification.NewWhatsAppNotifier(cfg.WhatsApp, log)

	// Application services
	productService := catalogapp.NewProductService(productRepo, log)
	productService.SetEventPublisher(eventBus)

	cartService := cartapp.NewCartService(cartRepo, productRepo, log)

	checkoutService := orderapp.NewCheckoutService(persistence.NewGormTransactionScope(db.DB), log)
	checkoutService.SetEventPublisher(eventBus)
	checkoutService.SetNotifier(notifier)

	orderService := orderapp.NewOrderService(orderRepo, log)
	orderService.SetEventPublisher(eventBus)

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	statsService := reportapp.NewStatsService(userRepo, productRepo, orderRepo, statsRepo)

	// Seed the admin account if configured
	if err := authService.SeedAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService)
	statsHandler := handler.NewStatsHandler(statsService)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health endpoints outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ping", systemHandler.Ping)

	authRequired := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Public storefront routes
	publicRoutes := router.NewDomainGroup("public", "")
	publicRoutes.POST("/auth/register", authHandler.Register)
	publicRoutes.POST("/auth/login", authHandler.Login)
	publicRoutes.GET("/products", productHandler.List)
	publicRoutes.GET("/products/:id", productHandler.Get)

	// Authenticated customer routes
	accountRoutes := router.NewDomainGroup("account", "")
	accountRoutes.Use(authRequired)
	accountRoutes.POST("/auth/logout", authHandler.Logout)
	accountRoutes.GET("/auth/me", authHandler.Me)
	accountRoutes.GET("/cart", cartHandler.Get)
	accountRoutes.POST("/cart/items", cartHandler.AddItem)
	accountRoutes.PUT("/cart/items/:product_id", cartHandler.UpdateItem)
	accountRoutes.DELETE("/cart/items/:product_id", cartHandler.RemoveItem)
	accountRoutes.DELETE("/cart", cartHandler.Clear)
	accountRoutes.POST("/orders", orderHandler.Checkout)
	accountRoutes.GET("/orders", orderHandler.ListMine)
	accountRoutes.GET("/orders/:id", orderHandler.Get)
	accountRoutes.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	accountRoutes.GET("/events", liveEvents.Stream)

	// Admin routes
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(authRequired, middleware.RequireAdmin())
	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.POST("/products/:id/restock", productHandler.Restock)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.GET("/orders", orderHandler.ListAll)
	adminRoutes.GET("/stats/dashboard", statsHandler.Dashboard)

	r.Register(publicRoutes).
		Register(accountRoutes).
		Register(adminRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
