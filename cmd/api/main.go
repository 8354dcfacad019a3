package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/cache"
	"github.com/GTDGit/gtd_storefront/internal/clock"
	"github.com/GTDGit/gtd_storefront/internal/config"
	"github.com/GTDGit/gtd_storefront/internal/database"
	"github.com/GTDGit/gtd_storefront/internal/handler"
	"github.com/GTDGit/gtd_storefront/internal/middleware"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/pricing"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/sse"
	"github.com/GTDGit/gtd_storefront/internal/worker"
)

// main is the entrypoint for the storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting storefront api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.MigrateUp(db.DB, database.DefaultMigrationsURL); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Cart storage: Redis, or process memory outside production when
	// Redis is unreachable.
	checks := map[string]handler.Check{"database": db.PingContext}
	var cartStore service.CartStore
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	switch {
	case err == nil:
		defer redisClient.Close()
		cartStore = cache.NewRedisCartStore(redisClient, cfg.Checkout.CartTTL)
		checks["redis"] = redisClient.Ping
		log.Info().Msg("redis connected successfully")
	case cfg.Env == "production":
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	default:
		log.Warn().Err(err).Msg("redis unavailable, carts are kept in memory")
		cartStore = cache.NewMemoryCartStore(cfg.Checkout.CartTTL)
	}

	clk := clock.System{}

	// 4. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	researchRepo := repository.NewResearchRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db, couponRepo, productRepo)
	adminRepo := repository.NewAdminUserRepository(db)

	// 5. Initialize services
	lowStock := cfg.Catalog.LowStockThreshold
	productListing := service.NewListingService[models.Product]("products", productRepo, lowStock)
	projectListing := service.NewListingService[models.Project]("projects", projectRepo, lowStock)
	researchListing := service.NewListingService[models.Research]("research", researchRepo, lowStock)

	couponSvc := service.NewCouponService(couponRepo, clk)
	cartSvc := service.NewCartService(cartStore, productRepo, clk)
	calc := pricing.NewCalculator(cfg.Checkout.DeliveryTiers)
	checkoutSvc := service.NewCheckoutService(cartStore, productRepo, couponSvc, orderRepo, calc, clk)

	// Live order feed for admin dashboards
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub, clk)
	checkoutSvc.SetNotifier(notifier)

	orderSvc := service.NewOrderService(orderRepo)
	productAdminSvc := service.NewProductAdminService(productRepo, cfg.Checkout.DeliveryTiers, lowStock)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, cfg.JWTSecret, cfg.JWTTTL)

	// 6. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Initialize middleware
	authLimiter := middleware.NewInvalidAuthRateLimiter(ctx, 5, 15*time.Minute)
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret, authLimiter)

	// 8. Initialize handlers
	parser := handler.NewQueryParser(cfg.Catalog)
	handlers := &Handlers{
		Health:       handler.NewHealthHandler(checks),
		Products:     handler.NewListingHandler(productListing, parser, handler.ProductListing, "Products"),
		Projects:     handler.NewListingHandler(projectListing, parser, handler.ProjectListing, "Projects"),
		Research:     handler.NewListingHandler(researchListing, parser, handler.ResearchListing, "Research"),
		Cart:         handler.NewCartHandler(cartSvc),
		Coupon:       handler.NewCouponHandler(couponSvc, parser),
		Checkout:     handler.NewCheckoutHandler(checkoutSvc),
		Order:        handler.NewOrderHandler(orderSvc, parser),
		ProductAdmin: handler.NewProductAdminHandler(productAdminSvc, parser),
		Auth:         handler.NewAuthHandler(adminAuthSvc, authLimiter),
		Events:       handler.NewSSEHandler(hub, cfg.JWTSecret),
	}

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Start workers
	expiryWorker := worker.NewCouponExpiryWorker(couponRepo, clk, cfg.Worker.CouponExpiryInterval)
	expiryWorker.SetNotifier(notifier)
	go expiryWorker.Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health       *handler.HealthHandler
	Products     *handler.ListingHandler[models.Product]
	Projects     *handler.ListingHandler[models.Project]
	Research     *handler.ListingHandler[models.Research]
	Cart         *handler.CartHandler
	Coupon       *handler.CouponHandler
	Checkout     *handler.CheckoutHandler
	Order        *handler.OrderHandler
	ProductAdmin *handler.ProductAdminHandler
	Auth         *handler.AuthHandler
	Events       *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public catalog listings
	v1 := router.Group("/v1")
	{
		v1.GET("/products", handlers.Products.List)
		v1.GET("/products/facets", handlers.Products.Facets)
		v1.GET("/projects", handlers.Projects.List)
		v1.GET("/projects/facets", handlers.Projects.Facets)
		v1.GET("/research", handlers.Research.List)
		v1.GET("/research/facets", handlers.Research.Facets)

		v1.POST("/coupons/validate", handlers.Coupon.Validate)
	}

	// Session scoped cart and checkout
	session := router.Group("/v1")
	session.Use(middleware.SessionMiddleware())
	{
		session.GET("/cart", handlers.Cart.GetCart)
		session.DELETE("/cart", handlers.Cart.ClearCart)
		session.POST("/cart/items", handlers.Cart.AddItem)
		session.PUT("/cart/items/:productId", handlers.Cart.UpdateItem)
		session.DELETE("/cart/items/:productId", handlers.Cart.RemoveItem)

		session.POST("/checkout/quote", handlers.Checkout.Quote)
		session.POST("/checkout/orders", handlers.Checkout.PlaceOrder)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	// EventSource cannot send headers; the stream checks ?token= itself.
	admin.GET("/events", handlers.Events.Stream)
	admin.Use(jwtMiddleware.Handle())
	{
		// Product Management
		admin.GET("/products", handlers.ProductAdmin.ListProducts)
		admin.POST("/products", handlers.ProductAdmin.CreateProduct)
		admin.GET("/products/:id", handlers.ProductAdmin.GetProduct)
		admin.PUT("/products/:id", handlers.ProductAdmin.UpdateProduct)
		admin.DELETE("/products/:id", handlers.ProductAdmin.DeleteProduct)

		// Coupon Management
		admin.GET("/coupons", handlers.Coupon.ListCoupons)
		admin.POST("/coupons", handlers.Coupon.CreateCoupon)
		admin.GET("/coupons/:id", handlers.Coupon.GetCoupon)
		admin.PUT("/coupons/:id", handlers.Coupon.UpdateCoupon)
		admin.DELETE("/coupons/:id", handlers.Coupon.DeleteCoupon)

		// Orders
		admin.GET("/orders", handlers.Order.ListOrders)
		admin.GET("/orders/:orderNumber", handlers.Order.GetOrder)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
