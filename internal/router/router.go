// internal/router/router.go
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/luxeshop/luxe-backend/internal/cache"
	"github.com/luxeshop/luxe-backend/internal/cart"
	"github.com/luxeshop/luxe-backend/internal/config"
	"github.com/luxeshop/luxe-backend/internal/handlers"
	"github.com/luxeshop/luxe-backend/internal/middleware"
	"github.com/luxeshop/luxe-backend/internal/repository"
	"github.com/luxeshop/luxe-backend/internal/services"
)

// Dependencies are the process-wide collaborators built by the caller.
// RedisCache may be nil when Redis is not configured.
type Dependencies struct {
	RedisCache *cache.RedisCache
	Carts      *cart.Registry
	Sessions   services.SessionCreator
	Objects    services.ObjectStore
}

// Router is the HTTP engine plus the background workers it started.
type Router struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter cleanup goroutines.
func (r *Router) Close() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

func Initialize(db *gorm.DB, cfg *config.Config, deps Dependencies) *Router {
	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	var listingCache cache.Cache = cache.Noop{}
	if deps.RedisCache != nil {
		listingCache = deps.RedisCache
	}
	productService := services.NewProductService(productRepo, listingCache)
	exportService := services.NewExportService(productRepo)
	uploadService := services.NewUploadService(deps.Objects, cfg.Upload.MaxFileSize, cfg.Upload.MaxFiles)
	checkoutService := services.NewCheckoutService(deps.Sessions, orderRepo, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, deps.RedisCache, deps.Carts)
	productHandler := handlers.NewProductHandler(productService, exportService)
	adminHandler := handlers.NewAdminHandler(uploadService)
	cartHandler := handlers.NewCartHandler(deps.Carts, productRepo)
	checkoutHandler := handlers.NewCheckoutHandler(cartHandler, checkoutService)

	generalLimit := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	uploadLimit := middleware.NewRateLimiter(uploadRate(cfg.RateLimit.UploadsPerMinute), 3)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(generalLimit.Middleware())

	// Health check
	r.GET("/health", healthHandler.Health)

	// Locally stored uploads
	if cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads", cfg.Upload.LocalDir)
	}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Storefront catalog
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:slug", productHandler.GetProduct)
		}

		// Cart routes
		cartSession := middleware.CartSession(middleware.NewCartCookieStore(cfg.Cart), cfg.Cart.CookieName)
		carts := v1.Group("/cart")
		carts.Use(cartSession)
		{
			carts.GET("", cartHandler.GetCart)
			carts.DELETE("", cartHandler.ClearCart)
			carts.POST("/items", cartHandler.AddItem)
			carts.PATCH("/items/:product_id", cartHandler.UpdateItem)
			carts.DELETE("/items/:product_id", cartHandler.RemoveItem)
			carts.POST("/drawer/open", cartHandler.OpenDrawer)
			carts.POST("/drawer/close", cartHandler.CloseDrawer)
			carts.POST("/drawer/toggle", cartHandler.ToggleDrawer)
		}

		// Checkout routes
		checkout := v1.Group("/checkout")
		checkout.Use(cartSession, middleware.OptionalAuth())
		{
			checkout.POST("", checkoutHandler.CreateCheckoutSession)
			checkout.GET("/success", checkoutHandler.CheckoutSuccess)
			checkout.GET("/cancel", checkoutHandler.CheckoutCancelled)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(cfg.JWT.AdminRole))
		admin.Use(middleware.AuditLogMiddleware(db))
		{
			admin.GET("/products", productHandler.GetAdminProducts)
			admin.POST("/products", productHandler.CreateProduct)
			admin.GET("/products/export", productHandler.ExportProducts)
			admin.POST("/uploads/images", uploadLimit.Middleware(), adminHandler.UploadProductImages)
		}
	}

	return &Router{Engine: r, limiters: []*middleware.RateLimiter{generalLimit, uploadLimit}}
}

func uploadRate(perMinute int) rate.Limit {
	if perMinute <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(perMinute))
}
