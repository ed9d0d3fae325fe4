// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/config"
	"github.com/pazarly/pazar-backend/internal/handlers"
	"github.com/pazarly/pazar-backend/internal/middleware"
	"github.com/pazarly/pazar-backend/internal/services"
	"github.com/pazarly/pazar-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	paymentService := services.NewPaymentService(cfg)

	authService := services.NewAuthService(db, cfg)
	subscriptionService := services.NewSubscriptionService(db, paymentService)
	storeService := services.NewStoreService(db)
	productService := services.NewProductService(db, subscriptionService)
	catalogService := services.NewCatalogService(db)
	cartService := services.NewCartService(db)
	addressService := services.NewAddressService(db)
	orderService := services.NewOrderService(db)
	returnService := services.NewReturnService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, storageService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	storeHandler := handlers.NewStoreHandler(storeService, storageService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	cartHandler := handlers.NewCartHandler(cartService)
	addressHandler := handlers.NewAddressHandler(addressService)
	orderHandler := handlers.NewOrderHandler(orderService)
	returnHandler := handlers.NewReturnHandler(returnService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/me", middleware.AuthRequired(), authHandler.UpdateProfile)
			auth.POST("/me/avatar", middleware.AuthRequired(), middleware.UploadRateLimit(), authHandler.UploadAvatar)
		}

		// Public storefront
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), catalogHandler.ListProducts)
			products.GET("/:id", middleware.OptionalAuth(), catalogHandler.GetProduct)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", catalogHandler.ListStores)
			stores.GET("/:id", catalogHandler.GetStore)
		}

		v1.GET("/categories", catalogHandler.ListCategories)

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.ListItems)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
		}

		// Address routes
		addresses := v1.Group("/addresses")
		addresses.Use(middleware.AuthRequired())
		{
			addresses.GET("", addressHandler.ListAddresses)
			addresses.POST("", addressHandler.CreateAddress)
			addresses.PUT("/:id", addressHandler.UpdateAddress)
			addresses.DELETE("/:id", addressHandler.DeleteAddress)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.Checkout)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.GET("/:id/invoice", orderHandler.Invoice)
		}

		// Return routes
		returns := v1.Group("/returns")
		returns.Use(middleware.AuthRequired())
		{
			returns.POST("", returnHandler.CreateReturn)
			returns.GET("", returnHandler.ListReturns)
		}

		// Seller dashboard routes
		seller := v1.Group("/seller")
		seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
		{
			seller.GET("/dashboard", storeHandler.Dashboard)

			seller.POST("/store", storeHandler.CreateStore)
			seller.GET("/store", storeHandler.MyStore)
			seller.PUT("/store", storeHandler.UpdateStore)
			seller.POST("/store/logo", middleware.UploadRateLimit(), storeHandler.UploadLogo)

			seller.GET("/products", productHandler.ListProducts)
			seller.POST("/products", productHandler.CreateProduct)
			seller.PUT("/products/:id", productHandler.UpdateProduct)
			seller.DELETE("/products/:id", productHandler.DeleteProduct)
			seller.POST("/products/images", middleware.UploadRateLimit(), productHandler.UploadImage)

			seller.GET("/orders", orderHandler.SellerOrders)
			seller.PUT("/orders/:id/status", orderHandler.UpdateStatus)

			seller.GET("/returns", returnHandler.SellerReturns)
			seller.PUT("/returns/:id", returnHandler.ResolveReturn)

			seller.GET("/subscription", subscriptionHandler.CurrentSubscription)
			seller.GET("/subscription/plans", subscriptionHandler.ListPlans)
			seller.POST("/subscribe", subscriptionHandler.Subscribe)
			seller.POST("/subscription/payment", subscriptionHandler.SubscribeWithPayment)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
