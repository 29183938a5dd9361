// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/internal/config"
	"github.com/stockroomhq/stockroom-backend/internal/handlers"
	"github.com/stockroomhq/stockroom-backend/internal/middleware"
	"github.com/stockroomhq/stockroom-backend/internal/services"
	"github.com/stockroomhq/stockroom-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db)
	stockService := services.NewStockService(db, notificationService)

	authService := services.NewAuthService(db, cfg)
	categoryService := services.NewCategoryService(db)
	productService := services.NewProductService(db)
	orderService := services.NewOrderService(db, stockService, notificationService)
	saleService := services.NewSaleService(db, stockService)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	saleHandler := handlers.NewSaleHandler(saleService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

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
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Everything below is back-office and requires a signed-in user.
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)

			categories := protected.Group("/categories")
			{
				categories.GET("", categoryHandler.GetCategories)
				categories.POST("", categoryHandler.CreateCategory)
				categories.GET("/:id", categoryHandler.GetCategory)
				categories.PUT("/:id", categoryHandler.UpdateCategory)
				categories.DELETE("/:id", categoryHandler.DeleteCategory)
			}

			products := protected.Group("/products")
			{
				products.GET("", productHandler.GetProducts)
				products.POST("", productHandler.CreateProduct)
				products.GET("/:id", productHandler.GetProduct)
				products.PUT("/:id", productHandler.UpdateProduct)
				products.DELETE("/:id", productHandler.DeleteProduct)
				products.POST("/:id/sell", saleHandler.Sell)
			}

			orders := protected.Group("/orders")
			{
				orders.GET("", orderHandler.GetOrders)
				orders.POST("", orderHandler.CreateOrder)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.PUT("/:id", orderHandler.UpdateOrder)
				orders.POST("/:id/items", orderHandler.AddOrderItem)
				orders.PUT("/:id/items/:itemId", orderHandler.UpdateOrderItem)
				orders.DELETE("/:id/items/:itemId", orderHandler.RemoveOrderItem)
			}

			sales := protected.Group("/sales")
			{
				sales.GET("", saleHandler.GetSales)
				sales.POST("", saleHandler.Sell)
				sales.GET("/:id", saleHandler.GetSale)
				sales.DELETE("/:id", middleware.AdminRequired(), saleHandler.DeleteSale)
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", notificationHandler.GetNotifications)
				notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
				notifications.PUT("/:id/read", notificationHandler.MarkRead)
				notifications.PUT("/:id/unread", notificationHandler.MarkUnread)
			}
		}
	}

	return r
}
