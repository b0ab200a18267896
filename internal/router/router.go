package router

import (
	"github.com/gin-gonic/gin"

	"github.com/filemart/filemart-backend/config"
	"github.com/filemart/filemart-backend/internal/app/controller"
	"github.com/filemart/filemart-backend/internal/middleware"
)

type Router struct {
	authController        *controller.AuthController
	storeController       *controller.StoreController
	productController     *controller.ProductController
	categoryController    *controller.CategoryController
	bankAccountController *controller.BankAccountController
	uploadController      *controller.UploadController
	wsController          *controller.WSController
	authMiddleware        *middleware.AuthMiddleware
	config                *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	bankAccountController *controller.BankAccountController,
	uploadController *controller.UploadController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:        authController,
		storeController:       storeController,
		productController:     productController,
		categoryController:    categoryController,
		bankAccountController: bankAccountController,
		uploadController:      uploadController,
		wsController:          wsController,
		authMiddleware:        authMiddleware,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "FILEMART API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		// Public storefront reads
		stores := v1.Group("/stores")
		{
			stores.GET("/:slug", r.storeController.GetStoreBySlug)
			stores.GET("/:slug/products", r.productController.ListStoreProducts)
		}

		// Merchant back office
		merchant := v1.Group("/merchant")
		merchant.Use(r.authMiddleware.Authenticate())
		merchant.Use(r.authMiddleware.RequireRole("merchant", "admin"))
		{
			merchant.GET("/store", r.storeController.GetMyStore)
			merchant.POST("/store", r.storeController.CreateStore)
			merchant.PUT("/store", r.storeController.UpdateStore)

			merchant.GET("/products", r.productController.ListProducts)
			merchant.GET("/products/export", r.productController.ExportProducts)
			merchant.GET("/products/:id", r.productController.GetProduct)
			merchant.POST("/products", r.productController.SaveProduct)
			merchant.PUT("/products/:id", r.productController.UpdateProduct)
			merchant.DELETE("/products/:id", r.productController.DeleteProduct)

			merchant.GET("/categories", r.categoryController.ListCategories)
			merchant.POST("/categories", r.categoryController.CreateCategory)
			merchant.PUT("/categories/:id", r.categoryController.UpdateCategory)
			merchant.DELETE("/categories/:id", r.categoryController.DeleteCategory)

			merchant.GET("/bank-accounts", r.bankAccountController.ListBankAccounts)
			merchant.POST("/bank-accounts", r.bankAccountController.CreateBankAccount)
			merchant.PUT("/bank-accounts/:id", r.bankAccountController.UpdateBankAccount)
			merchant.DELETE("/bank-accounts/:id", r.bankAccountController.DeleteBankAccount)

			merchant.POST("/uploads/presigned-url", r.uploadController.GeneratePresignedURL)

			merchant.GET("/events/ws", r.wsController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
