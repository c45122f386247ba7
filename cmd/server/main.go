package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/meetpadmani/hennyenterpricebackend/internal/auth"
	"github.com/meetpadmani/hennyenterpricebackend/internal/config"
	"github.com/meetpadmani/hennyenterpricebackend/internal/database"
	"github.com/meetpadmani/hennyenterpricebackend/internal/handlers"
	"github.com/meetpadmani/hennyenterpricebackend/internal/logger"
	"github.com/meetpadmani/hennyenterpricebackend/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found")
	}

	cfg := config.Load()
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("invalid log configuration")
	}

	if cfg.DBDSN == "" {
		log.Fatal().Msg("DB_DSN is not set")
	}
	if err := database.Connect(cfg.DBDSN); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	auth.Init(cfg.JWTSecret, cfg.JWTRefreshSecret)
	handlers.Init(cfg)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().Format(time.RFC3339)})
	})
	r.Static("/uploads", cfg.UploadDir)

	// Public auth routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.GET("/check-admin", handlers.CheckAdmin)
		authGroup.POST("/setup", handlers.SetupAdmin)
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/refresh", handlers.RefreshToken)
		authGroup.GET("/me", middleware.AuthMiddleware(), handlers.GetMe)
	}

	// Everything below requires a valid, active user
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/company", handlers.GetCompanySettings)

		api.GET("/customers", handlers.GetAllCustomers)
		api.POST("/customers", handlers.CreateCustomer)
		api.GET("/customers/:id", handlers.GetCustomer)
		api.PUT("/customers/:id", handlers.UpdateCustomer)

		api.GET("/products", handlers.GetAllProducts)
		api.POST("/products", handlers.CreateProduct)
		api.GET("/products/barcode/:barcode", handlers.GetProductByBarcode)
		api.GET("/products/:id", handlers.GetProduct)
		api.PUT("/products/:id", handlers.UpdateProduct)

		api.GET("/invoices", handlers.GetAllInvoices)
		api.GET("/invoices/stats", handlers.GetDashboardStats)
		api.GET("/invoices/:id", handlers.GetInvoice)
		api.POST("/invoices", handlers.CreateInvoice)
		api.PATCH("/invoices/:id/status", handlers.UpdateInvoiceStatus)

		// Destructive/admin-only surface
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.PUT("/company", handlers.UpdateCompanySettings)
			admin.DELETE("/customers/:id", handlers.DeleteCustomer)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.DELETE("/invoices/:id", handlers.DeleteInvoice)
		}
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
