package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/courtia/courtia_backend/config"
	"github.com/courtia/courtia_backend/controllers"
	"github.com/courtia/courtia_backend/middleware"
	"github.com/courtia/courtia_backend/repositories"
	"github.com/courtia/courtia_backend/routes"
	"github.com/courtia/courtia_backend/services"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (rate-configuration cache; optional)
	redisClient := config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Courtia Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)

	// Initialize services
	rateResolver := services.NewRateResolver(productRepo, redisClient)
	saleRecorder := services.NewSaleRecorder(saleRepo, rateResolver)
	if os.Getenv("RECORD_ZERO_COMMISSIONS") == "false" {
		saleRecorder.RecordZeroCommissions = false
	}
	statsAggregator := services.NewCommissionStatsAggregator(saleRepo)
	commissionAdmin := services.NewCommissionAdmin(saleRepo)

	// Initialize controllers
	authController := controllers.NewAuthController(userRepo)
	saleController := controllers.NewSaleController(rateResolver, saleRecorder, statsAggregator)
	commissionController := controllers.NewAdvisorCommissionController(commissionAdmin)

	// Register routes
	routes.RegisterAuthRoutes(e, authController)
	routes.RegisterSalesRoutes(e, saleController, commissionController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		e.Logger.Error(err)
	}
}
