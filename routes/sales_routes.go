package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/courtia/courtia_backend/controllers"
	"github.com/courtia/courtia_backend/middleware"
	"github.com/courtia/courtia_backend/models"
)

// RegisterSalesRoutes sets up the sale and commission routes
func RegisterSalesRoutes(e *echo.Echo, saleController *controllers.SaleController, commissionController *controllers.AdvisorCommissionController) {
	sales := e.Group("/api/sales")
	sales.Use(middleware.JWTMiddleware())

	sales.POST("/calculate", saleController.CalculateCommission)
	sales.POST("", saleController.RecordSale)
	sales.GET("/commissions", saleController.GetCommissionStats)

	// Administrative corrections, admins of the owning organization only
	commissions := e.Group("/api/advisor-commissions")
	commissions.Use(middleware.JWTMiddleware())
	commissions.Use(middleware.RequireRole(models.RoleAdmin))

	commissions.DELETE("/:id", commissionController.DeleteCommission)
}
