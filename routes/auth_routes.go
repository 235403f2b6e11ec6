package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/courtia/courtia_backend/controllers"
)

// RegisterAuthRoutes sets up the public authentication routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	auth := e.Group("/api/auth")
	auth.POST("/login", authController.Login)
}
