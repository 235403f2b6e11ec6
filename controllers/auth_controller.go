package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/courtia/courtia_backend/middleware"
	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/utils"
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID primitive.ObjectID) error
}

type AuthController struct {
	users UserFinder
}

func NewAuthController(users UserFinder) *AuthController {
	return &AuthController{users: users}
}

// Login authenticates a user by email and password and issues a JWT carrying
// the user's role and organization. POST /api/auth/login
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	user, err := ac.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if utils.IsNotFound(err) {
			// Same response as a wrong password so emails cannot be probed
			return respondError(c, utils.NewUnauthorizedError("Invalid email or password"))
		}
		return respondError(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return respondError(c, utils.NewUnauthorizedError("Invalid email or password"))
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.Role, user.OrganizationID.Hex())
	if err != nil {
		return respondError(c, err)
	}

	if err := ac.users.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("Failed to update last login for %s: %v", user.Email, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"user":  user,
		},
	})
}
