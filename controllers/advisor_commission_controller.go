package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/courtia/courtia_backend/middleware"
	"github.com/courtia/courtia_backend/models"
)

type CommissionDeleting interface {
	DeleteCommission(ctx context.Context, organizationID primitive.ObjectID, commissionID, requestingUserRole string) error
}

type AdvisorCommissionController struct {
	admin CommissionDeleting
}

func NewAdvisorCommissionController(admin CommissionDeleting) *AdvisorCommissionController {
	return &AdvisorCommissionController{admin: admin}
}

// DeleteCommission hard-deletes a single commission row as an administrative
// correction. DELETE /api/advisor-commissions/:id
func (acc *AdvisorCommissionController) DeleteCommission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	organizationID, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}

	role := middleware.ExtractRole(c)

	if err := acc.admin.DeleteCommission(ctx, organizationID, c.Param("id"), role); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission deleted successfully",
	})
}
