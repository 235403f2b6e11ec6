package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/courtia/courtia_backend/middleware"
	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/services"
	"github.com/courtia/courtia_backend/utils"
)

// RateResolver and the other service dependencies are taken as interfaces so
// handlers can be exercised against fakes.
type RateResolver interface {
	Resolve(ctx context.Context, organizationID primitive.ObjectID, productID string) (*models.RateConfiguration, error)
}

type SaleRecording interface {
	RecordSale(ctx context.Context, organizationID, advisorID primitive.ObjectID, prospectID string, data models.SaleData, idempotencyKey string) (*services.RecordSaleResult, error)
}

type StatsAggregating interface {
	GetStats(ctx context.Context, organizationID primitive.ObjectID, start, end *time.Time) (*models.CommissionStats, error)
}

type SaleController struct {
	rates    RateResolver
	recorder SaleRecording
	stats    StatsAggregating
}

func NewSaleController(rates RateResolver, recorder SaleRecording, stats StatsAggregating) *SaleController {
	return &SaleController{rates: rates, recorder: recorder, stats: stats}
}

// CalculateCommission computes a commission breakdown without persisting
// anything. POST /api/sales/calculate
func (sc *SaleController) CalculateCommission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var data models.SaleData
	if err := c.Bind(&data); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&data); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "productId is required",
		})
	}

	organizationID, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}

	rates, err := sc.rates.Resolve(ctx, organizationID, data.ProductID)
	if err != nil {
		return respondError(c, err)
	}

	breakdown, err := services.CalculateCommission(data, *rates)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission calculated successfully",
		Data: map[string]interface{}{
			"calculation": breakdown,
		},
	})
}

// RecordSale persists a sale with its commission rows and advances the
// prospect's pipeline stage. POST /api/sales
func (sc *SaleController) RecordSale(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.RecordSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "prospectId is required",
		})
	}

	organizationID, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return respondError(c, utils.NewUnauthorizedError("User ID not found in context"))
	}
	advisorID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return respondError(c, utils.NewUnauthorizedError("Invalid user ID in token"))
	}

	result, err := sc.recorder.RecordSale(ctx, organizationID, advisorID, req.ProspectID, req.SaleData, req.IdempotencyKey)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sale recorded successfully",
		Data:    result,
	})
}

// GetCommissionStats aggregates commissions over an optional date range.
// GET /api/sales/commissions?start_date=&end_date=
func (sc *SaleController) GetCommissionStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	organizationID, err := tenantID(c)
	if err != nil {
		return respondError(c, err)
	}

	start, err := parseDateParam(c.QueryParam("start_date"), false)
	if err != nil {
		return respondError(c, err)
	}
	end, err := parseDateParam(c.QueryParam("end_date"), true)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := sc.stats.GetStats(ctx, organizationID, start, end)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission stats fetched successfully",
		Data:    stats,
	})
}

// tenantID reads the caller's organization from the JWT claims.
func tenantID(c echo.Context) (primitive.ObjectID, error) {
	orgID, err := middleware.ExtractOrganizationID(c)
	if err != nil {
		return primitive.NilObjectID, utils.NewUnauthorizedError("Organization not found in context")
	}
	organizationID, err := primitive.ObjectIDFromHex(orgID)
	if err != nil {
		return primitive.NilObjectID, utils.NewUnauthorizedError("Invalid organization ID in token")
	}
	return organizationID, nil
}

// parseDateParam accepts RFC3339 or plain dates; a plain end date is widened
// to the end of that day so the bound stays inclusive.
func parseDateParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, utils.NewValidationError("dates must be RFC3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// respondError maps categorized errors to their HTTP status; anything else is
// a 500 with details suppressed outside development.
func respondError(c echo.Context, err error) error {
	if appErr, ok := utils.AsAppError(err); ok {
		return c.JSON(appErr.Status, models.Response{
			Status:  appErr.Status,
			Message: appErr.Message,
			Data:    map[string]string{"code": appErr.Code},
		})
	}

	message := "Internal server error"
	if env := os.Getenv("ENV"); env == "development" || env == "dev" {
		message = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: message,
		Data:    map[string]string{"code": utils.CodeInternal},
	})
}
