package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/services"
	"github.com/courtia/courtia_backend/utils"
)

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

type fakeRateResolver struct {
	rates *models.RateConfiguration
	err   error
}

func (f *fakeRateResolver) Resolve(ctx context.Context, organizationID primitive.ObjectID, productID string) (*models.RateConfiguration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

type fakeRecorder struct {
	result *services.RecordSaleResult
	err    error
}

func (f *fakeRecorder) RecordSale(ctx context.Context, organizationID, advisorID primitive.ObjectID, prospectID string, data models.SaleData, idempotencyKey string) (*services.RecordSaleResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeAggregator struct {
	stats *models.CommissionStats

	gotStart *time.Time
	gotEnd   *time.Time
}

func (f *fakeAggregator) GetStats(ctx context.Context, organizationID primitive.ObjectID, start, end *time.Time) (*models.CommissionStats, error) {
	f.gotStart = start
	f.gotEnd = end
	return f.stats, nil
}

func defaultRates() *models.RateConfiguration {
	return &models.RateConfiguration{
		DefaultFraisTaux: 0.02,
		Organization:     models.StreamRates{Initial: 0.04, Mensuel: 0.01},
		Advisor:          models.StreamRates{Initial: 0.02, Mensuel: 0.005},
	}
}

func authenticate(c echo.Context, role string) {
	c.Set("organizationId", primitive.NewObjectID().Hex())
	c.Set("userId", primitive.NewObjectID().Hex())
	c.Set("role", role)
}

func TestCalculateCommission_OK(t *testing.T) {
	e := newTestEcho()
	controller := NewSaleController(&fakeRateResolver{rates: defaultRates()}, &fakeRecorder{}, &fakeAggregator{})

	body := `{"productId":"66cfb0a1b5d1e2f3a4b5c6d7","versementInitial":1000,"versementMensuel":50,"fraisTaux":0.05,"fraisSur":"initial"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales/calculate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, models.RoleAdvisor)

	if err := controller.CalculateCommission(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Calculation models.CommissionBreakdown `json:"calculation"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Data.Calculation.Organization.Amount != 38.5 {
		t.Errorf("expected organization commission 38.50, got %v", resp.Data.Calculation.Organization.Amount)
	}
}

func TestCalculateCommission_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	controller := NewSaleController(&fakeRateResolver{rates: defaultRates()}, &fakeRecorder{}, &fakeAggregator{})

	body := `{"productId":"66cfb0a1b5d1e2f3a4b5c6d7","versementInitial":100}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales/calculate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := controller.CalculateCommission(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCalculateCommission_OutOfRangeFeeRate(t *testing.T) {
	e := newTestEcho()
	controller := NewSaleController(&fakeRateResolver{rates: defaultRates()}, &fakeRecorder{}, &fakeAggregator{})

	body := `{"productId":"66cfb0a1b5d1e2f3a4b5c6d7","versementInitial":100,"fraisTaux":1.2}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales/calculate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, models.RoleAdvisor)

	if err := controller.CalculateCommission(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), utils.CodeValidation) {
		t.Errorf("response must carry the machine-readable code: %s", rec.Body.String())
	}
}

func TestCalculateCommission_UnknownProduct(t *testing.T) {
	e := newTestEcho()
	controller := NewSaleController(&fakeRateResolver{err: utils.NewNotFoundError("product not found")}, &fakeRecorder{}, &fakeAggregator{})

	body := `{"productId":"66cfb0a1b5d1e2f3a4b5c6d7","versementInitial":100}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales/calculate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, models.RoleAdvisor)

	if err := controller.CalculateCommission(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRecordSale_OK(t *testing.T) {
	e := newTestEcho()
	recorder := &fakeRecorder{result: &services.RecordSaleResult{
		Sale:        &models.Sale{ID: primitive.NewObjectID()},
		Commissions: []models.AdvisorCommission{{Role: models.BeneficiaryOrganization}, {Role: models.BeneficiaryAdvisor}},
		Prospect:    &models.Prospect{Stage: "client"},
	}}
	controller := NewSaleController(&fakeRateResolver{rates: defaultRates()}, recorder, &fakeAggregator{})

	body := `{"prospectId":"66cfb0a1b5d1e2f3a4b5c6d8","saleData":{"productId":"66cfb0a1b5d1e2f3a4b5c6d7","versementInitial":1000}}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, models.RoleAdvisor)

	if err := controller.RecordSale(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "commissions") {
		t.Errorf("response must carry the commission rows: %s", rec.Body.String())
	}
}

func TestRecordSale_DuplicateIdempotencyKey(t *testing.T) {
	e := newTestEcho()
	recorder := &fakeRecorder{err: utils.NewConflictError("a sale with this idempotency key was already recorded for this prospect")}
	controller := NewSaleController(&fakeRateResolver{rates: defaultRates()}, recorder, &fakeAggregator{})

	body := `{"prospectId":"66cfb0a1b5d1e2f3a4b5c6d8","saleData":{"productId":"66cfb0a1b5d1e2f3a4b5c6d7"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, models.RoleAdvisor)

	if err := controller.RecordSale(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetCommissionStats_DateParsing(t *testing.T) {
	e := newTestEcho()
	aggregator := &fakeAggregator{stats: &models.CommissionStats{
		ByRole:    map[string]float64{},
		ByAdvisor: map[string]float64{},
	}}
	controller := NewSaleController(&fakeRateResolver{rates: defaultRates()}, &fakeRecorder{}, aggregator)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/commissions?start_date=2026-01-01&end_date=2026-06-30", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, models.RoleAdmin)

	if err := controller.GetCommissionStats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if aggregator.gotStart == nil || aggregator.gotEnd == nil {
		t.Fatal("both bounds must reach the aggregator")
	}
	if !aggregator.gotStart.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start bound: %v", aggregator.gotStart)
	}
	// Plain end dates are widened to the end of the day
	if aggregator.gotEnd.Before(time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("end bound must stay inclusive: %v", aggregator.gotEnd)
	}
}

func TestGetCommissionStats_NoBounds(t *testing.T) {
	e := newTestEcho()
	aggregator := &fakeAggregator{stats: &models.CommissionStats{
		ByRole:    map[string]float64{},
		ByAdvisor: map[string]float64{},
	}}
	controller := NewSaleController(&fakeRateResolver{rates: defaultRates()}, &fakeRecorder{}, aggregator)

	req := httptest.NewRequest(http.MethodGet, "/api/sales/commissions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, models.RoleAdvisor)

	if err := controller.GetCommissionStats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if aggregator.gotStart != nil || aggregator.gotEnd != nil {
		t.Error("omitted bounds must stay unbounded")
	}
}

func TestGetCommissionStats_BadDate(t *testing.T) {
	e := newTestEcho()
	controller := NewSaleController(&fakeRateResolver{rates: defaultRates()}, &fakeRecorder{}, &fakeAggregator{})

	req := httptest.NewRequest(http.MethodGet, "/api/sales/commissions?start_date=June+1st", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authenticate(c, models.RoleAdvisor)

	if err := controller.GetCommissionStats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
