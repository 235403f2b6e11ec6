package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/utils"
)

type fakeUserFinder struct {
	user *models.User

	lastLoginTouched primitive.ObjectID
	touchErr         error
}

func (f *fakeUserFinder) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, utils.NewNotFoundError("user not found")
	}
	return f.user, nil
}

func (f *fakeUserFinder) UpdateLastLogin(ctx context.Context, userID primitive.ObjectID) error {
	f.lastLoginTouched = userID
	return f.touchErr
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return &models.User{
		ID:             primitive.NewObjectID(),
		Email:          "claire@courtia.fr",
		Password:       string(hash),
		Role:           models.RoleAdvisor,
		OrganizationID: primitive.NewObjectID(),
	}
}

func loginRequest(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLogin_OK(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := newTestEcho()
	user := testUser(t, "s3cret")
	users := &fakeUserFinder{user: user}
	controller := NewAuthController(users)

	c, rec := loginRequest(e, `{"email":"claire@courtia.fr","password":"s3cret"}`)
	if err := controller.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "token") {
		t.Error("response must carry a token")
	}
	if users.lastLoginTouched != user.ID {
		t.Error("a successful login must record the user's last login")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := newTestEcho()
	users := &fakeUserFinder{user: testUser(t, "s3cret")}
	controller := NewAuthController(users)

	c, rec := loginRequest(e, `{"email":"claire@courtia.fr","password":"wrong"}`)
	if err := controller.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if users.lastLoginTouched != primitive.NilObjectID {
		t.Error("a failed login must not touch last login")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	e := newTestEcho()
	controller := NewAuthController(&fakeUserFinder{})

	c, rec := loginRequest(e, `{"email":"nobody@courtia.fr","password":"s3cret"}`)
	if err := controller.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	// Same response as a wrong password so emails cannot be probed
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid email or password") {
		t.Errorf("unknown email must be indistinguishable from a wrong password: %s", rec.Body.String())
	}
}
