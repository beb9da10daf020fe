package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/platform/auth"
	"github.com/clinica/clinica/internal/platform/db"
)

func loginContext(t *testing.T, e *echo.Echo, estID uuid.UUID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(context.WithValue(req.Context(), db.EstablishmentIDKey, estID))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLogin(t *testing.T) {
	svc, estID := newTestService()
	u := &StaffUser{EstablishmentID: estID, Name: "Ana", Email: "ana@example.com", Role: auth.RoleReceptionist}
	if err := svc.CreateStaffUser(context.Background(), u, "s3cret-pass"); err != nil {
		t.Fatal(err)
	}

	h := NewAuthHandler(svc, []byte("test-signing-key"), "clinica", zerolog.Nop())
	e := echo.New()

	c, rec := loginContext(t, e, estID, `{"email":"ana@example.com","password":"s3cret-pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Error("expected a signed token in the response")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, estID := newTestService()
	u := &StaffUser{EstablishmentID: estID, Name: "Ana", Email: "ana@example.com", Role: auth.RoleReceptionist}
	if err := svc.CreateStaffUser(context.Background(), u, "s3cret-pass"); err != nil {
		t.Fatal(err)
	}

	h := NewAuthHandler(svc, []byte("test-signing-key"), "clinica", zerolog.Nop())
	e := echo.New()

	c, _ := loginContext(t, e, estID, `{"email":"ana@example.com","password":"wrong-pass"}`)
	err := h.Login(c)
	var httpErr *echo.HTTPError
	if err == nil || !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestLogin_OtherEstablishment(t *testing.T) {
	svc, estID := newTestService()
	u := &StaffUser{EstablishmentID: estID, Name: "Ana", Email: "ana@example.com", Role: auth.RoleReceptionist}
	if err := svc.CreateStaffUser(context.Background(), u, "s3cret-pass"); err != nil {
		t.Fatal(err)
	}

	h := NewAuthHandler(svc, []byte("test-signing-key"), "clinica", zerolog.Nop())
	e := echo.New()

	c, _ := loginContext(t, e, uuid.New(), `{"email":"ana@example.com","password":"s3cret-pass"}`)
	err := h.Login(c)
	var httpErr *echo.HTTPError
	if err == nil || !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("credentials must not cross establishments, got %v", err)
	}
}

func TestLogin_DisabledWithoutKey(t *testing.T) {
	svc, estID := newTestService()
	h := NewAuthHandler(svc, nil, "clinica", zerolog.Nop())
	e := echo.New()

	c, _ := loginContext(t, e, estID, `{"email":"a@x.com","password":"whatever"}`)
	err := h.Login(c)
	var httpErr *echo.HTTPError
	if err == nil || !errors.As(err, &httpErr) || httpErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a signing key, got %v", err)
	}
}
