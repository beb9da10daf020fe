package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRoles(e *echo.Echo, roles []string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRequireRole_Allowed(t *testing.T) {
	e := echo.New()
	c := contextWithRoles(e, []string{RoleReceptionist})

	called := false
	h := RequireRole(RoleReceptionist)(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected handler to run")
	}
}

func TestRequireRole_AdminOverride(t *testing.T) {
	e := echo.New()
	c := contextWithRoles(e, []string{RoleAdmin})

	h := RequireRole(RoleReceptionist)(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Errorf("admin should pass any role check: %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	e := echo.New()
	c := contextWithRoles(e, []string{RoleReadonly})

	h := RequireRole(RoleReceptionist)(func(c echo.Context) error { return nil })
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	e := echo.New()
	c := contextWithRoles(e, nil)

	h := RequireRole(RoleReadonly)(func(c echo.Context) error { return nil })
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}
