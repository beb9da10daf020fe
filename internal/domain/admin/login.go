package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/platform/auth"
	"github.com/clinica/clinica/internal/platform/db"
)

const tokenTTL = 24 * time.Hour

// AuthHandler serves the local staff login endpoint. It only works when the
// server holds an HMAC signing key; JWKS-backed deployments authenticate at
// the identity provider.
type AuthHandler struct {
	svc        *Service
	signingKey []byte
	issuer     string
	logger     zerolog.Logger
}

func NewAuthHandler(svc *Service, signingKey []byte, issuer string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, signingKey: signingKey, issuer: issuer, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/login", h.Login)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  *StaffUser `json:"user"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	if len(h.signingKey) == 0 {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "local login is disabled")
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	estID := db.EstablishmentFromContext(c.Request().Context())
	u, err := h.svc.VerifyPassword(c.Request().Context(), req.Email, req.Password, estID)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("login failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !u.Active {
		return echo.NewHTTPError(http.StatusUnauthorized, "account is disabled")
	}

	token, err := auth.IssueToken(u.ID.String(), u.EstablishmentID.String(),
		[]string{u.Role}, h.signingKey, h.issuer, tokenTTL)
	if err != nil {
		h.logger.Error().Err(err).Msg("token signing failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: u})
}
