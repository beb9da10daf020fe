package admin

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinica/clinica/internal/platform/auth"
	"github.com/clinica/clinica/internal/platform/db"
	"github.com/clinica/clinica/pkg/pagination"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes registers the admin-only endpoints. Establishment
// management is not establishment-scoped; staff management is.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleAdmin))
	g.POST("/establishments", h.CreateEstablishment)
	g.GET("/establishments", h.ListEstablishments)
	g.GET("/establishments/:id", h.GetEstablishment)
	g.PUT("/establishments/:id", h.UpdateEstablishment)
	g.DELETE("/establishments/:id", h.DeleteEstablishment)

	g.POST("/staff", h.CreateStaffUser)
	g.GET("/staff", h.ListStaffUsers)
	g.GET("/staff/:id", h.GetStaffUser)
	g.PUT("/staff/:id", h.UpdateStaffUser)
	g.DELETE("/staff/:id", h.DeleteStaffUser)
}

func (h *Handler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusConflict, ErrDuplicateEmail.Error())
	case errors.Is(err, ErrInUse):
		return echo.NewHTTPError(http.StatusBadRequest, ErrInUse.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("admin operation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// -- Establishments --

func (h *Handler) CreateEstablishment(c echo.Context) error {
	var e Establishment
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateEstablishment(c.Request().Context(), &e); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetEstablishment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.GetEstablishment(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListEstablishments(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListEstablishments(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateEstablishment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var e Establishment
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.ID = id
	if err := h.svc.UpdateEstablishment(c.Request().Context(), &e); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteEstablishment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteEstablishment(c.Request().Context(), id); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Staff users --

type staffUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   *bool  `json:"active,omitempty"`
	Password string `json:"password,omitempty"`
}

func (h *Handler) CreateStaffUser(c echo.Context) error {
	var req staffUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u := StaffUser{
		EstablishmentID: db.EstablishmentFromContext(c.Request().Context()),
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
	}
	if err := h.svc.CreateStaffUser(c.Request().Context(), &u, req.Password); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetStaffUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	u, err := h.svc.GetStaffUser(c.Request().Context(), id, db.EstablishmentFromContext(c.Request().Context()))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListStaffUsers(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"q", "role", "active"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.SearchStaffUsers(c.Request().Context(),
		db.EstablishmentFromContext(c.Request().Context()), params, pg.Limit, pg.Offset)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateStaffUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req staffUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u := StaffUser{
		ID:              id,
		EstablishmentID: db.EstablishmentFromContext(c.Request().Context()),
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		Active:          true,
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	if err := h.svc.UpdateStaffUser(c.Request().Context(), &u, req.Password); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteStaffUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteStaffUser(c.Request().Context(), id, db.EstablishmentFromContext(c.Request().Context())); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
