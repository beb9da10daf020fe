package billing

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleReceptionist, auth.RoleProfessional, auth.RoleReadonly))
	read.GET("/tariffs", h.ListTariffs)
	read.GET("/tariffs/:id", h.GetTariff)
	read.GET("/procedures", h.ListProcedures)
	read.GET("/procedures/:id", h.GetProcedure)

	write := api.Group("", auth.RequireRole(auth.RoleReceptionist, auth.RoleProfessional))
	write.POST("/tariffs", h.CreateTariff)
	write.PUT("/tariffs/:id", h.UpdateTariff)
	write.DELETE("/tariffs/:id", h.DeleteTariff)
	write.POST("/procedures", h.CreateProcedure)
	write.PUT("/procedures/:id", h.UpdateProcedure)
	write.DELETE("/procedures/:id", h.DeleteProcedure)
}

func (h *Handler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrAppointmentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrAppointmentNotFound.Error())
	case errors.Is(err, ErrDuplicateCode):
		return echo.NewHTTPError(http.StatusConflict, ErrDuplicateCode.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("billing operation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// -- Tariffs --

func (h *Handler) CreateTariff(c echo.Context) error {
	var t Tariff
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.EstablishmentID = db.EstablishmentFromContext(c.Request().Context())
	t.Active = true

	if err := h.svc.CreateTariff(c.Request().Context(), &t); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTariff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	t, err := h.svc.GetTariff(c.Request().Context(), id, db.EstablishmentFromContext(c.Request().Context()))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTariffs(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"q", "category", "active"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.SearchTariffs(c.Request().Context(),
		db.EstablishmentFromContext(c.Request().Context()), params, pg.Limit, pg.Offset)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateTariff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var t Tariff
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = id
	t.EstablishmentID = db.EstablishmentFromContext(c.Request().Context())

	if err := h.svc.UpdateTariff(c.Request().Context(), &t); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTariff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteTariff(c.Request().Context(), id, db.EstablishmentFromContext(c.Request().Context())); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Procedures --

func (h *Handler) CreateProcedure(c echo.Context) error {
	var p Procedure
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.EstablishmentID = db.EstablishmentFromContext(c.Request().Context())

	if err := h.svc.CreateProcedure(c.Request().Context(), &p); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProcedure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProcedure(c.Request().Context(), id, db.EstablishmentFromContext(c.Request().Context()))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProcedures(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"q", "appointment", "category"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.SearchProcedures(c.Request().Context(),
		db.EstablishmentFromContext(c.Request().Context()), params, pg.Limit, pg.Offset)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateProcedure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Procedure
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	p.EstablishmentID = db.EstablishmentFromContext(c.Request().Context())

	if err := h.svc.UpdateProcedure(c.Request().Context(), &p); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProcedure(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteProcedure(c.Request().Context(), id, db.EstablishmentFromContext(c.Request().Context())); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
