package scheduling

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
	read.GET("/appointments", h.ListAppointments)
	read.GET("/appointments/:id", h.GetAppointment)

	write := api.Group("", auth.RequireRole(auth.RoleReceptionist, auth.RoleProfessional))
	write.POST("/appointments", h.CreateAppointment)
	write.PUT("/appointments/:id", h.UpdateAppointment)
	write.DELETE("/appointments/:id", h.DeleteAppointment)
}

// writeError maps domain errors onto HTTP statuses. Expected outcomes never
// reach the log as system errors; only persistence failures do.
func (h *Handler) writeError(c echo.Context, err error) error {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		resp := map[string]interface{}{"error": conflict.Error()}
		if conflict.ExistingID != uuid.Nil {
			resp["existing_id"] = conflict.ExistingID
		}
		return c.JSON(http.StatusConflict, resp)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrPatientNotFound.Error())
	case errors.Is(err, ErrProfessionalNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrProfessionalNotFound.Error())
	case errors.Is(err, ErrHasDependents):
		return echo.NewHTTPError(http.StatusBadRequest, ErrHasDependents.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateID):
		return echo.NewHTTPError(http.StatusConflict, ErrDuplicateID.Error())
	default:
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("appointment operation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.EstablishmentID = db.EstablishmentFromContext(c.Request().Context())

	if err := h.svc.CreateAppointment(c.Request().Context(), &a); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	estID := db.EstablishmentFromContext(c.Request().Context())
	a, err := h.svc.GetAppointment(c.Request().Context(), id, estID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	estID := db.EstablishmentFromContext(c.Request().Context())

	params := map[string]string{}
	for _, k := range []string{"status", "professional", "patient", "from", "to"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}

	items, total, err := h.svc.SearchAppointments(c.Request().Context(), estID, params, pg.Limit, pg.Offset)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	estID := db.EstablishmentFromContext(c.Request().Context())

	a, err := h.svc.UpdateAppointment(c.Request().Context(), id, estID, &patch)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hard := c.QueryParam("hard") == "true"
	estID := db.EstablishmentFromContext(c.Request().Context())

	if err := h.svc.CancelOrDelete(c.Request().Context(), id, estID, hard); err != nil {
		return h.writeError(c, err)
	}
	status := "cancelled"
	if hard {
		status = "deleted"
	}
	return c.JSON(http.StatusOK, map[string]string{"id": id.String(), "status": status})
}
