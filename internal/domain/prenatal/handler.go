package prenatal

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cpn/cpn/internal/domain/antecedent"
	"github.com/cpn/cpn/internal/platform/auth"
	"github.com/cpn/cpn/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	group := api.Group("", auth.RequireRole("admin", "midwife"))
	group.POST("/patients/:id/prenatal-forms", h.SetUpForm)
	group.GET("/patients/:id/prenatal-forms", h.ListFormsByPatient)
	group.GET("/prenatal-forms/:id", h.GetForm)
	group.GET("/prenatal-forms/:id/consultations/upcoming", h.UpcomingConsultations)
	group.GET("/consultation-schedule", h.Schedule)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.DELETE("/prenatal-forms/:id", h.DeleteForm)
}

// httpError maps domain errors onto HTTP status codes. Validation failures
// from the antecedent submissions keep their 422 shape.
func httpError(err error) error {
	var vErr *antecedent.ValidationError
	if errors.As(err, &vErr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]interface{}{
			"message":    "validation failed",
			"violations": vErr.Violations,
		})
	}
	switch {
	case errors.Is(err, ErrFormNotFound),
		errors.Is(err, ErrConsultationNotFound),
		errors.Is(err, ErrPatientNotFound),
		errors.Is(err, antecedent.ErrDefinitionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, antecedent.ErrPairConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) SetUpForm(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var in SetUpFormInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.Actor(c.Request().Context())
	f, err := h.svc.SetUpForm(c.Request().Context(), patientID, in, actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	f, err := h.svc.GetForm(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ListFormsByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListFormsByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpcomingConsultations(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.UpcomingConsultations(c.Request().Context(), id, time.Time{})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// Schedule previews the consultation calendar for an LMP without persisting
// anything. With upcoming=true only dates from today on are returned.
func (h *Handler) Schedule(c echo.Context) error {
	lmp, err := time.Parse("2006-01-02", c.QueryParam("lmp"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lmp must be a date in YYYY-MM-DD form")
	}
	var dates []time.Time
	if c.QueryParam("upcoming") == "true" {
		dates, err = ScheduleUpcomingFromLMP(lmp, time.Time{})
	} else {
		dates, err = ScheduleFromLMP(lmp)
	}
	if err != nil {
		return httpError(err)
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"estimated_due_date": EstimatedDueDate(lmp).Format("2006-01-02"),
		"consultations":      out,
	})
}

func (h *Handler) DeleteForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteForm(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
