package antecedent

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

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
	// Definition management – admin only
	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.POST("/antecedent-definitions", h.CreateDefinition)
	adminGroup.POST("/antecedent-definitions/:id/deactivate", h.DeactivateDefinition)
	adminGroup.PUT("/antecedent-definitions/:id/fields/:fieldId", h.EditField)
	adminGroup.DELETE("/antecedent-definitions/:id/fields/:fieldId", h.EditField)

	// Reads and patient answers – admin, midwife
	group := api.Group("", auth.RequireRole("admin", "midwife"))
	group.GET("/antecedent-definitions", h.ListDefinitions)
	group.GET("/antecedent-definitions/:id", h.GetDefinition)
	group.GET("/antecedent-definitions/code/:code", h.GetDefinitionByCode)
	group.GET("/patient-antecedents", h.ListPatientAntecedents)
	group.PUT("/patients/:id/antecedents/:definitionId", h.UpsertPatientAntecedent)
	group.GET("/patients/:id/antecedents", h.ListByPatient)
	group.GET("/patients/:id/antecedents/:definitionId", h.GetPatientAntecedent)
}

// validationBody is the 422 response shape for failed value validation.
type validationBody struct {
	Message    string      `json:"message"`
	Violations []Violation `json:"violations"`
}

// httpError maps domain errors onto HTTP status codes.
func httpError(err error) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, validationBody{
			Message:    "validation failed",
			Violations: vErr.Violations,
		})
	}
	switch {
	case errors.Is(err, ErrDefinitionNotFound),
		errors.Is(err, ErrPatientNotFound),
		errors.Is(err, ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrCodeExists), errors.Is(err, ErrPairConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrDuplicateFieldCode):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrFieldEditUnsupported):
		return echo.NewHTTPError(http.StatusMethodNotAllowed, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) CreateDefinition(c echo.Context) error {
	var in CreateDefinitionInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.CreateDefinition(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDefinition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.GetDefinition(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetDefinitionByCode(c echo.Context) error {
	d, err := h.svc.GetDefinitionByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDefinitions(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") == "true"
	items, total, err := h.svc.ListDefinitions(c.Request().Context(), activeOnly, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) DeactivateDefinition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivateDefinition(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// EditField rejects field-level modification; the only way to change
// fields is creating a new definition.
func (h *Handler) EditField(c echo.Context) error {
	return httpError(ErrFieldEditUnsupported)
}

type upsertRequest struct {
	Values Values `json:"values"`
}

func (h *Handler) UpsertPatientAntecedent(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	definitionID, err := uuid.Parse(c.Param("definitionId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid definition id")
	}
	var req upsertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.Actor(c.Request().Context())
	pa, err := h.svc.Upsert(c.Request().Context(), patientID, definitionID, req.Values, actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pa)
}

func (h *Handler) GetPatientAntecedent(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	definitionID, err := uuid.Parse(c.Param("definitionId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid definition id")
	}
	pa, err := h.svc.GetPatientAntecedent(c.Request().Context(), patientID, definitionID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pa)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatientAntecedentsByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListPatientAntecedents(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatientAntecedents(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
