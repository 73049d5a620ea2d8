package exam

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
	// Catalog management – admin only
	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.POST("/exam-types", h.CreateType)
	adminGroup.PUT("/exam-types/:id", h.UpdateType)
	adminGroup.DELETE("/exam-types/:id", h.DeleteType)
	adminGroup.POST("/exams", h.CreateExam)
	adminGroup.PUT("/exams/:id", h.UpdateExam)
	adminGroup.DELETE("/exams/:id", h.DeleteExam)

	// Catalog reads and result recording – admin, midwife
	group := api.Group("", auth.RequireRole("admin", "midwife"))
	group.GET("/exam-types", h.ListTypes)
	group.GET("/exam-types/:id", h.GetType)
	group.GET("/exams", h.ListExams)
	group.GET("/exams/:id", h.GetExam)
	group.POST("/exam-results", h.RecordResult)
	group.GET("/exam-results/:id", h.GetResult)
	group.PUT("/exam-results/:id", h.UpdateResult)
	group.DELETE("/exam-results/:id", h.DeleteResult)
	group.GET("/consultations/:id/exam-results", h.ListResultsByConsultation)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrTypeNotFound),
		errors.Is(err, ErrExamNotFound),
		errors.Is(err, ErrResultNotFound),
		errors.Is(err, ErrConsultationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// -- Exam Types --

func (h *Handler) CreateType(c echo.Context) error {
	var in TypeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := h.svc.CreateType(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetType(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	t, err := h.svc.GetType(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) ListTypes(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListTypes(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateType(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in TypeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := h.svc.UpdateType(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteType(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteType(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Exams --

func (h *Handler) CreateExam(c echo.Context) error {
	var in ExamInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.CreateExam(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) GetExam(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	e, err := h.svc.GetExam(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) ListExams(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListExams(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateExam(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in ExamInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e, err := h.svc.UpdateExam(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteExam(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteExam(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Exam Results --

func (h *Handler) RecordResult(c echo.Context) error {
	var in ResultInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.RecordResult(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetResult(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	res, err := h.svc.GetResult(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListResultsByConsultation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListResultsByConsultation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateResult(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in ResultInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.UpdateResult(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteResult(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteResult(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
