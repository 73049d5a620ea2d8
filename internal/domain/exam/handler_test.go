package exam

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *testEnv, *echo.Echo) {
	env := newTestEnv()
	return NewHandler(env.svc), env, echo.New()
}

func TestHandler_CreateType(t *testing.T) {
	h, _, e := newTestHandler()
	body := `{"name": "Blood work", "description": "Laboratory analyses"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateType(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var typ ExamType
	if err := json.Unmarshal(rec.Body.Bytes(), &typ); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if typ.ID == uuid.Nil || typ.Name != "Blood work" {
		t.Errorf("unexpected response body: %s", rec.Body.String())
	}
}

func TestHandler_GetExam_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetExam(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_RecordResult(t *testing.T) {
	h, env, e := newTestHandler()
	exam := env.addExam(t)
	consultationID := env.addConsultation()

	body := fmt.Sprintf(`{"exam_id": %q, "consultation_id": %q, "field": "white blood cells", "value": "4500"}`,
		exam.ID, consultationID)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RecordResult(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var res Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if res.ID == uuid.Nil || res.Value != "4500" {
		t.Errorf("unexpected response body: %s", rec.Body.String())
	}
}

func TestHandler_RecordResult_UnknownConsultation(t *testing.T) {
	h, env, e := newTestHandler()
	exam := env.addExam(t)

	body := fmt.Sprintf(`{"exam_id": %q, "consultation_id": %q, "field": "white blood cells", "value": "4500"}`,
		exam.ID, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.RecordResult(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_ListResultsByConsultation(t *testing.T) {
	h, env, e := newTestHandler()
	exam := env.addExam(t)
	consultationID := env.addConsultation()
	if _, err := env.svc.RecordResult(nil, ResultInput{
		ExamID:         exam.ID,
		ConsultationID: consultationID,
		Field:          "hemoglobin",
		Value:          "11.2",
	}); err != nil {
		t.Fatalf("seeding result: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(consultationID.String())

	if err := h.ListResultsByConsultation(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hemoglobin") {
		t.Errorf("unexpected response body: %s", rec.Body.String())
	}
}
