package antecedent

import (
	"encoding/json"
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

func TestHandler_CreateDefinition(t *testing.T) {
	h, _, e := newTestHandler()
	body := `{
		"code": "OBSTETRIC",
		"name": "Obstetric history",
		"fields": [
			{"code": "prior_pregnancies", "label": "Prior pregnancies", "type": "INTEGER", "required": true, "display_order": 1}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateDefinition(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var d Definition
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if d.ID == uuid.Nil || len(d.Fields) != 1 {
		t.Errorf("unexpected response body: %s", rec.Body.String())
	}
}

func TestHandler_CreateDefinition_Conflict(t *testing.T) {
	h, env, e := newTestHandler()
	env.createDefinition(t)

	body := `{"code": "OBSTETRIC", "name": "Again"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateDefinition(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestHandler_GetDefinition_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.GetDefinition(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_EditField_MethodNotAllowed(t *testing.T) {
	h, env, e := newTestHandler()
	d := env.createDefinition(t)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "fieldId")
	c.SetParamValues(d.ID.String(), d.Fields[0].ID.String())

	err := h.EditField(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %v", err)
	}
}

func TestHandler_UpsertPatientAntecedent(t *testing.T) {
	h, env, e := newTestHandler()
	d := env.createDefinition(t)
	patientID := env.addPatient()

	body := `{"values": {"prior_pregnancies": 2, "smoker": false}}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "definitionId")
	c.SetParamValues(patientID.String(), d.ID.String())

	if err := h.UpsertPatientAntecedent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var pa PatientAntecedent
	if err := json.Unmarshal(rec.Body.Bytes(), &pa); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if pa.RecordedBy != "system" {
		t.Errorf("expected recorded_by system for unauthenticated request, got %s", pa.RecordedBy)
	}
}

func TestHandler_UpsertPatientAntecedent_ValidationBody(t *testing.T) {
	h, env, e := newTestHandler()
	d := env.createDefinition(t)
	patientID := env.addPatient()

	body := `{"values": {"prior_pregnancies": "two", "bogus": 1}}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "definitionId")
	c.SetParamValues(patientID.String(), d.ID.String())

	err := h.UpsertPatientAntecedent(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	vb, ok := he.Message.(validationBody)
	if !ok {
		t.Fatalf("expected structured violation body, got %T", he.Message)
	}
	if len(vb.Violations) != 2 {
		t.Errorf("expected 2 violations in body, got %v", vb.Violations)
	}
}

func TestHandler_UpsertPatientAntecedent_PatientNotFound(t *testing.T) {
	h, env, e := newTestHandler()
	d := env.createDefinition(t)

	body := `{"values": {"prior_pregnancies": 2}}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id", "definitionId")
	c.SetParamValues(uuid.New().String(), d.ID.String())

	err := h.UpsertPatientAntecedent(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandler_ListByPatient(t *testing.T) {
	h, env, e := newTestHandler()
	d := env.createDefinition(t)
	patientID := env.addPatient()
	if _, err := env.svc.Upsert(nil, patientID, d.ID, Values{"prior_pregnancies": NumberValue(1)}, "x"); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(patientID.String())

	if err := h.ListByPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
