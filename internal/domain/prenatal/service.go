package prenatal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cpn/cpn/internal/domain/antecedent"
)

// PatientLookup answers existence checks against the patient registry.
type PatientLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AntecedentRecorder stores validated antecedent answers submitted with the
// prenatal setup. Satisfied by the antecedent service.
type AntecedentRecorder interface {
	Upsert(ctx context.Context, patientID, definitionID uuid.UUID, values antecedent.Values, actor string) (*antecedent.PatientAntecedent, error)
}

type Service struct {
	forms       FormRepository
	patients    PatientLookup
	antecedents AntecedentRecorder
	logger      zerolog.Logger
}

func NewService(forms FormRepository, patients PatientLookup, antecedents AntecedentRecorder, logger zerolog.Logger) *Service {
	return &Service{
		forms:       forms,
		patients:    patients,
		antecedents: antecedents,
		logger:      logger,
	}
}

// SetUpForm opens a prenatal form for a patient: records the submitted
// antecedent answers, derives the consultation calendar and due date from
// the LMP, and persists the form with its consultations.
func (s *Service) SetUpForm(ctx context.Context, patientID uuid.UUID, in SetUpFormInput, actor string) (*Form, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient lookup: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	if in.LMP == nil || in.LMP.IsZero() {
		return nil, ErrLMPRequired
	}

	for _, sub := range in.Antecedents {
		if _, err := s.antecedents.Upsert(ctx, patientID, sub.DefinitionID, sub.Values, actor); err != nil {
			return nil, err
		}
	}

	dates, err := ScheduleFromLMP(*in.LMP)
	if err != nil {
		return nil, err
	}
	f := &Form{
		PatientID:        patientID,
		LMP:              *in.LMP,
		EstimatedDueDate: EstimatedDueDate(*in.LMP),
	}
	for _, d := range dates {
		f.Consultations = append(f.Consultations, &Consultation{Date: d})
	}

	if err := s.forms.CreateWithConsultations(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("patient_id", patientID.String()).
		Str("form_id", f.ID.String()).
		Time("edd", f.EstimatedDueDate).
		Int("consultations", len(f.Consultations)).
		Msg("prenatal form opened")
	return f, nil
}

func (s *Service) GetForm(ctx context.Context, id uuid.UUID) (*Form, error) {
	return s.forms.GetByID(ctx, id)
}

func (s *Service) ListFormsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Form, int, error) {
	return s.forms.ListByPatient(ctx, patientID, limit, offset)
}

// UpcomingConsultations returns the form's consultations from today on,
// including any falling on today itself.
func (s *Service) UpcomingConsultations(ctx context.Context, formID uuid.UUID, today time.Time) ([]*Consultation, error) {
	f, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if today.IsZero() {
		today = time.Now().UTC()
	}
	cutoff := dateOnly(today)
	upcoming := make([]*Consultation, 0, len(f.Consultations))
	for _, c := range f.Consultations {
		if !dateOnly(c.Date).Before(cutoff) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}

func (s *Service) DeleteForm(ctx context.Context, id uuid.UUID) error {
	return s.forms.Delete(ctx, id)
}

func (s *Service) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.forms.GetConsultation(ctx, id)
}

// ConsultationExists answers existence checks for exam results referencing a
// consultation.
func (s *Service) ConsultationExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.forms.GetConsultation(ctx, id)
	if errors.Is(err, ErrConsultationNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
