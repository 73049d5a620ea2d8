package exam

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ConsultationLookup answers existence checks against the prenatal
// consultation calendar. Satisfied by the prenatal service.
type ConsultationLookup interface {
	ConsultationExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	types         TypeRepository
	exams         ExamRepository
	results       ResultRepository
	consultations ConsultationLookup
	logger        zerolog.Logger
}

func NewService(
	types TypeRepository,
	exams ExamRepository,
	results ResultRepository,
	consultations ConsultationLookup,
	logger zerolog.Logger,
) *Service {
	return &Service{
		types:         types,
		exams:         exams,
		results:       results,
		consultations: consultations,
		logger:        logger,
	}
}

// -- Exam Types --

func (s *Service) CreateType(ctx context.Context, in TypeInput) (*ExamType, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	t := &ExamType{Name: in.Name, Description: in.Description}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) GetType(ctx context.Context, id uuid.UUID) (*ExamType, error) {
	return s.types.GetByID(ctx, id)
}

func (s *Service) ListTypes(ctx context.Context, limit, offset int) ([]*ExamType, int, error) {
	return s.types.List(ctx, limit, offset)
}

func (s *Service) UpdateType(ctx context.Context, id uuid.UUID, in TypeInput) (*ExamType, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	t, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = in.Name
	t.Description = in.Description
	if err := s.types.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteType(ctx context.Context, id uuid.UUID) error {
	return s.types.Delete(ctx, id)
}

// -- Exams --

func (s *Service) CreateExam(ctx context.Context, in ExamInput) (*Exam, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.TypeID != nil {
		if _, err := s.types.GetByID(ctx, *in.TypeID); err != nil {
			return nil, err
		}
	}
	e := &Exam{Name: in.Name, Description: in.Description, TypeID: in.TypeID}
	if err := s.exams.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) GetExam(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return s.exams.GetByID(ctx, id)
}

func (s *Service) ListExams(ctx context.Context, limit, offset int) ([]*Exam, int, error) {
	return s.exams.List(ctx, limit, offset)
}

func (s *Service) UpdateExam(ctx context.Context, id uuid.UUID, in ExamInput) (*Exam, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	e, err := s.exams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.TypeID != nil {
		if _, err := s.types.GetByID(ctx, *in.TypeID); err != nil {
			return nil, err
		}
	}
	e.Name = in.Name
	e.Description = in.Description
	e.TypeID = in.TypeID
	if err := s.exams.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteExam(ctx context.Context, id uuid.UUID) error {
	return s.exams.Delete(ctx, id)
}

// -- Exam Results --

// RecordResult attaches a measured value to a consultation. Both the exam
// and the consultation must exist.
func (s *Service) RecordResult(ctx context.Context, in ResultInput) (*Result, error) {
	if in.Field == "" {
		return nil, fmt.Errorf("field is required")
	}
	if _, err := s.exams.GetByID(ctx, in.ExamID); err != nil {
		return nil, err
	}
	ok, err := s.consultations.ConsultationExists(ctx, in.ConsultationID)
	if err != nil {
		return nil, fmt.Errorf("consultation lookup: %w", err)
	}
	if !ok {
		return nil, ErrConsultationNotFound
	}
	res := &Result{
		ExamID:         in.ExamID,
		ConsultationID: in.ConsultationID,
		Field:          in.Field,
		Value:          in.Value,
	}
	if err := s.results.Create(ctx, res); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("consultation_id", in.ConsultationID.String()).
		Str("exam_id", in.ExamID.String()).
		Str("field", in.Field).
		Msg("exam result recorded")
	return res, nil
}

func (s *Service) GetResult(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.results.GetByID(ctx, id)
}

func (s *Service) ListResultsByConsultation(ctx context.Context, consultationID uuid.UUID) ([]*Result, error) {
	ok, err := s.consultations.ConsultationExists(ctx, consultationID)
	if err != nil {
		return nil, fmt.Errorf("consultation lookup: %w", err)
	}
	if !ok {
		return nil, ErrConsultationNotFound
	}
	return s.results.ListByConsultation(ctx, consultationID)
}

// UpdateResult rewrites a recorded value, rechecking both references.
func (s *Service) UpdateResult(ctx context.Context, id uuid.UUID, in ResultInput) (*Result, error) {
	if in.Field == "" {
		return nil, fmt.Errorf("field is required")
	}
	res, err := s.results.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.exams.GetByID(ctx, in.ExamID); err != nil {
		return nil, err
	}
	ok, err := s.consultations.ConsultationExists(ctx, in.ConsultationID)
	if err != nil {
		return nil, fmt.Errorf("consultation lookup: %w", err)
	}
	if !ok {
		return nil, ErrConsultationNotFound
	}
	res.ExamID = in.ExamID
	res.ConsultationID = in.ConsultationID
	res.Field = in.Field
	res.Value = in.Value
	if err := s.results.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) DeleteResult(ctx context.Context, id uuid.UUID) error {
	return s.results.Delete(ctx, id)
}
