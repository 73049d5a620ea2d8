package exam

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrTypeNotFound         = errors.New("exam type not found")
	ErrExamNotFound         = errors.New("exam not found")
	ErrResultNotFound       = errors.New("exam result not found")
	ErrConsultationNotFound = errors.New("consultation not found")
)

type TypeRepository interface {
	Create(ctx context.Context, t *ExamType) error
	GetByID(ctx context.Context, id uuid.UUID) (*ExamType, error)
	List(ctx context.Context, limit, offset int) ([]*ExamType, int, error)
	Update(ctx context.Context, t *ExamType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExamRepository interface {
	Create(ctx context.Context, e *Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*Exam, error)
	List(ctx context.Context, limit, offset int) ([]*Exam, int, error)
	Update(ctx context.Context, e *Exam) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ResultRepository interface {
	Create(ctx context.Context, r *Result) error
	GetByID(ctx context.Context, id uuid.UUID) (*Result, error)
	ListByConsultation(ctx context.Context, consultationID uuid.UUID) ([]*Result, error)
	Update(ctx context.Context, r *Result) error
	Delete(ctx context.Context, id uuid.UUID) error
}
