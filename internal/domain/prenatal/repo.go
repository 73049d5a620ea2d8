package prenatal

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrFormNotFound         = errors.New("prenatal form not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrPatientNotFound      = errors.New("patient not found")
)

// FormRepository persists prenatal forms together with their consultation
// calendars.
type FormRepository interface {
	// CreateWithConsultations inserts the form and its consultations
	// atomically. IDs are assigned by the repository.
	CreateWithConsultations(ctx context.Context, f *Form) error
	GetByID(ctx context.Context, id uuid.UUID) (*Form, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Form, int, error)
	GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
