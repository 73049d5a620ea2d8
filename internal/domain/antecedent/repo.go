package antecedent

import (
	"context"

	"github.com/google/uuid"
)

type DefinitionRepository interface {
	// CreateWithFields persists the definition and its fields atomically.
	// A duplicate code surfaces as ErrCodeExists.
	CreateWithFields(ctx context.Context, d *Definition) error
	GetByID(ctx context.Context, id uuid.UUID) (*Definition, error)
	GetByCode(ctx context.Context, code string) (*Definition, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Definition, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type PatientAntecedentRepository interface {
	Get(ctx context.Context, patientID, definitionID uuid.UUID) (*PatientAntecedent, error)
	// Insert fails with ErrPairConflict if a row for the pair already exists.
	Insert(ctx context.Context, pa *PatientAntecedent) error
	Update(ctx context.Context, pa *PatientAntecedent) error
	List(ctx context.Context, limit, offset int) ([]*PatientAntecedent, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*PatientAntecedent, int, error)
}

// PatientLookup is the port the upsert flow uses to confirm the patient
// exists. Implemented by the patient domain.
type PatientLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
