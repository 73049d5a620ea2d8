package prenatal

import (
	"time"

	"github.com/google/uuid"

	"github.com/cpn/cpn/internal/domain/antecedent"
)

// Form is a patient's prenatal care record. It anchors the pregnancy on the
// last menstrual period date and carries the consultation calendar derived
// from it.
type Form struct {
	ID               uuid.UUID `json:"id" db:"id"`
	PatientID        uuid.UUID `json:"patient_id" db:"patient_id"`
	LMP              time.Time `json:"lmp" db:"lmp"`
	EstimatedDueDate time.Time `json:"estimated_due_date" db:"estimated_due_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	Consultations []*Consultation `json:"consultations,omitempty" db:"-"`
}

// Consultation is a single planned prenatal visit.
type Consultation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FormID    uuid.UUID `json:"form_id" db:"prenatal_form_id"`
	Date      time.Time `json:"date" db:"consultation_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AntecedentSubmission carries the answers for one antecedent form submitted
// alongside the prenatal setup.
type AntecedentSubmission struct {
	DefinitionID uuid.UUID         `json:"definition_id"`
	Values       antecedent.Values `json:"values"`
}

// SetUpFormInput is the payload for opening a prenatal form.
type SetUpFormInput struct {
	LMP         *time.Time             `json:"lmp"`
	Antecedents []AntecedentSubmission `json:"antecedents,omitempty"`
}
