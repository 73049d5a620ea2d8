package antecedent

import (
	"time"

	"github.com/google/uuid"
)

// Definition maps to the antecedent_definition table. A definition is a
// named form: an ordered list of typed field definitions. The code is a
// globally unique, immutable business key.
type Definition struct {
	ID             uuid.UUID          `db:"id" json:"id"`
	Code           string             `db:"code" json:"code"`
	Name           string             `db:"name" json:"name"`
	Description    *string            `db:"description" json:"description,omitempty"`
	AntecedentType *string            `db:"antecedent_type" json:"antecedent_type,omitempty"`
	Active         bool               `db:"active" json:"active"`
	Fields         []*FieldDefinition `json:"fields"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at" json:"updated_at"`
}

// FieldByCode returns the field definition with the given code, or nil.
func (d *Definition) FieldByCode(code string) *FieldDefinition {
	for _, f := range d.Fields {
		if f.Code == code {
			return f
		}
	}
	return nil
}

// FieldDefinition maps to the antecedent_field_definition table. Fields
// are exclusively owned by their definition and cascade with it. The
// code is unique within the owning definition and keys the stored value
// maps.
type FieldDefinition struct {
	ID           uuid.UUID              `db:"id" json:"id"`
	DefinitionID uuid.UUID              `db:"antecedent_definition_id" json:"antecedent_definition_id"`
	Code         string                 `db:"code" json:"code"`
	Label        string                 `db:"label" json:"label"`
	Type         FieldType              `db:"field_type" json:"type"`
	Required     bool                   `db:"required" json:"required"`
	DisplayOrder int                    `db:"display_order" json:"display_order"`
	Constraints  map[string]interface{} `db:"constraints" json:"constraints,omitempty"`
	UI           map[string]interface{} `db:"ui" json:"ui,omitempty"`
}

// PatientAntecedent maps to the patient_antecedent table. At most one
// row exists per (patient_id, antecedent_definition_id) pair; upserts
// replace the whole values map.
type PatientAntecedent struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	DefinitionID uuid.UUID `db:"antecedent_definition_id" json:"antecedent_definition_id"`
	Values       Values    `db:"values" json:"values"`
	RecordedAt   time.Time `db:"recorded_at" json:"recorded_at"`
	RecordedBy   string    `db:"recorded_by" json:"recorded_by"`
}

// FieldSpec is one field of a definition-create submission.
type FieldSpec struct {
	Code         string                 `json:"code"`
	Label        string                 `json:"label"`
	Type         FieldType              `json:"type"`
	Required     bool                   `json:"required"`
	DisplayOrder int                    `json:"display_order"`
	Constraints  map[string]interface{} `json:"constraints,omitempty"`
	UI           map[string]interface{} `json:"ui,omitempty"`
}

// CreateDefinitionInput is the payload for creating a definition with
// its full field list in one atomic operation.
type CreateDefinitionInput struct {
	Code           string      `json:"code"`
	Name           string      `json:"name"`
	Description    *string     `json:"description,omitempty"`
	AntecedentType *string     `json:"antecedent_type,omitempty"`
	Fields         []FieldSpec `json:"fields"`
}
