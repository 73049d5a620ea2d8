package exam

import (
	"time"

	"github.com/google/uuid"
)

// ExamType groups exams into catalog categories, e.g. blood work or imaging.
type ExamType struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Exam is a catalog entry for a prescribable examination.
type Exam struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	TypeID      *uuid.UUID `json:"type_id,omitempty" db:"exam_type_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Result attaches one measured value from an exam to a consultation.
// Field names the measurement, e.g. "white blood cells"; Value carries the
// reading as entered, e.g. "4500".
type Result struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ExamID         uuid.UUID `json:"exam_id" db:"exam_id"`
	ConsultationID uuid.UUID `json:"consultation_id" db:"consultation_id"`
	Field          string    `json:"field" db:"field"`
	Value          string    `json:"value" db:"value"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// TypeInput is the payload for creating or updating an exam type.
type TypeInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ExamInput is the payload for creating or updating an exam.
type ExamInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TypeID      *uuid.UUID `json:"type_id"`
}

// ResultInput is the payload for creating or updating an exam result.
type ResultInput struct {
	ExamID         uuid.UUID `json:"exam_id"`
	ConsultationID uuid.UUID `json:"consultation_id"`
	Field          string    `json:"field"`
	Value          string    `json:"value"`
}
