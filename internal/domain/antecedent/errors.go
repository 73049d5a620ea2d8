package antecedent

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCodeExists is returned when a definition code is already taken.
	ErrCodeExists = errors.New("antecedent definition code already exists")
	// ErrDuplicateFieldCode is returned when a definition submission
	// repeats a field code.
	ErrDuplicateFieldCode = errors.New("duplicate field code in definition")
	// ErrDefinitionNotFound is returned for an unknown definition id or code.
	ErrDefinitionNotFound = errors.New("antecedent definition not found")
	// ErrPatientNotFound is returned when the patient referenced by an
	// upsert does not exist.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrRecordNotFound is returned for a missing patient antecedent row.
	ErrRecordNotFound = errors.New("patient antecedent not found")
	// ErrPairConflict is returned when a same-pair insert conflict could
	// not be resolved by retrying as an update.
	ErrPairConflict = errors.New("patient antecedent already exists for pair")
	// ErrFieldEditUnsupported is returned for field-level edit attempts;
	// fields only change through a full definition create.
	ErrFieldEditUnsupported = errors.New("field-level edits are not supported")
)

// ViolationCode classifies a single validation failure.
type ViolationCode string

const (
	MissingRequiredField ViolationCode = "MISSING_REQUIRED_FIELD"
	UnknownField         ViolationCode = "UNKNOWN_FIELD"
	TypeMismatch         ViolationCode = "TYPE_MISMATCH"
	OutOfRange           ViolationCode = "OUT_OF_RANGE"
	InvalidOption        ViolationCode = "INVALID_OPTION"
	InvalidDate          ViolationCode = "INVALID_DATE"
)

// Violation describes one field-level validation failure with enough
// structure for a client to render an inline correction.
type Violation struct {
	Field   string        `json:"field"`
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// ValidationError carries the full, non-truncated list of violations
// for one submission.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
