package antecedent

import (
	"fmt"
	"time"
)

// Validate checks a submitted value map against a definition's fields.
// It is exhaustive: every violation for every field is collected and
// returned together so a client can fix all errors in one round trip.
// A nil or empty result means the values are acceptable.
func Validate(def *Definition, values Values) []Violation {
	var violations []Violation

	for _, f := range def.Fields {
		v, present := values[f.Code]
		if !present || v.IsNull() {
			if f.Required {
				violations = append(violations, Violation{
					Field:   f.Code,
					Code:    MissingRequiredField,
					Message: fmt.Sprintf("required field %q is missing", f.Code),
				})
			}
			continue
		}
		violations = append(violations, checkValue(f, v)...)
	}

	for code := range values {
		if def.FieldByCode(code) == nil {
			violations = append(violations, Violation{
				Field:   code,
				Code:    UnknownField,
				Message: fmt.Sprintf("field %q is not defined", code),
			})
		}
	}

	return violations
}

func checkValue(f *FieldDefinition, v FieldValue) []Violation {
	switch f.Type {
	case TypeBoolean:
		if _, ok := v.Bool(); !ok {
			return []Violation{mismatch(f, "a boolean")}
		}
	case TypeInteger:
		n, ok := v.Number()
		if !ok {
			return []Violation{mismatch(f, "an integer")}
		}
		if !v.IsWhole() {
			return []Violation{mismatch(f, "a whole number")}
		}
		return checkRange(f, n)
	case TypeDecimal:
		n, ok := v.Number()
		if !ok {
			return []Violation{mismatch(f, "a number")}
		}
		return checkRange(f, n)
	case TypeText:
		if _, ok := v.Str(); !ok {
			return []Violation{mismatch(f, "a string")}
		}
	case TypeDate:
		s, ok := v.Str()
		if !ok {
			return []Violation{mismatch(f, "a date string")}
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return []Violation{{
				Field:   f.Code,
				Code:    InvalidDate,
				Message: fmt.Sprintf("field %q must be an ISO date (YYYY-MM-DD)", f.Code),
			}}
		}
	case TypeEnum:
		s, ok := v.Str()
		if !ok {
			return []Violation{mismatch(f, "a string")}
		}
		if !optionAllowed(f, s) {
			return []Violation{badOption(f, s)}
		}
	case TypeMultiEnum:
		list, ok := v.List()
		if !ok {
			return []Violation{mismatch(f, "a list")}
		}
		var out []Violation
		for _, el := range list {
			s, ok := el.Str()
			if !ok {
				out = append(out, mismatch(f, "a list of strings"))
				continue
			}
			if !optionAllowed(f, s) {
				out = append(out, badOption(f, s))
			}
		}
		return out
	}
	return nil
}

func checkRange(f *FieldDefinition, n float64) []Violation {
	var out []Violation
	if min, ok := constraintNumber(f, "min"); ok && n < min {
		out = append(out, Violation{
			Field:   f.Code,
			Code:    OutOfRange,
			Message: fmt.Sprintf("field %q must be >= %v", f.Code, min),
		})
	}
	if max, ok := constraintNumber(f, "max"); ok && n > max {
		out = append(out, Violation{
			Field:   f.Code,
			Code:    OutOfRange,
			Message: fmt.Sprintf("field %q must be <= %v", f.Code, max),
		})
	}
	return out
}

func constraintNumber(f *FieldDefinition, key string) (float64, bool) {
	raw, ok := f.Constraints[key]
	if !ok {
		return 0, false
	}
	switch x := raw.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// options returns the allowed values of an ENUM / MULTI_ENUM field.
func options(f *FieldDefinition) []string {
	raw, ok := f.Constraints["options"].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, o := range raw {
		if s, ok := o.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func optionAllowed(f *FieldDefinition, s string) bool {
	for _, o := range options(f) {
		if o == s {
			return true
		}
	}
	return false
}

func mismatch(f *FieldDefinition, expected string) Violation {
	return Violation{
		Field:   f.Code,
		Code:    TypeMismatch,
		Message: fmt.Sprintf("field %q must be %s", f.Code, expected),
	}
}

func badOption(f *FieldDefinition, got string) Violation {
	return Violation{
		Field:   f.Code,
		Code:    InvalidOption,
		Message: fmt.Sprintf("%q is not an allowed option for field %q", got, f.Code),
	}
}
