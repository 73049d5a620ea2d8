package antecedent

import (
	"encoding/json"
	"fmt"
	"math"
)

// FieldType enumerates the supported field value types. The validator
// switches exhaustively over this set.
type FieldType string

const (
	TypeBoolean   FieldType = "BOOLEAN"
	TypeInteger   FieldType = "INTEGER"
	TypeDecimal   FieldType = "DECIMAL"
	TypeText      FieldType = "TEXT"
	TypeDate      FieldType = "DATE"
	TypeEnum      FieldType = "ENUM"
	TypeMultiEnum FieldType = "MULTI_ENUM"
)

var validFieldTypes = map[FieldType]bool{
	TypeBoolean: true, TypeInteger: true, TypeDecimal: true,
	TypeText: true, TypeDate: true, TypeEnum: true, TypeMultiEnum: true,
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	return validFieldTypes[t]
}

// ValueKind discriminates the variants of FieldValue.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindList
)

// FieldValue is a tagged variant holding one submitted answer. Values
// arrive as a flat JSON object so the variant is recovered from the
// JSON shape: booleans, numbers, strings, arrays, or null.
type FieldValue struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
	list []FieldValue
}

func NullValue() FieldValue               { return FieldValue{kind: KindNull} }
func BoolValue(b bool) FieldValue         { return FieldValue{kind: KindBool, b: b} }
func NumberValue(n float64) FieldValue    { return FieldValue{kind: KindNumber, n: n} }
func StringValue(s string) FieldValue     { return FieldValue{kind: KindString, s: s} }
func ListValue(vs ...FieldValue) FieldValue {
	return FieldValue{kind: KindList, list: vs}
}

func (v FieldValue) Kind() ValueKind { return v.kind }
func (v FieldValue) IsNull() bool    { return v.kind == KindNull }

// Bool returns the boolean variant; second result is false for other kinds.
func (v FieldValue) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Number returns the numeric variant; second result is false for other kinds.
func (v FieldValue) Number() (float64, bool) { return v.n, v.kind == KindNumber }

// IsWhole reports whether the value is a number with no fractional part.
func (v FieldValue) IsWhole() bool {
	return v.kind == KindNumber && v.n == math.Trunc(v.n)
}

// Str returns the string variant; second result is false for other kinds.
func (v FieldValue) Str() (string, bool) { return v.s, v.kind == KindString }

// List returns the list variant; second result is false for other kinds.
func (v FieldValue) List() ([]FieldValue, bool) { return v.list, v.kind == KindList }

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.IsWhole() && math.Abs(v.n) < 1e15 {
			return json.Marshal(int64(v.n))
		}
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fv, err := fromInterface(raw)
	if err != nil {
		return err
	}
	*v = fv
	return nil
}

func fromInterface(raw interface{}) (FieldValue, error) {
	switch x := raw.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(x), nil
	case float64:
		return NumberValue(x), nil
	case string:
		return StringValue(x), nil
	case []interface{}:
		list := make([]FieldValue, 0, len(x))
		for _, el := range x {
			fv, err := fromInterface(el)
			if err != nil {
				return FieldValue{}, err
			}
			list = append(list, fv)
		}
		return FieldValue{kind: KindList, list: list}, nil
	default:
		return FieldValue{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// Values maps field codes to submitted answers. Stored as JSONB.
type Values map[string]FieldValue
