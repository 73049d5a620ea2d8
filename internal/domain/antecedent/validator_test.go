package antecedent

import (
	"testing"
)

func testDefinition() *Definition {
	return &Definition{
		Code: "OBSTETRIC",
		Name: "Obstetric history",
		Fields: []*FieldDefinition{
			{Code: "prior_pregnancies", Type: TypeInteger, Required: true,
				Constraints: map[string]interface{}{"min": float64(0), "max": float64(20)}},
			{Code: "smoker", Type: TypeBoolean, Required: true},
			{Code: "weight_kg", Type: TypeDecimal,
				Constraints: map[string]interface{}{"min": float64(30), "max": float64(200)}},
			{Code: "notes", Type: TypeText},
			{Code: "last_delivery", Type: TypeDate},
			{Code: "blood_group", Type: TypeEnum,
				Constraints: map[string]interface{}{"options": []interface{}{"A", "B", "AB", "O"}}},
			{Code: "risk_factors", Type: TypeMultiEnum,
				Constraints: map[string]interface{}{"options": []interface{}{"diabetes", "hypertension", "obesity"}}},
		},
	}
}

func validValues() Values {
	return Values{
		"prior_pregnancies": NumberValue(2),
		"smoker":            BoolValue(false),
		"weight_kg":         NumberValue(64.5),
		"notes":             StringValue("uneventful"),
		"last_delivery":     StringValue("2022-06-15"),
		"blood_group":       StringValue("O"),
		"risk_factors":      ListValue(StringValue("diabetes")),
	}
}

func countCode(vs []Violation, code ViolationCode) int {
	n := 0
	for _, v := range vs {
		if v.Code == code {
			n++
		}
	}
	return n
}

func TestValidate_AllValid(t *testing.T) {
	vs := Validate(testDefinition(), validValues())
	if len(vs) != 0 {
		t.Fatalf("expected no violations, got %v", vs)
	}
}

func TestValidate_CollectsAllMissingRequired(t *testing.T) {
	vs := Validate(testDefinition(), Values{})
	if got := countCode(vs, MissingRequiredField); got != 2 {
		t.Fatalf("expected 2 missing-required violations, got %d (%v)", got, vs)
	}
}

func TestValidate_NullCountsAsMissing(t *testing.T) {
	values := validValues()
	values["smoker"] = NullValue()
	vs := Validate(testDefinition(), values)
	if countCode(vs, MissingRequiredField) != 1 {
		t.Fatalf("expected null required value to count as missing, got %v", vs)
	}
}

func TestValidate_NullOptionalAccepted(t *testing.T) {
	values := validValues()
	values["notes"] = NullValue()
	if vs := Validate(testDefinition(), values); len(vs) != 0 {
		t.Fatalf("expected null optional value to pass, got %v", vs)
	}
}

func TestValidate_UnknownField(t *testing.T) {
	values := validValues()
	values["no_such_field"] = StringValue("x")
	vs := Validate(testDefinition(), values)
	if countCode(vs, UnknownField) != 1 {
		t.Fatalf("expected unknown-field violation, got %v", vs)
	}
}

func TestValidate_TypeMismatches(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value FieldValue
	}{
		{"bool gets string", "smoker", StringValue("yes")},
		{"integer gets bool", "prior_pregnancies", BoolValue(true)},
		{"decimal gets string", "weight_kg", StringValue("heavy")},
		{"text gets number", "notes", NumberValue(5)},
		{"date gets number", "last_delivery", NumberValue(20220615)},
		{"enum gets list", "blood_group", ListValue(StringValue("A"))},
		{"multi_enum gets string", "risk_factors", StringValue("diabetes")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := validValues()
			values[tc.field] = tc.value
			vs := Validate(testDefinition(), values)
			if countCode(vs, TypeMismatch) != 1 {
				t.Fatalf("expected type-mismatch for %s, got %v", tc.field, vs)
			}
		})
	}
}

func TestValidate_IntegerRejectsFraction(t *testing.T) {
	values := validValues()
	values["prior_pregnancies"] = NumberValue(2.5)
	vs := Validate(testDefinition(), values)
	if countCode(vs, TypeMismatch) != 1 {
		t.Fatalf("expected fractional integer to fail, got %v", vs)
	}
}

func TestValidate_RangeInclusive(t *testing.T) {
	values := validValues()
	values["prior_pregnancies"] = NumberValue(0)
	if vs := Validate(testDefinition(), values); len(vs) != 0 {
		t.Fatalf("expected min bound to be inclusive, got %v", vs)
	}
	values["prior_pregnancies"] = NumberValue(20)
	if vs := Validate(testDefinition(), values); len(vs) != 0 {
		t.Fatalf("expected max bound to be inclusive, got %v", vs)
	}
}

func TestValidate_OutOfRange(t *testing.T) {
	values := validValues()
	values["prior_pregnancies"] = NumberValue(21)
	values["weight_kg"] = NumberValue(10)
	vs := Validate(testDefinition(), values)
	if got := countCode(vs, OutOfRange); got != 2 {
		t.Fatalf("expected 2 out-of-range violations, got %d (%v)", got, vs)
	}
}

func TestValidate_InvalidDate(t *testing.T) {
	values := validValues()
	values["last_delivery"] = StringValue("15/06/2022")
	vs := Validate(testDefinition(), values)
	if countCode(vs, InvalidDate) != 1 {
		t.Fatalf("expected invalid-date violation, got %v", vs)
	}
}

func TestValidate_EnumRejectsUnlistedOption(t *testing.T) {
	// blood_group is optional; a wrong option must still fail.
	values := validValues()
	values["blood_group"] = StringValue("Z")
	vs := Validate(testDefinition(), values)
	if countCode(vs, InvalidOption) != 1 {
		t.Fatalf("expected invalid-option violation, got %v", vs)
	}
}

func TestValidate_MultiEnumChecksEveryElement(t *testing.T) {
	values := validValues()
	values["risk_factors"] = ListValue(
		StringValue("diabetes"),
		StringValue("bungee_jumping"),
		StringValue("smoking"),
	)
	vs := Validate(testDefinition(), values)
	if got := countCode(vs, InvalidOption); got != 2 {
		t.Fatalf("expected 2 invalid-option violations, got %d (%v)", got, vs)
	}
}

func TestValidate_DoesNotShortCircuit(t *testing.T) {
	vs := Validate(testDefinition(), Values{
		"weight_kg":     StringValue("heavy"),
		"blood_group":   StringValue("Z"),
		"no_such_field": BoolValue(true),
	})
	// 2 missing required + 1 type mismatch + 1 invalid option + 1 unknown.
	if len(vs) != 5 {
		t.Fatalf("expected 5 violations collected together, got %d (%v)", len(vs), vs)
	}
}
