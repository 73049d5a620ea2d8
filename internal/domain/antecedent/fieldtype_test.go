package antecedent

import (
	"encoding/json"
	"testing"
)

func TestValues_UnmarshalRecoverKinds(t *testing.T) {
	raw := []byte(`{
		"smoker": true,
		"prior_pregnancies": 2,
		"weight_kg": 64.5,
		"notes": "fine",
		"risk_factors": ["diabetes", "obesity"],
		"optional": null
	}`)
	var values Values
	if err := json.Unmarshal(raw, &values); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if b, ok := values["smoker"].Bool(); !ok || !b {
		t.Error("expected smoker to be boolean true")
	}
	if n, ok := values["prior_pregnancies"].Number(); !ok || n != 2 || !values["prior_pregnancies"].IsWhole() {
		t.Error("expected prior_pregnancies to be whole number 2")
	}
	if n, ok := values["weight_kg"].Number(); !ok || n != 64.5 {
		t.Error("expected weight_kg to be 64.5")
	}
	if s, ok := values["notes"].Str(); !ok || s != "fine" {
		t.Error("expected notes string")
	}
	list, ok := values["risk_factors"].List()
	if !ok || len(list) != 2 {
		t.Fatalf("expected risk_factors list of 2, got %v", values["risk_factors"])
	}
	if !values["optional"].IsNull() {
		t.Error("expected optional to be null")
	}
}

func TestValues_RoundTrip(t *testing.T) {
	in := Values{
		"a": BoolValue(true),
		"b": NumberValue(3),
		"c": StringValue("x"),
		"d": ListValue(StringValue("y")),
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Values
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d entries, got %d", len(in), len(out))
	}
	if n, ok := out["b"].Number(); !ok || n != 3 {
		t.Error("number did not survive round trip")
	}
	if list, ok := out["d"].List(); !ok || len(list) != 1 {
		t.Error("list did not survive round trip")
	}
}

func TestFieldValue_WholeNumberMarshalsWithoutDecimal(t *testing.T) {
	data, err := json.Marshal(NumberValue(7))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "7" {
		t.Errorf("expected 7, got %s", data)
	}
}

func TestFieldType_Valid(t *testing.T) {
	for _, ft := range []FieldType{TypeBoolean, TypeInteger, TypeDecimal, TypeText, TypeDate, TypeEnum, TypeMultiEnum} {
		if !ft.Valid() {
			t.Errorf("expected %s to be valid", ft)
		}
	}
	if FieldType("TIMESTAMP").Valid() {
		t.Error("expected TIMESTAMP to be invalid")
	}
}
