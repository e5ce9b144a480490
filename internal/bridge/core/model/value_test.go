package model

import (
	"encoding/json"
	"testing"
)

func TestValueForms(t *testing.T) {
	tests := []struct {
		in      string
		str     string
		present bool
	}{
		{`"17"`, "17", true},
		{`17`, "17", true},
		{`22.50`, "22.50", true},
		{`true`, "true", true},
		{`null`, "", false},
		{`"  "`, "  ", false},
		{`"a\"b"`, `a"b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v Value
			if err := json.Unmarshal([]byte(tt.in), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := v.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
			if got := v.Present(); got != tt.present {
				t.Errorf("Present() = %v, want %v", got, tt.present)
			}
			if got := string(v.Raw()); got != tt.in {
				t.Errorf("Raw() = %s, want %s", got, tt.in)
			}
		})
	}
}

func TestValueAbsentField(t *testing.T) {
	var ev AlarmEvent
	if err := json.Unmarshal([]byte(`{"SystemNo":"8800123"}`), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Latitude.Present() {
		t.Error("absent field should not be present")
	}
	if got := string(ev.Latitude.Raw()); got != "null" {
		t.Errorf("absent Raw() = %s, want null", got)
	}
	if _, ok := ev.Latitude.Float(); ok {
		t.Error("absent field should not parse as float")
	}
}

func TestValueFloat(t *testing.T) {
	if f, ok := StringValue(" 24.7136 ").Float(); !ok || f != 24.7136 {
		t.Errorf("Float() = %v, %v", f, ok)
	}
	if _, ok := StringValue("north").Float(); ok {
		t.Error("non-numeric text should not parse")
	}
	if f, ok := RawValue("46.6753").Float(); !ok || f != 46.6753 {
		t.Errorf("Float() = %v, %v", f, ok)
	}
}
