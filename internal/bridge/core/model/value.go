package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var jsonNull = json.RawMessage("null")

// Value is a scalar taken from the feed exactly as it arrived. The platform
// sends the same field as a string, a number, a boolean or null depending on
// the firmware, so decoding is deferred until a consumer knows what it wants.
type Value struct {
	raw json.RawMessage
}

// StringValue returns a Value holding the JSON string s.
func StringValue(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: b}
}

// RawValue returns a Value holding the JSON literal raw.
func RawValue(raw string) Value {
	return Value{raw: json.RawMessage(raw)}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return v.Raw(), nil
}

// Raw returns the original JSON literal, or null when the field was absent.
func (v Value) Raw() json.RawMessage {
	if len(bytes.TrimSpace(v.raw)) == 0 {
		return jsonNull
	}
	return v.raw
}

// String returns the textual form: strings are unquoted, null and absent
// become "", anything else is the literal JSON text.
func (v Value) String() string {
	raw := bytes.TrimSpace(v.raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// Trimmed is String with surrounding whitespace removed.
func (v Value) Trimmed() string {
	return strings.TrimSpace(v.String())
}

// Present reports whether the value carries any non-blank text.
func (v Value) Present() bool {
	return v.Trimmed() != ""
}

// Float parses the value as a number.
func (v Value) Float() (float64, bool) {
	f, err := strconv.ParseFloat(v.Trimmed(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
