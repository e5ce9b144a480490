package model

import "encoding/json"

// AlarmEvent is one application message decoded from a stream segment.
type AlarmEvent struct {
	SystemNo        Value `json:"SystemNo"`
	DateTime        Value `json:"DateTime"`
	Latitude        Value `json:"Latitude"`
	Longitude       Value `json:"Longitude"`
	Velocity        Value `json:"Velocity"`
	Angle           Value `json:"Angle"`
	Altitude        Value `json:"Altitude"`
	Acc             Value `json:"Acc"`
	DigitStatus     Value `json:"DigitStatus"`
	Temperature     Value `json:"Temperature"`
	Mileage         Value `json:"Mileage"`
	AlarmType       Value `json:"AlarmType"`
	IsOriginalAlarm Value `json:"IsOriginalAlarm"`
	RelatedTable    Value `json:"RelatedTable"`
	RelatedID       Value `json:"RelatedID"`

	// Arguments and OtherValues are free-form and passed through untouched.
	Arguments   json.RawMessage `json:"Arguments,omitempty"`
	OtherValues json.RawMessage `json:"OtherValues,omitempty"`
}

// AlarmTypeID returns the trimmed alarm type used for filtering.
func (e *AlarmEvent) AlarmTypeID() string {
	return e.AlarmType.Trimmed()
}
