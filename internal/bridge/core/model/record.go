package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is the enriched, outbound form of an AlarmEvent.
// JSON names follow the field names of the legacy page service.
type Record struct {
	SystemNo        string           `json:"System_No"`
	DateTime        *time.Time       `json:"Date_x0026_Time,omitempty"`
	Latitude        *decimal.Decimal `json:"Latitude,omitempty"`
	Longitude       *decimal.Decimal `json:"Longitude,omitempty"`
	Velocity        *decimal.Decimal `json:"Velocity,omitempty"`
	Angle           *decimal.Decimal `json:"Angle,omitempty"`
	Altitude        *decimal.Decimal `json:"Altitude,omitempty"`
	Acc             bool             `json:"Acc"`
	DigitStatus     string           `json:"Digit_Status,omitempty"`
	Temperature     *decimal.Decimal `json:"Temperature,omitempty"`
	Mileage         *decimal.Decimal `json:"Mileage,omitempty"`
	AlarmType       *int             `json:"Alarm_Type,omitempty"`
	IsOriginalAlarm bool             `json:"Is_Original_Alarm"`
	Arguments       string           `json:"Arguments"`

	VehicleNo       string `json:"Vehicle_No,omitempty"`
	CurrentLocation string `json:"Current_Location,omitempty"`
	GeofenceName    string `json:"Geo_fence_Name,omitempty"`
	AlarmName       string `json:"Alarm_Name,omitempty"`

	// AlarmTypeID is the alarm type as received, kept for routing.
	AlarmTypeID string `json:"-"`
}
