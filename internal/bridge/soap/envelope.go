package soap

import (
	"encoding/xml"
	"time"

	"github.com/shopspring/decimal"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

const envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// layoutNaive is used for zone-less timestamps, which the page service
// stores as local server time.
const layoutNaive = "2006-01-02T15:04:05"

type envelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    envelopeBody
}

type envelopeBody struct {
	XMLName xml.Name `xml:"soap:Body"`
	Create  createRequest
}

// createRequest carries its namespace in XMLName so that it is emitted as the
// default namespace of the operation element.
type createRequest struct {
	XMLName xml.Name
	Record  trackingRecord `xml:"WB_Tracking_API"`
}

// trackingRecord is the WB_Tracking_API page. Elements must stay in this order.
type trackingRecord struct {
	SystemNo        string           `xml:"System_No,omitempty"`
	DateTime        string           `xml:"Date_x0026_Time,omitempty"`
	Latitude        *decimal.Decimal `xml:"Latitude,omitempty"`
	Longitude       *decimal.Decimal `xml:"Longitude,omitempty"`
	Velocity        *decimal.Decimal `xml:"Velocity,omitempty"`
	Angle           *decimal.Decimal `xml:"Angle,omitempty"`
	Altitude        *decimal.Decimal `xml:"Altitude,omitempty"`
	Acc             bool             `xml:"Acc"`
	DigitStatus     string           `xml:"Digit_Status,omitempty"`
	Temperature     *decimal.Decimal `xml:"Temperature,omitempty"`
	Mileage         *decimal.Decimal `xml:"Mileage,omitempty"`
	AlarmType       *int             `xml:"Alarm_Type,omitempty"`
	IsOriginalAlarm bool             `xml:"Is_Original_Alarm"`
	Arguments       string           `xml:"Arguments,omitempty"`
	VehicleNo       string           `xml:"Vehicle_No,omitempty"`
	CurrentLocation string           `xml:"Current_Location,omitempty"`
	GeofenceName    string           `xml:"Geo_fence_Name,omitempty"`
	AlarmName       string           `xml:"Alarm_Name,omitempty"`
}

// responseEnvelope matches both a Create_Result and a Fault, in any
// envelope namespace.
type responseEnvelope struct {
	Body struct {
		Fault  *fault `xml:"Fault"`
		Result *struct {
			Record struct {
				Key string `xml:"Key"`
			} `xml:"WB_Tracking_API"`
		} `xml:"Create_Result"`
	} `xml:"Body"`
}

type fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

func newEnvelope(namespace string, rec *model.Record) envelope {
	return envelope{
		SoapNS: envelopeNS,
		Body: envelopeBody{
			Create: createRequest{
				XMLName: xml.Name{Space: namespace, Local: "Create"},
				Record:  newTrackingRecord(rec),
			},
		},
	}
}

func newTrackingRecord(rec *model.Record) trackingRecord {
	return trackingRecord{
		SystemNo:        rec.SystemNo,
		DateTime:        formatDateTime(rec.DateTime),
		Latitude:        rec.Latitude,
		Longitude:       rec.Longitude,
		Velocity:        rec.Velocity,
		Angle:           rec.Angle,
		Altitude:        rec.Altitude,
		Acc:             rec.Acc,
		DigitStatus:     rec.DigitStatus,
		Temperature:     rec.Temperature,
		Mileage:         rec.Mileage,
		AlarmType:       rec.AlarmType,
		IsOriginalAlarm: rec.IsOriginalAlarm,
		Arguments:       rec.Arguments,
		VehicleNo:       rec.VehicleNo,
		CurrentLocation: rec.CurrentLocation,
		GeofenceName:    rec.GeofenceName,
		AlarmName:       rec.AlarmName,
	}
}

// formatDateTime renders xsd:dateTime, without a zone when the source had none.
func formatDateTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	if t.Location() == time.UTC {
		return t.Format(layoutNaive)
	}
	return t.Format(time.RFC3339)
}
