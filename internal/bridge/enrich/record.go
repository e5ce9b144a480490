package enrich

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

// Names are the display names resolved for one event. Unresolved names are "".
type Names struct {
	VehicleNo       string
	CurrentLocation string
	GeofenceName    string
	AlarmName       string
}

var jsonNull = json.RawMessage("null")

// argumentsBlob preserves the free-form parts of the event and the original
// coordinates, in this key order.
type argumentsBlob struct {
	Arguments   json.RawMessage `json:"Arguments"`
	Longitude   json.RawMessage `json:"Longitude"`
	Latitude    json.RawMessage `json:"Latitude"`
	OtherValues json.RawMessage `json:"OtherValues"`
}

// BuildRecord assembles the outbound record. Malformed fields become empty;
// it never fails. With swap set, the event's longitude is written to Latitude
// and its latitude to Longitude.
func BuildRecord(ev *model.AlarmEvent, names Names, swap bool) *model.Record {
	alarmType := ev.AlarmTypeID()

	rec := &model.Record{
		SystemNo:        ev.SystemNo.Trimmed(),
		DateTime:        parseTimestamp(ev.DateTime.String()),
		Latitude:        toDecimal(ev.Latitude),
		Longitude:       toDecimal(ev.Longitude),
		Velocity:        toDecimal(ev.Velocity),
		Angle:           toDecimal(ev.Angle),
		Altitude:        toDecimal(ev.Altitude),
		Acc:             toBool(ev.Acc),
		DigitStatus:     ev.DigitStatus.String(),
		Temperature:     toDecimal(ev.Temperature),
		Mileage:         toDecimal(ev.Mileage),
		AlarmType:       toInt(alarmType),
		IsOriginalAlarm: toBool(ev.IsOriginalAlarm),
		Arguments:       argumentsJSON(ev),

		VehicleNo:       names.VehicleNo,
		CurrentLocation: names.CurrentLocation,
		GeofenceName:    names.GeofenceName,
		AlarmName:       names.AlarmName,

		AlarmTypeID: alarmType,
	}

	if swap {
		rec.Latitude, rec.Longitude = rec.Longitude, rec.Latitude
	}

	return rec
}

func argumentsJSON(ev *model.AlarmEvent) string {
	blob := argumentsBlob{
		Arguments:   rawOrNull(ev.Arguments),
		Longitude:   ev.Longitude.Raw(),
		Latitude:    ev.Latitude.Raw(),
		OtherValues: rawOrNull(ev.OtherValues),
	}

	s, err := encodeBlob(blob)
	if err != nil {
		// Decoded events always carry valid raw JSON, but BuildRecord also takes
		// events built in code. Keep the coordinates if those fields are malformed.
		blob.Arguments, blob.OtherValues = jsonNull, jsonNull
		s, _ = encodeBlob(blob)
	}
	return s
}

// encodeBlob marshals without HTML escaping so addresses and names stay readable.
func encodeBlob(blob argumentsBlob) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(blob); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return jsonNull
	}
	return raw
}
