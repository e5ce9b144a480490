package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

type fakeLookup struct {
	mu sync.Mutex

	vehicles  map[string]string
	alarms    map[string]string
	geofences map[string]string
	routes    map[string]string

	failVehicles bool
	calls        []string
}

func (f *fakeLookup) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeLookup) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeLookup) Vehicle(_ context.Context, systemNo string) (model.Reference, bool, error) {
	f.record("vehicle")
	if f.failVehicles {
		return model.Reference{}, false, errors.New("platform unavailable")
	}
	name, ok := f.vehicles[systemNo]
	return model.Reference{Key: systemNo, Name: name}, ok, nil
}

func (f *fakeLookup) AlarmName(_ context.Context, id string) (string, bool, error) {
	f.record("alarm")
	name, ok := f.alarms[id]
	return name, ok, nil
}

func (f *fakeLookup) GeofenceName(_ context.Context, id string) (string, bool, error) {
	f.record("geofence")
	name, ok := f.geofences[id]
	return name, ok, nil
}

func (f *fakeLookup) RouteName(_ context.Context, id string) (string, bool, error) {
	f.record("route")
	name, ok := f.routes[id]
	return name, ok, nil
}

type fakeGeocoder struct {
	addr string
	err  error

	mu       sync.Mutex
	lat, lon float64
	calls    int
}

func (g *fakeGeocoder) Reverse(_ context.Context, lat, lon float64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lat, g.lon = lat, lon
	return g.addr, g.err
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		vehicles:  map[string]string{"8800123": "TRK-01"},
		alarms:    map[string]string{"17": "Deviation Alarm", "3": "Overspeed"},
		geofences: map[string]string{"42": "Depot"},
		routes:    map[string]string{"42": "Northern loop"},
	}
}

func TestEnrichResolvesAllNames(t *testing.T) {
	refs := newFakeLookup()
	geo := &fakeGeocoder{addr: "King Fahd Rd, Riyadh"}
	e := New(refs, geo, false)

	ev := decodeEvent(t, `{"SystemNo":"8800123","Latitude":"24.7","Longitude":"46.6","AlarmType":"3","RelatedTable":"SafeZone","RelatedID":"42"}`)
	rec := e.Enrich(context.Background(), ev)

	if rec.VehicleNo != "TRK-01" {
		t.Errorf("VehicleNo = %q", rec.VehicleNo)
	}
	if rec.CurrentLocation != "King Fahd Rd, Riyadh" {
		t.Errorf("CurrentLocation = %q", rec.CurrentLocation)
	}
	if rec.AlarmName != "Overspeed" {
		t.Errorf("AlarmName = %q", rec.AlarmName)
	}
	if rec.GeofenceName != "Depot" {
		t.Errorf("GeofenceName = %q, want the safe zone name", rec.GeofenceName)
	}
	if geo.lat != 24.7 || geo.lon != 46.6 {
		t.Errorf("geocoder got (%v, %v), want (24.7, 46.6)", geo.lat, geo.lon)
	}
}

func TestEnrichPrefersRouteForDeviationAlarm(t *testing.T) {
	refs := newFakeLookup()
	e := New(refs, nil, false)

	ev := decodeEvent(t, `{"SystemNo":"8800123","AlarmType":"17","RelatedTable":"Route","RelatedID":"42"}`)
	rec := e.Enrich(context.Background(), ev)

	if rec.GeofenceName != "Northern loop" {
		t.Errorf("GeofenceName = %q, want the route name", rec.GeofenceName)
	}
	if refs.called("geofence") {
		t.Error("geofences consulted for a route deviation")
	}
}

func TestEnrichRelatedEntity(t *testing.T) {
	tests := []struct {
		name  string
		event string
		want  string
	}{
		{name: "route on other alarm type", event: `{"AlarmType":"3","RelatedTable":"Route","RelatedID":"42"}`, want: ""},
		{name: "geofence table", event: `{"AlarmType":"3","RelatedTable":"Geofence","RelatedID":"42"}`, want: "Depot"},
		{name: "missing id", event: `{"AlarmType":"17","RelatedTable":"Route"}`, want: ""},
		{name: "unknown table", event: `{"AlarmType":"3","RelatedTable":"Driver","RelatedID":"42"}`, want: ""},
		{name: "unknown zone", event: `{"AlarmType":"3","RelatedTable":"SafeZone","RelatedID":"99"}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(newFakeLookup(), nil, false)
			rec := e.Enrich(context.Background(), decodeEvent(t, tt.event))
			if rec.GeofenceName != tt.want {
				t.Errorf("GeofenceName = %q, want %q", rec.GeofenceName, tt.want)
			}
		})
	}
}

func TestEnrichFailureLeavesOtherNames(t *testing.T) {
	refs := newFakeLookup()
	refs.failVehicles = true
	geo := &fakeGeocoder{err: errors.New("timeout")}
	e := New(refs, geo, false)

	ev := decodeEvent(t, `{"SystemNo":"8800123","Latitude":"24.7","Longitude":"46.6","AlarmType":"3","RelatedTable":"SafeZone","RelatedID":"42"}`)
	rec := e.Enrich(context.Background(), ev)

	if rec.VehicleNo != "" || rec.CurrentLocation != "" {
		t.Errorf("failed lookups filled fields: VehicleNo=%q CurrentLocation=%q", rec.VehicleNo, rec.CurrentLocation)
	}
	if rec.AlarmName != "Overspeed" || rec.GeofenceName != "Depot" {
		t.Errorf("independent lookups lost: AlarmName=%q GeofenceName=%q", rec.AlarmName, rec.GeofenceName)
	}
	if rec.SystemNo != "8800123" {
		t.Errorf("record not built: %+v", rec)
	}
}

func TestEnrichSkipsLookupsWithoutInput(t *testing.T) {
	refs := newFakeLookup()
	geo := &fakeGeocoder{addr: "somewhere"}
	e := New(refs, geo, false)

	ev := decodeEvent(t, `{"Latitude":"24.7","Longitude":""}`)
	rec := e.Enrich(context.Background(), ev)

	if geo.calls != 0 {
		t.Errorf("geocoder called %d times without a longitude", geo.calls)
	}
	if refs.called("vehicle") || refs.called("alarm") {
		t.Errorf("lookups made without keys: %v", refs.calls)
	}
	if rec.CurrentLocation != "" {
		t.Errorf("CurrentLocation = %q", rec.CurrentLocation)
	}
}
