package model

import (
	"encoding/json"
	"sort"
)

// Dataset names one of the reference datasets held by the cache.
type Dataset string

const (
	DatasetVehicles   Dataset = "vehicles"
	DatasetAlarmTypes Dataset = "alarm-types"
	DatasetGeofences  Dataset = "geofences"
	DatasetRoutes     Dataset = "routes"
)

// Datasets lists every dataset in display order.
var Datasets = []Dataset{DatasetVehicles, DatasetAlarmTypes, DatasetGeofences, DatasetRoutes}

// ParseDataset accepts a dataset name as written on the command line.
func ParseDataset(s string) (Dataset, bool) {
	for _, ds := range Datasets {
		if string(ds) == s {
			return ds, true
		}
	}
	return "", false
}

// Reference is one entry of a reference dataset: a vehicle, an alarm type,
// a geofence or a route.
type Reference struct {
	// Key is SystemNo, AlarmTypeID, ZoneID or RouteID.
	Key string
	// Name is the vehicle Name, the alarm Content, ZoneName or RouteName.
	Name string
	// Fields holds every attribute the platform returned.
	Fields map[string]any
}

// MarshalJSON renders the platform's attributes.
func (r Reference) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return json.Marshal(map[string]string{"Key": r.Key, "Name": r.Name})
	}
	return json.Marshal(r.Fields)
}

// FieldNames returns the attribute names in sorted order.
func (r Reference) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
