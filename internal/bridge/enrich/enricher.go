package enrich

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/pkg/log"
)

// routeDeviationAlarm is the alarm type whose related entity may be a route.
const routeDeviationAlarm = "17"

// Related tables an event may reference.
const (
	tableRoute    = "Route"
	tableSafeZone = "SafeZone"
	tableGeofence = "Geofence"
)

// Enricher resolves display names for an event and builds its record.
type Enricher struct {
	refs core.ReferenceLookup
	geo  core.Geocoder
	swap bool
}

// New creates an Enricher. geo may be nil to skip location lookups.
func New(refs core.ReferenceLookup, geo core.Geocoder, swapCoordinates bool) *Enricher {
	return &Enricher{refs: refs, geo: geo, swap: swapCoordinates}
}

// Enrich resolves the four display names concurrently and assembles the
// record. A failed or empty lookup leaves its field blank; it never stops the
// other lookups or the record.
func (e *Enricher) Enrich(ctx context.Context, ev *model.AlarmEvent) *model.Record {
	var names Names
	logger := log.WithValues("systemNo", ev.SystemNo.Trimmed(), "alarmType", ev.AlarmTypeID())

	// Every resolver returns nil so that none cancels the others.
	var g errgroup.Group

	if systemNo := ev.SystemNo.Trimmed(); systemNo != "" {
		g.Go(func() error {
			ref, ok, err := e.refs.Vehicle(ctx, systemNo)
			report(logger, "vehicle", systemNo, ok, err)
			names.VehicleNo = ref.Name
			return nil
		})
	}

	if lat, lon, ok := coordinates(ev); ok && e.geo != nil {
		g.Go(func() error {
			addr, err := e.geo.Reverse(ctx, lat, lon)
			if err != nil {
				logger.Warn("Reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
				return nil
			}
			names.CurrentLocation = addr
			return nil
		})
	}

	if alarmType := ev.AlarmTypeID(); alarmType != "" {
		g.Go(func() error {
			name, ok, err := e.refs.AlarmName(ctx, alarmType)
			report(logger, "alarm type", alarmType, ok, err)
			names.AlarmName = name
			return nil
		})
	}

	if resolve, id := e.relatedResolver(ev); resolve != nil {
		g.Go(func() error {
			name, ok, err := resolve(ctx, id)
			report(logger, "related entity", id, ok, err)
			names.GeofenceName = name
			return nil
		})
	}

	_ = g.Wait()

	return BuildRecord(ev, names, e.swap)
}

// relatedResolver picks the lookup for the event's related entity. Route
// deviation alarms tied to a Route resolve through routes; anything tied to a
// safe zone resolves through geofences.
func (e *Enricher) relatedResolver(ev *model.AlarmEvent) (func(context.Context, string) (string, bool, error), string) {
	id := ev.RelatedID.Trimmed()
	if id == "" {
		return nil, ""
	}

	table := ev.RelatedTable.Trimmed()
	switch {
	case ev.AlarmTypeID() == routeDeviationAlarm && table == tableRoute:
		return e.refs.RouteName, id
	case strings.EqualFold(table, tableSafeZone) || strings.EqualFold(table, tableGeofence):
		return e.refs.GeofenceName, id
	default:
		return nil, ""
	}
}

// coordinates returns the event position when both parts are present and numeric.
func coordinates(ev *model.AlarmEvent) (lat, lon float64, ok bool) {
	lat, okLat := ev.Latitude.Float()
	lon, okLon := ev.Longitude.Float()
	return lat, lon, okLat && okLon
}

func report(logger log.Logger, what, key string, found bool, err error) {
	switch {
	case err != nil:
		logger.Warn("Reference lookup failed", "kind", what, "key", key, "error", err)
	case !found:
		logger.Debug("Reference not found", "kind", what, "key", key)
	}
}
