// Package refcache holds the reference datasets used to enrich alarms.
//
// Each dataset is an immutable snapshot behind an atomic pointer. A lookup
// miss fetches the whole dataset again and swaps the snapshot; concurrent
// misses are not coalesced and the last completed fetch wins.
package refcache

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

// alarmRenames maps platform alarm names to the names used downstream.
var alarmRenames = map[string]string{
	"Yaw Alarm":          "Deviation Alarm",
	"Engine Start Alarm": "Movement Alarm",
}

var _ core.ReferenceLookup = (*Cache)(nil)

type table map[string]model.Reference

type slot struct {
	snapshot  atomic.Pointer[table]
	refreshes atomic.Int64
}

// Cache is a lazily populated store of reference datasets.
type Cache struct {
	source core.ReferenceSource
	slots  map[model.Dataset]*slot
}

// New creates an empty cache that refreshes from source.
func New(source core.ReferenceSource) *Cache {
	c := &Cache{
		source: source,
		slots:  make(map[model.Dataset]*slot, len(model.Datasets)),
	}
	for _, ds := range model.Datasets {
		c.slots[ds] = &slot{}
	}
	return c
}

// Lookup returns the entry for key, refreshing the dataset once on a miss.
func (c *Cache) Lookup(ctx context.Context, ds model.Dataset, key string) (model.Reference, bool, error) {
	s, ok := c.slots[ds]
	if !ok {
		return model.Reference{}, false, nil
	}

	k := normalizeKey(ds, key)
	if t := s.snapshot.Load(); t != nil {
		if ref, ok := (*t)[k]; ok {
			return ref, true, nil
		}
	}

	t, err := c.refresh(ctx, ds, s)
	if err != nil {
		return model.Reference{}, false, err
	}
	ref, ok := t[k]
	return ref, ok, nil
}

func (c *Cache) refresh(ctx context.Context, ds model.Dataset, s *slot) (table, error) {
	s.refreshes.Add(1)

	refs, err := c.source.RefreshReference(ctx, ds)
	if err != nil {
		return nil, err
	}

	t := make(table, len(refs))
	for _, ref := range refs {
		t[normalizeKey(ds, ref.Key)] = ref
	}
	s.snapshot.Store(&t)
	return t, nil
}

// Vehicle resolves a vehicle by SystemNo.
func (c *Cache) Vehicle(ctx context.Context, systemNo string) (model.Reference, bool, error) {
	return c.Lookup(ctx, model.DatasetVehicles, systemNo)
}

// AlarmName resolves the display name of an alarm type.
func (c *Cache) AlarmName(ctx context.Context, alarmTypeID string) (string, bool, error) {
	ref, ok, err := c.Lookup(ctx, model.DatasetAlarmTypes, alarmTypeID)
	if !ok {
		return "", false, err
	}
	return RenameAlarm(ref.Name), true, nil
}

// GeofenceName resolves a geofence by ZoneID, ignoring case.
func (c *Cache) GeofenceName(ctx context.Context, zoneID string) (string, bool, error) {
	ref, ok, err := c.Lookup(ctx, model.DatasetGeofences, zoneID)
	return ref.Name, ok, err
}

// RouteName resolves a route by RouteID.
func (c *Cache) RouteName(ctx context.Context, routeID string) (string, bool, error) {
	ref, ok, err := c.Lookup(ctx, model.DatasetRoutes, routeID)
	return ref.Name, ok, err
}

// Stats is a point-in-time view of one dataset.
type Stats struct {
	Entries   int
	Refreshes int64
}

// Stats returns entry and refresh counts for every dataset.
func (c *Cache) Stats() map[model.Dataset]Stats {
	out := make(map[model.Dataset]Stats, len(c.slots))
	for ds, s := range c.slots {
		st := Stats{Refreshes: s.refreshes.Load()}
		if t := s.snapshot.Load(); t != nil {
			st.Entries = len(*t)
		}
		out[ds] = st
	}
	return out
}

// RenameAlarm applies the downstream naming rules to a platform alarm name.
func RenameAlarm(name string) string {
	if renamed, ok := alarmRenames[name]; ok {
		return renamed
	}
	return name
}

func normalizeKey(ds model.Dataset, key string) string {
	key = strings.TrimSpace(key)
	if ds == model.DatasetGeofences {
		return strings.ToLower(key)
	}
	return key
}
