package core

import (
	"context"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

// ReferenceSource fetches complete snapshots of reference datasets.
// In the bridge, this is implemented by the platform session.
type ReferenceSource interface {
	RefreshReference(ctx context.Context, ds model.Dataset) ([]model.Reference, error)
}

// ReferenceLookup resolves display names from the reference datasets.
type ReferenceLookup interface {
	Vehicle(ctx context.Context, systemNo string) (model.Reference, bool, error)
	AlarmName(ctx context.Context, alarmTypeID string) (string, bool, error)
	GeofenceName(ctx context.Context, zoneID string) (string, bool, error)
	RouteName(ctx context.Context, routeID string) (string, bool, error)
}

// Geocoder turns coordinates into a human-readable address.
type Geocoder interface {
	// Reverse returns "" with a nil error when the service knows no address.
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}
