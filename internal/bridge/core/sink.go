package core

import (
	"context"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

// Sink receives enriched alarm records.
// The SOAP client, the MQTT and Redis notifiers and their fan-out implement it.
type Sink interface {
	// Name identifies the sink in logs and metrics.
	Name() string

	// Send delivers one record. It is called from dispatch workers only.
	Send(ctx context.Context, rec *model.Record) error
}
