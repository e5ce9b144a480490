package core

import (
	"context"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

// Storage defines the interface for the failed-dispatch archive.
type Storage interface {
	// Archive stores a record whose dispatch failed, together with the cause.
	Archive(ctx context.Context, rec *model.Record, cause error) (string, error)

	// CheckBucket for initial
	CheckBucket(ctx context.Context) error
}
