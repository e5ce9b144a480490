package bridge

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/internal/bridge/dispatch"
	"github.com/autopeer-io/alarmbridge/internal/bridge/enrich"
	"github.com/autopeer-io/alarmbridge/internal/bridge/platform"
	"github.com/autopeer-io/alarmbridge/internal/bridge/refcache"
	"github.com/autopeer-io/alarmbridge/internal/bridge/server"
	"github.com/autopeer-io/alarmbridge/internal/bridge/stream"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

// Bridge is the main application struct: it signs in, starts one listener per
// assigned endpoint and forwards enriched alarms to the sinks.
type Bridge struct {
	session    *platform.Session
	cache      *refcache.Cache
	archive    core.Storage
	allow      *stream.AllowList
	supervisor *stream.Supervisor
	enricher   *enrich.Enricher
	pool       *dispatch.Pool

	serverManager *server.Manager

	streamOpts   *options.StreamOptions
	usePlaintext bool
	discovered   atomic.Bool
}

const maxDiscoveryBackoff = time.Minute

// Run bootstraps the bridge and blocks until ctx is cancelled. A failed
// sign-in or a rejected discovery prevents it from reaching a running state.
func (b *Bridge) Run(ctx context.Context) error {
	log.Info("Starting alarm bridge...")

	if err := b.session.SignIn(ctx); err != nil {
		return fmt.Errorf("platform sign-in failed: %w", err)
	}
	log.Info("Signed in to platform")

	if b.archive != nil {
		if err := b.archive.CheckBucket(ctx); err != nil {
			log.Error(err, "Failure archive unavailable; failed records will only be logged")
		}
	}

	endpoints, err := b.discover(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if len(endpoints) == 0 {
		log.Warn("Platform assigned no stream endpoints")
	}

	for _, ep := range endpoints {
		b.supervisor.Add(stream.NewListener(b.listenerConfig(ep)))
	}
	log.Info("Endpoints discovered", "count", len(endpoints), "plaintext", b.usePlaintext)

	return b.serverManager.Start(ctx)
}

// discover retries endpoint discovery with capped exponential backoff until it
// succeeds once. A rejected token ends the retries.
func (b *Bridge) discover(ctx context.Context) ([]model.Endpoint, error) {
	backoff := wait.Backoff{
		Duration: b.streamOpts.ReconnectDelay,
		Factor:   2,
		Jitter:   0.1,
		Steps:    math.MaxInt32,
		Cap:      maxDiscoveryBackoff,
	}

	var endpoints []model.Endpoint
	err := backoff.DelayFunc().Until(ctx, true, true, func(ctx context.Context) (bool, error) {
		eps, err := b.session.DiscoverEndpoints(ctx, b.usePlaintext)
		switch {
		case err == nil:
			endpoints = eps
			return true, nil
		case core.IsAuth(err):
			return false, fmt.Errorf("endpoint discovery rejected: %w", err)
		default:
			log.Error(err, "Endpoint discovery failed, retrying")
			return false, nil
		}
	})
	if err != nil {
		return nil, err
	}

	b.discovered.Store(true)
	return endpoints, nil
}

func (b *Bridge) listenerConfig(ep model.Endpoint) stream.ListenerConfig {
	return stream.ListenerConfig{
		Endpoint:          ep,
		Credentials:       b.session.Identity,
		AllowList:         b.allow,
		Handler:           b.handle,
		HeartbeatInterval: b.streamOpts.HeartbeatInterval,
		ReconnectDelay:    b.streamOpts.ReconnectDelay,
		HandshakeTimeout:  b.streamOpts.HandshakeTimeout,
		VerifyTLS:         b.streamOpts.VerifyTLS,
	}
}

// handle runs on the listener goroutine; Submit never blocks it.
func (b *Bridge) handle(ctx context.Context, ev *model.AlarmEvent) {
	rec := b.enricher.Enrich(ctx, ev)
	b.pool.Submit(rec)
}

// SetAllowedAlarms replaces the allow-list of every listener.
func (b *Bridge) SetAllowedAlarms(ids []string) {
	b.allow.Set(ids)
	log.Info("Allowed alarm types updated", "alarms", b.allow.IDs())
}

// Ready reports whether the session is signed in and endpoints were discovered.
func (b *Bridge) Ready() bool {
	return b.discovered.Load() && b.session.SignedIn()
}

// Health reports the state shown on the health endpoint.
func (b *Bridge) Health() model.Health {
	refs := make(map[model.Dataset]int)
	for ds, st := range b.cache.Stats() {
		refs[ds] = st.Entries
	}

	return model.Health{
		Status:        "ok",
		Listeners:     b.supervisor.Active(),
		Endpoints:     b.supervisor.Len(),
		UsePlaintext:  b.usePlaintext,
		SignedIn:      b.session.SignedIn(),
		AllowedAlarms: b.allow.IDs(),
		References:    refs,
	}
}
