package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/internal/pkg/metrics"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

// Pool hands records to the sink from a fixed set of workers, so a slow sink
// never blocks the listeners.
type Pool struct {
	sink    core.Sink
	archive core.Storage
	queue   chan *model.Record
	workers int
	timeout time.Duration
	log     log.Logger
}

// NewPool creates a pool for sink. archive may be nil.
func NewPool(sink core.Sink, opts *options.DispatchOptions, archive core.Storage) *Pool {
	return &Pool{
		sink:    sink,
		archive: archive,
		queue:   make(chan *model.Record, opts.QueueSize),
		workers: opts.Workers,
		timeout: opts.Timeout,
		log:     log.WithName("dispatch").WithValues("sink", sink.Name()),
	}
}

// Submit queues rec without blocking. It returns false when the queue is full
// and the record was dropped.
func (p *Pool) Submit(rec *model.Record) bool {
	select {
	case p.queue <- rec:
		return true
	default:
		metrics.DispatchDropped.Inc()
		p.log.Warn("Dispatch queue full, dropping record",
			"systemNo", rec.SystemNo, "alarmType", rec.AlarmTypeID, "queueSize", cap(p.queue))
		return false
	}
}

// Pending returns the number of queued records.
func (p *Pool) Pending() int {
	return len(p.queue)
}

// Start runs the workers until ctx is cancelled. Queued records are not
// drained on shutdown.
func (p *Pool) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for range p.workers {
		g.Go(func() error {
			p.work(ctx)
			return nil
		})
	}

	p.log.Info("Dispatch workers started", "workers", p.workers, "queueSize", cap(p.queue))
	return g.Wait()
}

func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-p.queue:
			p.send(ctx, rec)
		}
	}
}

// send makes exactly one attempt; failed records are archived, never retried.
func (p *Pool) send(ctx context.Context, rec *model.Record) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	err := p.sink.Send(callCtx, rec)
	metrics.DispatchLatency.Observe(time.Since(start).Seconds())
	metrics.AlarmsDispatched.WithLabelValues(metrics.Result(err)).Inc()

	if err == nil {
		p.log.Debug("Record dispatched", "systemNo", rec.SystemNo, "alarmType", rec.AlarmTypeID)
		return
	}

	payload, _ := json.Marshal(rec)
	p.log.Error(err, "Dispatch failed", "systemNo", rec.SystemNo, "payload", string(payload))

	if p.archive == nil || ctx.Err() != nil {
		return
	}

	archiveCtx, cancelArchive := context.WithTimeout(ctx, p.timeout)
	defer cancelArchive()

	key, aerr := p.archive.Archive(archiveCtx, rec, err)
	if aerr != nil {
		p.log.Error(aerr, "Failed to archive failed record", "systemNo", rec.SystemNo)
		return
	}
	p.log.Info("Failed record archived", "systemNo", rec.SystemNo, "object", key)
}
