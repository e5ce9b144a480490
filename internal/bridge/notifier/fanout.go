package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
)

var _ core.Sink = (*Fanout)(nil)

// Fanout sends each record to every sink in order. A failing sink does not
// stop the others.
type Fanout struct {
	sinks []core.Sink
}

func NewFanout(sinks ...core.Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Name() string {
	names := make([]string, 0, len(f.sinks))
	for _, s := range f.sinks {
		names = append(names, s.Name())
	}
	return strings.Join(names, ",")
}

// Len returns the number of sinks.
func (f *Fanout) Len() int {
	return len(f.sinks)
}

func (f *Fanout) Send(ctx context.Context, rec *model.Record) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Send(ctx, rec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
