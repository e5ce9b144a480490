package options

import (
	"errors"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*DispatchOptions)(nil)

// DispatchOptions sizes the worker pool that calls the sinks.
type DispatchOptions struct {
	Workers   int           `json:"workers" mapstructure:"workers"`
	QueueSize int           `json:"queue-size" mapstructure:"queue-size"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`

	// SwapCoordinates writes the event's longitude into Latitude and vice versa.
	SwapCoordinates bool `json:"swap-coordinates" mapstructure:"swap-coordinates"`
}

func NewDispatchOptions() *DispatchOptions {
	return &DispatchOptions{
		Workers:   4,
		QueueSize: 1024,
		Timeout:   30 * time.Second,
	}
}

func (o *DispatchOptions) Validate() []error {
	var errs []error

	if o.Workers < 1 {
		errs = append(errs, errors.New("dispatch.workers must be at least 1"))
	}
	if o.QueueSize < 1 {
		errs = append(errs, errors.New("dispatch.queue-size must be at least 1"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, errors.New("dispatch.timeout must be positive"))
	}

	return errs
}

func (o *DispatchOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.Workers, "dispatch.workers", o.Workers, "Number of goroutines calling the sinks.")
	fs.IntVar(&o.QueueSize, "dispatch.queue-size", o.QueueSize, "Records waiting for a worker; further records are dropped.")
	fs.DurationVar(&o.Timeout, "dispatch.timeout", o.Timeout, "Timeout of a single sink call.")
	fs.BoolVar(&o.SwapCoordinates, "dispatch.swap-coordinates", o.SwapCoordinates, "Write longitude into the Latitude field and latitude into Longitude.")
}
