package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*GeocodeOptions)(nil)

// GeocodeOptions configures the Nominatim-compatible reverse geocoder.
type GeocodeOptions struct {
	// URL of the /reverse endpoint. Empty disables location enrichment.
	URL       string        `json:"url" mapstructure:"url"`
	UserAgent string        `json:"user-agent" mapstructure:"user-agent"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
}

func NewGeocodeOptions() *GeocodeOptions {
	return &GeocodeOptions{
		URL:       "http://localhost:8080/reverse",
		UserAgent: "alarmbridge/1.0",
		Timeout:   10 * time.Second,
	}
}

func (o *GeocodeOptions) Validate() []error {
	if o.URL == "" {
		return nil
	}

	var errs []error
	if _, err := url.ParseRequestURI(o.URL); err != nil {
		errs = append(errs, fmt.Errorf("invalid geocode.url: %w", err))
	}

	return errs
}

func (o *GeocodeOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.URL, "geocode.url", o.URL, "Reverse geocoding endpoint. Empty disables location enrichment.")
	fs.StringVar(&o.UserAgent, "geocode.user-agent", o.UserAgent, "User-Agent sent to the geocoder.")
	fs.DurationVar(&o.Timeout, "geocode.timeout", o.Timeout, "Timeout of a single geocoding call.")
}
