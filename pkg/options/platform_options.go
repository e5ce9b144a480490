package options

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
)

var _ IOptions = (*PlatformOptions)(nil)

// PlatformOptions configures access to the fleet-tracking platform API.
type PlatformOptions struct {
	// URL is the single form-post endpoint every platform call goes to.
	URL string `json:"url" mapstructure:"url"`

	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`

	// LanguageType is the locale tag sent with every call.
	LanguageType string `json:"language-type" mapstructure:"language-type"`

	// Origin is sent as the Origin header; the platform rejects calls without it.
	Origin string `json:"origin" mapstructure:"origin"`

	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	VerifyTLS bool          `json:"verify-tls" mapstructure:"verify-tls"`

	// RenewSchedule is a 5-field cron expression for proactive re-sign-in. Empty disables renewal.
	RenewSchedule string `json:"renew-schedule" mapstructure:"renew-schedule"`
}

func NewPlatformOptions() *PlatformOptions {
	return &PlatformOptions{
		URL:          "https://api.overseetracking.com:9090/WebProcessorApi.ashx",
		LanguageType: "2B72ABC6-19D7-4653-AAEE-0BE542026D46",
		Origin:       "https://overseetracking.com",
		Timeout:      30 * time.Second,
		VerifyTLS:    true,
	}
}

func (o *PlatformOptions) Validate() []error {
	var errs []error

	if _, err := url.ParseRequestURI(o.URL); err != nil {
		errs = append(errs, fmt.Errorf("invalid platform.url: %w", err))
	}
	if o.Username == "" || o.Password == "" {
		errs = append(errs, errors.New("platform.username and platform.password are required"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, errors.New("platform.timeout must be positive"))
	}
	if o.RenewSchedule != "" {
		if _, err := cron.ParseStandard(o.RenewSchedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid platform.renew-schedule: %w", err))
		}
	}

	return errs
}

func (o *PlatformOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.URL, "platform.url", o.URL, "Platform API endpoint receiving every form-post call.")
	fs.StringVar(&o.Username, "platform.username", o.Username, "Platform account user name.")
	fs.StringVar(&o.Password, "platform.password", o.Password, "Platform account password.")
	fs.StringVar(&o.LanguageType, "platform.language-type", o.LanguageType, "Locale tag sent as LanguageType.")
	fs.StringVar(&o.Origin, "platform.origin", o.Origin, "Origin header sent with platform calls.")
	fs.DurationVar(&o.Timeout, "platform.timeout", o.Timeout, "Timeout of a single platform call.")
	fs.BoolVar(&o.VerifyTLS, "platform.verify-tls", o.VerifyTLS, "Verify the platform's TLS certificate.")
	fs.StringVar(&o.RenewSchedule, "platform.renew-schedule", o.RenewSchedule, "Cron expression for proactive re-sign-in (e.g. '0 */6 * * *'). Empty disables it.")
}
