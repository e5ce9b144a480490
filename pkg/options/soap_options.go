package options

import (
	"fmt"
	"net/url"

	"github.com/spf13/pflag"
)

var _ IOptions = (*SoapOptions)(nil)

// SoapOptions configures the legacy WB_Tracking_API page service.
type SoapOptions struct {
	// Endpoint is the service URL. Empty disables the SOAP sink.
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// Username and Password enable NTLM authentication when both are set.
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`

	Namespace          string `json:"namespace" mapstructure:"namespace"`
	InsecureSkipVerify bool   `json:"insecure-skip-verify" mapstructure:"insecure-skip-verify"`
}

func NewSoapOptions() *SoapOptions {
	return &SoapOptions{
		Namespace: "urn:microsoft-dynamics-schemas/page/wb_tracking_api",
	}
}

// Enabled reports whether an endpoint has been configured.
func (o *SoapOptions) Enabled() bool {
	return o != nil && o.Endpoint != ""
}

func (o *SoapOptions) Validate() []error {
	if !o.Enabled() {
		return nil
	}

	var errs []error
	if _, err := url.ParseRequestURI(o.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("invalid soap.endpoint: %w", err))
	}
	if (o.Username == "") != (o.Password == "") {
		errs = append(errs, fmt.Errorf("soap.username and soap.password must be set together"))
	}

	return errs
}

func (o *SoapOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Endpoint, "soap.endpoint", o.Endpoint, "URL of the WB_Tracking_API SOAP service. Empty disables it.")
	fs.StringVar(&o.Username, "soap.username", o.Username, "NTLM user name (DOMAIN\\user or user@domain).")
	fs.StringVar(&o.Password, "soap.password", o.Password, "NTLM password.")
	fs.StringVar(&o.Namespace, "soap.namespace", o.Namespace, "Target namespace of the page service.")
	fs.BoolVar(&o.InsecureSkipVerify, "soap.insecure-skip-verify", o.InsecureSkipVerify, "If true, skips the TLS certificate verification.")
}
