package options

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/autopeer-io/alarmbridge/pkg/mqtt"
)

var _ IOptions = (*MqttOptions)(nil)

// MqttOptions configures the optional MQTT mirror of dispatched alarm records.
type MqttOptions struct {
	// Broker is the broker URL. Empty disables the MQTT sink.
	Broker   string `json:"broker" mapstructure:"broker"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	ClientID string `json:"client-id" mapstructure:"client-id"`

	KeepAlive      time.Duration `json:"keep-alive" mapstructure:"keep-alive"`
	ConnectTimeout time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`

	// InsecureSkipVerify controls whether the client verifies the broker's certificate chain and host name.
	InsecureSkipVerify bool `json:"insecure-skip-verify" mapstructure:"insecure-skip-verify"`

	// TopicRoot prefixes every published topic: {TopicRoot}/alarm/{SystemNo}/{AlarmTypeID}.
	TopicRoot string `json:"topic-root" mapstructure:"topic-root"`
}

// NewMqttOptions creates a new MqttOptions with default values.
func NewMqttOptions() *MqttOptions {
	return &MqttOptions{
		KeepAlive:      60 * time.Second,
		ConnectTimeout: 5 * time.Second,
		TopicRoot:      "alarmbridge/v1",
	}
}

// Enabled reports whether a broker has been configured.
func (o *MqttOptions) Enabled() bool {
	return o != nil && o.Broker != ""
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *MqttOptions) Validate() []error {
	if !o.Enabled() {
		return nil
	}

	errors := []error{}
	if err := o.ToClientConfig("").Validate(); err != nil {
		errors = append(errors, fmt.Errorf("invalid mqtt options: %w", err))
	}
	if o.TopicRoot == "" {
		errors = append(errors, fmt.Errorf("mqtt.topic-root must not be empty"))
	}

	return errors
}

// AddFlags adds flags for MqttOptions to the specified FlagSet.
func (o *MqttOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Broker, "mqtt.broker", o.Broker, "URL of the MQTT broker receiving a copy of every alarm record. Empty disables it.")
	fs.StringVar(&o.Username, "mqtt.username", o.Username, "The username for MQTT authentication.")
	fs.StringVar(&o.Password, "mqtt.password", o.Password, "The password for MQTT authentication.")
	fs.StringVar(&o.ClientID, "mqtt.client-id", o.ClientID, "Explicit Client ID (optional, generated from the hostname).")

	fs.DurationVar(&o.KeepAlive, "mqtt.keep-alive", o.KeepAlive, "MQTT Keep Alive interval.")
	fs.DurationVar(&o.ConnectTimeout, "mqtt.connect-timeout", o.ConnectTimeout, "Timeout for establishing MQTT connection.")
	fs.BoolVar(&o.InsecureSkipVerify, "mqtt.insecure-skip-verify", o.InsecureSkipVerify, "If true, skips the TLS certificate verification.")

	fs.StringVar(&o.TopicRoot, "mqtt.topic-root", o.TopicRoot, "Topic prefix for published alarm records.")
}

// ResolvedClientID returns the configured client id, or one derived from the hostname.
func (o *MqttOptions) ResolvedClientID() string {
	if o.ClientID != "" {
		return o.ClientID
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return "alarmbridge-" + host
}

// ToClientConfig converts the options into a pkg/mqtt client configuration.
// statusTopic may be empty to skip liveness publishing.
func (o *MqttOptions) ToClientConfig(statusTopic string) *mqtt.ClientConfig {
	return &mqtt.ClientConfig{
		BrokerURL:          o.Broker,
		Username:           o.Username,
		Password:           o.Password,
		ClientID:           o.ResolvedClientID(),
		KeepAlive:          uint16(o.KeepAlive.Seconds()),
		ConnectTimeout:     o.ConnectTimeout,
		CleanStart:         true,
		InsecureSkipVerify: o.InsecureSkipVerify,
		StatusTopic:        statusTopic,
	}
}
