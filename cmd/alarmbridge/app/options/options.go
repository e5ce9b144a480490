package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/alarmbridge/internal/bridge"
	"github.com/autopeer-io/alarmbridge/pkg/app"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

type AlarmBridgeOptions struct {
	PlatformOptions *options.PlatformOptions `json:"platform" mapstructure:"platform"`
	StreamOptions   *options.StreamOptions   `json:"stream" mapstructure:"stream"`
	DispatchOptions *options.DispatchOptions `json:"dispatch" mapstructure:"dispatch"`
	SoapOptions     *options.SoapOptions     `json:"soap" mapstructure:"soap"`
	GeocodeOptions  *options.GeocodeOptions  `json:"geocode" mapstructure:"geocode"`
	HttpOptions     *options.HttpOptions     `json:"http" mapstructure:"http"`
	GrpcOptions     *options.GrpcOptions     `json:"grpc" mapstructure:"grpc"`
	MqttOptions     *options.MqttOptions     `json:"mqtt" mapstructure:"mqtt"`
	RedisOptions    *options.RedisOptions    `json:"redis" mapstructure:"redis"`
	S3Options       *options.S3Options       `json:"s3" mapstructure:"s3"`
	Log             *log.Options             `json:"log" mapstructure:"log"`
}

var (
	_ app.NamedFlagSetOptions = (*AlarmBridgeOptions)(nil)
	_ app.LogOptionsGetter    = (*AlarmBridgeOptions)(nil)
)

func NewAlarmBridgeOptions() *AlarmBridgeOptions {
	o := &AlarmBridgeOptions{
		PlatformOptions: options.NewPlatformOptions(),
		StreamOptions:   options.NewStreamOptions(),
		DispatchOptions: options.NewDispatchOptions(),
		SoapOptions:     options.NewSoapOptions(),
		GeocodeOptions:  options.NewGeocodeOptions(),
		HttpOptions:     options.NewHttpOptions(),
		GrpcOptions:     options.NewGrpcOptions(),
		MqttOptions:     options.NewMqttOptions(),
		RedisOptions:    options.NewRedisOptions(),
		S3Options:       options.NewS3Options(),
		Log:             log.NewOptions(),
	}

	return o
}

func (o *AlarmBridgeOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.PlatformOptions.AddFlags(fss.FlagSet("platform"))
	o.StreamOptions.AddFlags(fss.FlagSet("stream"))
	o.DispatchOptions.AddFlags(fss.FlagSet("dispatch"))
	o.SoapOptions.AddFlags(fss.FlagSet("soap"))
	o.GeocodeOptions.AddFlags(fss.FlagSet("geocode"))
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.GrpcOptions.AddFlags(fss.FlagSet("grpc"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.RedisOptions.AddFlags(fss.FlagSet("redis"))
	o.S3Options.AddFlags(fss.FlagSet("s3"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

// Complete normalises the allow-list so that "17, 3" and "17,3" behave alike.
func (o *AlarmBridgeOptions) Complete() error {
	o.StreamOptions.AllowedAlarms = o.StreamOptions.CleanAllowedAlarms()
	return nil
}

func (o *AlarmBridgeOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.PlatformOptions.Validate()...)
	errs = append(errs, o.StreamOptions.Validate()...)
	errs = append(errs, o.DispatchOptions.Validate()...)
	errs = append(errs, o.SoapOptions.Validate()...)
	errs = append(errs, o.GeocodeOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.GrpcOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.RedisOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

func (o *AlarmBridgeOptions) LogOptions() *log.Options {
	return o.Log
}

func (o *AlarmBridgeOptions) Config() (*bridge.Config, error) {
	return &bridge.Config{
		PlatformOptions: o.PlatformOptions,
		StreamOptions:   o.StreamOptions,
		DispatchOptions: o.DispatchOptions,
		SoapOptions:     o.SoapOptions,
		GeocodeOptions:  o.GeocodeOptions,
		HttpOptions:     o.HttpOptions,
		GrpcOptions:     o.GrpcOptions,
		MqttOptions:     o.MqttOptions,
		RedisOptions:    o.RedisOptions,
		S3Options:       o.S3Options,
	}, nil
}
