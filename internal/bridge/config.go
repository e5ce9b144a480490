package bridge

import (
	"errors"
	"fmt"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/dispatch"
	"github.com/autopeer-io/alarmbridge/internal/bridge/enrich"
	"github.com/autopeer-io/alarmbridge/internal/bridge/geocode"
	"github.com/autopeer-io/alarmbridge/internal/bridge/notifier"
	"github.com/autopeer-io/alarmbridge/internal/bridge/platform"
	"github.com/autopeer-io/alarmbridge/internal/bridge/refcache"
	"github.com/autopeer-io/alarmbridge/internal/bridge/server"
	"github.com/autopeer-io/alarmbridge/internal/bridge/server/grpc"
	"github.com/autopeer-io/alarmbridge/internal/bridge/server/http"
	"github.com/autopeer-io/alarmbridge/internal/bridge/soap"
	"github.com/autopeer-io/alarmbridge/internal/bridge/storage"
	"github.com/autopeer-io/alarmbridge/internal/bridge/stream"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	pkgmqtt "github.com/autopeer-io/alarmbridge/pkg/mqtt"
	"github.com/autopeer-io/alarmbridge/pkg/mqtt/topic"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

var errNoSink = errors.New("no sink configured: set at least one of soap.endpoint, mqtt.broker or redis.addr")

type Config struct {
	PlatformOptions *options.PlatformOptions
	StreamOptions   *options.StreamOptions
	DispatchOptions *options.DispatchOptions
	SoapOptions     *options.SoapOptions
	GeocodeOptions  *options.GeocodeOptions
	HttpOptions     *options.HttpOptions
	GrpcOptions     *options.GrpcOptions
	MqttOptions     *options.MqttOptions
	RedisOptions    *options.RedisOptions
	S3Options       *options.S3Options
}

// NewBridge builds every component and wires them together. Nothing connects
// until Run.
func (cfg *Config) NewBridge() (*Bridge, error) {
	session := platform.NewSession(cfg.PlatformOptions)
	cache := refcache.New(session)

	// Infrastructure: Geocoder (optional)
	var geo core.Geocoder
	if n := geocode.NewNominatim(cfg.GeocodeOptions); n != nil {
		geo = n
	}

	// Infrastructure: Sinks (Secondary Adapters)
	var (
		sinks    []core.Sink
		services []server.Server
	)
	if cfg.SoapOptions.Enabled() {
		sinks = append(sinks, soap.NewClient(cfg.SoapOptions))
	}
	if cfg.MqttOptions.Enabled() {
		topics := topic.NewTopicBuilder(cfg.MqttOptions.TopicRoot)
		statusTopic := topics.Status(cfg.MqttOptions.ResolvedClientID())

		mqttClient, err := pkgmqtt.NewClient(cfg.MqttOptions.ToClientConfig(statusTopic))
		if err != nil {
			return nil, fmt.Errorf("failed to init mqtt client: %w", err)
		}
		n := notifier.NewMQTTNotifier(mqttClient, topics)
		sinks = append(sinks, n)
		services = append(services, n)
	}
	if cfg.RedisOptions.Enabled() {
		n := notifier.NewRedisNotifier(cfg.RedisOptions)
		sinks = append(sinks, n)
		services = append(services, n)
	}
	if len(sinks) == 0 {
		return nil, errNoSink
	}

	// Infrastructure: Archive (optional)
	var archive core.Storage
	if cfg.S3Options.Enabled() {
		m, err := storage.NewMinIO(cfg.S3Options)
		if err != nil {
			return nil, err
		}
		archive = m
	}

	b := &Bridge{
		session:      session,
		cache:        cache,
		archive:      archive,
		allow:        stream.NewAllowList(cfg.StreamOptions.CleanAllowedAlarms()),
		supervisor:   stream.NewSupervisor(),
		enricher:     enrich.New(cache, geo, cfg.DispatchOptions.SwapCoordinates),
		pool:         dispatch.NewPool(notifier.NewFanout(sinks...), cfg.DispatchOptions, archive),
		streamOpts:   cfg.StreamOptions,
		usePlaintext: cfg.StreamOptions.UsePlaintext,
	}

	// Ingress Servers (Primary Adapters)
	srvManager := server.NewManager(b.supervisor, b.pool)
	srvManager.Add(services...)
	if r := platform.NewRenewer(session, cfg.PlatformOptions.RenewSchedule); r != nil {
		srvManager.Add(r)
	}
	if cfg.HttpOptions.Addr != "" {
		srvManager.Add(http.NewServer(cfg.HttpOptions, b, cache, geo))
	}
	if cfg.GrpcOptions.Addr != "" {
		srvManager.Add(grpc.NewServer(cfg.GrpcOptions, b.Ready))
	}
	b.serverManager = srvManager

	log.Info("Bridge configured", "sinks", len(sinks), "archive", archive != nil, "geocoder", geo != nil)
	return b, nil
}
