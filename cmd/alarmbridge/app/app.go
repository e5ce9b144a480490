package app

import (
	"fmt"
	"sync/atomic"

	"github.com/spf13/viper"
	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/alarmbridge/cmd/alarmbridge/app/options"
	"github.com/autopeer-io/alarmbridge/internal/bridge"
	"github.com/autopeer-io/alarmbridge/pkg/app"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	genericoptions "github.com/autopeer-io/alarmbridge/pkg/options"
)

const (
	commandName = "alarmbridge"
	commandDesc = `The alarmbridge signs in to the tracking platform, listens on every
streaming endpoint assigned to the account and forwards allowed alarm events,
enriched with vehicle, location, alarm and geofence names, to the legacy
WB_Tracking_API service and the optional MQTT and Redis mirrors.`
)

// NewApp creates the alarmbridge command with its subcommands.
func NewApp() *app.App {
	opts := options.NewAlarmBridgeOptions()
	reloader := &allowListReloader{}

	application := app.NewApp(
		commandName,
		"Forward tracking platform alarms to the legacy tracking service",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts, reloader)),
		app.WithConfigReload(reloader.reload),
		app.WithCommands(newInspectCommand(opts), newVersionCommand()),
	)
	return application
}

func run(opts *options.AlarmBridgeOptions, reloader *allowListReloader) app.RunFunc {
	return func() error {
		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		b, err := cfg.NewBridge()
		if err != nil {
			return fmt.Errorf("failed to create bridge: %w", err)
		}
		reloader.bridge.Store(b)

		return b.Run(ctx)
	}
}

// allowListReloader applies stream.allowed-alarms from a changed config file.
// Other settings need a restart.
type allowListReloader struct {
	bridge atomic.Pointer[bridge.Bridge]
}

func (r *allowListReloader) reload() {
	b := r.bridge.Load()
	if b == nil {
		return
	}
	// GetStringSlice does not split "17,3,8" the way the startup decode hook does.
	ids := genericoptions.SplitAlarmIDs(viper.GetStringSlice("stream.allowed-alarms"))
	if len(ids) == 0 {
		log.Warn("Ignoring empty stream.allowed-alarms from config file")
		return
	}
	b.SetAllowedAlarms(ids)
}
