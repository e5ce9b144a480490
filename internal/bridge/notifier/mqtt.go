package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	pkgmqtt "github.com/autopeer-io/alarmbridge/pkg/mqtt"
	"github.com/autopeer-io/alarmbridge/pkg/mqtt/topic"
)

var _ core.Sink = (*MQTTNotifier)(nil)

// alarmQoS is at-least-once; subscribers must tolerate duplicates.
const alarmQoS = 1

// MQTTNotifier mirrors every record to the broker.
type MQTTNotifier struct {
	client pkgmqtt.Client
	topics *topic.TopicBuilder
}

func NewMQTTNotifier(client pkgmqtt.Client, builder *topic.TopicBuilder) *MQTTNotifier {
	return &MQTTNotifier{
		client: client,
		topics: builder,
	}
}

func (n *MQTTNotifier) Name() string { return "mqtt" }

// Send publishes rec to {root}/alarm/{SystemNo}/{AlarmTypeID}.
func (n *MQTTNotifier) Send(ctx context.Context, rec *model.Record) error {
	if !n.client.IsConnected() {
		return core.TransportError("mqtt publish", fmt.Errorf("not connected to broker"))
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	t := n.topics.Alarm(rec.SystemNo, rec.AlarmTypeID)
	if err := n.client.Publish(ctx, t, alarmQoS, false, payload); err != nil {
		return core.TransportError("mqtt publish", err)
	}
	return nil
}

// Start connects to the broker and keeps the connection until ctx is done.
func (n *MQTTNotifier) Start(ctx context.Context) error {
	if err := n.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start mqtt client: %w", err)
	}
	log.Info("MQTT notifier started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n.client.Disconnect(shutdownCtx)
	return nil
}
