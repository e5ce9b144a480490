package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

var _ core.Sink = (*RedisNotifier)(nil)

// RedisNotifier publishes every record on a pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(opts *options.RedisOptions) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisNotifier{client: client, channel: opts.Channel}
}

func (n *RedisNotifier) Name() string { return "redis" }

func (n *RedisNotifier) Send(ctx context.Context, rec *model.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return core.TransportError("redis publish", err)
	}
	return nil
}

// Start checks the server once and closes the client when ctx is done. An
// unreachable server is logged, not fatal; Send reports each failure.
func (n *RedisNotifier) Start(ctx context.Context) error {
	if err := n.client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis not reachable yet", "addr", n.client.Options().Addr, "error", err)
	} else {
		log.Info("Redis notifier started", "addr", n.client.Options().Addr, "channel", n.channel)
	}

	<-ctx.Done()

	if err := n.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}
