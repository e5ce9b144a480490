package options

import (
	"errors"

	"github.com/spf13/pflag"
)

var _ IOptions = (*RedisOptions)(nil)

// RedisOptions configures the optional Redis pub/sub sink.
type RedisOptions struct {
	// Addr of the Redis server. Empty disables the sink.
	Addr     string `json:"addr" mapstructure:"addr"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`
	Channel  string `json:"channel" mapstructure:"channel"`
}

func NewRedisOptions() *RedisOptions {
	return &RedisOptions{
		Channel: "alarmbridge:alarms",
	}
}

// Enabled reports whether an address has been configured.
func (o *RedisOptions) Enabled() bool {
	return o != nil && o.Addr != ""
}

func (o *RedisOptions) Validate() []error {
	if !o.Enabled() {
		return nil
	}

	var errs []error
	if err := ValidateAddress(o.Addr); err != nil {
		errs = append(errs, err)
	}
	if o.Channel == "" {
		errs = append(errs, errors.New("redis.channel must not be empty"))
	}

	return errs
}

func (o *RedisOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Addr, "redis.addr", o.Addr, "Redis address receiving published alarm records. Empty disables it.")
	fs.StringVar(&o.Password, "redis.password", o.Password, "Redis password.")
	fs.IntVar(&o.DB, "redis.db", o.DB, "Redis database index.")
	fs.StringVar(&o.Channel, "redis.channel", o.Channel, "Pub/sub channel for alarm records.")
}
