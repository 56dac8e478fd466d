package navigate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LMascagni/simasm/pkg/buildinfo"
	"github.com/LMascagni/simasm/pkg/errors"
)

// DefaultChannel is the Redis channel navigation messages are published on.
const DefaultChannel = "simasm:navigate"

// RedisConfig configures a RedisNavigator.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
	// Timeout bounds connection checks and each publish.
	Timeout time.Duration
}

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// envelope is the published payload: the host message plus routing data for
// bridges that serve several views.
type envelope struct {
	Message
	View   string `json:"view,omitempty"`
	Source string `json:"source"`
}

// RedisNavigator publishes messages on a Redis channel.
type RedisNavigator struct {
	client  publisher
	channel string
	view    string
	timeout time.Duration
}

// NewRedisNavigator connects to Redis and checks the connection.
func NewRedisNavigator(ctx context.Context, cfg RedisConfig, view string) (*RedisNavigator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	n := newRedisNavigator(client, cfg, view)

	pingCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNavigationFailed, err, "connect to redis at %s", cfg.Addr)
	}
	return n, nil
}

func newRedisNavigator(client publisher, cfg RedisConfig, view string) *RedisNavigator {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &RedisNavigator{client: client, channel: cfg.Channel, view: view, timeout: cfg.Timeout}
}

// Channel returns the channel messages are published on.
func (n *RedisNavigator) Channel() string { return n.channel }

// Navigate implements Navigator.
func (n *RedisNavigator) Navigate(ctx context.Context, m Message) error {
	payload, err := json.Marshal(envelope{Message: m, View: n.view, Source: buildinfo.UserAgent()})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNavigationFailed, err, "encode message")
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeNavigationFailed, err, "publish to %s", n.channel)
	}
	return nil
}

// Close implements Navigator.
func (n *RedisNavigator) Close() error {
	return n.client.Close()
}
