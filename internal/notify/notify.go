// internal/notify/notify.go
package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Channel is the best-effort alert sink used by the margin guard on blocked
// and risky evaluations. Failures are never fatal to the evaluation.
type Channel interface {
	Send(ctx context.Context, message string) error
}

// RedisChannel publishes alerts on a redis pub/sub channel consumed by the
// messaging front-end.
type RedisChannel struct {
	client  *redis.Client
	channel string
}

func NewRedisChannel(client *redis.Client, channel string) *RedisChannel {
	return &RedisChannel{client: client, channel: channel}
}

func (c *RedisChannel) Send(ctx context.Context, message string) error {
	return c.client.Publish(ctx, c.channel, message).Err()
}

// LogChannel writes alerts to the application log. Used when no pub/sub
// channel is configured so alerting degrades instead of disappearing.
type LogChannel struct{}

func NewLogChannel() *LogChannel {
	return &LogChannel{}
}

func (c *LogChannel) Send(_ context.Context, message string) error {
	log.Warn().Str("alert", message).Msg("margin alert")
	return nil
}

const dispatchTimeout = 5 * time.Second

// Dispatch sends the messages fire-and-forget: a detached goroutine with a
// bounded timeout, failures logged and swallowed. The caller's context is
// deliberately not inherited so an already-answered request cannot cancel
// the alert mid-flight.
func Dispatch(ch Channel, messages []string) {
	if ch == nil || len(messages) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		for _, msg := range messages {
			if err := ch.Send(ctx, msg); err != nil {
				log.Warn().Err(err).Str("message", msg).Msg("alert notification failed")
			}
		}
	}()
}
