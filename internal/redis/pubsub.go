package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends payload to channel. The number of receiving subscribers is not
// reported; a message nobody listens to is not an error.
func (p *Publisher) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe blocks delivering messages to handler until ctx is cancelled.
// Dropped connections are re-established and resubscribed by the client.
// Cancellation is reported as ctx.Err().
func (s *Subscriber) Subscribe(ctx context.Context, channels []string, handler func(channel string, payload []byte)) error {
	sub := s.client.Subscribe(ctx, channels...)
	defer sub.Close()

	// wait for the subscription to be confirmed before handing out messages
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %v: %w", channels, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription to %v closed", channels)
			}
			if msg == nil {
				continue
			}
			handler(msg.Channel, []byte(msg.Payload))
		}
	}
}
