package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"murmur/internal/metrics"
)

const publishTimeout = 2 * time.Second

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channels []string, handler func(channel string, payload []byte)) error
}

// envelope is the cluster wire format for one relayed message
type envelope struct {
	Origin string `json:"origin"`
	Sender string `json:"sender"`
	Kind   int    `json:"kind"`
	Data   []byte `json:"data"`
}

// RedisBridge joins the hubs of several instances through one pub/sub channel.
// Locally relayed messages are published; messages published by other
// instances are broadcast to every local peer except the original sender.
type RedisBridge struct {
	hub        *Hub
	publisher  Publisher
	subscriber Subscriber
	channel    string
	instanceID string
	logger     *WebSocketLogger
}

func NewRedisBridge(hub *Hub, publisher Publisher, subscriber Subscriber, channel string, logger *WebSocketLogger) *RedisBridge {
	if logger == nil {
		logger = NewWebSocketLogger()
	}
	return &RedisBridge{
		hub:        hub,
		publisher:  publisher,
		subscriber: subscriber,
		channel:    channel,
		instanceID: uuid.New().String(),
		logger:     logger,
	}
}

// InstanceID identifies this process on the shared channel
func (b *RedisBridge) InstanceID() string {
	return b.instanceID
}

// OnRelay implements RelayObserver. Publish failures never affect local delivery.
func (b *RedisBridge) OnRelay(senderID string, msg Message) {
	payload, err := json.Marshal(envelope{
		Origin: b.instanceID,
		Sender: senderID,
		Kind:   msg.Kind,
		Data:   msg.Data,
	})
	if err != nil {
		metrics.BridgeErrorsTotal.WithLabelValues("encode").Inc()
		b.logger.Error("bridge encode failed", senderID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := b.publisher.Publish(ctx, b.channel, payload); err != nil {
		metrics.BridgeErrorsTotal.WithLabelValues("publish").Inc()
		b.logger.Error("bridge publish failed", senderID, err)
	}
}

// Run consumes the shared channel until ctx is cancelled
func (b *RedisBridge) Run(ctx context.Context) error {
	err := b.subscriber.Subscribe(ctx, []string{b.channel}, b.handle)
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return nil
	}
	return err
}

func (b *RedisBridge) handle(_ string, payload []byte) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		metrics.BridgeErrorsTotal.WithLabelValues("decode").Inc()
		b.logger.Warn("bridge decode failed", "", zap.Error(err))
		return
	}
	if env.Origin == b.instanceID {
		return
	}

	metrics.RelayMessagesTotal.WithLabelValues(metrics.SourceRemote).Inc()
	b.hub.BroadcastExcept(Message{Kind: env.Kind, Data: env.Data}, env.Sender)
}
