// Package redisbus is an eventbus.Bus/eventbus.Publisher backed by Redis
// Pub/Sub: snapshots are JSON-encoded and broadcast on a channel, so
// subscribers can live in a different process (or host) than the
// publisher.
//
// Pub/Sub gives no delivery guarantee to subscribers that aren't
// connected at publish time, so unlike memorybus, redisbus cannot hand a
// freshly-subscribed consumer the last published snapshot for free — a
// consumer that needs that guarantee should seed itself from the
// reactivearray.Array directly before subscribing here.
package redisbus

import (
	"context"
	"encoding/json"

	"github.com/edirooss/zmux-server/reactivearray"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Bus is an eventbus.Bus[T]/eventbus.Publisher[T] backed by a Redis
// channel. The zero value is not usable; construct with New.
type Bus[T any] struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

// New returns a Bus that publishes to, and subscribes on, the given Redis
// Pub/Sub channel name.
func New[T any](client *redis.Client, channel string, log *zap.Logger) *Bus[T] {
	return &Bus[T]{client: client, channel: channel, log: log.Named("redisbus")}
}

// Publish JSON-encodes snap and publishes it on the bus's channel. Encode
// or transport failures are logged, not returned, matching the
// fire-and-forget nature of Pub/Sub publication elsewhere in this module's
// lineage.
func (b *Bus[T]) Publish(snap reactivearray.Snapshot[T]) {
	payload, err := json.Marshal(snap)
	if err != nil {
		b.log.Error("encode snapshot", zap.Error(err))
		return
	}
	if err := b.client.Publish(context.Background(), b.channel, payload).Err(); err != nil {
		b.log.Error("publish snapshot", zap.String("channel", b.channel), zap.Error(err))
	}
}

// Close releases the underlying client.
func (b *Bus[T]) Close() error {
	return b.client.Close()
}

// Subscribe subscribes to the bus's Redis channel and decodes each
// message into a Snapshot. Decode failures are logged and the message is
// dropped rather than terminating the subscription. The channel closes
// when ctx is done.
func (b *Bus[T]) Subscribe(ctx context.Context) <-chan reactivearray.Snapshot[T] {
	pubsub := b.client.Subscribe(ctx, b.channel)
	out := make(chan reactivearray.Snapshot[T])

	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var snap reactivearray.Snapshot[T]
				if err := json.Unmarshal([]byte(msg.Payload), &snap); err != nil {
					b.log.Error("decode snapshot", zap.String("channel", b.channel), zap.Error(err))
					continue
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
