package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	redis "github.com/redis/go-redis/v9"
)

const groupChannelPrefix = "pingo:group:"

// RedisBroadcaster is a Broadcaster whose publishes cross process boundaries
// via Redis pub/sub. Local subscribers are tracked in an embedded GroupHub;
// one Redis subscription is held per group with at least one local member,
// and inbound Redis messages are fanned out through the hub.
type RedisBroadcaster struct {
	client *redis.Client
	local  *GroupHub
	logger *slog.Logger

	mu     sync.Mutex
	relays map[string]*groupRelay
}

type groupRelay struct {
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewRedisBroadcaster constructs a broadcaster over an existing Redis client.
func NewRedisBroadcaster(client *redis.Client, logger *slog.Logger) *RedisBroadcaster {
	return &RedisBroadcaster{
		client: client,
		local:  NewGroupHub(),
		logger: logger,
		relays: make(map[string]*groupRelay),
	}
}

var _ Broadcaster = (*RedisBroadcaster)(nil)

// Subscribe registers sub locally and opens the group's Redis subscription
// when sub becomes the group's first local member. Duplicate subscriptions of
// the same handle never open a second relay.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, group string, sub Subscriber) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	added, first := b.local.join(group, sub)
	if !added || !first {
		return nil
	}
	pubsub := b.client.Subscribe(context.WithoutCancel(ctx), channelName(group))
	relay := &groupRelay{pubsub: pubsub, done: make(chan struct{})}
	b.relays[group] = relay
	go b.forward(group, relay)
	return nil
}

// Unsubscribe removes sub locally and closes the group's Redis subscription
// once no local members remain. A handle that never joined leaves both the
// membership and the relay untouched.
func (b *RedisBroadcaster) Unsubscribe(_ context.Context, group string, sub Subscriber) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed, empty := b.local.leave(group, sub)
	if !removed || !empty {
		return nil
	}
	relay := b.relays[group]
	if relay == nil {
		return nil
	}
	delete(b.relays, group)
	_ = relay.pubsub.Close()
	<-relay.done
	return nil
}

// Publish sends payload through Redis; every node holding a subscription for
// the group, this one included, delivers it to its local members.
func (b *RedisBroadcaster) Publish(ctx context.Context, group string, payload []byte) error {
	if err := b.client.Publish(ctx, channelName(group), payload).Err(); err != nil {
		return fmt.Errorf("redis broadcast: publish %s: %w", group, err)
	}
	return nil
}

func (b *RedisBroadcaster) forward(group string, relay *groupRelay) {
	defer close(relay.done)
	for msg := range relay.pubsub.Channel() {
		if err := b.local.Publish(context.Background(), group, []byte(msg.Payload)); err != nil {
			b.logger.Error("group fan-out failed", slog.String("group", group), slog.Any("error", err))
		}
	}
}

func channelName(group string) string {
	return groupChannelPrefix + group
}
